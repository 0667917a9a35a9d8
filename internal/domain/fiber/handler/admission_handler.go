package handler

import (
	"time"

	"github.com/admitra/admission-engine/internal/dto"
	"github.com/admitra/admission-engine/internal/middleware"
	"github.com/admitra/admission-engine/internal/model"
	"github.com/admitra/admission-engine/internal/usecase"
	"github.com/admitra/admission-engine/internal/util"
	"github.com/gofiber/fiber/v2"
)

type AdmissionHandler struct {
	uc *usecase.PredictionUsecase
}

func NewAdmissionHandler(uc *usecase.PredictionUsecase) *AdmissionHandler {
	return &AdmissionHandler{uc: uc}
}

func (h *AdmissionHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/v1/predict", middleware.RateLimiter(20, 1*time.Second), h.Predict)
	app.Post("/v1/evaluate", middleware.RateLimiter(10, 1*time.Second), h.Evaluate)
	app.Get("/v1/evaluations/:id", h.GetEvaluation)
	app.Post("/v1/outcomes", h.RecordOutcome)
}

func (h *AdmissionHandler) Predict(c *fiber.Ctx) error {
	var req dto.PredictRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	prediction, gap, err := h.uc.Predict(req.Profile, req.Program, req.IncludeGap)
	if err != nil {
		return respondError(c, "failed to predict", err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success predict admission",
		Data:    dto.PredictResponse{Prediction: *prediction, GapAnalysis: gap},
	})
}

func (h *AdmissionHandler) Evaluate(c *fiber.Ctx) error {
	var req dto.EvaluateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	eval, err := h.uc.Evaluate(req.UserRef, req.Profile, req.Program, req.IncludeGap, req.IncludeSimilar, req.SimilarLimit)
	if err != nil {
		return respondError(c, "failed to evaluate profile", err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success evaluate profile",
		Data:    eval,
	})
}

func (h *AdmissionHandler) GetEvaluation(c *fiber.Ctx) error {
	eval, err := h.uc.GetEvaluation(c.Params("id"))
	if err != nil {
		return respondError(c, "failed to get evaluation", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get evaluation",
		Data:    eval,
	})
}

func (h *AdmissionHandler) RecordOutcome(c *fiber.Ctx) error {
	var req dto.OutcomeRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	outcome := &model.HistoricalOutcome{
		Profile:     req.Profile,
		Program:     req.Program,
		ProgramName: req.ProgramName,
		Accepted:    req.Accepted,
		Verified:    req.Verified,
		AppliedAt:   req.AppliedAt,
	}
	if outcome.AppliedAt.IsZero() {
		outcome.AppliedAt = time.Now()
	}

	if err := h.uc.RecordOutcome(outcome); err != nil {
		return respondError(c, "failed to record outcome", err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Success record outcome",
		Data:    fiber.Map{"id": outcome.ID.String()},
	})
}
