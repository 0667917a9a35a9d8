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

type TrainingHandler struct {
	training *usecase.TrainingUsecase
	registry *usecase.RegistryUsecase
}

func NewTrainingHandler(training *usecase.TrainingUsecase, registry *usecase.RegistryUsecase) *TrainingHandler {
	return &TrainingHandler{training: training, registry: registry}
}

func (h *TrainingHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/v1/train", middleware.RateLimiter(2, 1*time.Minute), h.Train)
	app.Get("/v1/train/runs/:id", h.GetRun)
	app.Post("/v1/train/runs/:id/cancel", h.CancelRun)
}

// Train validates the config and runs the data-quality gate synchronously;
// a passing run continues on a background goroutine and is tracked by its
// run id.
func (h *TrainingHandler) Train(c *fiber.Ctx) error {
	var cfg model.TrainingConfig
	if err := c.BodyParser(&cfg); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	run, err := h.training.Start(cfg)
	if err != nil {
		return respondError(c, "failed to start training run", err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusAccepted,
		Message: "Training run started",
		Data:    h.runDTO(run),
	})
}

func (h *TrainingHandler) GetRun(c *fiber.Ctx) error {
	run, err := h.training.Get(c.Params("id"))
	if err != nil {
		return respondError(c, "failed to get training run", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get training run",
		Data:    h.runDTO(run),
	})
}

func (h *TrainingHandler) CancelRun(c *fiber.Ctx) error {
	if err := h.training.Cancel(c.Params("id")); err != nil {
		return respondError(c, "failed to cancel training run", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Training run cancellation requested",
	})
}

func (h *TrainingHandler) runDTO(run *model.TrainingRun) dto.TrainingRunDTO {
	out := dto.TrainingRunDTO{
		ID:            run.ID.String(),
		Status:        run.Status,
		Stage:         run.Stage,
		QualityReport: run.QualityReport,
		Models:        []dto.ModelVersionSummary{},
		Error:         run.Error,
		StartedAt:     run.StartedAt,
		FinishedAt:    run.FinishedAt,
		CreatedAt:     run.CreatedAt,
	}
	for _, id := range run.ModelIDs {
		version, err := h.registry.Get(id)
		if err != nil {
			continue
		}
		out.Models = append(out.Models, dto.NewModelVersionSummary(*version))
	}
	return out
}
