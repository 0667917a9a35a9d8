package handler

import (
	"github.com/admitra/admission-engine/internal/dto"
	"github.com/admitra/admission-engine/internal/response"
	"github.com/admitra/admission-engine/internal/usecase"
	"github.com/admitra/admission-engine/internal/util"
	"github.com/gofiber/fiber/v2"
)

type RegistryHandler struct {
	uc *usecase.RegistryUsecase
}

func NewRegistryHandler(uc *usecase.RegistryUsecase) *RegistryHandler {
	return &RegistryHandler{uc: uc}
}

func (h *RegistryHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/v1/models", h.List)
	app.Get("/v1/models/:id", h.Get)
	app.Post("/v1/models/:id/activate", h.Activate)
	app.Post("/v1/models/compare", h.Compare)
}

func (h *RegistryHandler) List(c *fiber.Ctx) error {
	activeOnly := c.QueryBool("active")
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)

	versions, total, err := h.uc.List(activeOnly, page, pageSize)
	if err != nil {
		return respondError(c, "failed to list model versions", err)
	}

	summaries := make([]dto.ModelVersionSummary, 0, len(versions))
	for _, v := range versions {
		summaries = append(summaries, dto.NewModelVersionSummary(v))
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success list model versions",
		Data:       summaries,
		Pagination: response.NewPagination(page, pageSize, total, len(summaries)),
	})
}

func (h *RegistryHandler) Get(c *fiber.Ctx) error {
	version, err := h.uc.Get(c.Params("id"))
	if err != nil {
		return respondError(c, "failed to get model version", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get model version",
		Data:    version,
	})
}

// Activate returns the resulting registry snapshot: exactly one active
// entry.
func (h *RegistryHandler) Activate(c *fiber.Ctx) error {
	active, err := h.uc.Activate(c.Params("id"))
	if err != nil {
		return respondError(c, "failed to activate model version", err)
	}

	summaries := make([]dto.ModelVersionSummary, 0, len(active))
	for _, v := range active {
		summaries = append(summaries, dto.NewModelVersionSummary(v))
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success activate model version",
		Data:    fiber.Map{"active": summaries},
	})
}

func (h *RegistryHandler) Compare(c *fiber.Ctx) error {
	var req dto.CompareRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	cmp, err := h.uc.Compare(req.ModelIDs, req.Metrics, req.PrimaryMetric)
	if err != nil {
		return respondError(c, "failed to compare model versions", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success compare model versions",
		Data:    cmp,
	})
}
