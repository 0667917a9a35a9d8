package handler

import (
	"errors"

	"github.com/admitra/admission-engine/internal/apperror"
	"github.com/admitra/admission-engine/internal/util"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// respondError maps the engine error taxonomy onto the response envelope.
// DataQuality failures always carry the structured report; they are an
// expected, recoverable condition rather than a server fault.
func respondError(c *fiber.Ctx, fallbackMessage string, err error) error {
	var (
		validation   *apperror.ValidationError
		dataQuality  *apperror.DataQualityError
		insufficient *apperror.InsufficientDataError
		consistency  *apperror.RegistryConsistencyError
	)

	switch {
	case errors.As(err, &validation):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: validation.Msg,
		}, err)
	case errors.As(err, &dataQuality):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusUnprocessableEntity,
			Message: "training blocked by data quality gate",
			Details: dataQuality.Report,
		}, err)
	case errors.As(err, &insufficient):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusUnprocessableEntity,
			Message: insufficient.Error(),
		}, err)
	case errors.As(err, &consistency):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusInternalServerError,
			Message: consistency.Error(),
		}, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "not found",
		}, err)
	default:
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusInternalServerError,
			Message: fallbackMessage,
		}, err)
	}
}
