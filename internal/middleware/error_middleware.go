package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/unidwh/internal/app/models/dto"
	"github.com/yigit/unidwh/internal/pkg/apperrors"
)

// HandleAPIError maps an error onto the API error response. Database detail is not
// exposed to clients.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidIdentifier):
		c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidColumn, err.Error())))
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeTimeout, "Report query timed out")))
	case errors.Is(err, apperrors.ErrConnectivity):
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnavailable, "Warehouse unavailable")))
	case errors.Is(err, apperrors.ErrReportQuery):
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Report query failed")))
	default:
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	}
}
