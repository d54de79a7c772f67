package httpt

import (
	"context"
	"errors"
	"net/http"

	"github.com/Sn1ff3hr/chabella/internal/entity"
	"github.com/Sn1ff3hr/chabella/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	_msgMalformedBody = "Request body must be valid JSON."
	_msgInvalidData   = "Request data is invalid."
	_msgNotFound      = "Not found."
	_msgConflict      = "Data conflicts with an existing record."
	_msgTimeout       = "Request timed out."
	_msgInternal      = "Internal server error."
)

func (h *OwnerHandler) handleServiceError(c *gin.Context, err error, op string) {
	ctx := c.Request.Context()
	log := h.log.Ctx(ctx)

	var validationErr *entity.ValidationError

	switch {
	case errors.As(err, &validationErr):
		log.LogAttrs(ctx, logger.WarnLevel, op+" rejected input",
			logger.Any("fields", validationErr.Fields),
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: validationErr.Error()})
	case errors.Is(err, entity.ErrInvalidData):
		log.LogAttrs(ctx, logger.WarnLevel, op+" invalid data", logger.Err(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: _msgInvalidData})
	case errors.Is(err, entity.ErrMalformedBody):
		log.LogAttrs(ctx, logger.WarnLevel, op+" malformed body",
			logger.Err(err),
			logger.String("client_ip", c.ClientIP()),
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: _msgMalformedBody})
	case errors.Is(err, entity.ErrDataNotFound):
		log.LogAttrs(ctx, logger.WarnLevel, op+" not found",
			logger.String("path", c.Request.URL.Path),
		)
		c.JSON(http.StatusNotFound, ErrorResponse{Message: _msgNotFound})
	case errors.Is(err, entity.ErrConflictingData):
		log.LogAttrs(ctx, logger.WarnLevel, op+" conflict", logger.Err(err))
		c.JSON(http.StatusConflict, ErrorResponse{Message: _msgConflict})
	case errors.Is(err, context.DeadlineExceeded):
		log.LogAttrs(ctx, logger.WarnLevel, "request timeout",
			logger.String("op", op),
			logger.String("path", c.Request.URL.Path),
			logger.String("client_ip", c.ClientIP()),
		)
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{Message: _msgTimeout})
	default:
		log.LogAttrs(ctx, logger.ErrorLevel, "internal server error",
			logger.String("op", op),
			logger.Err(err),
			logger.String("path", c.Request.URL.Path),
			logger.String("user_agent", c.Request.UserAgent()),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: _msgInternal})
	}
}
