package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bloomgram/auth-backend/internal/transport/http/middleware"
)

// ErrorCase binds a sentinel error to the status and message it maps to on
// the wire.
type ErrorCase struct {
	Err     error
	Status  int
	Message string
}

// RespondWithMappedError walks the cases in order and writes the first match.
// Unmatched errors are logged and reported as a generic 500.
func RespondWithMappedError(c *gin.Context, log *zap.Logger, err error, cases []ErrorCase) {
	requestID := middleware.GetRequestID(c)

	for _, mapped := range cases {
		if errors.Is(err, mapped.Err) {
			c.JSON(mapped.Status, ErrorResponse{Error: mapped.Message, RequestID: requestID})
			return
		}
	}

	log.Error("unhandled error",
		zap.String("path", c.FullPath()),
		zap.String("request_id", requestID),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", RequestID: requestID})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:     message,
		RequestID: middleware.GetRequestID(c),
	})
}
