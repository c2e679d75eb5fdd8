package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/abdullharslan/ProductManager/domain"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Response status values and fixed messages
const (
	StatusValidationError = "ValidationError"
	StatusError           = "Error"

	MsgInternalError   = "An internal server error occurred."
	MsgUnauthenticated = "Invalid or missing access token."
	MsgForbidden       = "You do not have permission to perform this action."
	MsgNotFound        = "The requested resource was not found."
)

// ErrorResponse is the body written for every failed request
type ErrorResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// ErrorHandler turns the last error attached with c.Error into a response.
// Internal error details are only exposed outside production.
func ErrorHandler(isProduction bool, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, body := errorResponse(err, isProduction)

		entry := logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": status,
			"error":  err.Error(),
		})
		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("request failed")
		case status == http.StatusBadRequest:
			entry.Info("request rejected")
		default:
			entry.Warn("request rejected")
		}

		c.JSON(status, body)
	}
}

func errorResponse(err error, isProduction bool) (int, ErrorResponse) {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		var verr *domain.ValidationError
		errors.As(err, &verr)
		return http.StatusBadRequest, ErrorResponse{Status: StatusValidationError, Errors: verr.Errors}
	case domain.KindNotFound:
		msg := MsgNotFound
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			msg = nf.Message
		}
		return http.StatusNotFound, ErrorResponse{Status: StatusError, Message: msg}
	case domain.KindInvalidToken:
		return http.StatusUnauthorized, ErrorResponse{Status: StatusError, Message: MsgUnauthenticated}
	case domain.KindUnauthorized:
		return http.StatusForbidden, ErrorResponse{Status: StatusError, Message: MsgForbidden}
	default:
		return http.StatusInternalServerError, internalError(err.Error(), isProduction)
	}
}

func internalError(detail string, isProduction bool) ErrorResponse {
	if isProduction {
		return ErrorResponse{Status: StatusError, Message: MsgInternalError}
	}
	return ErrorResponse{Status: StatusError, Message: detail}
}

// Recovery reports panics with the same body as other internal errors
func Recovery(isProduction bool, logger *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"panic":  recovered,
		}).Error("panic recovered")

		c.AbortWithStatusJSON(http.StatusInternalServerError, internalError(fmt.Sprint(recovered), isProduction))
	})
}
