package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/internal/application"
	"github.com/oksasatya/storefront-api/pkg/response"
	"github.com/oksasatya/storefront-api/pkg/validation"
)

// statusFor maps application errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, application.ErrInvalidArgument),
		errors.Is(err, application.ErrConflict),
		errors.Is(err, application.ErrInvalidCredentials):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, application.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError sends err in the response envelope. Validation details go under
// error; unexpected errors are logged and their message echoed.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	status := statusFor(err)
	var details any
	var verr *application.ValidationError
	if errors.As(err, &verr) {
		details = verr.Details
	}
	msg := publicMessage(err)
	if verr != nil {
		msg = verr.Msg
	}
	if status == http.StatusInternalServerError && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("request failed")
	}
	response.Send(c, response.Error[any](c, status, msg, details))
}

var sentinels = []error{
	application.ErrInvalidArgument,
	application.ErrNotFound,
	application.ErrInvalidCredentials,
	application.ErrConflict,
	application.ErrUnavailable,
}

// publicMessage drops the trailing category from wrapped application errors,
// so "user not found: not found" is reported as "user not found".
func publicMessage(err error) string {
	msg := err.Error()
	for _, s := range sentinels {
		if msg == s.Error() {
			return msg
		}
		if trimmed, ok := strings.CutSuffix(msg, ": "+s.Error()); ok && errors.Is(err, s) {
			return trimmed
		}
	}
	return msg
}

func writeBindError(c *gin.Context, err error) {
	response.Send(c, response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err)))
}
