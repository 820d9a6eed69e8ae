package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ErrorResponse is the stable external error shape. Internal error text
// never appears here for unclassified failures.
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

// Respond translates err into an HTTP response and aborts the request.
//
// Classified failures (see errors.go) map to their status and message.
// Binding failures carrying validator field errors become a 400 with a
// field-to-message object. Anything else is logged and surfaced as a
// generic 500.
func Respond(c *gin.Context, logger *zap.Logger, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.AbortWithStatusJSON(http.StatusBadRequest, fieldMessages(verrs))
		return
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		write(c, appErr.Status, appErr.Message)
		return
	}

	logger.Error("Unclassified error", zap.String("path", c.Request.URL.Path), zap.Error(err))
	write(c, http.StatusInternalServerError, "Something went wrong")
}

// RespondBindError handles errors returned by gin's ShouldBindJSON, which
// are either validator field errors or malformed-body errors. Both map to
// a 400; only validator errors get the field map shape.
func RespondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.AbortWithStatusJSON(http.StatusBadRequest, fieldMessages(verrs))
		return
	}
	write(c, http.StatusBadRequest, "Invalid request body")
}

func write(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      c.Request.URL.Path,
	})
}

func fieldMessages(verrs validator.ValidationErrors) map[string]string {
	msgs := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		msgs[fe.Field()] = fieldMessage(fe)
	}
	return msgs
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	default:
		return fmt.Sprintf("Failed validation on '%s'", fe.Tag())
	}
}
