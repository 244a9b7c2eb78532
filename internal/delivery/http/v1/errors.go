package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/avdmitry-dev/go-task-api/internal/services"
)

var errInvalidRequestBody = errors.New("invalid request body")

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

func newConflictError(message string) apiError {
	return newAPIError(http.StatusConflict, message)
}

func newUnprocessableEntityError(message string) apiError {
	return newAPIError(http.StatusUnprocessableEntity, message)
}

func newInternalServerError(message string) apiError {
	return newAPIError(http.StatusInternalServerError, message)
}

// abortWithFault maps a service fault to its transport status. Anything
// that is not a tagged fault collapses to a plain 500.
func abortWithFault(c *gin.Context, err error) {
	var fault *services.Fault
	if !errors.As(err, &fault) {
		abort(c, newInternalServerError(http.StatusText(http.StatusInternalServerError)))
		return
	}

	switch fault.Kind {
	case services.FaultNotFound:
		abort(c, newNotFoundError(fault.Message))
	case services.FaultConflict:
		abort(c, newConflictError(fault.Message))
	case services.FaultUnprocessable:
		abort(c, newUnprocessableEntityError(fault.Message))
	default:
		abort(c, newInternalServerError(fault.Message))
	}
}

// abortWithBindingError rejects a malformed body, attaching per-field
// messages when the failure came from field validation.
func abortWithBindingError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]string, len(validationErrs))
		for i, fieldErr := range validationErrs {
			details[i] = fmt.Sprintf("%s - failed on the '%s' rule",
				strings.ToLower(fieldErr.Field()), fieldErr.Tag())
		}

		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   errInvalidRequestBody.Error(),
			"details": details,
		})
		return
	}

	abort(c, newBadRequestError(errInvalidRequestBody.Error()))
}
