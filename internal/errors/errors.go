package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stwalsh4118/rentscope/internal/middleware"
)

// Error code constants for standardized error responses
const (
	ErrNotFound        = "NOT_FOUND"
	ErrBadRequest      = "BAD_REQUEST"
	ErrInternalServer  = "INTERNAL_SERVER_ERROR"
	ErrValidation      = "VALIDATION_ERROR"
	ErrMissingColumn   = "MISSING_COLUMN"
	ErrDataUnavailable = "DATA_UNAVAILABLE"
)

// ErrorResponse is the top-level error response structure.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// NotFound returns a 404 Not Found error response.
func NotFound(c *gin.Context, message string) {
	if log := middleware.GetLogger(c); log != nil {
		log.Warn("Resource not found", requestFields(c, map[string]interface{}{
			"message": message,
		}))
	}
	respond(c, http.StatusNotFound, ErrNotFound, message, nil)
}

// BadRequest returns a 400 Bad Request error response with optional details.
func BadRequest(c *gin.Context, message string, details map[string]interface{}) {
	if log := middleware.GetLogger(c); log != nil {
		fields := requestFields(c, map[string]interface{}{"message": message})
		if details != nil {
			fields["details"] = details
		}
		log.Warn("Bad request", fields)
	}
	respond(c, http.StatusBadRequest, ErrBadRequest, message, details)
}

// InternalServerError returns a 500 response. err is logged, never sent.
func InternalServerError(c *gin.Context, message string, err error) {
	if log := middleware.GetLogger(c); log != nil {
		log.Error("Internal server error", err, requestFields(c, map[string]interface{}{
			"message": message,
			"method":  c.Request.Method,
		}))
	}
	respond(c, http.StatusInternalServerError, ErrInternalServer, message, nil)
}

// MissingColumn returns a 422 Unprocessable Entity response for a dataset that
// lacks a column required to render the remaining sections. message is shown
// to the user as is.
func MissingColumn(c *gin.Context, column, message string) {
	if log := middleware.GetLogger(c); log != nil {
		log.Warn("Required column missing", requestFields(c, map[string]interface{}{
			"column": column,
		}))
	}
	respond(c, http.StatusUnprocessableEntity, ErrMissingColumn, message,
		map[string]interface{}{"column": column})
}

// DataUnavailable returns a 503 Service Unavailable response when the dataset
// cannot be read.
func DataUnavailable(c *gin.Context, message string, err error) {
	if log := middleware.GetLogger(c); log != nil {
		log.Error("Dataset unavailable", err, requestFields(c, nil))
	}
	respond(c, http.StatusServiceUnavailable, ErrDataUnavailable, message, nil)
}

// ValidationError returns a 400 response with one message per invalid field.
func ValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	details := make(map[string]interface{}, len(validationErrors))
	for _, fe := range validationErrors {
		details[fe.Field()] = formatValidationError(fe)
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Warn("Validation error", requestFields(c, map[string]interface{}{
			"fields": details,
		}))
	}
	respond(c, http.StatusBadRequest, ErrValidation, "Validation failed for one or more fields", details)
}

func respond(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.JSON(status, ErrorResponse{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: middleware.GetRequestID(c),
		},
	})
}

// requestFields adds the request ID and path to extra.
func requestFields(c *gin.Context, extra map[string]interface{}) map[string]interface{} {
	fields := map[string]interface{}{
		"request_id": middleware.GetRequestID(c),
		"path":       c.Request.URL.Path,
	}
	for k, v := range extra {
		fields[k] = v
	}
	return fields
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Value is too short or small (minimum: " + err.Param() + ")"
	case "max":
		return "Value is too long or large (maximum: " + err.Param() + ")"
	case "len":
		return "Must have length of " + err.Param()
	case "gt":
		return "Must be greater than " + err.Param()
	case "gte":
		return "Must be greater than or equal to " + err.Param()
	case "lt":
		return "Must be less than " + err.Param()
	case "lte":
		return "Must be less than or equal to " + err.Param()
	case "oneof":
		return "Must be one of: " + err.Param()
	case "numeric", "number":
		return "Must be a number"
	default:
		return "Validation failed for tag: " + err.Tag()
	}
}
