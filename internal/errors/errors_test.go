package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/rentscope/internal/logger"
	"github.com/stwalsh4118/rentscope/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTestContext creates a test Gin context with logger and request ID in context.
func setupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	c.Set(middleware.LoggerKey, logger.New("test"))
	c.Set(middleware.RequestIDKey, "test-request-id")

	return c, w
}

func parseErrorResponse(t *testing.T, body *bytes.Buffer) ErrorResponse {
	var response ErrorResponse
	err := json.Unmarshal(body.Bytes(), &response)
	require.NoError(t, err, "Failed to parse error response JSON")
	return response
}

func TestNotFound(t *testing.T) {
	c, w := setupTestContext()

	NotFound(c, "Chart not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrNotFound, response.Error.Code)
	assert.Equal(t, "Chart not found", response.Error.Message)
	assert.Equal(t, "test-request-id", response.Error.RequestID)
	assert.Nil(t, response.Error.Details)
}

func TestBadRequest(t *testing.T) {
	t.Run("without details", func(t *testing.T) {
		c, w := setupTestContext()

		BadRequest(c, "Invalid input", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		response := parseErrorResponse(t, w.Body)
		assert.Equal(t, ErrBadRequest, response.Error.Code)
		assert.Nil(t, response.Error.Details)
	})

	t.Run("with details", func(t *testing.T) {
		c, w := setupTestContext()

		BadRequest(c, "Invalid input", map[string]interface{}{"field": "rent_min"})

		response := parseErrorResponse(t, w.Body)
		assert.Equal(t, "rent_min", response.Error.Details["field"])
	})
}

func TestInternalServerError(t *testing.T) {
	c, w := setupTestContext()

	InternalServerError(c, "An unexpected error occurred", errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrInternalServer, response.Error.Code)
	assert.Equal(t, "An unexpected error occurred", response.Error.Message)
	assert.NotContains(t, w.Body.String(), "boom", "internal error text must not leak")
}

func TestMissingColumn(t *testing.T) {
	c, w := setupTestContext()

	MissingColumn(c, "bairro", "A coluna 'bairro' não existe no DataFrame.")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrMissingColumn, response.Error.Code)
	assert.Equal(t, "A coluna 'bairro' não existe no DataFrame.", response.Error.Message)
	assert.Equal(t, "bairro", response.Error.Details["column"])
	assert.Equal(t, "test-request-id", response.Error.RequestID)
}

func TestDataUnavailable(t *testing.T) {
	c, w := setupTestContext()

	DataUnavailable(c, "Dataset is not available", errors.New("open data_mapa.csv: no such file"))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrDataUnavailable, response.Error.Code)
	assert.NotContains(t, w.Body.String(), "no such file")
}

func TestValidationError(t *testing.T) {
	c, w := setupTestContext()

	type query struct {
		RentMin float64 `validate:"gte=0"`
		Name    string  `validate:"required"`
	}

	err := validator.New().Struct(query{RentMin: -1})
	require.Error(t, err)
	var validationErrors validator.ValidationErrors
	require.True(t, errors.As(err, &validationErrors))

	ValidationError(c, validationErrors)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrValidation, response.Error.Code)
	assert.Equal(t, "Validation failed for one or more fields", response.Error.Message)
	assert.Equal(t, "Must be greater than or equal to 0", response.Error.Details["RentMin"])
	assert.Equal(t, "This field is required", response.Error.Details["Name"])
}

func TestFormatValidationError(t *testing.T) {
	type sample struct {
		Required string  `validate:"required"`
		Min      string  `validate:"min=5"`
		Max      string  `validate:"max=2"`
		Len      string  `validate:"len=3"`
		Gt       float64 `validate:"gt=0"`
		Lt       float64 `validate:"lt=1"`
		Lte      float64 `validate:"lte=1"`
		OneOf    string  `validate:"oneof=histogram boxplot"`
		Numeric  string  `validate:"numeric"`
	}

	err := validator.New().Struct(sample{
		Min: "ab", Max: "abc", Len: "ab", Gt: 0, Lt: 2, Lte: 2, OneOf: "pie", Numeric: "x",
	})
	var validationErrors validator.ValidationErrors
	require.True(t, errors.As(err, &validationErrors))

	got := make(map[string]string)
	for _, fe := range validationErrors {
		got[fe.Field()] = formatValidationError(fe)
	}

	assert.Equal(t, "This field is required", got["Required"])
	assert.Equal(t, "Value is too short or small (minimum: 5)", got["Min"])
	assert.Equal(t, "Value is too long or large (maximum: 2)", got["Max"])
	assert.Equal(t, "Must have length of 3", got["Len"])
	assert.Equal(t, "Must be greater than 0", got["Gt"])
	assert.Equal(t, "Must be less than 1", got["Lt"])
	assert.Equal(t, "Must be less than or equal to 1", got["Lte"])
	assert.Equal(t, "Must be one of: histogram boxplot", got["OneOf"])
	assert.Equal(t, "Must be a number", got["Numeric"])
}

func TestFormatValidationError_Fallbacks(t *testing.T) {
	tests := []struct {
		tag      string
		param    string
		expected string
	}{
		{tag: "number", expected: "Must be a number"},
		{tag: "gte", param: "0", expected: "Must be greater than or equal to 0"},
		{tag: "email", expected: "Validation failed for tag: email"},
		{tag: "unknown_tag", expected: "Validation failed for tag: unknown_tag"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatValidationError(&mockFieldError{tag: tt.tag, param: tt.param}))
		})
	}
}

func TestErrorResponseWithoutContext(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	NotFound(c, "Resource not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrNotFound, response.Error.Code)
	assert.Empty(t, response.Error.RequestID)
}

func TestErrorConstants(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", ErrNotFound)
	assert.Equal(t, "BAD_REQUEST", ErrBadRequest)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", ErrInternalServer)
	assert.Equal(t, "VALIDATION_ERROR", ErrValidation)
	assert.Equal(t, "MISSING_COLUMN", ErrMissingColumn)
	assert.Equal(t, "DATA_UNAVAILABLE", ErrDataUnavailable)
}

// mockFieldError is a minimal validator.FieldError.
type mockFieldError struct {
	tag   string
	param string
}

func (m *mockFieldError) Tag() string                    { return m.tag }
func (m *mockFieldError) ActualTag() string              { return m.tag }
func (m *mockFieldError) Namespace() string              { return "" }
func (m *mockFieldError) StructNamespace() string        { return "" }
func (m *mockFieldError) Field() string                  { return "RentMin" }
func (m *mockFieldError) StructField() string            { return "RentMin" }
func (m *mockFieldError) Value() interface{}             { return nil }
func (m *mockFieldError) Param() string                  { return m.param }
func (m *mockFieldError) Kind() reflect.Kind             { return reflect.Float64 }
func (m *mockFieldError) Type() reflect.Type             { return nil }
func (m *mockFieldError) Translate(ut.Translator) string { return "" }
func (m *mockFieldError) Error() string                  { return "" }
