package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefeatures/internal/shared/testutil"
)

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantCode   string
	}{
		{
			name:       "missing column",
			err:        fmt.Errorf("load: %w", NewInputSchemaError("observations", "sales")),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeInputSchema,
			wantCode:   CodeInputSchema,
		},
		{
			name:       "bad date",
			err:        &DateParseError{Table: "observations", Line: 2, Value: "x", Layout: "2006-01-02"},
			wantStatus: http.StatusBadRequest,
			wantType:   TypeDateParse,
			wantCode:   CodeDateParse,
		},
		{
			name:       "missing upload",
			err:        MissingUploadError("stores"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantCode:   CodeMissingUpload,
		},
		{
			name:       "body too large",
			err:        fmt.Errorf("parse form: %w", &http.MaxBytesError{Limit: 1024}),
			wantStatus: http.StatusRequestEntityTooLarge,
			wantType:   TypePayloadTooLarge,
			wantCode:   CodePayloadTooLarge,
		},
		{
			name:       "cancelled",
			err:        context.Canceled,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "unknown failure",
			err:        errors.New("disk full"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			h := NewErrorHandler(logger, false)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/features", nil)
			rec := httptest.NewRecorder()
			h.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, "/api/v1/features", body["instance"])
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["error_code"])
			}
			assert.True(t, logs.ContainsMessage("request failed"))
		})
	}
}

func TestErrorHandler_HandleError_Nil(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	rec := httptest.NewRecorder()
	h.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, 0, rec.Body.Len())
	assert.Equal(t, 0, logs.Count())
}

func TestErrorHandler_HandlePanic(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, true)

	rec := httptest.NewRecorder()
	h.HandlePanic(rec, httptest.NewRequest(http.MethodGet, "/boom", nil), "boom")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "boom", body["panic"])
	assert.NotEmpty(t, body["stack"])
	assert.True(t, logs.ContainsMessage("panic recovered"))
}

func TestErrorHandler_NotFoundAndMethod(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), "DELETE")
}

func TestFromInputError(t *testing.T) {
	assert.Nil(t, FromInputError(errors.New("other")))

	apiErr := FromInputError(NewInputSchemaError("stores", "promo2"))
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, CodeInputSchema, apiErr.ErrorCode)
}
