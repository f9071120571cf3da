package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwak2837/shabangnet-sub001/internal/domain/shared"
	"github.com/gwak2837/shabangnet-sub001/internal/infrastructure/spreadsheet"
	"github.com/gwak2837/shabangnet-sub001/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/test", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandlerSuccess(t *testing.T) {
	h := &BaseHandler{}

	c, w := newTestContext(t)
	h.Success(c, gin.H{"value": 42})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestBaseHandlerError(t *testing.T) {
	h := &BaseHandler{}

	c, w := newTestContext(t)
	c.Set(RequestIDKey, "req-123")
	h.BadRequest(c, "invalid input")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestHandleError(t *testing.T) {
	h := &BaseHandler{}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "header mismatch",
			err:        &spreadsheet.HeaderMismatchError{MallName: "스마트몰", Missing: []string{"주문번호"}},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   dto.ErrCodeHeaderMismatch,
		},
		{
			name:       "unsupported file type",
			err:        spreadsheet.ErrUnsupportedFileType,
			wantStatus: http.StatusUnsupportedMediaType,
			wantCode:   dto.ErrCodeUnsupportedFile,
		},
		{
			name:       "file too large",
			err:        spreadsheet.ErrFileTooLarge,
			wantStatus: http.StatusRequestEntityTooLarge,
			wantCode:   dto.ErrCodeFileTooLarge,
		},
		{
			name:       "empty workbook",
			err:        spreadsheet.ErrEmptyFile,
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeInvalidInput,
		},
		{
			name:       "domain not found",
			err:        shared.NewDomainError("NOT_FOUND", "Upload not found"),
			wantStatus: http.StatusNotFound,
			wantCode:   dto.ErrCodeNotFound,
		},
		{
			name:       "domain duplicate",
			err:        shared.NewDomainError("TEMPLATE_EXISTS", "Template already exists"),
			wantStatus: http.StatusConflict,
			wantCode:   dto.ErrCodeAlreadyExists,
		},
		{
			name:       "domain validation",
			err:        shared.NewDomainError("INVALID_MALL_NAME", "Mall name is required"),
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeInvalidInput,
		},
		{
			name:       "unknown error",
			err:        errors.New("database exploded"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   dto.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(t)
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}

	t.Run("internal errors hide details", func(t *testing.T) {
		c, w := newTestContext(t)
		h.HandleError(c, errors.New("password=hunter2 leaked in dsn"))

		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.NotContains(t, resp.Error.Message, "hunter2")
	})
}
