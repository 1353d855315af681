package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketsync/ticketsync/internal/shared/errors"
)

type sampleRequest struct {
	Title    string `json:"title" validate:"required,max=10"`
	Priority string `json:"priority" validate:"oneof=low medium high"`
	Count    int    `json:"count" validate:"gt=0"`
}

func TestValidateStruct(t *testing.T) {
	require.NoError(t, ValidateStruct(sampleRequest{Title: "ok", Priority: "low", Count: 1}))

	err := ValidateStruct(sampleRequest{Priority: "urgent"})
	require.Error(t, err)

	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
	assert.Contains(t, appErr.Details, "title is required")
	assert.Contains(t, appErr.Details, "priority must be one of [low medium high]")
	assert.Contains(t, appErr.Details, "count must be greater than 0")
}

func TestBindJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid", body: `{"title":"ok","priority":"high","count":2}`},
		{name: "malformed", body: `{"title":`, wantErr: "invalid request body"},
		{name: "fails validation", body: `{"priority":"high","count":2}`, wantErr: "Validation failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var req sampleRequest
			err := BindJSON(c, &req)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "ok", req.Title)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
			assert.Equal(t, tt.wantErr, errors.GetAppError(err).Message)
		})
	}
}
