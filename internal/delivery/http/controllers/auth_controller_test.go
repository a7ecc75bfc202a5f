package controllers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inviteticketing/internal/domain"
)

func TestAuthController_Login(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		fake       *fakeAuthService
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "success",
			body:       `{"email":"door@example.com","password":"secret123"}`,
			fake:       &fakeAuthService{token: "jwt", staff: &domain.Staff{ID: "staff-1", Email: "door@example.com"}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing password",
			body:       `{"email":"door@example.com"}`,
			fake:       &fakeAuthService{},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "password is required",
		},
		{
			name:       "invalid credentials",
			body:       `{"email":"door@example.com","password":"nope"}`,
			fake:       &fakeAuthService{err: domain.ErrUnauthorized},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "invalid credentials",
		},
		{
			name:       "storage error is not leaked",
			body:       `{"email":"door@example.com","password":"secret123"}`,
			fake:       &fakeAuthService{err: errDB},
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "internal server error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewAuthController(testLogger, tt.fake)
			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			ctrl.Login(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			env := decode(t, rr)
			if tt.wantMsg != "" {
				require.NotNil(t, env.Error)
				assert.Contains(t, env.Error.Message, tt.wantMsg)
				return
			}
			resp := decodeData[LoginResponse](t, env)
			assert.Equal(t, "jwt", resp.Token)
			assert.Equal(t, "Bearer", resp.TokenType)
			assert.Equal(t, "staff-1", resp.Staff.ID)
		})
	}
}
