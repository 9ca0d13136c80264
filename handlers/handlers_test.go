package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/shotlocker/app"
	"github.com/upb/shotlocker/config"
	"github.com/upb/shotlocker/identity"
	"go.uber.org/zap"
)

func serverDeps(cognito config.CognitoConfig) *app.ServerDependencies {
	return &app.ServerDependencies{
		Config:     &config.Config{Cognito: cognito},
		Logger:     zap.NewNop(),
		Descriptor: app.DescriptorFromConfig(cognito),
	}
}

func TestAuthConfigHandler(t *testing.T) {
	tests := []struct {
		name      string
		cognito   config.CognitoConfig
		wantOAuth bool
	}{
		{
			name: "user pool only",
			cognito: config.CognitoConfig{
				Region:     "us-east-1",
				UserPoolID: "us-east-1_pool",
				ClientID:   "client",
			},
		},
		{
			name: "hosted ui",
			cognito: config.CognitoConfig{
				Region:       "us-east-1",
				UserPoolID:   "us-east-1_pool",
				ClientID:     "client",
				Domain:       "shotlocker.auth.us-east-1.amazoncognito.com",
				CDNDomainURL: "https://d111.cloudfront.net",
			},
			wantOAuth: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth", nil)
			w := httptest.NewRecorder()

			AuthConfigHandler(serverDeps(tt.cognito))(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var resp identity.ConfigResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			require.NotNil(t, resp.Auth)
			assert.Equal(t, "us-east-1_pool", resp.Auth.UserPoolID)
			assert.Equal(t, "client", resp.Auth.UserPoolWebClientID)
			assert.NoError(t, resp.Auth.Validate())

			if !tt.wantOAuth {
				assert.Nil(t, resp.Auth.OAuth)
				return
			}
			require.NotNil(t, resp.Auth.OAuth)
			assert.Equal(t, "https://d111.cloudfront.net", resp.Auth.OAuth.RedirectSignIn)
			assert.Equal(t, "https://d111.cloudfront.net", resp.Auth.OAuth.RedirectSignOut)
			assert.Equal(t, "code", resp.Auth.OAuth.ResponseType)
			assert.Equal(t, app.HostedUIScopes, resp.Auth.OAuth.Scope)
		})
	}
}

func TestAuthConfigHandler_OmitsEmptyOAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/auth", nil)
	w := httptest.NewRecorder()

	AuthConfigHandler(serverDeps(config.CognitoConfig{Region: "r", UserPoolID: "p", ClientID: "c"}))(w, req)

	var raw map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	_, ok := raw["auth"]["oauth"]
	assert.False(t, ok)
}

func TestHealthCheck(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	HealthCheck(serverDeps(config.CognitoConfig{}))(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestReadinessCheck(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		w := httptest.NewRecorder()

		ReadinessCheck(serverDeps(config.CognitoConfig{Region: "r", UserPoolID: "p", ClientID: "c"}))(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp HealthResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "ready", resp.Status)
		assert.Equal(t, "disabled", resp.Checks["oauth"])
	})

	t.Run("unusable descriptor", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		w := httptest.NewRecorder()

		ReadinessCheck(serverDeps(config.CognitoConfig{Region: "r"}))(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
