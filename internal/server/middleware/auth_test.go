package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTokenValidator is a test implementation of TokenValidator for unit tests.
type testTokenValidator struct {
	validTokens map[string]uuid.UUID
}

func newTestTokenValidator() *testTokenValidator {
	return &testTokenValidator{
		validTokens: make(map[string]uuid.UUID),
	}
}

func (v *testTokenValidator) addValidToken(token string, userID uuid.UUID) {
	v.validTokens[token] = userID
}

func (v *testTokenValidator) ValidateToken(tokenString string) (UserIDGetter, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token string is empty")
	}
	userID, ok := v.validTokens[tokenString]
	if !ok {
		return nil, fmt.Errorf("invalid token")
	}
	return &testClaims{userID: userID}, nil
}

type testClaims struct {
	userID uuid.UUID
}

func (c *testClaims) GetUserID() uuid.UUID {
	return c.userID
}

// recordingHandler captures what the middleware placed in the context
type recordingHandler struct {
	called bool
	userID uuid.UUID
	token  string
}

func (h *recordingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.userID, _ = GetUserID(r)
	h.token = GetToken(r)
	w.WriteHeader(http.StatusOK)
}

func serve(t *testing.T, mw func(http.Handler) http.Handler, authHeader string) (*recordingHandler, *httptest.ResponseRecorder) {
	t.Helper()
	h := &recordingHandler{}
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	mw(h).ServeHTTP(w, req)
	return h, w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	validator := newTestTokenValidator()
	userID := uuid.New()
	validator.addValidToken("valid-test-token-123", userID)

	for _, header := range []string{"Bearer valid-test-token-123", "bearer valid-test-token-123", "BeArEr  valid-test-token-123"} {
		t.Run(header, func(t *testing.T) {
			h, w := serve(t, AuthMiddleware(validator), header)

			assert.True(t, h.called, "handler should be called")
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, userID, h.userID)
			assert.Equal(t, "valid-test-token-123", h.token)
		})
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	validator := newTestTokenValidator()
	validator.addValidToken("good", uuid.New())

	tests := []struct {
		name       string
		authHeader string
	}{
		{"missing header", ""},
		{"missing Bearer prefix", "good"},
		{"only Bearer", "Bearer"},
		{"wrong scheme", "Basic good"},
		{"extra fields", "Bearer good extra"},
		{"unknown token", "Bearer eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJ1c2VyX2lkIjoiMTIzIn0.invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, w := serve(t, AuthMiddleware(validator), tt.authHeader)

			assert.False(t, h.called, "handler should not be called")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "Unauthorized")
		})
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	validator := newTestTokenValidator()
	userID := uuid.New()
	validator.addValidToken("good", userID)

	t.Run("anonymous passes through", func(t *testing.T) {
		h, w := serve(t, OptionalAuthMiddleware(validator), "")

		require.True(t, h.called)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uuid.Nil, h.userID)
		assert.Empty(t, h.token)
	})

	t.Run("valid token authenticates", func(t *testing.T) {
		h, _ := serve(t, OptionalAuthMiddleware(validator), "Bearer good")

		require.True(t, h.called)
		assert.Equal(t, userID, h.userID)
		assert.Equal(t, "good", h.token)
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		h, w := serve(t, OptionalAuthMiddleware(validator), "Bearer bad")

		assert.False(t, h.called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestGetUserID(t *testing.T) {
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(context.WithValue(req.Context(), UserIDKey(), userID))
	extracted, err := GetUserID(req)
	require.NoError(t, err)
	assert.Equal(t, userID, extracted)

	missing, err := GetUserID(httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Error(t, err)
	assert.Equal(t, uuid.Nil, missing)
	assert.Contains(t, err.Error(), "user ID not found")

	req = httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(context.WithValue(req.Context(), userIDKey, "not-a-uuid"))
	wrongType, err := GetUserID(req)
	assert.Error(t, err)
	assert.Equal(t, uuid.Nil, wrongType)
}
