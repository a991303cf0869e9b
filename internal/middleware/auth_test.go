package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/fitnesstracker/internal/auth"
	"github.com/2beens/fitnesstracker/internal/docstore"
	"github.com/2beens/fitnesstracker/internal/middleware"
	"github.com/2beens/fitnesstracker/internal/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type userEchoHandler struct {
	called bool
	user   *users.User
}

func (h *userEchoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.user, _ = auth.UserFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

func TestAuthMiddlewareHandler_RequireActiveUser(t *testing.T) {
	alice := &users.User{ID: docstore.NewID(), Username: "alice"}

	testCases := []struct {
		name               string
		authHeader         string
		expectToken        string
		resolveUser        *users.User
		resolveErr         error
		expectedStatusCode int
		expectedDetail     string
	}{
		{
			name:               "MissingHeader",
			expectedStatusCode: http.StatusUnauthorized,
			expectedDetail:     "Not authenticated",
		},
		{
			name:               "WrongScheme",
			authHeader:         "Basic YWxpY2U6cHc=",
			expectedStatusCode: http.StatusUnauthorized,
			expectedDetail:     "Not authenticated",
		},
		{
			name:               "EmptyBearer",
			authHeader:         "Bearer   ",
			expectedStatusCode: http.StatusUnauthorized,
			expectedDetail:     "Not authenticated",
		},
		{
			name:               "ValidToken",
			authHeader:         "Bearer good-token",
			expectToken:        "good-token",
			resolveUser:        alice,
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "LowercaseScheme",
			authHeader:         "bearer good-token",
			expectToken:        "good-token",
			resolveUser:        alice,
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "InvalidToken",
			authHeader:         "Bearer bad-token",
			expectToken:        "bad-token",
			resolveErr:         auth.ErrInvalidCredentials,
			expectedStatusCode: http.StatusUnauthorized,
			expectedDetail:     "Invalid authentication credentials",
		},
		{
			name:               "UserGone",
			authHeader:         "Bearer ghost-token",
			expectToken:        "ghost-token",
			resolveErr:         auth.ErrUserNotFound,
			expectedStatusCode: http.StatusUnauthorized,
			expectedDetail:     "User not found",
		},
		{
			name:               "InactiveUser",
			authHeader:         "Bearer inactive-token",
			expectToken:        "inactive-token",
			resolveErr:         auth.ErrInactiveUser,
			expectedStatusCode: http.StatusUnauthorized,
			expectedDetail:     "Inactive user",
		},
		{
			name:               "StoreDown",
			authHeader:         "Bearer some-token",
			expectToken:        "some-token",
			resolveErr:         errors.New("store down"),
			expectedStatusCode: http.StatusInternalServerError,
			expectedDetail:     "internal server error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			resolver := NewMockidentityResolver(ctrl)
			if tc.expectToken != "" {
				resolver.EXPECT().
					ResolveActive(gomock.Any(), tc.expectToken).
					Return(tc.resolveUser, tc.resolveErr)
			}

			next := &userEchoHandler{}
			handler := middleware.NewAuthMiddlewareHandler(resolver).RequireActiveUser()(next)

			req := httptest.NewRequest(http.MethodGet, "/workouts/", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
			if tc.expectedStatusCode == http.StatusOK {
				require.True(t, next.called)
				assert.Same(t, tc.resolveUser, next.user)
				return
			}

			assert.False(t, next.called)
			assert.JSONEq(t, `{"detail": "`+tc.expectedDetail+`"}`, rr.Body.String())
			if tc.expectedStatusCode == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestAuthMiddlewareHandler_RequireUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := NewMockidentityResolver(ctrl)
	inactive := &users.User{ID: docstore.NewID(), Username: "bob", Active: new(bool)}
	resolver.EXPECT().Resolve(gomock.Any(), "bob-token").Return(inactive, nil)

	next := &userEchoHandler{}
	handler := middleware.NewAuthMiddlewareHandler(resolver).RequireUser()(next)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer bob-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Same(t, inactive, next.user)
}

func TestBearerToken(t *testing.T) {
	for header, want := range map[string]string{
		"Bearer abc":     "abc",
		"BEARER abc":     "abc",
		" Bearer  abc  ": "abc",
		"Bearer":         "",
		"Token abc":      "",
		"":               "",
		"Bearerabc":      "",
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		got, ok := middleware.BearerToken(req)
		assert.Equal(t, want, got, header)
		assert.Equal(t, want != "", ok, header)
	}
}
