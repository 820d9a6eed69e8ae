package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"expensetracker/internal/models"
	"expensetracker/internal/service"
)

type fakeUserRepo struct {
	users map[string]*models.User
}

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	r.users[strings.ToLower(user.Email)] = user
	return nil
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	user, ok := r.users[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	return user, nil
}

func newAuthFixture(t *testing.T) (*gin.Engine, *service.TokenService, *fakeUserRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := service.NewTokenService("middleware-test-secret", time.Hour)
	repo := &fakeUserRepo{users: map[string]*models.User{
		"alice@example.com": {ID: 1, Email: "alice@example.com"},
	}}

	router := gin.New()
	router.GET("/protected", Auth(tokens, repo, zap.NewNop()), func(c *gin.Context) {
		principal := Principal(c)
		require.NotNil(t, principal)
		c.JSON(http.StatusOK, gin.H{"email": principal.Email})
	})

	return router, tokens, repo
}

func doRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMissingHeader(t *testing.T) {
	router, _, _ := newAuthFixture(t)

	w := doRequest(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authorization header required")
}

func TestAuthMalformedHeader(t *testing.T) {
	router, tokens, _ := newAuthFixture(t)

	token, _, err := tokens.Issue("alice@example.com")
	require.NoError(t, err)

	for _, header := range []string{"Bearer", "Bearer ", "Token " + token, token} {
		w := doRequest(router, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuthInvalidToken(t *testing.T) {
	router, _, _ := newAuthFixture(t)

	w := doRequest(router, "Bearer not-a-real-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")
}

func TestAuthExpiredToken(t *testing.T) {
	router, _, _ := newAuthFixture(t)

	// Issued by a service whose clock is far in the past.
	stale := service.NewTokenService("middleware-test-secret", time.Nanosecond)
	token, _, err := stale.Issue("alice@example.com")
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	w := doRequest(router, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	// Expired and invalid tokens are indistinguishable to the caller.
	assert.Contains(t, w.Body.String(), "Invalid or expired token")
}

func TestAuthUnknownSubject(t *testing.T) {
	router, tokens, _ := newAuthFixture(t)

	// Valid signature, but the referenced user no longer exists.
	token, _, err := tokens.Issue("ghost@example.com")
	require.NoError(t, err)

	w := doRequest(router, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")
}

func TestAuthBindsPrincipal(t *testing.T) {
	router, tokens, _ := newAuthFixture(t)

	token, _, err := tokens.Issue("alice@example.com")
	require.NoError(t, err)

	w := doRequest(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice@example.com")
}
