package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	return r
}

func doGet(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthOpenWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	r := newAuthRouter()

	assert.Equal(t, http.StatusOK, doGet(r, "").Code)
}

func TestAuthRequiresToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := newAuthRouter()

	assert.Equal(t, http.StatusUnauthorized, doGet(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "garbage").Code)
}

func TestAuthAcceptsValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := newAuthRouter()

	token := jwt.New(jwt.SigningMethodHS256)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doGet(r, signed).Code)
}

func TestAuthRejectsWrongKey(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := newAuthRouter()

	token := jwt.New(jwt.SigningMethodHS256)
	signed, err := token.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, doGet(r, signed).Code)
}
