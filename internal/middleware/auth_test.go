package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "secreto-de-prueba"

func firmarToken(t *testing.T, rol string, expira time.Duration, secret string) string {
	t.Helper()
	claims := JWTClaims{
		UserID:   "8b72ee1c-7a86-4a5f-9f45-1f1dbb7f12aa",
		Username: "cajero1",
		Rol:      rol,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expira)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func routerProtegido(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	grupo := r.Group("/", JWTAuth(testSecret))
	if len(roles) > 0 {
		grupo.Use(RequireRole(roles...))
	}
	grupo.GET("/recurso", func(c *gin.Context) {
		claims := GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"username": claims.Username})
	})
	return r
}

func solicitar(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/recurso", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthSinToken(t *testing.T) {
	w := solicitar(routerProtegido(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthTokenValido(t *testing.T) {
	token := firmarToken(t, "cajero", time.Hour, testSecret)
	w := solicitar(routerProtegido(), token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cajero1")
}

func TestJWTAuthTokenExpirado(t *testing.T) {
	token := firmarToken(t, "cajero", -time.Minute, testSecret)
	w := solicitar(routerProtegido(), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthFirmaIncorrecta(t *testing.T) {
	token := firmarToken(t, "cajero", time.Hour, "otro-secreto")
	w := solicitar(routerProtegido(), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRolePermitido(t *testing.T) {
	token := firmarToken(t, "supervisor", time.Hour, testSecret)
	w := solicitar(routerProtegido("supervisor", "administrador"), token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleInsuficiente(t *testing.T) {
	token := firmarToken(t, "cajero", time.Hour, testSecret)
	w := solicitar(routerProtegido("administrador"), token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
