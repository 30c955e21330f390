package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/testimonial-server/internal/config"
)

var testSecret = []byte("test-secret")

func hmacValidator(cfg *config.Config) *Validator {
	return &Validator{
		cfg: cfg,
		log: zerolog.Nop(),
		keyFunc: func(*jwt.Token) (any, error) {
			return testSecret, nil
		},
		methods: []string{"HS256"},
	}
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func serve(v *Validator, header string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(v.Middleware())
	router.POST("/v1/testimonials", func(c *gin.Context) {
		_, ok := c.Get(ContextKeyToken)
		c.JSON(http.StatusOK, gin.H{"token": ok})
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/testimonials", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "", bearerToken(""))
	assert.Equal(t, "", bearerToken("Basic abc"))
	assert.Equal(t, "", bearerToken("Bearer"))
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer   abc "))
}

func TestMiddlewareDisabledPassesThrough(t *testing.T) {
	v, err := NewValidator(context.Background(), &config.Config{}, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, v.Ready())

	w := serve(v, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMiddlewareRejectsMissingAndInvalidTokens(t *testing.T) {
	v := hmacValidator(&config.Config{AuthEnabled: true, AuthIssuer: "https://issuer.test"})

	w := serve(v, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing bearer token")
	assert.Contains(t, w.Body.String(), `"status_code":401`)
	assert.Contains(t, w.Body.String(), `"success":false`)
	assert.Contains(t, w.Body.String(), `"code":"0a7d3c9e-1b5f-4e2a-8c6d-9f1e3b5a7c20"`)

	w = serve(v, "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token")

	wrongIssuer := signedToken(t, jwt.MapClaims{"iss": "https://elsewhere.test", "exp": time.Now().Add(time.Hour).Unix()})
	w = serve(v, "Bearer "+wrongIssuer)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	expired := signedToken(t, jwt.MapClaims{"iss": "https://issuer.test", "exp": time.Now().Add(-time.Hour).Unix()})
	w = serve(v, "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddlewareAcceptsValidToken(t *testing.T) {
	v := hmacValidator(&config.Config{AuthEnabled: true, AuthIssuer: "https://issuer.test", AuthAudience: "testimonial-api"})
	token := signedToken(t, jwt.MapClaims{
		"iss": "https://issuer.test",
		"aud": "testimonial-api",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	w := serve(v, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"token":true}`, w.Body.String())
}
