package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestCSRFTokenRoundTrip(t *testing.T) {
	tokens := NewCSRFTokens("secret")

	token, err := tokens.Issue()
	require.NoError(t, err)
	require.True(t, tokens.Verify(token))

	// tampered nonce, wrong secret, junk
	require.False(t, tokens.Verify("deadbeef."+strings.SplitN(token, ".", 2)[1]))
	require.False(t, NewCSRFTokens("other").Verify(token))
	require.False(t, tokens.Verify("no-dot"))
	require.False(t, tokens.Verify(""))
}

func csrfRouter(tokens *CSRFTokens) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CSRF(tokens))
	r.POST("/update", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/read", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestCSRFMiddleware(t *testing.T) {
	tokens := NewCSRFTokens("secret")
	r := csrfRouter(tokens)

	do := func(method, path string, cookie, bearer, csrf string) int {
		req := httptest.NewRequest(method, path, nil)
		if cookie != "" {
			req.AddCookie(&http.Cookie{Name: "session", Value: cookie})
		}
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		if csrf != "" {
			req.Header.Set("X-CSRF-Token", csrf)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	// safe methods always pass
	require.Equal(t, http.StatusOK, do(http.MethodGet, "/read", "abc", "", ""))

	// cookie-carrying POST without a token is refused
	require.Equal(t, http.StatusForbidden, do(http.MethodPost, "/update", "abc", "", ""))
	require.Equal(t, http.StatusForbidden, do(http.MethodPost, "/update", "abc", "", "bogus"))

	// with a valid token it passes
	token, err := tokens.Issue()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, do(http.MethodPost, "/update", "abc", "", token))

	// bearer requests and cookie-less requests are exempt
	require.Equal(t, http.StatusOK, do(http.MethodPost, "/update", "abc", "jwt", ""))
	require.Equal(t, http.StatusOK, do(http.MethodPost, "/update", "", "", ""))
}
