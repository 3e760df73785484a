package secure

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

var testAllowed = []string{"http://localhost:3000", "https://shop.example.com"}

func runOrigin(t *testing.T, method string, hdr map[string]string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/api/products", nil)
	req.Host = "api.example.com"
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := Origin(testAllowed)(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	return rec, h(c)
}

func TestOriginAllowedIsEchoedBack(t *testing.T) {
	rec, err := runOrigin(t, http.MethodGet, map[string]string{"Origin": "https://shop.example.com"})
	require.NoError(t, err)
	require.Equal(t, "https://shop.example.com", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	require.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
}

func TestOriginUnknownIsRejected(t *testing.T) {
	_, err := runOrigin(t, http.MethodGet, map[string]string{"Origin": "https://evil.example.com"})
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusForbidden, he.Code)
}

func TestNoOriginSameHostRefererAllowed(t *testing.T) {
	rec, err := runOrigin(t, http.MethodGet, map[string]string{"Referer": "https://api.example.com/products"})
	require.NoError(t, err)
	require.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	require.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowCredentials),
		"wildcard origin must not carry credentials")
}

func TestNoOriginForeignRefererRejected(t *testing.T) {
	_, err := runOrigin(t, http.MethodGet, map[string]string{"Referer": "https://elsewhere.example.net/page"})
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusForbidden, he.Code)
}

func TestNoOriginNoRefererAllowed(t *testing.T) {
	// Direct navigation carries neither header.
	_, err := runOrigin(t, http.MethodGet, nil)
	require.NoError(t, err)
}

func TestPreflightShortCircuits(t *testing.T) {
	rec, err := runOrigin(t, http.MethodOptions, map[string]string{"Origin": "https://evil.example.com"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get(echo.HeaderAccessControlAllowMethods))
}

func TestFrontendTokenStableWithinBucket(t *testing.T) {
	secret := []byte("test-secret")
	at := time.Unix(1_700_000_100, 0)

	tok := FrontendToken(secret, at)
	require.Len(t, tok, tokenLen)
	require.Equal(t, tok, FrontendToken(secret, at.Add(10*time.Second)))
}

func TestFrontendTokenRotatesAcrossBuckets(t *testing.T) {
	secret := []byte("test-secret")
	at := time.Unix(1_700_000_100, 0)

	require.NotEqual(t, FrontendToken(secret, at), FrontendToken(secret, at.Add(tokenBucket)))
	require.NotEqual(t, FrontendToken(secret, at), FrontendToken([]byte("other-secret"), at))
}

func TestTokenTTL(t *testing.T) {
	step := int64(tokenBucket.Seconds())
	at := time.Unix(step*10, 0)
	require.Equal(t, tokenBucket, TokenTTL(at))
	require.Equal(t, time.Duration(step-1)*time.Second, TokenTTL(at.Add(time.Second)))
}
