package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-desk/frontdesk/internal/auth"
	"github.com/folio-desk/frontdesk/internal/authguard"
	"github.com/folio-desk/frontdesk/internal/credential"
	"github.com/folio-desk/frontdesk/internal/platform/httpx"
	_ "github.com/folio-desk/frontdesk/testing"
)

type stubAuthenticator struct {
	password string
	err      error
}

func (s stubAuthenticator) Authenticate(ctx context.Context, email, password string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if password != s.password {
		return "", httpx.ErrUnauthorized
	}
	return "42", nil
}

func newAuthRouter(t *testing.T, authn auth.Authenticator) (http.Handler, *credential.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	tokens := credential.NewStore(client, "fd_token", "secret", time.Hour)
	guard := authguard.Guard{Store: tokens, Routes: authguard.DefaultRoutes()}
	handler := auth.NewHandler(nil, auth.NewService(authn, tokens), tokens, guard)

	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r, tokens
}

func postLogin(router http.Handler, email, password string) *httptest.ResponseRecorder {
	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestLoginPage(t *testing.T) {
	router, _ := newAuthRouter(t, stubAuthenticator{password: "correct horse"})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/login", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"fields":["email","password"]`)
}

func TestLoginIssuesTokenAndRedirects(t *testing.T) {
	router, tokens := newAuthRouter(t, stubAuthenticator{password: "correct horse"})

	rr := postLogin(router, "ana@example.mx", "correct horse")

	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.False(t, tokens.IsExpired(context.Background(), cookies[0].Value))
}

func TestLoginJSONClientReceivesToken(t *testing.T) {
	router, tokens := newAuthRouter(t, stubAuthenticator{password: "correct horse"})
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"ana@example.mx","password":"correct horse"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var body struct {
		Token    string `json:"token"`
		Redirect string `json:"redirectTo"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "/", body.Redirect)
	assert.False(t, tokens.IsExpired(context.Background(), body.Token))
}

func TestLoginInvalidCredentials(t *testing.T) {
	router, _ := newAuthRouter(t, stubAuthenticator{password: "correct horse"})

	rr := postLogin(router, "ana@example.mx", "wrong password")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid email or password")
	assert.Empty(t, rr.Result().Cookies())
}

func TestLoginValidationErrors(t *testing.T) {
	router, _ := newAuthRouter(t, stubAuthenticator{password: "correct horse"})

	rr := postLogin(router, "not-an-email", "short")

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var body struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "email", body.Errors["Email"])
	assert.Equal(t, "min", body.Errors["Password"])
}

func TestLoginBackendFailure(t *testing.T) {
	router, _ := newAuthRouter(t, stubAuthenticator{err: errors.Join(errors.New("dial tcp"), httpx.ErrUpstream)})

	rr := postLogin(router, "ana@example.mx", "correct horse")

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestLoginScreenForbiddenWhileCredentialed(t *testing.T) {
	router, tokens := newAuthRouter(t, stubAuthenticator{password: "correct horse"})
	tok, err := tokens.Issue(context.Background(), "42")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: tokens.CookieName(), Value: tok.Raw})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
}

func TestLogoutRevokesToken(t *testing.T) {
	router, tokens := newAuthRouter(t, stubAuthenticator{password: "correct horse"})
	tok, err := tokens.Issue(context.Background(), "42")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Raw)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
	assert.True(t, tokens.IsExpired(context.Background(), tok.Raw))
}

func TestLogoutWithoutCredentialRedirectsToLogin(t *testing.T) {
	router, _ := newAuthRouter(t, stubAuthenticator{password: "correct horse"})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/logout", nil))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
}
