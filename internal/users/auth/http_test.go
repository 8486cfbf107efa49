// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/clipstream/internal/platform/constants"
	"github.com/taibuivan/clipstream/internal/platform/sec"
	"github.com/taibuivan/clipstream/internal/users/auth"
)

type sessionBody struct {
	Data struct {
		AccessToken  string        `json:"access_token"`
		RefreshToken string        `json:"refresh_token"`
		TokenType    string        `json:"token_type"`
		ExpiresIn    int64         `json:"expires_in"`
		User         *sec.Identity `json:"user"`
	} `json:"data"`
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func newRouter(f *fixture) http.Handler {
	return auth.NewHandler(f.service, auth.CookieConfig{Secure: true}).Routes()
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string, prepare func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		request.Header.Set("Content-Type", "application/json")
	}
	if prepare != nil {
		prepare(request)
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func findCookie(recorder *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) errorBody {
	t.Helper()

	var body errorBody
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	return body
}

// # Login

/*
TestHandler_Login delivers tokens in the body and as secure cookies.
*/
func TestHandler_Login(t *testing.T) {
	f := newFixture(t)
	router := newRouter(f)

	recorder := doRequest(t, router, http.MethodPost, "/login", `{"login":"ada","password":"`+fixturePassword+`"}`, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var body sessionBody
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.NotEmpty(t, body.Data.AccessToken)
	assert.NotEmpty(t, body.Data.RefreshToken)
	assert.Equal(t, "Bearer", body.Data.TokenType)
	assert.Equal(t, int64(accessTTL.Seconds()), body.Data.ExpiresIn)
	assert.Equal(t, f.user.ID, body.Data.User.ID)
	assert.NotContains(t, recorder.Body.String(), "password")

	for name, value := range map[string]string{
		constants.AccessTokenCookieName:  body.Data.AccessToken,
		constants.RefreshTokenCookieName: body.Data.RefreshToken,
	} {
		cookie := findCookie(recorder, name)
		require.NotNil(t, cookie, name)
		assert.Equal(t, value, cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.True(t, cookie.Secure)
		assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
		assert.Equal(t, "/", cookie.Path)
	}

	digest, _ := f.store.digest(f.user.ID)
	assert.Equal(t, sec.HashToken(body.Data.RefreshToken), digest)
}

/*
TestHandler_LoginFailures maps service failures to their status codes.
*/
func TestHandler_LoginFailures(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"invalid_json", `{"login":`, http.StatusBadRequest, "BAD_REQUEST"},
		{"missing_password", `{"login":"ada"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown_account", `{"login":"grace","password":"whatever1"}`, http.StatusNotFound, "NOT_FOUND"},
		{"wrong_password", `{"email":"ada@example.com","password":"whatever1"}`, http.StatusUnauthorized, "UNAUTHORIZED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			recorder := doRequest(t, newRouter(f), http.MethodPost, "/login", tt.body, nil)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, recorder).Code)
			assert.Nil(t, findCookie(recorder, constants.RefreshTokenCookieName))

			_, stored := f.store.digest(f.user.ID)
			assert.False(t, stored)
		})
	}
}

// # Refresh

/*
TestHandler_Refresh reads the token from the cookie first, then the body.
*/
func TestHandler_Refresh(t *testing.T) {
	t.Run("cookie", func(t *testing.T) {
		f := newFixture(t)
		session := f.login(t)

		recorder := doRequest(t, newRouter(f), http.MethodPost, "/refresh", `{"refresh_token":"garbage"}`, func(request *http.Request) {
			request.AddCookie(&http.Cookie{Name: constants.RefreshTokenCookieName, Value: session.RefreshToken})
		})

		require.Equal(t, http.StatusOK, recorder.Code)
		cookie := findCookie(recorder, constants.RefreshTokenCookieName)
		require.NotNil(t, cookie)
		assert.NotEqual(t, session.RefreshToken, cookie.Value)

		digest, _ := f.store.digest(f.user.ID)
		assert.Equal(t, sec.HashToken(cookie.Value), digest)
	})

	t.Run("body", func(t *testing.T) {
		f := newFixture(t)
		session := f.login(t)

		recorder := doRequest(t, newRouter(f), http.MethodPost, "/refresh", `{"refresh_token":"`+session.RefreshToken+`"}`, nil)

		require.Equal(t, http.StatusOK, recorder.Code)
		var body sessionBody
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
		assert.NotEqual(t, session.RefreshToken, body.Data.RefreshToken)
	})

	t.Run("missing", func(t *testing.T) {
		f := newFixture(t)

		recorder := doRequest(t, newRouter(f), http.MethodPost, "/refresh", "", nil)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, "Unauthorized", decodeError(t, recorder).Error)
	})
}

/*
TestHandler_RefreshSuperseded rejects a refresh token replaced by a later
login and keeps the newer token stored.
*/
func TestHandler_RefreshSuperseded(t *testing.T) {
	f := newFixture(t)
	stale := f.login(t)
	current := f.login(t)

	recorder := doRequest(t, newRouter(f), http.MethodPost, "/refresh", `{"refresh_token":"`+stale.RefreshToken+`"}`, nil)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	digest, _ := f.store.digest(f.user.ID)
	assert.Equal(t, sec.HashToken(current.RefreshToken), digest)
}

// # Protected Routes

/*
TestHandler_CurrentUser accepts the bearer header and rejects expired tokens.
*/
func TestHandler_CurrentUser(t *testing.T) {
	f := newFixture(t)
	session := f.login(t)
	router := newRouter(f)
	bearer := func(request *http.Request) {
		request.Header.Set(constants.HeaderAuthorization, "Bearer "+session.AccessToken)
	}

	recorder := doRequest(t, router, http.MethodGet, "/current-user", "", bearer)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"username":"ada"`)

	before, _ := f.store.digest(f.user.ID)
	f.clock.Advance(accessTTL)

	recorder = doRequest(t, router, http.MethodGet, "/current-user", "", bearer)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "Unauthorized", decodeError(t, recorder).Error)

	after, _ := f.store.digest(f.user.ID)
	assert.Equal(t, before, after)
}

/*
TestHandler_Logout clears the session and both cookies.
*/
func TestHandler_Logout(t *testing.T) {
	f := newFixture(t)
	session := f.login(t)
	router := newRouter(f)
	withCookie := func(request *http.Request) {
		request.AddCookie(&http.Cookie{Name: constants.AccessTokenCookieName, Value: session.AccessToken})
	}

	recorder := doRequest(t, router, http.MethodPost, "/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	for i := 0; i < 2; i++ {
		recorder = doRequest(t, router, http.MethodPost, "/logout", "", withCookie)
		require.Equal(t, http.StatusOK, recorder.Code)

		for _, name := range []string{constants.AccessTokenCookieName, constants.RefreshTokenCookieName} {
			cookie := findCookie(recorder, name)
			require.NotNil(t, cookie, name)
			assert.Empty(t, cookie.Value)
			assert.Less(t, cookie.MaxAge, 0)
		}
	}

	_, stored := f.store.digest(f.user.ID)
	assert.False(t, stored)

	recorder = doRequest(t, router, http.MethodPost, "/refresh", `{"refresh_token":"`+session.RefreshToken+`"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

// # Register

/*
TestHandler_Register creates an account and rejects a duplicate.
*/
func TestHandler_Register(t *testing.T) {
	f := newFixture(t)
	router := newRouter(f)
	payload := `{"username":"grace","email":"grace@example.com","full_name":"Grace Hopper","password":"cobol-forever"}`

	recorder := doRequest(t, router, http.MethodPost, "/register", payload, nil)
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"username":"grace"`)
	assert.NotContains(t, recorder.Body.String(), "cobol-forever")

	recorder = doRequest(t, router, http.MethodPost, "/register", payload, nil)
	assert.Equal(t, http.StatusConflict, recorder.Code)
	assert.Equal(t, "CONFLICT", decodeError(t, recorder).Code)
}
