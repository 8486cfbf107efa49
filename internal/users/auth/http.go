// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/clipstream/internal/platform/constants"
	"github.com/taibuivan/clipstream/internal/platform/middleware"
	requestutil "github.com/taibuivan/clipstream/internal/platform/request"
	"github.com/taibuivan/clipstream/internal/platform/respond"
	"github.com/taibuivan/clipstream/internal/platform/sec"
	"github.com/taibuivan/clipstream/internal/platform/validate"
)

// # Definitions & Constructors

// CookieConfig controls the attributes of the token cookies.
type CookieConfig struct {
	Secure bool
	Domain string
}

// Handler implements the account and session HTTP endpoints.
//
// # Token Delivery
//
// Login and refresh return both tokens in the body and also set them as
// HttpOnly, SameSite=Strict cookies. Browsers use the cookies; other clients
// send the access token as 'Authorization: Bearer'.
type Handler struct {
	authService *Service
	cookies     CookieConfig
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, cookies CookieConfig) *Handler {
	return &Handler{authService: service, cookies: cookies}
}

// Routes returns a [chi.Router] configured with the account routes.
//
// # Endpoints
//   - POST /register     : Creates a new account.
//   - POST /login        : Authenticates and issues a token pair.
//   - POST /refresh      : Rotates the refresh token.
//   - POST /logout       : Clears the refresh token (protected).
//   - GET  /current-user : Returns the authenticated account (protected).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(handler.authService))
		r.Post("/logout", handler.logout)
		r.Get("/current-user", handler.currentUser)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	FullName      string `json:"full_name"`
	Password      string `json:"password"`
	AvatarURL     string `json:"avatar_url"`
	CoverImageURL string `json:"cover_image_url"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// # Response Payloads

type sessionResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type"`
	ExpiresIn    int64         `json:"expires_in"`
	User         *sec.Identity `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

/*
Register handles the creation of a new account.

POST /api/v1/users/register

Request:
  - Body: registerRequest (Username, Email, FullName, Password, AvatarURL, CoverImageURL)

Response:
  - 201: Identity: Created account
  - 400: VALIDATION_ERROR: Bad input
  - 409: CONFLICT: Username or email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	identity, err := handler.authService.Register(request.Context(), RegisterInput{
		Username:      input.Username,
		Email:         input.Email,
		FullName:      input.FullName,
		Password:      input.Password,
		AvatarURL:     input.AvatarURL,
		CoverImageURL: input.CoverImageURL,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, identity)
}

/*
Login authenticates an account and establishes a session.

POST /api/v1/users/login

Request:
  - Body: loginRequest (Login or Username or Email, Password)

Response:
  - 200: sessionResponse + token cookies
  - 400: VALIDATION_ERROR: Missing identifier or password
  - 401: UNAUTHORIZED: Wrong password
  - 404: NOT_FOUND: No such account
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	login := input.Login
	if login == "" {
		login = input.Username
	}
	if login == "" {
		login = input.Email
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Login:    login,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.writeSession(writer, session)
}

/*
Refresh exchanges a refresh token for a new pair.

POST /api/v1/users/refresh

Description: The token is read from the refresh cookie, else from the
'refresh_token' body field.

Response:
  - 200: sessionResponse + token cookies
  - 401: UNAUTHORIZED: Missing, invalid or superseded refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	token := requestutil.Cookie(request, constants.RefreshTokenCookieName)

	if token == "" {
		var input refreshRequest
		if err := requestutil.DecodeOptionalJSON(request, &input); err != nil {
			respond.Error(writer, request, validate.ErrInvalidJSON)
			return
		}
		token = input.RefreshToken
	}

	session, err := handler.authService.RefreshSession(request.Context(), token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.writeSession(writer, session)
}

/*
Logout terminates the session of the authenticated account.

POST /api/v1/users/logout

Response:
  - 200: Both token cookies expired
  - 401: UNAUTHORIZED: Not authenticated
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), identity.ID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.clearCookie(writer, constants.AccessTokenCookieName)
	handler.clearCookie(writer, constants.RefreshTokenCookieName)

	respond.OK(writer, messageResponse{Message: "Logged out"})
}

/*
CurrentUser returns the authenticated account.

GET /api/v1/users/current-user

Response:
  - 200: Identity
  - 401: UNAUTHORIZED: Not authenticated
*/
func (handler *Handler) currentUser(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, identity)
}

// # Cookie Helpers

// writeSession sets both token cookies and writes the session body.
func (handler *Handler) writeSession(writer http.ResponseWriter, session *LoginSession) {
	handler.setCookie(writer, constants.AccessTokenCookieName, session.AccessToken, session.AccessTokenExpiresAt)
	handler.setCookie(writer, constants.RefreshTokenCookieName, session.RefreshToken, session.RefreshTokenExpiresAt)

	respond.OK(writer, sessionResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		TokenType:    constants.BearerScheme,
		ExpiresIn:    int64(session.AccessTokenTTL / time.Second),
		User:         session.User,
	})
}

func (handler *Handler) setCookie(writer http.ResponseWriter, name, value string, expires time.Time) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     constants.AuthCookiePath,
		Domain:   handler.cookies.Domain,
		Expires:  expires,
		Secure:   handler.cookies.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (handler *Handler) clearCookie(writer http.ResponseWriter, name string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     constants.AuthCookiePath,
		Domain:   handler.cookies.Domain,
		MaxAge:   -1,
		Secure:   handler.cookies.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
