// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/clipstream/internal/platform/apperr"
	"github.com/taibuivan/clipstream/internal/platform/constants"
	"github.com/taibuivan/clipstream/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/clipstream/internal/platform/request"
	"github.com/taibuivan/clipstream/internal/platform/respond"
	"github.com/taibuivan/clipstream/internal/platform/sec"
)

// IdentityResolver turns an access token into the account it belongs to.
// It is implemented by the auth service.
type IdentityResolver interface {
	Authenticate(ctx context.Context, accessToken string) (*sec.Identity, error)
}

// Authenticate rejects every request that does not carry a valid access token.
//
// # Flow
//  1. Read the token from the access cookie, else from 'Authorization: Bearer'.
//  2. If absent, abort with HTTP 401.
//  3. Resolve it through [IdentityResolver]; any failure is rendered as returned.
//  4. Attach the [*sec.Identity] to a derived request context.
func Authenticate(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Token Extraction ───────────────────────────────────────────
			token := requestutil.Cookie(request, constants.AccessTokenCookieName)
			if token == "" {
				token = requestutil.BearerToken(request)
			}

			// ── 2. Missing Credentials ────────────────────────────────────────
			if token == "" {
				respond.Error(writer, request, apperr.Unauthorized("Unauthorized"))
				return
			}

			// ── 3. Identity Resolution ────────────────────────────────────────
			identity, err := resolver.Authenticate(request.Context(), token)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithIdentity(request.Context(), identity)
			ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.String("account_id", identity.ID)))

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}
