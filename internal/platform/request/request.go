// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away body decoding, cookie and header lookups, and identity
retrieval, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/taibuivan/clipstream/internal/platform/apperr"
	"github.com/taibuivan/clipstream/internal/platform/constants"
	"github.com/taibuivan/clipstream/internal/platform/ctxutil"
	"github.com/taibuivan/clipstream/internal/platform/sec"
	"github.com/taibuivan/clipstream/internal/platform/validate"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(io.LimitReader(request.Body, maxBodyBytes)).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
DecodeOptionalJSON behaves like DecodeJSON but accepts an empty body.
*/
func DecodeOptionalJSON(request *http.Request, target interface{}) error {
	if request.Body == nil || request.Body == http.NoBody {
		return nil
	}

	err := json.NewDecoder(io.LimitReader(request.Body, maxBodyBytes)).Decode(target)
	if err != nil && !errors.Is(err, io.EOF) {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Cookie returns the value of the named cookie, or an empty string.
*/
func Cookie(request *http.Request, name string) string {
	cookie, err := request.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

/*
BearerToken extracts the credential of an 'Authorization: Bearer <token>' header.

The scheme is matched case-insensitively. Any other shape yields an empty string.
*/
func BearerToken(request *http.Request) string {
	header := strings.TrimSpace(request.Header.Get(constants.HeaderAuthorization))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, constants.BearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}

/*
RequiredIdentity ensures the request is authenticated and returns the account.

Returns:
  - *sec.Identity: The authenticated account
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredIdentity(request *http.Request) (*sec.Identity, error) {
	identity := ctxutil.GetIdentity(request.Context())
	if identity == nil {
		return nil, apperr.Unauthorized("Unauthorized")
	}
	return identity, nil
}
