// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/clipstream/internal/platform/apperr"
	"github.com/taibuivan/clipstream/internal/platform/respond"
)

/*
TestError_AppError renders the client-safe message and status.
*/
func TestError_AppError(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	respond.Error(recorder, request, apperr.Unauthorized("Unauthorized"))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	var envelope respond.ErrorEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, "UNAUTHORIZED", envelope.Code)
	assert.Equal(t, "Unauthorized", envelope.Error)
}

/*
TestError_PlainError hides unexpected errors behind a generic 500.
*/
func TestError_PlainError(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	respond.Error(recorder, request, errors.New("dial tcp 10.0.0.3:5432: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "10.0.0.3")
	assert.Contains(t, recorder.Body.String(), "INTERNAL_ERROR")
}

/*
TestOK_Envelope wraps payloads in the data envelope.
*/
func TestOK_Envelope(t *testing.T) {
	recorder := httptest.NewRecorder()

	respond.OK(recorder, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":{"status":"ok"}}`, recorder.Body.String())
}
