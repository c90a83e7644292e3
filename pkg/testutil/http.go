package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dossier/pkg/platform/jsonx"
)

// Envelope renders a command envelope around raw JSON params.
func Envelope(id, action, params string) string {
	return fmt.Sprintf(`{"id":%q,"version":"1.0.0","action":%q,"params":%s}`, id, action, params)
}

// NewCommandRequest builds a POST /command request carrying the envelope.
func NewCommandRequest(t *testing.T, action, params string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/command", strings.NewReader(Envelope("cmd-1", action, params)))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// DoRequest executes a request against a handler and returns the recorder.
func DoRequest(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// DecodeJSON unmarshals the recorded body into T.
func DecodeJSON[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, jsonx.Unmarshal(rr.Body.Bytes(), &out), "body: %s", rr.Body.String())
	return out
}

// AssertStatus asserts the response status code matches expected.
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	assert.Equal(t, expected, rr.Code, "unexpected status code, body: %s", rr.Body.String())
}
