package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/indredK/history-sub002/internal/fallback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetItems_Shapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"array", `{"success":true,"data":[{"id":"1"},{"id":"2"}]}`, []string{`{"id":"1"}`, `{"id":"2"}`}},
		{"paginated", `{"success":true,"data":{"data":[{"id":"3"}],"total":1,"page":1}}`, []string{`{"id":"3"}`}},
		{"single object", `{"success":true,"data":{"id":"4","name":"李白"}}`, []string{`{"id":"4","name":"李白"}`}},
		{"object with scalar data field", `{"success":true,"data":{"id":"5","data":"x"}}`, []string{`{"id":"5","data":"x"}`}},
		{"null", `{"success":true,"data":null}`, []string{}},
		{"missing", `{"success":true}`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, http.StatusOK, tt.body)
			c := New(srv.URL)

			items, err := c.GetItems(context.Background(), "/persons")
			require.NoError(t, err)
			got := make([]string, len(items))
			for i, it := range items {
				got[i] = string(it)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetItems_EnvelopeFailure(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"success":false,"message":"database unavailable"}`)
	c := New(srv.URL)

	_, err := c.GetItems(context.Background(), "persons")
	require.Error(t, err)

	var envErr *EnvelopeError
	require.ErrorAs(t, err, &envErr)
	assert.Equal(t, "database unavailable", envErr.Message)
	assert.Equal(t, fallback.KindServer, fallback.KindOf(err))
}

func TestGetItems_InvalidBody(t *testing.T) {
	srv := newServer(t, http.StatusOK, `<html>oops</html>`)
	_, err := New(srv.URL).GetItems(context.Background(), "persons")

	var envErr *EnvelopeError
	require.ErrorAs(t, err, &envErr)
	assert.Equal(t, fallback.KindServer, fallback.KindOf(err))
}

func TestGetItems_StatusErrors(t *testing.T) {
	tests := []struct {
		status  int
		body    string
		kind    fallback.ErrorKind
		message string
	}{
		{http.StatusInternalServerError, `{"success":false,"message":"boom"}`, fallback.KindServer, "boom"},
		{http.StatusServiceUnavailable, `not json`, fallback.KindServer, "Service Unavailable"},
		{http.StatusNotFound, `{"success":false,"message":"person not found"}`, fallback.KindClient, "person not found"},
		{http.StatusBadRequest, ``, fallback.KindClient, "Bad Request"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := newServer(t, tt.status, tt.body)
			_, err := New(srv.URL).GetItems(context.Background(), "persons/1")

			var se *StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.status, se.StatusCode())
			assert.Equal(t, tt.message, se.Message)
			assert.Equal(t, tt.kind, fallback.KindOf(err))
			assert.Equal(t, tt.status == http.StatusNotFound, IsNotFound(err))
		})
	}
}

func TestGetItems_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).GetItems(context.Background(), "persons")
	require.Error(t, err)
	assert.Equal(t, fallback.KindNetwork, fallback.KindOf(err))
}

func TestGetItems_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := New(srv.URL, WithTimeout(20*time.Millisecond)).GetItems(context.Background(), "persons")
	require.Error(t, err)
	assert.Equal(t, fallback.KindTimeout, fallback.KindOf(err))
}

func TestDo_SendsBodyAndToken(t *testing.T) {
	var gotAuth, gotMethod string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotMethod = r.Method
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"success":true,"data":{"fallbackThreshold":5}}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", WithBearerToken("secret"))
	var out struct {
		FallbackThreshold int `json:"fallbackThreshold"`
	}
	err := c.Do(context.Background(), http.MethodPatch, "/v1/fallback/config", map[string]int{"fallbackThreshold": 5}, &out)
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, float64(5), gotBody["fallbackThreshold"])
	assert.Equal(t, 5, out.FallbackThreshold)
}

func TestUnwrapItems_RejectsScalars(t *testing.T) {
	_, err := UnwrapItems(json.RawMessage(`42`))
	assert.Error(t, err)
}
