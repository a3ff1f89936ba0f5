package fallback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	refused := &url.Error{Op: "Get", URL: "http://api", Err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}}

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"deadline", context.DeadlineExceeded, KindTimeout},
		{"wrapped deadline", fmt.Errorf("get persons: %w", context.DeadlineExceeded), KindTimeout},
		{"net timeout", &url.Error{Op: "Get", URL: "http://api", Err: timeoutErr{}}, KindTimeout},
		{"500", statusErr(500), KindServer},
		{"503 wrapped", fmt.Errorf("load: %w", statusErr(503)), KindServer},
		{"404", statusErr(404), KindClient},
		{"400", statusErr(400), KindClient},
		{"3xx has no kind of its own", statusErr(302), KindNetwork},
		{"connection refused", refused, KindNetwork},
		{"eof", io.ErrUnexpectedEOF, KindNetwork},
		{"plain", errors.New("boom"), KindNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Kind)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassify_Nil(t *testing.T) {
	assert.Nil(t, Classify(nil))
}

func TestClassify_AlreadyClassified(t *testing.T) {
	orig := NewError(KindServer, errors.New("down"))
	wrapped := fmt.Errorf("persons: %w", orig)
	assert.Same(t, orig, Classify(wrapped))
}

func TestClassifiedError_JSON(t *testing.T) {
	b, err := json.Marshal(NewError(KindTimeout, errors.New("took too long")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"TIMEOUT_ERROR","message":"took too long"}`, string(b))
}

func TestValidErrorKind(t *testing.T) {
	assert.True(t, ValidErrorKind(KindClient))
	assert.True(t, ValidErrorKind(KindCircuitBreakerOpen))
	assert.False(t, ValidErrorKind("TEAPOT"))
}
