package client

import (
	"errors"
	"reflect"
	"time"
)

// Upstream is the gateway's handle on the inference server. It is either
// ready, holding a client, or unavailable, holding the reason construction
// failed. The zero value is unavailable.
type Upstream struct {
	client OllamaClientInterface
	cause  error
}

var errNotInitialized = errors.New("upstream client not initialized")

// Ready wraps a usable client. A nil client, including a typed nil pointer,
// yields an unavailable upstream.
func Ready(c OllamaClientInterface) Upstream {
	if isNil(c) {
		return Unavailable(errNotInitialized)
	}
	return Upstream{client: c}
}

func isNil(c OllamaClientInterface) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

func Unavailable(cause error) Upstream {
	if cause == nil {
		cause = errNotInitialized
	}
	return Upstream{cause: cause}
}

// Client returns the client and true when the upstream is ready.
func (u Upstream) Client() (OllamaClientInterface, bool) {
	return u.client, u.client != nil
}

// Err is the construction failure of an unavailable upstream, nil when ready.
func (u Upstream) Err() error {
	if u.client != nil {
		return nil
	}
	if u.cause == nil {
		return errNotInitialized
	}
	return u.cause
}

// Connect builds the Ollama client for baseURL. A construction failure yields
// an unavailable upstream rather than an error so the gateway can still start
// and report itself degraded.
func Connect(baseURL string, timeout time.Duration) Upstream {
	c, err := NewOllamaClient(baseURL, timeout)
	if err != nil {
		return Unavailable(err)
	}
	return Ready(c)
}
