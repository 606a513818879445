package lookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", zap.NewNop())
}

func TestLookup_EmptyInput(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	assert.Equal(t, MsgEmptyQuery, c.Lookup(context.Background(), "   - - "))
	assert.False(t, called, "empty input must not reach the API")
}

func TestLookup_NormalizesAndSendsKey(t *testing.T) {
	var gotNum, gotKey string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotNum = r.URL.Query().Get("num")
		gotKey = r.URL.Query().Get("key")
		w.Write([]byte(`{"ok":true}`))
	})

	out := c.Lookup(context.Background(), " 98-765 ")
	assert.Equal(t, "98765", gotNum)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "ok: true", out)
}

func TestLookup_EmptyPayloadIsNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	assert.Equal(t, MsgNotFound, c.Lookup(context.Background(), "98765"))
}

func TestLookup_BadStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	assert.Equal(t, MsgUnavailable, c.Lookup(context.Background(), "98765"))
}

func TestLookup_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"broken`))
	})

	assert.Equal(t, MsgUnavailable, c.Lookup(context.Background(), "98765"))
}

func TestLookup_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := NewClient(srv.URL, "k", zap.NewNop())
	srv.Close() // connection refused from now on

	assert.Equal(t, MsgUnavailable, c.Lookup(context.Background(), "98765"))
}

func TestLookup_TrimsOversizedResult(t *testing.T) {
	big := strings.Repeat("x", 6000)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":"` + big + `"}`))
	})

	out := c.Lookup(context.Background(), "98765")
	assert.True(t, strings.HasSuffix(out, "… (trimmed)"))
	assert.LessOrEqual(t, len([]rune(out)), 3900+len([]rune("\n\n… (trimmed)")))
}

func TestLookup_NeverLeaksErrorDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "secret internal stack trace", http.StatusBadGateway)
	})

	out := c.Lookup(context.Background(), "98765")
	require.Equal(t, MsgUnavailable, out)
	assert.NotContains(t, out, "secret")
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "98765", Normalize(" 98-765 "))
	assert.Equal(t, "6200303551", Normalize("620 030 3551"))
	assert.Equal(t, "", Normalize(" -- "))
}
