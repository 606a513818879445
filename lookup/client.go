// Package lookup wraps the external number-information API. Whatever
// happens on the wire, callers get back exactly one renderable text:
// the formatted payload, or one of three canned messages. No error
// detail ever leaks to chat users.
package lookup

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"numinfo-bot/utils"
)

const (
	// MsgUnavailable covers every transport, status and parse failure.
	MsgUnavailable = "⚠️ API not working currently, please contact admin."
	// MsgEmptyQuery is terminal, not an error: nothing to look up.
	MsgEmptyQuery = "Number is empty."
	// MsgNotFound means the service answered but had no record.
	MsgNotFound = "❗ Data Not found ❌."

	requestTimeout = 15 * time.Second
	renderCap      = 3900
	trimMarker     = "\n\n… (trimmed)"
)

// Client calls the lookup API. The zero timeout of the wrapped
// http.Client is replaced by requestTimeout at construction.
type Client struct {
	http     *http.Client
	endpoint string
	key      string
	log      *zap.Logger
}

func NewClient(endpoint, key string, log *zap.Logger) *Client {
	return &Client{
		http:     &http.Client{Timeout: requestTimeout},
		endpoint: endpoint,
		key:      key,
		log:      log,
	}
}

// Lookup normalizes raw, queries the API and renders the response.
// The returned string is always safe to send to the user as-is.
func (c *Client) Lookup(ctx context.Context, raw string) string {
	num := Normalize(raw)
	if num == "" {
		return MsgEmptyQuery
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		c.log.Warn("lookup request build failed", zap.Error(err))
		return MsgUnavailable
	}
	q := url.Values{}
	q.Set("num", num)
	q.Set("key", c.key)
	req.URL.RawQuery = q.Encode()

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("lookup request failed", zap.Error(err))
		return MsgUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("lookup bad status", zap.Int("status", resp.StatusCode))
		return MsgUnavailable
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		c.log.Warn("lookup bad payload", zap.Error(err))
		return MsgUnavailable
	}

	if isEmpty(payload) {
		return MsgNotFound
	}

	return utils.TruncateWithMarker(Render(payload), renderCap, trimMarker)
}

// Normalize strips surrounding whitespace and the separators people
// type inside phone numbers.
func Normalize(raw string) string {
	num := strings.TrimSpace(raw)
	num = strings.ReplaceAll(num, " ", "")
	num = strings.ReplaceAll(num, "-", "")
	return num
}
