/*
Package api implements the request gateway for the remote chat service.

Every outbound request flows through one helper that attaches the stored bearer
credential when present and shapes HTTP failures into a typed Error. The
gateway does not interpret business failures; translating them into error
kinds happens in its callers.
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fastjson"

	"gchat/internal/pkg/logx"
)

// maxErrorBodySize bounds how much of a failure response body is read
// when looking for a server-provided detail message.
const maxErrorBodySize int64 = 64 << 10 // 64 KB

// TokenSource supplies the current bearer credential for outbound requests.
// Read reports absent when no credential is stored or the store is unreadable;
// the request then proceeds unauthenticated.
type TokenSource interface {
	Read() (string, bool)
}

// Error is an HTTP-level failure returned by the remote service.
type Error struct {
	// Status is the HTTP status code of the failure response.
	Status int

	// Detail is the optional human-readable message from the response body.
	Detail string
}

// Error implements the standard Go error interface.
func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server returned HTTP %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("server returned HTTP %d", e.Status)
}

// Client is the authenticated request gateway to the chat service.
type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  TokenSource
}

// NewClient returns a gateway for the service at baseURL (no trailing slash).
// Requests carry the credential provided by tokens and are bounded by timeout.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

// Register creates a new account and returns the member with a fresh credential.
func (c *Client) Register(ctx context.Context, username, password string) (AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/register/", credentialsInput{Username: username, Password: password}, &result)
	return result, err
}

// Login authenticates an existing account and returns the member with a fresh credential.
func (c *Client) Login(ctx context.Context, username, password string) (AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login/", credentialsInput{Username: username, Password: password}, &result)
	return result, err
}

// Me returns the account the stored credential belongs to.
func (c *Client) Me(ctx context.Context) (Member, error) {
	var member Member
	err := c.do(ctx, http.MethodGet, "/api/auth/me/", nil, &member)
	return member, err
}

// Logout invalidates the stored credential on the server.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout/", nil, nil)
}

// Messages returns the full chat feed in server-assigned order.
func (c *Client) Messages(ctx context.Context) ([]Message, error) {
	var messages []Message
	err := c.do(ctx, http.MethodGet, "/api/chat/messages/", nil, &messages)
	return messages, err
}

// SendMessage creates a chat message and returns the canonical record the
// server assigned for it.
func (c *Client) SendMessage(ctx context.Context, text string) (Message, error) {
	var message Message
	err := c.do(ctx, http.MethodPost, "/api/chat/messages/", sendMessageInput{Text: text}, &message)
	return message, err
}

// do issues one request against the service. A non-nil body is encoded as
// JSON; a non-nil out receives the decoded success body. Responses with a
// 4xx/5xx status are shaped into *Error.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body for %s: %w", path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// A missing or unreadable credential is not fatal: the request simply
	// goes out unauthenticated and the server decides.
	if credential, ok := c.tokens.Read(); ok {
		req.Header.Set("Authorization", "Token "+credential)
	} else {
		logx.Debug("api: no stored credential, sending request unauthenticated", "path", path)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return &Error{
			Status: resp.StatusCode,
			Detail: extractDetail(resp.Body),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", path, err)
		}
	}

	return nil
}

// extractDetail pulls the optional "detail" string out of a failure response
// body. Error bodies are server-defined and loose, so they are parsed without
// a fixed schema; anything that is not JSON with a string detail field yields
// an empty result.
func extractDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBodySize))
	if err != nil {
		return ""
	}

	value, err := fastjson.ParseBytes(data)
	if err != nil {
		return ""
	}

	return string(value.GetStringBytes("detail"))
}
