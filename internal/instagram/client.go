// Package instagram wraps the remote publishing service. The scheduling
// engine depends only on the Client contract; HTTPClient is the concrete
// implementation talking to the service's private web API.
package instagram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/instasched/instasched/internal/model"
)

// ErrAuthenticationFailed indicates the service rejected the login attempt.
var ErrAuthenticationFailed = errors.New("authentication failed")

// Client is the contract the scheduling engine calls. Login establishes a
// session, optionally resuming from a previously stored state; Upload
// publishes one image with a caption and returns the remote media ID.
type Client interface {
	Login(ctx context.Context, username, password string, stored model.SessionState) (model.SessionState, error)
	Upload(ctx context.Context, path, caption string) (string, error)
}

// HTTPClient talks to the publishing service over HTTP. The session token is
// set by Login and sent with every Upload.
type HTTPClient struct {
	BaseURL   string
	UserAgent string

	fs    afero.Fs
	http  *http.Client
	token string
}

// sessionEnvelope is the wire shape of the opaque session blob the engine
// round-trips through the session store.
type sessionEnvelope struct {
	Username string    `json:"username"`
	Token    string    `json:"token"`
	IssuedAt time.Time `json:"issued_at"`
}

// NewHTTPClient returns an HTTPClient for the service at baseURL, reading
// media files from fs.
func NewHTTPClient(baseURL, userAgent string, fs afero.Fs) *HTTPClient {
	return &HTTPClient{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		UserAgent: userAgent,
		fs:        fs,
		http:      &http.Client{Timeout: 60 * time.Second},
	}
}

// Login authenticates against the service. When a stored session state is
// supplied it is presented to the service for resumption; any rejection is
// returned as-is, the caller decides whether to retry fresh.
func (c *HTTPClient) Login(ctx context.Context, username, password string, stored model.SessionState) (model.SessionState, error) {
	params := url.Values{}
	params.Set("username", username)
	params.Set("password", password)

	if len(stored) > 0 {
		var env sessionEnvelope
		if err := json.Unmarshal(stored, &env); err != nil {
			return nil, fmt.Errorf("stored session is unreadable: %w", err)
		}
		params.Set("session_token", env.Token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/accounts/login", strings.NewReader(params.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %s, body %s", ErrAuthenticationFailed, resp.Status, string(body))
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("login response malformed: %w", err)
	}
	c.token = result.Token

	state, err := json.Marshal(sessionEnvelope{
		Username: username,
		Token:    result.Token,
		IssuedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}
	return model.SessionState(state), nil
}

// Upload publishes the image at path with the given caption and returns the
// media ID assigned by the service.
func (c *HTTPClient) Upload(ctx context.Context, path, caption string) (string, error) {
	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return "", fmt.Errorf("failed to read media file: %w", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("photo", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := w.WriteField("caption", caption); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/media/upload", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload rejected: status %s, body %s", resp.Status, string(body))
	}

	var result struct {
		MediaID string `json:"media_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("upload response malformed: %w", err)
	}
	return result.MediaID, nil
}
