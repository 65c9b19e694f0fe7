package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"folio-cli/internal/model"
)

// Me checks the session. Any 2xx means the session is valid; the user is parsed best effort.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	resp, body, err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, nil)
	if err != nil {
		return model.User{}, err
	}
	if !ok(resp) {
		return model.User{}, statusError(resp, body)
	}
	var wrapped struct {
		Data *model.User `json:"data"`
		User *model.User `json:"user"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil {
		switch {
		case wrapped.Data != nil:
			return *wrapped.Data, nil
		case wrapped.User != nil:
			return *wrapped.User, nil
		}
	}
	return model.User{}, nil
}

// Login posts credentials; the session cookie lands in the client's jar.
func (c *Client) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return errors.New("email and password are required")
	}
	resp, body, err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", nil, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}
	if !ok(resp) {
		return statusError(resp, body)
	}
	// Some deployments answer with an envelope; honor an explicit success=false.
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Success != nil && !*env.Success {
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	return nil
}

// Logout is best effort; callers proceed regardless of the result.
func (c *Client) Logout(ctx context.Context) error {
	resp, body, err := c.doJSON(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	if err != nil {
		return err
	}
	if !ok(resp) {
		return statusError(resp, body)
	}
	return nil
}

// Upload sends one file as the multipart "image" field and returns the stored URL.
func (c *Client) Upload(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return c.UploadReader(ctx, filepath.Base(path), f)
}

func (c *Client) UploadReader(ctx context.Context, name string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", name)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/upload", nil, &buf, mw.FormDataContentType())
	if err != nil {
		return "", err
	}
	resp, body, err := c.send(req)
	if err != nil {
		return "", err
	}
	if !ok(resp) {
		return "", statusError(resp, body)
	}
	var out struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", malformed("upload", err)
	}
	if strings.TrimSpace(out.URL) == "" {
		return "", malformed("upload: missing url", nil)
	}
	return out.URL, nil
}
