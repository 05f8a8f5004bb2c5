// Package backend saves resumes through a remote HTTP function that accepts
// a JSON document and answers with a JSON result.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"resume-builder/internal/model"
	"resume-builder/internal/render"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Payload selects what is sent to the backend.
type Payload string

const (
	// PayloadFields sends the resume fields flattened next to userId.
	PayloadFields Payload = "fields"
	// PayloadHTML sends the export-mode HTML page instead.
	PayloadHTML Payload = "html"
)

const defaultFailure = "Failed to save to backend"

// RemoteError is a non-2xx answer from the backend.
type RemoteError struct {
	Status  int
	Message string
	Result  map[string]any
}

func (e *RemoteError) Error() string { return e.Message }

// Client posts saved resumes to the backend. Requests are not retried.
type Client struct {
	URL     string
	HTTP    *http.Client
	Payload Payload
}

func NewClient(url string, timeout time.Duration, payload Payload) *Client {
	if payload != PayloadHTML {
		payload = PayloadFields
	}
	return &Client{
		URL:     url,
		HTTP:    &http.Client{Timeout: timeout, Transport: otelhttp.NewTransport(http.DefaultTransport)},
		Payload: payload,
	}
}

// Persist is Save without the result.
func (c *Client) Persist(ctx context.Context, userID string, doc model.Resume) error {
	_, err := c.Save(ctx, userID, doc)
	return err
}

// Save sends doc for userID. The response body is decoded as JSON when
// possible and wrapped as {"message": body} otherwise.
func (c *Client) Save(ctx context.Context, userID string, doc model.Resume) (map[string]any, error) {
	if c.URL == "" {
		return nil, errors.New("backend url is not configured")
	}
	body, err := c.body(userID, doc)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post to backend: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read backend response: %w", err)
	}
	result := decodeResult(raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := result["message"].(string)
		if msg == "" {
			msg = defaultFailure
		}
		return result, &RemoteError{Status: resp.StatusCode, Message: msg, Result: result}
	}
	return result, nil
}

func (c *Client) body(userID string, doc model.Resume) ([]byte, error) {
	if c.Payload == PayloadHTML {
		_, page, err := render.Page(doc, render.Options{Mode: render.ModeExport})
		if err != nil {
			return nil, err
		}
		return json.Marshal(map[string]string{"userId": userID, "html": page})
	}

	// Flatten the document next to userId.
	fields, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(fields, &m); err != nil {
		return nil, err
	}
	uid, _ := json.Marshal(userID)
	m["userId"] = uid
	return json.Marshal(m)
}

func decodeResult(raw []byte) map[string]any {
	var result map[string]any
	if err := json.Unmarshal(raw, &result); err == nil && result != nil {
		return result
	}
	return map[string]any{"message": string(raw)}
}
