// Package vision is the client for the transcription service's streaming
// endpoint. It uploads a test file and exposes the response as an ordered
// sequence of typed events.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"gradescribe/internal/session"
)

// defaultBaseURL is the default transcription service base URL.
const defaultBaseURL = "http://localhost:8600"

// HTTPDoer abstracts the HTTP client used for streaming requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client opens transcription streams against the vision service.
type Client struct {
	BaseURL string
	APIKey  string
	Client  HTTPDoer
}

// NewClient constructs a streaming client with explicit settings.
func NewClient(baseURL, apiKey string, client HTTPDoer) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  client,
	}
}

// requestOptions is the wire form of the session options.
type requestOptions struct {
	FirstPageIndex    int   `json:"first_page_index"`
	AnsweredQuestions []int `json:"answered_questions,omitempty"`
}

// Open uploads the test file and returns the live event source. The
// request context governs the whole stream: canceling it aborts delivery.
func (c *Client) Open(ctx context.Context, req session.Request) (session.Source, error) {
	if req.File == nil {
		return nil, fmt.Errorf("transcription request requires a file")
	}
	body, contentType, err := encodeRequest(req)
	if err != nil {
		return nil, err
	}

	endpoint := c.BaseURL + "/v1/transcriptions/stream"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "text/event-stream")
	if c.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.Client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, fmt.Errorf("transcription service error: %s", strings.TrimSpace(string(payload)))
	}
	return newSSEStream(resp.Body), nil
}

// encodeRequest builds the multipart upload: rubric id, options JSON, and
// the file itself.
func encodeRequest(req session.Request) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("rubric_id", req.RubricID); err != nil {
		return nil, "", fmt.Errorf("encode rubric id: %w", err)
	}
	options, err := json.Marshal(requestOptions{
		FirstPageIndex:    req.Options.FirstPageIndex,
		AnsweredQuestions: req.Options.AnsweredQuestions,
	})
	if err != nil {
		return nil, "", fmt.Errorf("encode options: %w", err)
	}
	if err := writer.WriteField("options", string(options)); err != nil {
		return nil, "", fmt.Errorf("encode options: %w", err)
	}
	filename := req.Filename
	if filename == "" {
		filename = "upload"
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", fmt.Errorf("encode file: %w", err)
	}
	if _, err := io.Copy(part, req.File); err != nil {
		return nil, "", fmt.Errorf("encode file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("finish upload: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}
