// Package elevenlabs is a thin client for the ElevenLabs scribe
// speech-to-text endpoint. The provider is treated as opaque: whatever
// word-timing array it returns is passed through unmodified.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/echoscribe/echoscribe-backend/internal/logger"
	"github.com/echoscribe/echoscribe-backend/internal/transcript"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io"
	convertPath    = "/v1/speech-to-text"

	DefaultModelID = "scribe_v1"
)

// ConvertOptions mirror the scribe request parameters. Zero values are
// omitted from the form so the provider applies its own defaults.
type ConvertOptions struct {
	ModelID               string
	LanguageCode          string
	TagAudioEvents        bool
	Diarize               bool
	NumSpeakers           int
	TimestampsGranularity string
	CloudStorageURL       string
}

// APIError is a structured provider error; Message is surfaced to the
// user verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("elevenlabs: %s (status %d)", e.Message, e.StatusCode)
}

type Client struct {
	log        *logger.Logger
	httpClient *http.Client
	baseURL    string
}

type Option func(*Client)

// WithBaseURL points the client at a different endpoint. Tests use this
// with httptest servers.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		log:     log.With("client", "ElevenLabs"),
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Minute,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ConvertFile uploads the media stream and returns the transcript. The
// API key travels per call because the server takes it per request from
// the Authorization header.
func (c *Client) ConvertFile(ctx context.Context, apiKey, filename string, media io.Reader, opts ConvertOptions) (*transcript.Transcript, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("elevenlabs: api key required")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := writeConvertFields(mw, opts); err != nil {
		return nil, err
	}
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, media); err != nil {
		return nil, fmt.Errorf("elevenlabs: buffering media: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	return c.convert(ctx, apiKey, &body, mw.FormDataContentType())
}

// ConvertCloudStorage asks the provider to pull the media from an
// accessible object-store URL instead of an upload.
func (c *Client) ConvertCloudStorage(ctx context.Context, apiKey, mediaURL string, opts ConvertOptions) (*transcript.Transcript, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("elevenlabs: api key required")
	}
	if mediaURL == "" {
		return nil, fmt.Errorf("elevenlabs: cloud storage url required")
	}

	opts.CloudStorageURL = mediaURL
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := writeConvertFields(mw, opts); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	return c.convert(ctx, apiKey, &body, mw.FormDataContentType())
}

func (c *Client) convert(ctx context.Context, apiKey string, body io.Reader, contentType string) (*transcript.Transcript, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+convertPath, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", apiKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var t transcript.Transcript
	if err := json.NewDecoder(resp.Body).Decode(&t); err != nil {
		return nil, fmt.Errorf("elevenlabs: decoding response: %w", err)
	}
	return &t, nil
}

func writeConvertFields(mw *multipart.Writer, opts ConvertOptions) error {
	modelID := opts.ModelID
	if modelID == "" {
		modelID = DefaultModelID
	}
	fields := map[string]string{
		"model_id": modelID,
	}
	if opts.LanguageCode != "" {
		fields["language_code"] = opts.LanguageCode
	}
	if opts.TagAudioEvents {
		fields["tag_audio_events"] = "true"
	}
	if opts.Diarize {
		fields["diarize"] = "true"
	}
	if opts.NumSpeakers > 0 {
		fields["num_speakers"] = strconv.Itoa(opts.NumSpeakers)
	}
	if opts.TimestampsGranularity != "" {
		fields["timestamps_granularity"] = opts.TimestampsGranularity
	}
	if opts.CloudStorageURL != "" {
		fields["cloud_storage_url"] = opts.CloudStorageURL
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}
	return nil
}

// decodeError extracts the provider's detail message when present so it
// can be shown to the user verbatim; anything unreadable collapses to a
// generic message.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: "Transcription failed"}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apiErr
	}

	var structured struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &structured); err != nil || len(structured.Detail) == 0 {
		return apiErr
	}

	var detailObj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(structured.Detail, &detailObj); err == nil && detailObj.Message != "" {
		apiErr.Message = detailObj.Message
		return apiErr
	}
	var detailStr string
	if err := json.Unmarshal(structured.Detail, &detailStr); err == nil && detailStr != "" {
		apiErr.Message = detailStr
	}
	return apiErr
}
