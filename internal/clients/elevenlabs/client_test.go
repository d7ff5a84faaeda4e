package elevenlabs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/echoscribe/echoscribe-backend/internal/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func validResponse() string {
	return `{
		"language_code": "en",
		"language_probability": 0.98,
		"text": "Hello world.",
		"words": [
			{"text": "Hello", "start": 0.0, "end": 0.5, "type": "word"},
			{"text": " ", "start": 0.5, "end": 0.6, "type": "spacing"},
			{"text": "world.", "start": 0.6, "end": 1.1, "type": "word"}
		]
	}`
}

func TestConvertFile(t *testing.T) {
	var gotKey, gotModel string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("xi-api-key")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model_id")
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing file part: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(validResponse()))
	}))
	defer ts.Close()

	c := NewClient(testLogger(t), WithBaseURL(ts.URL))
	got, err := c.ConvertFile(context.Background(), "secret-key", "clip.mp3", strings.NewReader("fake-audio"), ConvertOptions{})
	if err != nil {
		t.Fatalf("ConvertFile: %v", err)
	}
	if gotKey != "secret-key" {
		t.Errorf("xi-api-key = %q, want %q", gotKey, "secret-key")
	}
	if gotModel != DefaultModelID {
		t.Errorf("model_id = %q, want %q", gotModel, DefaultModelID)
	}
	if got.LanguageCode != "en" || len(got.Words) != 3 {
		t.Errorf("unexpected transcript: %+v", got)
	}
}

func TestConvertFileRequiresKey(t *testing.T) {
	c := NewClient(testLogger(t))
	if _, err := c.ConvertFile(context.Background(), "", "clip.mp3", strings.NewReader("x"), ConvertOptions{}); err == nil {
		t.Fatalf("expected error for missing api key")
	}
}

func TestConvertCloudStorage(t *testing.T) {
	var gotURL string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotURL = r.FormValue("cloud_storage_url")
		if _, _, err := r.FormFile("file"); err == nil {
			t.Errorf("cloud storage request must not carry a file part")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(validResponse()))
	}))
	defer ts.Close()

	c := NewClient(testLogger(t), WithBaseURL(ts.URL))
	if _, err := c.ConvertCloudStorage(context.Background(), "k", "https://bucket.example.com/a.mp3", ConvertOptions{}); err != nil {
		t.Fatalf("ConvertCloudStorage: %v", err)
	}
	if gotURL != "https://bucket.example.com/a.mp3" {
		t.Errorf("cloud_storage_url = %q", gotURL)
	}
}

func TestStructuredErrorSurfacedVerbatim(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": {"status": "invalid_api_key", "message": "Invalid API key provided."}}`))
	}))
	defer ts.Close()

	c := NewClient(testLogger(t), WithBaseURL(ts.URL))
	_, err := c.ConvertFile(context.Background(), "bad", "clip.mp3", strings.NewReader("x"), ConvertOptions{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Message != "Invalid API key provided." {
		t.Errorf("message = %q, want provider detail verbatim", apiErr.Message)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
}

func TestUnstructuredErrorFallsBackToGeneric(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer ts.Close()

	c := NewClient(testLogger(t), WithBaseURL(ts.URL))
	_, err := c.ConvertFile(context.Background(), "k", "clip.mp3", strings.NewReader("x"), ConvertOptions{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Message != "Transcription failed" {
		t.Errorf("message = %q, want generic fallback", apiErr.Message)
	}
}

func TestStringDetailError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail": "file too large"}`))
	}))
	defer ts.Close()

	c := NewClient(testLogger(t), WithBaseURL(ts.URL))
	_, err := c.ConvertFile(context.Background(), "k", "clip.mp3", strings.NewReader("x"), ConvertOptions{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Message != "file too large" {
		t.Errorf("message = %q", apiErr.Message)
	}
}
