package keystore

import (
	"path/filepath"
	"testing"
)

func TestGetMissing(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "credentials.json"))
	_, ok, err := s.APIKey()
	if err != nil {
		t.Fatalf("Get on missing store: %v", err)
	}
	if ok {
		t.Errorf("expected no stored key")
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.json")
	s := New(path)
	if err := s.SetAPIKey("xi-secret"); err != nil {
		t.Fatalf("SetAPIKey: %v", err)
	}

	// A fresh store over the same path must see the value.
	v, ok, err := New(path).APIKey()
	if err != nil {
		t.Fatalf("APIKey: %v", err)
	}
	if !ok || v != "xi-secret" {
		t.Errorf("APIKey = (%q, %v), want (\"xi-secret\", true)", v, ok)
	}
}

func TestSetPreservesOtherKeys(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "credentials.json"))
	if err := s.Set("api_key", "a"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set("endpoint", "b"); err != nil {
		t.Fatal(err)
	}
	v, ok, _ := s.Get("api_key")
	if !ok || v != "a" {
		t.Errorf("api_key = (%q, %v) after writing another key", v, ok)
	}
}
