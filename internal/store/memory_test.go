package store

import (
	"errors"
	"testing"

	"weathermood/internal/weather"
)

func model(name string) *weather.WeatherModel {
	return &weather.WeatherModel{Location: weather.Location{Name: name}}
}

func TestSaveAndGetLatest(t *testing.T) {
	s := NewMemoryStore()

	if !s.SaveLatest("denver", 1, model("Denver")) {
		t.Fatal("first write should be accepted")
	}

	got, err := s.GetLatest("denver")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Location.Name != "Denver" {
		t.Errorf("name = %q, want Denver", got.Location.Name)
	}
}

func TestGetLatestMissingKey(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.GetLatest("nowhere")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStaleGenerationDiscarded(t *testing.T) {
	s := NewMemoryStore()

	// The newer request lands first; the older one arrives late.
	if !s.SaveLatest("denver", 2, model("new")) {
		t.Fatal("newer write should be accepted")
	}
	if s.SaveLatest("denver", 1, model("old")) {
		t.Fatal("stale write should be discarded")
	}

	got, err := s.GetLatest("denver")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Location.Name != "new" {
		t.Errorf("stored name = %q, want the newer model", got.Location.Name)
	}
}

func TestEqualGenerationDiscarded(t *testing.T) {
	s := NewMemoryStore()
	s.SaveLatest("denver", 1, model("first"))
	if s.SaveLatest("denver", 1, model("second")) {
		t.Fatal("write with the same generation should be discarded")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	s := NewMemoryStore()
	s.SaveLatest("denver", 5, model("Denver"))
	if !s.SaveLatest("oslo", 1, model("Oslo")) {
		t.Fatal("generations are per-process, not per-key, but a fresh key must accept any newer-than-zero write")
	}
	if s.Len() != 2 {
		t.Errorf("len = %d, want 2", s.Len())
	}
}
