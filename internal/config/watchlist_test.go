package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadWatchlistMergesAndDedupes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watchlist.yaml")
	if err := os.WriteFile(path, []byte("tickers:\n  - tcs.ns\n  - INFY.NS\n  - \"\"\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got, err := LoadWatchlist([]string{"RELIANCE.NS", "TCS.NS"}, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"RELIANCE.NS", "TCS.NS", "INFY.NS"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestLoadWatchlistInlineOnly(t *testing.T) {
	got, err := LoadWatchlist([]string{"hdfcbank.ns"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"HDFCBANK.NS"}) {
		t.Fatalf("unexpected %v", got)
	}
}

func TestLoadWatchlistErrors(t *testing.T) {
	orig := readFile
	t.Cleanup(func() { readFile = orig })

	readFile = func(string) ([]byte, error) { return nil, errors.New("missing") }
	if _, err := LoadWatchlist(nil, "nope.yaml"); err == nil {
		t.Fatal("expected read error")
	}

	readFile = func(string) ([]byte, error) { return []byte("tickers: {bad"), nil }
	if _, err := LoadWatchlist(nil, "bad.yaml"); err == nil {
		t.Fatal("expected parse error")
	}
}
