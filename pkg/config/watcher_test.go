package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func writeConfig(t *testing.T, path, domain string) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Wiki.Domain = domain
	if err := cfg.SaveToFile(path); err != nil {
		t.Fatal(err)
	}
}

func TestWatcherLoadsInitialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, "initial.wiki")

	w, err := NewWatcher(WatcherConfig{Path: path, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if got := w.Current().Wiki.Domain; got != "initial.wiki" {
		t.Errorf("Domain = %q, want %q", got, "initial.wiki")
	}
}

func TestWatcherRejectsInvalidInitialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("wiki:\n  domain: \"\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewWatcher(WatcherConfig{Path: path, Logger: zerolog.Nop()}); err == nil {
		t.Fatal("expected error for invalid config")
	}
}

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, "before.wiki")

	w, err := NewWatcher(WatcherConfig{
		Path:          path,
		DebounceDelay: 20 * time.Millisecond,
		Logger:        zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	writeConfig(t, path, "after.wiki")

	select {
	case cfg := <-w.Updates():
		if cfg.Wiki.Domain != "after.wiki" {
			t.Errorf("Domain = %q, want %q", cfg.Wiki.Domain, "after.wiki")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	if got := w.Current().Wiki.Domain; got != "after.wiki" {
		t.Errorf("Current() domain = %q, want %q", got, "after.wiki")
	}
}

func TestWatcherKeepsPreviousOnInvalidReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, "stable.wiki")

	w, err := NewWatcher(WatcherConfig{
		Path:          path,
		DebounceDelay: 20 * time.Millisecond,
		Logger:        zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	if err := os.WriteFile(path, []byte("wiki: [broken"), 0644); err != nil {
		t.Fatal(err)
	}

	// No update should arrive; the previous snapshot stays current.
	select {
	case cfg := <-w.Updates():
		t.Fatalf("unexpected update: %+v", cfg)
	case <-time.After(300 * time.Millisecond):
	}
	if got := w.Current().Wiki.Domain; got != "stable.wiki" {
		t.Errorf("Current() domain = %q, want %q", got, "stable.wiki")
	}
}
