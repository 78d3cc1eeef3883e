package configwatcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestPlugin_Name(t *testing.T) {
	p := New("", nil)
	if p.Name() != "configwatcher" {
		t.Errorf("Name() = %q, want configwatcher", p.Name())
	}
}

func TestPlugin_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `log_level = "info"`)

	reloaded := make(chan string, 10)
	plugin := New(path, func(_ context.Context, p string) error {
		reloaded <- p
		return nil
	}, WithDebounce(20*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := plugin.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	writeFile(t, path, `log_level = "debug"`)

	select {
	case got := <-reloaded:
		if got != path {
			t.Errorf("reload path = %q, want %q", got, path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	if err := plugin.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestPlugin_DebouncesBursts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "")

	var calls atomic.Int32
	plugin := New(path, func(context.Context, string) error {
		calls.Add(1)
		return nil
	}, WithDebounce(150*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := plugin.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		writeFile(t, path, `log_level = "debug"`)
	}

	time.Sleep(600 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Errorf("reload calls = %d, want 1", got)
	}
	if plugin.Reloads() != 1 {
		t.Errorf("Reloads() = %d, want 1", plugin.Reloads())
	}

	if err := plugin.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestPlugin_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, "")

	var calls atomic.Int32
	plugin := New(path, func(context.Context, string) error {
		calls.Add(1)
		return nil
	}, WithDebounce(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := plugin.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	writeFile(t, filepath.Join(dir, "other.toml"), "x = 1")
	time.Sleep(200 * time.Millisecond)

	if got := calls.Load(); got != 0 {
		t.Errorf("reload calls = %d, want 0", got)
	}

	if err := plugin.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestPlugin_ReloadErrorKeepsWatching(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "")

	var calls atomic.Int32
	reloaded := make(chan struct{}, 10)
	plugin := New(path, func(context.Context, string) error {
		calls.Add(1)
		reloaded <- struct{}{}
		return errors.New("bad config")
	}, WithDebounce(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := plugin.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		writeFile(t, path, "broken =")
		select {
		case <-reloaded:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for reload %d", i+1)
		}
	}

	if err := plugin.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestPlugin_DisabledWithoutPath(t *testing.T) {
	plugin := New("", func(context.Context, string) error { return nil })

	if err := plugin.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := plugin.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestPlugin_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "config.toml")
	plugin := New(path, func(context.Context, string) error { return nil })

	if err := plugin.Initialize(context.Background()); err == nil {
		t.Error("Initialize expected error for missing directory")
	}
}

func TestPlugin_ShutdownStopsPendingReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "")

	var calls atomic.Int32
	plugin := New(path, func(context.Context, string) error {
		calls.Add(1)
		return nil
	}, WithDebounce(300*time.Millisecond))

	ctx := context.Background()
	if err := plugin.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	writeFile(t, path, `log_level = "debug"`)
	time.Sleep(50 * time.Millisecond)

	if err := plugin.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	time.Sleep(400 * time.Millisecond)

	if got := calls.Load(); got != 0 {
		t.Errorf("reload calls after shutdown = %d, want 0", got)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.DebounceDelay != 250*time.Millisecond {
		t.Errorf("DebounceDelay = %v, want 250ms", cfg.DebounceDelay)
	}

	p := New("x", nil, WithDebounce(-1))
	if p.debounceDelay != 250*time.Millisecond {
		t.Errorf("negative debounce not defaulted: %v", p.debounceDelay)
	}
}

func TestPlugin_ShutdownWaitsForRunningReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "")

	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	var finished atomic.Bool
	plugin := New(path, func(context.Context, string) error {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-release
		finished.Store(true)
		return nil
	}, WithDebounce(10*time.Millisecond))

	ctx := context.Background()
	if err := plugin.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	writeFile(t, path, `log_level = "debug"`)
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reload to start")
	}

	done := make(chan error, 1)
	go func() { done <- plugin.Shutdown(ctx) }()

	select {
	case <-done:
		t.Fatal("Shutdown returned while a reload was still running")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Shutdown failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Shutdown did not return after the reload finished")
	}
	if !finished.Load() {
		t.Error("reload did not finish before Shutdown returned")
	}
}
