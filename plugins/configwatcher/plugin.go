// Package configwatcher reloads the deeplink CLI's screen configuration
// when the config file changes on disk.
package configwatcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/deeplink/pkg/log"
)

// ReloadFunc is called with the changed file's path once writes settle.
type ReloadFunc func(ctx context.Context, path string) error

// Plugin watches a single config file. The directory is watched rather
// than the file so editors that replace the file on save are noticed.
type Plugin struct {
	mu sync.Mutex

	path          string
	onChange      ReloadFunc
	debounceDelay time.Duration
	logger        log.Logger

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
	reloads  int
}

// New creates a watcher for path that calls onChange after each burst of
// changes.
func New(path string, onChange ReloadFunc, opts ...Option) *Plugin {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = DefaultConfig().DebounceDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewNoopLogger()
	}

	return &Plugin{
		path:          path,
		onChange:      onChange,
		debounceDelay: cfg.DebounceDelay,
		logger:        cfg.Logger.With(log.String("plugin", "configwatcher")),
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "configwatcher"
}

// Initialize starts watching. Without a path or callback the watcher stays
// disabled and Initialize returns nil.
func (p *Plugin) Initialize(ctx context.Context) error {
	if p.path == "" || p.onChange == nil {
		p.logger.Warn("config watcher disabled: no config file")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(p.path), err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()

	p.logger.Info("config watcher started", log.String("path", p.path))

	p.wg.Add(1)
	go p.watchLoop(watchCtx, watcher)

	return nil
}

// Shutdown stops the watcher, cancels a reload that has not fired yet and
// waits for one that is already running.
func (p *Plugin) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.stopTimerLocked()
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reloads returns how many reloads have run.
func (p *Plugin) Reloads() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reloads
}

func (p *Plugin) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer p.wg.Done()
	defer watcher.Close()

	name := filepath.Base(p.path)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			p.logger.Debug("config file changed", log.String("op", event.Op.String()))
			p.debounceReload(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("config watcher error", log.Err(err))
		}
	}
}

// debounceReload arms the reload timer. An armed or running reload is
// counted in wg so Shutdown waits for it.
func (p *Plugin) debounceReload(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopTimerLocked()
	if ctx.Err() != nil {
		return
	}

	p.wg.Add(1)
	p.debounce = time.AfterFunc(p.debounceDelay, func() {
		defer p.wg.Done()
		p.reload(ctx)
	})
}

// stopTimerLocked disarms the reload timer. A timer stopped before firing
// never runs its callback, so its wg slot is released here.
func (p *Plugin) stopTimerLocked() {
	if p.debounce == nil {
		return
	}
	if p.debounce.Stop() {
		p.wg.Done()
	}
	p.debounce = nil
}

func (p *Plugin) reload(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	p.mu.Lock()
	p.reloads++
	p.mu.Unlock()

	if err := p.onChange(ctx, p.path); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		p.logger.Error("config reload failed", log.Err(err))
		return
	}
	p.logger.Info("config reloaded", log.String("path", p.path))
}
