package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/bft-labs/deeplink/internal/cliconfig"
	"github.com/bft-labs/deeplink/internal/screens"
	"github.com/bft-labs/deeplink/pkg/deeplink"
	"github.com/bft-labs/deeplink/pkg/log"
	"github.com/bft-labs/deeplink/pkg/metrics"
	"github.com/bft-labs/deeplink/pkg/tracing"
	"github.com/bft-labs/deeplink/plugins/configwatcher"
)

type runConfig struct {
	cliconfig.Config

	// ConfigPath is the file that was loaded, or "" when none exists.
	ConfigPath string
	Args       []string
	In         io.Reader
	Out        io.Writer
	Logger     log.Logger
}

// lockedWriter serializes writes from the dispatch loop and from reloads.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// session wires one dispatcher to the stage that mounts the screens.
type session struct {
	dispatcher *deeplink.Dispatcher[screens.Link]
	stage      *screens.Stage
	registry   *prometheus.Registry
	out        io.Writer
	logger     log.Logger
}

func newSession(cfg runConfig) (*session, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	out := &lockedWriter{w: cfg.Out}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	d := deeplink.New[screens.Link](
		deeplink.WithLogger(logger),
		deeplink.WithObserver(metrics.NewObserver(metrics.WithRegistry(registry))),
		deeplink.WithObserver(tracing.NewObserver()),
		deeplink.WithStrictContract(cfg.Strict),
	)

	stage := screens.NewStage(d, logger, out, nil)
	if err := stage.Apply(cfg.Screens); err != nil {
		return nil, fmt.Errorf("mount screens: %w", err)
	}

	return &session{
		dispatcher: d,
		stage:      stage,
		registry:   registry,
		out:        out,
		logger:     logger,
	}, nil
}

// reload replaces the screens with the ones in path. A file without
// [[screen]] tables falls back to the default screens.
func (s *session) reload(_ context.Context, path string) error {
	list, err := cliconfig.LoadScreens(path)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		list = cliconfig.DefaultConfig().Screens
	}
	return s.stage.Apply(list)
}

// handleLine dispatches a link or runs a ":" command. Blank lines and
// lines starting with "#" are ignored.
func (s *session) handleLine(line string) error {
	line = strings.TrimSpace(line)
	switch {
	case line == "", strings.HasPrefix(line, "#"):
		return nil
	case strings.HasPrefix(line, ":"):
		return s.command(strings.Fields(line[1:]))
	}

	link, err := screens.ParseLink(line)
	if err != nil {
		return err
	}
	s.dispatcher.Dispatch(link)
	s.reportPending()
	return nil
}

func (s *session) command(fields []string) error {
	if len(fields) == 0 {
		return errors.New("empty command")
	}
	switch fields[0] {
	case "mount", "unmount":
		if len(fields) != 2 {
			return fmt.Errorf("usage: :%s <screen>", fields[0])
		}
		if err := s.stage.SetMounted(fields[1], fields[0] == "mount"); err != nil {
			return err
		}
		s.reportPending()
		return nil
	case "status":
		s.status()
		return nil
	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
}

func (s *session) reportPending() {
	if link, ok := s.dispatcher.Pending(); ok {
		fmt.Fprintf(s.out, "pending: %s\n", link.Raw)
	}
}

func (s *session) status() {
	fmt.Fprintf(s.out, "mounted: %s\n", strings.Join(s.stage.Mounted(), ", "))
	if link, ok := s.dispatcher.Pending(); ok {
		fmt.Fprintf(s.out, "pending: %s\n", link.Raw)
	} else {
		fmt.Fprintln(s.out, "pending: none")
	}
}

// readLines sends each line of r until EOF or ctx is done.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

func run(ctx context.Context, cfg runConfig) error {
	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.stage.Close(); err != nil {
			s.logger.Error("unmount screens", log.Err(err))
		}
	}()

	if cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           newRouter(s),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("metrics server", log.Err(err))
			}
		}()
		s.logger.Info("serving metrics", log.String("addr", cfg.MetricsAddr))
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if cfg.Watch {
		w := configwatcher.New(cfg.ConfigPath, s.reload,
			configwatcher.WithDebounce(cfg.Debounce),
			configwatcher.WithLogger(cfg.Logger),
		)
		if err := w.Initialize(ctx); err != nil {
			return fmt.Errorf("start config watcher: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = w.Shutdown(shutdownCtx)
		}()
	}

	readStdin := len(cfg.Args) == 0 || slices.Contains(cfg.Args, "-")
	for _, arg := range cfg.Args {
		if arg == "-" {
			continue
		}
		if err := s.handleLine(arg); err != nil {
			return err
		}
	}
	if !readStdin || cfg.In == nil {
		return nil
	}

	lines := readLines(ctx, cfg.In)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("received signal, stopping")
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if err := s.handleLine(line); err != nil {
				s.logger.Warn("skipping input", log.String("line", line), log.Err(err))
			}
		}
	}
}
