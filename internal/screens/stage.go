// Package screens implements the demo screens driven by the CLI. A Stage
// mounts and unmounts screens from configuration, and each mounted screen
// claims the deeplinks under its path prefix.
package screens

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/bft-labs/deeplink/pkg/lifecycle"
	"github.com/bft-labs/deeplink/pkg/log"
)

var (
	ErrDuplicateScreen = errors.New("screens: duplicate screen name")
	ErrUnknownScreen   = errors.New("screens: unknown screen")
)

type mountedScreen struct {
	def     Screen
	binding *lifecycle.Binding[Link]
}

// Stage owns the lifecycle bindings of the mounted screens.
type Stage struct {
	mu      sync.Mutex
	defs    []Screen
	mounted map[string]*mountedScreen
	order   []string

	registrar lifecycle.Registrar[Link]
	logger    log.Logger
	out       io.Writer
	emitter   lifecycle.EventEmitter
}

// NewStage creates an empty stage. logger, out and emitter may be nil.
func NewStage(registrar lifecycle.Registrar[Link], logger log.Logger, out io.Writer, emitter lifecycle.EventEmitter) *Stage {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Stage{
		mounted:   make(map[string]*mountedScreen),
		registrar: registrar,
		logger:    logger,
		out:       out,
		emitter:   emitter,
	}
}

// Apply brings the stage in line with defs. Screens that are no longer
// mounted, or whose definition changed, disappear first; newly mounted
// screens then appear in the order given. A changed screen therefore moves
// to the end of the handler order.
//
// Every screen is processed even when one fails; the errors are joined.
func (s *Stage) Apply(defs []Screen) error {
	seen := make(map[string]bool, len(defs))
	for _, def := range defs {
		if seen[def.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateScreen, def.Name)
		}
		seen[def.Name] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(defs)
}

func (s *Stage) applyLocked(defs []Screen) error {
	wanted := make(map[string]Screen, len(defs))
	for _, def := range defs {
		wanted[def.Name] = def
	}
	s.defs = append([]Screen(nil), defs...)

	var errs []error

	kept := s.order[:0:0]
	for _, name := range s.order {
		m := s.mounted[name]
		def, ok := wanted[name]
		if ok && def.Mounted && def == m.def {
			kept = append(kept, name)
			continue
		}
		if err := m.binding.Disappear(); err != nil {
			errs = append(errs, err)
		}
		delete(s.mounted, name)
	}
	s.order = kept

	for _, def := range defs {
		if !def.Mounted {
			continue
		}
		if _, ok := s.mounted[def.Name]; ok {
			continue
		}
		b := lifecycle.NewBinding(def.Name, s.registrar, def.Handler(s.logger, s.out), s.logger, s.emitter)
		if err := b.Appear(); err != nil {
			errs = append(errs, err)
			continue
		}
		s.mounted[def.Name] = &mountedScreen{def: def, binding: b}
		s.order = append(s.order, def.Name)
	}

	s.logger.Info("stage applied", log.Int("mounted", len(s.order)))
	return errors.Join(errs...)
}

// SetMounted mounts or unmounts a screen from the last applied definitions.
func (s *Stage) SetMounted(name string, mounted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	defs := append([]Screen(nil), s.defs...)
	for i := range defs {
		if defs[i].Name == name {
			defs[i].Mounted = mounted
			return s.applyLocked(defs)
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownScreen, name)
}

// Screens returns the last applied definitions.
func (s *Stage) Screens() []Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Screen(nil), s.defs...)
}

// Mounted returns the names of the mounted screens in mount order.
func (s *Stage) Mounted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

// Close unmounts every screen.
func (s *Stage) Close() error {
	return s.Apply(nil)
}
