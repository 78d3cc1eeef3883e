package screens

import (
	"fmt"
	"io"
	"strings"

	"github.com/bft-labs/deeplink/pkg/deeplink"
	"github.com/bft-labs/deeplink/pkg/log"
)

// Screen describes a demo screen and how it reacts to links.
type Screen struct {
	// Name identifies the screen; unique within a stage.
	Name string
	// PathPrefix selects the routes the screen reacts to. Empty matches all.
	PathPrefix string
	// Result is reported for matching links.
	Result deeplink.Result
	// Mounted screens are visible and hold a registered handler.
	Mounted bool
}

// Matches reports whether the link's route falls under the screen's prefix.
// Prefixes match whole path segments: "inbox" matches "inbox/42" but not
// "inboxes".
func (s Screen) Matches(l Link) bool {
	prefix := strings.Trim(s.PathPrefix, "/")
	if prefix == "" {
		return true
	}
	route := l.Route()
	return route == prefix || strings.HasPrefix(route, prefix+"/")
}

// Handler returns the deeplink handler for the screen. Matching links are
// reported to out as "<screen> <- <link> (<result>)".
func (s Screen) Handler(logger log.Logger, out io.Writer) deeplink.Handler[Link] {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	logger = logger.With(log.Screen(s.Name))
	return func(l Link) deeplink.Result {
		if !s.Matches(l) {
			return deeplink.NotHandled
		}
		if out != nil {
			fmt.Fprintf(out, "%s <- %s (%s)\n", s.Name, l.Raw, s.Result)
		}
		logger.Debug("screen reacted to deeplink", log.String("route", l.Route()), log.Result(s.Result))
		return s.Result
	}
}
