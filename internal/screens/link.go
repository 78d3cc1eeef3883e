package screens

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	ErrEmptyLink     = errors.New("screens: empty link")
	ErrMissingScheme = errors.New("screens: link has no scheme")
)

// Link is a parsed deeplink such as "app://inbox/42?ref=push".
type Link struct {
	Raw    string
	Scheme string
	Host   string
	Path   string
	Query  url.Values
}

// ParseLink parses raw into a Link. Surrounding whitespace is ignored.
func ParseLink(raw string) (Link, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Link{}, ErrEmptyLink
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Link{}, fmt.Errorf("screens: parse link %q: %w", raw, err)
	}
	if u.Scheme == "" {
		return Link{}, fmt.Errorf("%w: %q", ErrMissingScheme, raw)
	}
	return Link{
		Raw:    raw,
		Scheme: u.Scheme,
		Host:   u.Host,
		Path:   u.Path,
		Query:  u.Query(),
	}, nil
}

// Route returns host and path joined, without leading or trailing slashes.
// "app://inbox/42" routes to "inbox/42".
func (l Link) Route() string {
	return strings.Trim(l.Host+l.Path, "/")
}

func (l Link) String() string { return l.Raw }
