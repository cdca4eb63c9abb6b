package session

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// RouteFilter decides which request paths bypass the session pipeline.
//
// Patterns use chi routing syntax with shell-like wildcards on top:
// a trailing "*" matches the rest of the path, a "*" segment in the middle
// matches exactly one segment, and a "*" inside a segment matches any run of
// characters within that segment. "{param}" placeholders work as in chi.
type RouteFilter struct {
	mux      *chi.Mux
	patterns []string
}

// NewRouteFilter compiles the skip patterns. An empty set never matches.
func NewRouteFilter(patterns ...string) (*RouteFilter, error) {
	f := &RouteFilter{mux: chi.NewMux()}
	noop := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	for _, p := range patterns {
		if p == "" {
			continue
		}
		route, err := translatePattern(p)
		if err != nil {
			return nil, err
		}
		if err := register(f.mux, route, noop); err != nil {
			return nil, errors.Join(ErrInvalidPattern, fmt.Errorf("%q: %w", p, err))
		}
		f.patterns = append(f.patterns, p)
	}
	return f, nil
}

// Match reports whether path matches any configured pattern.
func (f *RouteFilter) Match(path string) bool {
	if f == nil || len(f.patterns) == 0 {
		return false
	}
	return f.mux.Match(chi.NewRouteContext(), http.MethodGet, path)
}

// Patterns returns the configured patterns.
func (f *RouteFilter) Patterns() []string {
	if f == nil {
		return nil
	}
	return append([]string(nil), f.patterns...)
}

// register adds a route, turning chi's registration panics into errors.
func register(mux *chi.Mux, route string, h http.Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	mux.Handle(route, h)
	return nil
}

// translatePattern rewrites wildcards chi cannot take verbatim into named
// parameters.
func translatePattern(p string) (string, error) {
	if !strings.HasPrefix(p, "/") {
		return "", errors.Join(ErrInvalidPattern, fmt.Errorf("%q: pattern must begin with '/'", p))
	}

	segments := strings.Split(p, "/")
	last := len(segments) - 1
	n := 0
	for i, seg := range segments {
		if !strings.Contains(seg, "*") {
			continue
		}
		// chi handles a single trailing "*" as a catch-all
		if i == last && strings.Count(seg, "*") == 1 && strings.HasSuffix(seg, "*") {
			continue
		}
		if seg == "*" {
			segments[i] = "{w" + strconv.Itoa(n) + "}"
			n++
			continue
		}
		parts := strings.Split(seg, "*")
		for j := range parts {
			parts[j] = regexp.QuoteMeta(parts[j])
		}
		expr := strings.Join(parts, "[^/]*")
		if strings.ContainsAny(expr, "{}") {
			return "", errors.Join(ErrInvalidPattern, fmt.Errorf("%q: braces cannot be mixed with wildcards", p))
		}
		segments[i] = "{w" + strconv.Itoa(n) + ":" + expr + "}"
		n++
	}
	return strings.Join(segments, "/"), nil
}
