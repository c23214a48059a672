package core

import (
	"fmt"
	"strings"
)

var (
	// ErrNoModsProvided is returned when a batch resolve is started with an
	// empty spec list.
	ErrNoModsProvided = fmt.Errorf("no mods provided to resolve")

	// ErrInvalidJobCount is returned when resource detection produces a
	// parallelism of zero. The pressure floor makes this unreachable in
	// practice.
	ErrInvalidJobCount = fmt.Errorf("computed parallel job count is zero")
)

// ResolutionFormatError reports a dependency spec field that could not be
// parsed into a known value.
type ResolutionFormatError struct {
	Key   string
	Field string
	Value string
}

func (e *ResolutionFormatError) Error() string {
	return fmt.Sprintf("mod %s: cannot parse %s %q", e.Key, e.Field, e.Value)
}

// RateLimitError reports that a platform kept responding with HTTP 429 until
// the retry budget ran out.
type RateLimitError struct {
	Platform Platform
	Attempts int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: rate limit exhausted after %d attempts, wait a minute and retry",
		e.Platform.FriendlyName(), e.Attempts)
}

// NoMatchError reports that no search candidate cleared the minimum match
// confidence on any searched platform.
type NoMatchError struct {
	Query     string
	Platforms []Platform
}

func (e *NoMatchError) Error() string {
	names := make([]string, len(e.Platforms))
	for i, p := range e.Platforms {
		names[i] = p.FriendlyName()
	}
	return fmt.Sprintf("no confident match for %q on %s", e.Query, strings.Join(names, " or "))
}

// CycleError reports a dependency cycle. Chain holds the participating node
// identifiers in traversal order, with the repeated node last.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return "dependency cycle detected: " + strings.Join(e.Chain, " -> ")
}
