// Package slug turns titles into URL slugs and resolves collisions.
package slug

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// MaxAttempts bounds the numeric suffixes tried by Resolve
const MaxAttempts = 1000

// ErrExhausted is returned when no free candidate exists within MaxAttempts
var ErrExhausted = errors.New("slug: no free candidate")

// Make lower-cases text, collapses every run of characters outside [a-z0-9]
// into a single hyphen and trims hyphens from both ends. The result may be
// empty; callers must treat an empty slug as invalid input.
func Make(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	pendingHyphen := false
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// TakenFunc reports whether a candidate slug is already persisted
type TakenFunc func(ctx context.Context, candidate string) (bool, error)

// Resolve returns base if it is free, otherwise the first free base-N with N
// tried in increasing order from 1.
func Resolve(ctx context.Context, base string, taken TakenFunc) (string, error) {
	if base == "" {
		return "", errors.New("slug: empty base")
	}

	candidate := base
	for n := 1; n <= MaxAttempts; n++ {
		exists, err := taken(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return "", fmt.Errorf("%w for %q after %d attempts", ErrExhausted, base, MaxAttempts)
}

// SuffixReserve is the room Resolve may need for a "-N" suffix
var SuffixReserve = len(fmt.Sprintf("-%d", MaxAttempts))

// Truncate cuts a slug made by Make to at most n bytes without leaving a
// trailing hyphen.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimRight(s[:n], "-")
}
