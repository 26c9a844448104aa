// Package ids canonicalizes object identifiers. Raw ids arrive with kind
// prefixes ("T-deploy-hook"), mixed case, and loose separators; every lookup
// and graph edge works on the normalized form.
package ids

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/trellisdev/trellis/internal/types"
)

// kindPrefixes maps each kind to its single-letter file prefix.
var kindPrefixes = map[types.Kind]string{
	types.KindProject: "P-",
	types.KindEpic:    "E-",
	types.KindFeature: "F-",
	types.KindTask:    "T-",
}

var (
	// separatorRegex matches runs of whitespace and underscores.
	separatorRegex = regexp.MustCompile(`[\s_]+`)

	// disallowedRegex matches anything outside the id charset. Stripped
	// without inserting a replacement hyphen.
	disallowedRegex = regexp.MustCompile(`[^a-z0-9-]+`)

	// multiHyphenRegex collapses hyphen runs left behind by stripping.
	multiHyphenRegex = regexp.MustCompile(`-{2,}`)
)

// Prefix returns the kind's file prefix ("T-" for tasks).
func Prefix(kind types.Kind) string {
	return kindPrefixes[kind]
}

// Display re-attaches the kind prefix to a normalized id for user output.
func Display(id string, kind types.Kind) string {
	return kindPrefixes[kind] + id
}

// Normalize canonicalizes a raw identifier for the given kind:
// trim, strip the kind prefix (repeatedly, so "T-T-x" becomes "x"),
// lowercase, squash whitespace/underscores to hyphens, drop disallowed
// characters, collapse hyphen runs, and trim edge hyphens. Empty or
// all-separator input normalizes to the empty string.
func Normalize(raw string, kind types.Kind) (string, error) {
	if !kind.IsValid() {
		return "", fmt.Errorf("%w: %q", types.ErrInvalidKind, string(kind))
	}

	id := strings.TrimSpace(raw)

	prefix := kindPrefixes[kind]
	for len(id) >= len(prefix) && strings.EqualFold(id[:len(prefix)], prefix) {
		id = id[len(prefix):]
	}

	id = strings.ToLower(id)
	id = separatorRegex.ReplaceAllString(id, "-")
	id = disallowedRegex.ReplaceAllString(id, "")
	id = multiHyphenRegex.ReplaceAllString(id, "-")
	id = strings.Trim(id, "-")

	return id, nil
}

// KindOf reports the object kind a prefixed reference names. References
// without a recognized prefix are treated as tasks.
func KindOf(raw string) types.Kind {
	id := strings.TrimSpace(raw)
	for kind, prefix := range kindPrefixes {
		if len(id) >= len(prefix) && strings.EqualFold(id[:len(prefix)], prefix) {
			return kind
		}
	}
	return types.KindTask
}

// StripAnyPrefix removes a leading kind prefix of any kind, if present.
// Prerequisite references may name any object kind, so edge construction
// strips whichever prefix it finds.
func StripAnyPrefix(raw string) string {
	id := strings.TrimSpace(raw)
	for {
		stripped := false
		for _, prefix := range kindPrefixes {
			if len(id) >= len(prefix) && strings.EqualFold(id[:len(prefix)], prefix) {
				id = id[len(prefix):]
				stripped = true
			}
		}
		if !stripped {
			return id
		}
	}
}

// NormalizeRef canonicalizes a prerequisite reference without knowing its
// kind. Same pipeline as Normalize after the any-prefix strip.
func NormalizeRef(raw string) string {
	id := strings.ToLower(StripAnyPrefix(raw))
	id = separatorRegex.ReplaceAllString(id, "-")
	id = disallowedRegex.ReplaceAllString(id, "")
	id = multiHyphenRegex.ReplaceAllString(id, "-")
	return strings.Trim(id, "-")
}
