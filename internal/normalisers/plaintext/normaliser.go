// Package plaintext unwraps markdown decoration from values headed
// into plain string fields. Coda's rich-value API returns cell text
// wrapped in code fences and markdown links; destination string
// fields want the bare text.
package plaintext

import (
	"regexp"
	"strings"
)

// markdownLink matches [text](target) and image form ![alt](target).
var markdownLink = regexp.MustCompile(`!?\[([^\]]*)\]\(([^)]+)\)`)

// Unwrap strips markdown wrapping from a cell value: surrounding code
// fences or backticks first, then markdown links collapsed to their
// display text.
func Unwrap(s string) string {
	s = StripCodeFence(s)
	s = CollapseLinks(s)
	return strings.TrimSpace(s)
}

// StripCodeFence removes surrounding triple or single backticks.
// A fence language tag on the opening line is dropped with the fence.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") && strings.HasSuffix(s, "```") && len(s) >= 6 {
		s = strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
		// Drop a language tag like "```text\n...".
		if idx := strings.IndexByte(s, '\n'); idx >= 0 {
			first := strings.TrimSpace(s[:idx])
			if first != "" && !strings.ContainsAny(first, " \t") && len(first) <= 16 {
				s = s[idx+1:]
			}
		}
		return strings.TrimSpace(s)
	}

	if strings.HasPrefix(s, "`") && strings.HasSuffix(s, "`") && len(s) >= 2 {
		return strings.TrimSpace(strings.Trim(s, "`"))
	}

	return s
}

// CollapseLinks replaces markdown links with their display text.
// A mailto link whose address (or the address's local part) equals
// the display text collapses to the bare email address instead, so
// "[x@y.com](mailto:x@y.com)" comes out as "x@y.com".
func CollapseLinks(s string) string {
	return markdownLink.ReplaceAllStringFunc(s, func(m string) string {
		sub := markdownLink.FindStringSubmatch(m)
		text, target := sub[1], sub[2]

		if addr, ok := strings.CutPrefix(target, "mailto:"); ok {
			// Drop any ?subject=... query from the address.
			if q := strings.IndexByte(addr, '?'); q >= 0 {
				addr = addr[:q]
			}
			local, _, _ := strings.Cut(addr, "@")
			if text == addr || text == local {
				return addr
			}
		}

		return text
	})
}
