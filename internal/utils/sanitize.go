package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips any markup from user-supplied display strings (thread
// titles, flag reasons, ban reasons). Bodies are opaque bytes and are never
// sanitized; interpretation is the renderer's problem.
func SanitizeText(s string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}
