// Package sanitize cleans the raw HTML descriptions that come back from the
// catalog API before they are rendered anywhere.
package sanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	ugcPolicy  *bluemonday.Policy
	textPolicy *bluemonday.Policy
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	policyOnce.Do(func() {
		ugcPolicy = bluemonday.UGCPolicy()
		textPolicy = bluemonday.StrictPolicy()
	})
	return ugcPolicy, textPolicy
}

// HTML keeps user-generated-content markup and strips everything dangerous.
func HTML(raw string) string {
	ugc, _ := policies()
	return ugc.Sanitize(raw)
}

// Text strips all markup, leaving plain text suitable for terminal output.
func Text(raw string) string {
	_, strict := policies()
	return strings.TrimSpace(strict.Sanitize(raw))
}
