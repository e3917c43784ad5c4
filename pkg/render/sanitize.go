package render

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugcPolicyOnce sync.Once
	ugcPolicy     *bluemonday.Policy
)

// sanitizeUserMarkup cleans requester-supplied rich text (descriptions,
// comments) before it reaches a raw field slot.
func sanitizeUserMarkup(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(userPolicy().Sanitize(trimmed))
}

func userPolicy() *bluemonday.Policy {
	ugcPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.RequireNoFollowOnLinks(true)
		policy.AllowAttrs("class").OnElements("span", "div", "a")
		ugcPolicy = policy
	})
	return ugcPolicy
}
