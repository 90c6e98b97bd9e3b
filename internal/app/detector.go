package app

import (
	"strings"

	"curator_monitor_bot/internal/domain/event"
)

// NeedsCuratorResponse decides whether an inbound message requires a curator
// response: it does when the community's curator role is mentioned or when the
// text contains any configured keyword (case-insensitive substring match).
// Pure function of the message and the community configuration.
func NeedsCuratorResponse(m *event.Message, curatorRoleID string, keywords []string) bool {
	if curatorRoleID != "" {
		for _, roleID := range m.RoleMentions {
			if roleID == curatorRoleID {
				return true
			}
		}
		// Platforms that inline role mentions into the text body.
		if strings.Contains(m.Text, "<@&"+curatorRoleID+">") {
			return true
		}
	}

	lower := strings.ToLower(m.Text)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
