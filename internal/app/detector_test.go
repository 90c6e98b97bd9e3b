package app

import (
	"testing"
	"time"

	"curator_monitor_bot/internal/domain/event"
)

func TestNeedsCuratorResponse(t *testing.T) {
	keywords := []string{"куратор", "помогите", "help"}

	cases := []struct {
		name         string
		text         string
		roleMentions []string
		roleID       string
		want         bool
	}{
		{
			name:         "role mention in mentions list",
			text:         "нужна проверка",
			roleMentions: []string{"@curators"},
			roleID:       "@curators",
			want:         true,
		},
		{
			name:   "role mention inlined in text",
			text:   "привет <@&555000111> гляньте пожалуйста",
			roleID: "555000111",
			want:   true,
		},
		{
			name:   "keyword match cyrillic",
			text:   "Помогите разобраться с заданием",
			roleID: "@curators",
			want:   true,
		},
		{
			name:   "keyword match latin case insensitive",
			text:   "I need HELP with this",
			roleID: "@curators",
			want:   true,
		},
		{
			name:         "different role mentioned",
			text:         "hello",
			roleMentions: []string{"@moderators"},
			roleID:       "@curators",
			want:         false,
		},
		{
			name:   "plain message",
			text:   "добрый день всем",
			roleID: "@curators",
			want:   false,
		},
		{
			name: "no role configured keyword still matches",
			text: "куратор, проверь",
			want: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := &event.Message{
				Text:         tc.text,
				RoleMentions: tc.roleMentions,
				SentAt:       time.Now(),
			}
			got := NeedsCuratorResponse(m, tc.roleID, keywords)
			if got != tc.want {
				t.Errorf("NeedsCuratorResponse(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}
