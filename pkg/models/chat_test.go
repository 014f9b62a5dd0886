package models

import "testing"

func TestLastUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		messages []Message
		want     string
	}{
		{"empty history", nil, ""},
		{"single user turn", []Message{{Role: RoleUser, Content: "hi"}}, "hi"},
		{
			"latest user turn wins",
			[]Message{
				{Role: RoleUser, Content: "first"},
				{Role: RoleAssistant, Content: "reply"},
				{Role: RoleUser, Content: "second"},
			},
			"second",
		},
		{
			"skips trailing assistant turn",
			[]Message{
				{Role: RoleUser, Content: "question"},
				{Role: RoleAssistant, Content: "answer"},
			},
			"question",
		},
		{"no user turns", []Message{{Role: RoleSystem, Content: "sys"}, {Role: RoleAssistant, Content: "a"}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LastUserMessage(tt.messages); got != tt.want {
				t.Errorf("LastUserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
