package models

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is a single turn in a conversation. The client owns the full
// history and sends it whole on every request; the server keeps no
// per-conversation state between requests.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /api/v1/chat.
type ChatRequest struct {
	Messages []Message `json:"messages"`
}

// ChatResponse carries the generated reply. Failures reuse the same shape
// with the reply prefixed "Error:" so the UI renders them inline.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// LastUserMessage returns the content of the most recent user turn,
// or "" when the history contains none.
func LastUserMessage(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i].Content
		}
	}
	return ""
}
