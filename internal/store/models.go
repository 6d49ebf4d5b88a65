package store

import "time"

// Sender roles stored with each message.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message content kinds. KindBlob is reserved; the chat flow writes text only.
const (
	KindText = "text"
	KindBlob = "blob"
)

// Message is a single stored chat message.
type Message struct {
	ID         int64
	SessionID  int64
	SenderType string
	Kind       string
	Content    string
	Blob       []byte
	CreatedAt  time.Time
}

// Turn is the reduced (role, content) form handed to the LLM backend.
type Turn struct {
	Role    string
	Content string
}
