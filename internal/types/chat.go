package types

// ChatRole distinguishes who produced a chat message.
type ChatRole string

// Chat roles.
const (
	RoleUser  ChatRole = "user"
	RoleModel ChatRole = "model"
)

// ChatMessage is one turn in a session-scoped conversation log. Messages
// are append-only, ordered by arrival, and not persisted across restarts.
type ChatMessage struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}
