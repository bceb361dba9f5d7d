package domain

// Role names the author of a turn in a model session.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one exchange entry held by a model session.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// ModelSession is the conversational context sent to the model on every message.
// It is created by a ModelClient and owned by the caller; the client keeps no reference to it.
// A ModelSession must not be used by two sends at once.
type ModelSession struct {
	SystemInstruction string         `json:"system_instruction"`
	Options           SessionOptions `json:"options"`
	History           []Turn         `json:"history"`
}

// Append records a completed exchange.
func (s *ModelSession) Append(user, model string) {
	s.History = append(s.History,
		Turn{Role: RoleUser, Text: user},
		Turn{Role: RoleModel, Text: model},
	)
}

// Clone returns a copy with its own history.
func (s *ModelSession) Clone() *ModelSession {
	if s == nil {
		return nil
	}
	out := *s
	out.History = append([]Turn(nil), s.History...)
	return &out
}
