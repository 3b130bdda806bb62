package contract

type AgentType string

const (
	AgentTypeOrchestrator AgentType = "orchestrator"
	AgentTypeCRM          AgentType = "crm"
	AgentTypeMail         AgentType = "mail"
	AgentTypeChat         AgentType = "chat"
	AgentTypeCalendar     AgentType = "calendar"
	AgentTypeResearch     AgentType = "research"
	AgentTypeUI           AgentType = "ui"
)

type Channel string

const (
	ChannelWeb Channel = "web"
	ChannelAPI Channel = "api"
)

// Request is one inbound orchestration call. Immutable once built.
type Request struct {
	Text    string  `json:"text"`
	Channel Channel `json:"channel,omitempty"`
}

// UIPayload is one of the fixed structured response shapes. A reply carries
// either a payload or prose, never both.
type UIPayload struct {
	Role    string         `json:"role"`
	Content map[string]any `json:"content"`
}

type AgentReply struct {
	Message string     `json:"message,omitempty"`
	Payload *UIPayload `json:"payload,omitempty"`
}

// IsStructured reports whether the reply is a typed payload rather than prose.
func (r AgentReply) IsStructured() bool {
	return r.Payload != nil
}

type ToolRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

type ToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// FailureRecord is the uniform shape a failure takes when it is recovered
// at an agent boundary instead of propagating raw.
type FailureRecord struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	ErrorKind string `json:"error_kind"`
	Agent     string `json:"agent"`
}

func NewFailureRecord(agent AgentType, kind string, err error) FailureRecord {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return FailureRecord{
		Success:   false,
		Error:     msg,
		ErrorKind: kind,
		Agent:     string(agent),
	}
}
