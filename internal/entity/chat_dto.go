package entity

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

type ChatRequest struct {
	ClientID  int64  `json:"client_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

type ListHistoryRequest struct {
	Skip  int
	Limit int
}

func (r *ListHistoryRequest) Normalize() {
	if r.Skip < 0 {
		r.Skip = 0
	}
	if r.Limit <= 0 {
		r.Limit = defaultHistoryLimit
	}
	r.Limit = min(r.Limit, maxHistoryLimit)
}

type HistoryPage struct {
	Chats []*ChatHistory `json:"chats"`
	Total int            `json:"total"`
}

type ClearHistoryResponse struct {
	Deleted int64 `json:"deleted"`
}
