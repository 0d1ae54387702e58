package entity

import "strings"

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ClientSummary struct {
	ID       int64        `json:"id"`
	Username string       `json:"username"`
	Role     Role         `json:"role"`
	Status   ClientStatus `json:"status"`
}

type ListClientsResponse struct {
	Clients []*ClientSummary `json:"clients"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
