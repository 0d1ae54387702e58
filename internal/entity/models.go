package entity

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Validate() error {
	switch r {
	case RoleAdmin, RoleUser:
		return nil
	default:
		return fmt.Errorf("unknown role: %s", r)
	}
}

type ClientStatus string

// Client status drives the admin approval workflow: a newly registered
// client stays pending until an admin approves or rejects it.
const (
	ClientStatusPending  ClientStatus = "pending"
	ClientStatusApproved ClientStatus = "approved"
	ClientStatusRejected ClientStatus = "rejected"
)

// Client is a tenant: a business account owning its own FAQ corpus and chat history.
type Client struct {
	ID           int64        `json:"id"`
	Username     string       `json:"username"`
	PasswordHash string       `json:"-"`
	Role         Role         `json:"role"`
	Status       ClientStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
}

func (c *Client) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// FAQ is a single question/answer pair owned by a client.
// Question text is unique per client (exact, case-sensitive match).
type FAQ struct {
	ID        int64     `json:"id"`
	ClientID  int64     `json:"client_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Category  *string   `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QAPair is the slice of an FAQ the matcher needs.
type QAPair struct {
	Question string
	Answer   string
}

// ChatHistory is one chat turn, written once and never updated.
type ChatHistory struct {
	ID          int64     `json:"id"`
	ClientID    int64     `json:"client_id"`
	SessionID   string    `json:"session_id"`
	UserMessage string    `json:"user_message"`
	BotResponse string    `json:"bot_response"`
	Matched     bool      `json:"matched"`
	CreatedAt   time.Time `json:"timestamp"`
}

// MessageCount is a chat message together with how often it was asked.
type MessageCount struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// DailyCount is the number of chat turns on a single day.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Analytics summarizes a client's chat activity.
type Analytics struct {
	TotalChats      int            `json:"total_chats"`
	UnansweredChats int            `json:"unanswered_chats"`
	AnsweredRate    float64        `json:"answered_rate"`
	TotalFAQs       int            `json:"total_faqs"`
	MostAsked       []MessageCount `json:"most_asked"`
	TopUnanswered   []MessageCount `json:"top_unanswered"`
	Activity        []DailyCount   `json:"chat_activity"`
}

type ExportFormat string

const (
	FormatCSV      ExportFormat = "csv"
	FormatMarkdown ExportFormat = "md"
	FormatPDF      ExportFormat = "pdf"
	FormatDOCX     ExportFormat = "docx"
)

func (f ExportFormat) Validate() error {
	switch f {
	case FormatCSV, FormatMarkdown, FormatPDF, FormatDOCX:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}
