package model

import "time"

type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusClosed     TicketStatus = "closed"
)

// Valid reports whether s is one of the known ticket statuses.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed:
		return true
	}
	return false
}

// Ticket: одно обращение клиента. OperatorID пуст, пока тикет в статусе open.
type Ticket struct {
	ID           uint64       `gorm:"primaryKey" json:"id"`
	TenantID     int64        `gorm:"index;not null" json:"tenant_id"`
	CustomerID   string       `gorm:"type:varchar(64);index;not null" json:"customer_id"`
	OperatorID   string       `gorm:"type:varchar(64);index" json:"operator_id,omitempty"`
	QuestionText string       `gorm:"type:text;not null" json:"question_text"`
	Status       TicketStatus `gorm:"type:varchar(32);index;not null" json:"status"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

// Operator: зарегистрированный оператор поддержки. Записи не удаляются, только деактивируются.
type Operator struct {
	ID         uint64 `gorm:"primaryKey" json:"id"`
	TenantID   int64  `gorm:"index;not null" json:"tenant_id"`
	ExternalID string `gorm:"type:varchar(64);uniqueIndex;not null" json:"external_id"`
	FullName   string `gorm:"type:varchar(128)" json:"full_name"`
	IsActive   bool   `gorm:"index;not null;default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SessionState string

const (
	SessionStateNone               SessionState = "none"
	SessionStateBrowsingFaq        SessionState = "browsing_faq"
	SessionStateAwaitingTicketText SessionState = "awaiting_ticket_text"
)

// UserSession is the transient conversational state of a customer without an active ticket.
type UserSession struct {
	CustomerID string       `gorm:"type:varchar(64);primaryKey" json:"customer_id"`
	TenantID   int64        `gorm:"index;not null" json:"tenant_id"`
	State      SessionState `gorm:"type:varchar(50);not null" json:"state"`
	Payload    string       `gorm:"type:text" json:"payload,omitempty"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

type FAQEntry struct {
	ID       uint64 `gorm:"primaryKey" json:"id"`
	TenantID int64  `gorm:"index;not null" json:"tenant_id"`
	Question string `gorm:"type:varchar(255);not null" json:"question"`
	Answer   string `gorm:"type:text;not null" json:"answer"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (FAQEntry) TableName() string { return "faq_entries" }

// OperatorBinding: текущий тикет оператора, в который уходят его сообщения.
type OperatorBinding struct {
	OperatorID string    `gorm:"type:varchar(64);primaryKey" json:"operator_id"`
	TenantID   int64     `gorm:"primaryKey" json:"tenant_id"`
	TicketID   uint64    `gorm:"not null" json:"ticket_id"`
	UpdatedAt  time.Time `json:"updated_at"`
}
