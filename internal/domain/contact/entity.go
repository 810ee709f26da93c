package contact

import (
	"time"

	"diezagency/internal/funnel"
	"diezagency/internal/locale"
)

// Status tracks how far the agency got with a lead.
type Status string

const (
	StatusNew     Status = "new"
	StatusRead    Status = "read"
	StatusReplied Status = "replied"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusRead, StatusReplied:
		return true
	}
	return false
}

// Contact is a lead written by the contact funnel.
type Contact struct {
	ID           int64           `gorm:"primaryKey" json:"id"`
	SubmissionID string          `gorm:"size:64;not null;uniqueIndex" json:"submission_id"`
	FirstName    string          `gorm:"size:120;not null" json:"first_name"`
	Need         funnel.Need     `gorm:"size:32;not null" json:"need"`
	Description  string          `gorm:"type:text;not null" json:"description"`
	Budget       funnel.Budget   `gorm:"size:32;not null" json:"budget"`
	Timeline     funnel.Timeline `gorm:"size:32;not null" json:"timeline"`
	Email        string          `gorm:"size:254;not null;index" json:"email"`
	Phone        string          `gorm:"size:40" json:"phone,omitempty"`
	Lang         locale.Locale   `gorm:"size:5;not null" json:"lang"`
	Status       Status          `gorm:"size:16;not null;default:'new';index" json:"status"`
	IPAddress    string          `gorm:"size:64" json:"-"`
	UserAgent    string          `gorm:"size:512" json:"-"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (Contact) TableName() string { return "contacts" }

// IsNew returns true if nobody opened the lead yet.
func (c *Contact) IsNew() bool {
	return c.Status == StatusNew
}
