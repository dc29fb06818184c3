package entity

import (
	"time"

	"github.com/google/uuid"
)

// Contact represents an extracted business-card contact for data transfer
// between layers. Optional fields are nil when the heuristic found nothing,
// never an empty string.
type Contact struct {
	ID         uuid.UUID `json:"id"`
	Name       *string   `json:"name,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	Email      *string   `json:"email,omitempty"`
	SourcePath string    `json:"source_path,omitempty"`
	SourceHash string    `json:"source_hash,omitempty"`
	Confidence float32   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}

// GetName returns the matched full name, or "" when absent.
func (c *Contact) GetName() string {
	if c.Name == nil {
		return ""
	}
	return *c.Name
}

// GetPhoneNumber returns the phone number as a bare digit string, or "" when absent.
func (c *Contact) GetPhoneNumber() string {
	if c.Phone == nil {
		return ""
	}
	return *c.Phone
}

// GetEmailAddress returns the matched email address, or "" when absent.
func (c *Contact) GetEmailAddress() string {
	if c.Email == nil {
		return ""
	}
	return *c.Email
}
