package models

import (
	"strings"
	"time"
)

// Canonical submission statuses. The set is flat: any status may be
// re-tagged to any other, pending is only the creation default.
const (
	StatusPending  = "pending"
	StatusReviewed = "reviewed"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Submission origins.
const (
	OriginAuth   = "auth"   // created by an authenticated family account
	OriginPublic = "public" // created through the anonymous public form
)

// Submission represents the submissions table: a family's answer to an
// assignment, pointing at externally hosted material.
type Submission struct {
	SubmissionID     int    `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	SubmissionNumber string `gorm:"column:submission_number;unique" json:"submission_number"`
	AssignmentID     int    `gorm:"column:assignment_id" json:"assignment_id"`

	StudentName    string `gorm:"column:student_name" json:"student_name"`
	StudentSurname string `gorm:"column:student_surname" json:"student_surname"`
	LinkURL        string `gorm:"column:link_url" json:"link_url"`

	FamilyID     *int    `gorm:"column:family_id" json:"family_id,omitempty"`
	UserID       *int    `gorm:"column:user_id" json:"user_id,omitempty"`
	ContactEmail *string `gorm:"column:contact_email" json:"contact_email,omitempty"`

	Status  string   `gorm:"column:status;type:enum('pending','reviewed','approved','rejected');default:'pending'" json:"status"`
	Grade   *float64 `gorm:"column:grade" json:"grade,omitempty"`
	Comment *string  `gorm:"column:comment" json:"comment,omitempty"`

	Origin string `gorm:"column:origin;type:enum('auth','public');default:'public'" json:"origin"`

	CreateAt time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}

// IsValidStatus reports whether s is one of the canonical statuses.
func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusReviewed, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// legacyStatusLabels maps the Spanish labels used by the first portal
// iterations onto the canonical set. Both "rechazada" and "suspendida"
// appeared as the fourth label at different times; they collapse to
// rejected. Normalization happens once, at the store boundary.
var legacyStatusLabels = map[string]string{
	"pendiente":  StatusPending,
	"enviada":    StatusPending,
	"revisada":   StatusReviewed,
	"aprobada":   StatusApproved,
	"rechazada":  StatusRejected,
	"suspendida": StatusRejected,
}

// NormalizeStatus maps a raw status value (canonical or legacy) to the
// canonical set. Returns "" if the value is not recognized.
func NormalizeStatus(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if IsValidStatus(s) {
		return s
	}
	if mapped, ok := legacyStatusLabels[s]; ok {
		return mapped
	}
	return ""
}

// TrimmedComment returns the reviewer comment with surrounding whitespace
// removed, or "" when unset. Empty-after-trim and null are equivalent.
func (s *Submission) TrimmedComment() string {
	if s.Comment == nil {
		return ""
	}
	return strings.TrimSpace(*s.Comment)
}
