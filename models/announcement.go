// models/announcement.go
package models

import "time"

// Announcement types. A "tarea" is an assignment families can answer with a
// submission; an "aviso" is a plain notice.
const (
	AnnouncementTypeNotice     = "aviso"
	AnnouncementTypeAssignment = "tarea"
)

// Announcement represents the announcements table
type Announcement struct {
	AnnouncementID int     `gorm:"primaryKey;column:announcement_id" json:"announcement_id"`
	Title          string  `gorm:"column:title" json:"title"`
	Body           string  `gorm:"column:body" json:"body"`
	SubjectID      *int    `gorm:"column:subject_id" json:"subject_id,omitempty"`

	AnnouncementType string `gorm:"column:announcement_type;type:enum('aviso','tarea');default:'aviso'" json:"announcement_type"`

	Published bool       `gorm:"column:published;default:1" json:"published"`
	DueDate   *time.Time `gorm:"column:due_date" json:"due_date,omitempty"`

	CreatedBy int        `gorm:"column:created_by" json:"created_by"`
	CreateAt  time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt  time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt  *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Creator User     `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Subject *Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
}

func (Announcement) TableName() string {
	return "announcements"
}

func (a *Announcement) IsAssignment() bool {
	return a.AnnouncementType == AnnouncementTypeAssignment
}

// Subject represents the subjects table (used to tag announcements).
type Subject struct {
	SubjectID int        `gorm:"primaryKey;column:subject_id" json:"subject_id"`
	Name      string     `gorm:"column:name" json:"name"`
	Color     *string    `gorm:"column:color" json:"color,omitempty"`
	CreateAt  *time.Time `gorm:"column:create_at" json:"create_at"`
	DeleteAt  *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (Subject) TableName() string {
	return "subjects"
}
