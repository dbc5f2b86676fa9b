package models

import "time"

// Family represents the families table. One record per household; the
// portal account(s) of the household reference it through users.family_id.
type Family struct {
	FamilyID     int        `gorm:"primaryKey;column:family_id" json:"family_id"`
	Email        string     `gorm:"column:email" json:"email"`
	SecondEmail  *string    `gorm:"column:second_email" json:"second_email,omitempty"`
	GuardianName *string    `gorm:"column:guardian_name" json:"guardian_name,omitempty"`
	StudentName  *string    `gorm:"column:student_name" json:"student_name,omitempty"`
	Classroom    string     `gorm:"column:classroom" json:"classroom"`
	TutorName    string     `gorm:"column:tutor_name" json:"tutor_name"`
	Active       bool       `gorm:"column:active;default:1" json:"active"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (Family) TableName() string {
	return "families"
}

// Emails returns the non-empty contact addresses of the family.
func (f *Family) Emails() []string {
	out := make([]string, 0, 2)
	if f.Email != "" {
		out = append(out, f.Email)
	}
	if f.SecondEmail != nil && *f.SecondEmail != "" {
		out = append(out, *f.SecondEmail)
	}
	return out
}
