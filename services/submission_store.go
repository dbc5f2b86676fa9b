package services

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"aula-ceip-api/models"
)

var linkPattern = regexp.MustCompile(`^https?://`)

// SubmissionDraft carries the fields a family (or the public form) provides
// when creating a submission. Review fields are never part of a draft.
type SubmissionDraft struct {
	AssignmentID   int
	StudentName    string
	StudentSurname string
	LinkURL        string
	FamilyID       *int
	UserID         *int
	ContactEmail   *string
	Origin         string
}

// ValidateDraft checks required fields and the link format. It returns an
// InvalidInputError naming every offending field, or nil.
func ValidateDraft(d SubmissionDraft) error {
	fields := make([]string, 0, 4)
	if d.AssignmentID <= 0 {
		fields = append(fields, "assignmentId")
	}
	if strings.TrimSpace(d.StudentName) == "" {
		fields = append(fields, "submitterName")
	}
	if strings.TrimSpace(d.StudentSurname) == "" {
		fields = append(fields, "submitterSurname")
	}
	if !linkPattern.MatchString(strings.TrimSpace(d.LinkURL)) {
		fields = append(fields, "link")
	}
	if len(fields) > 0 {
		return newInvalidInput(fields...)
	}
	return nil
}

// SubmissionStore is durable CRUD for submissions. It performs no side
// effects beyond persistence; notification is the Review Workflow's job.
type SubmissionStore interface {
	Create(draft SubmissionDraft) (*models.Submission, error)
	Get(id int) (*models.Submission, error)
	Update(id int, updates map[string]interface{}) error
	ListByFamily(familyID int) ([]models.Submission, error)
	ListAll() ([]models.Submission, error)
}

type gormSubmissionStore struct {
	db *gorm.DB
}

// NewSubmissionStore returns the MySQL-backed store.
func NewSubmissionStore(db *gorm.DB) SubmissionStore {
	return &gormSubmissionStore{db: db}
}

func (s *gormSubmissionStore) Create(draft SubmissionDraft) (*models.Submission, error) {
	if err := ValidateDraft(draft); err != nil {
		return nil, err
	}

	origin := draft.Origin
	if origin != models.OriginAuth {
		origin = models.OriginPublic
	}

	now := time.Now()
	sub := models.Submission{
		SubmissionNumber: generateSubmissionNumber(now),
		AssignmentID:     draft.AssignmentID,
		StudentName:      strings.TrimSpace(draft.StudentName),
		StudentSurname:   strings.TrimSpace(draft.StudentSurname),
		LinkURL:          strings.TrimSpace(draft.LinkURL),
		FamilyID:         draft.FamilyID,
		UserID:           draft.UserID,
		ContactEmail:     draft.ContactEmail,
		Status:           models.StatusPending,
		Origin:           origin,
		CreateAt:         now,
	}

	if err := s.db.Create(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *gormSubmissionStore) Get(id int) (*models.Submission, error) {
	var sub models.Submission
	err := s.db.Where("submission_id = ? AND delete_at IS NULL", id).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (s *gormSubmissionStore) Update(id int, updates map[string]interface{}) error {
	res := s.db.Model(&models.Submission{}).
		Where("submission_id = ? AND delete_at IS NULL", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormSubmissionStore) ListByFamily(familyID int) ([]models.Submission, error) {
	var subs []models.Submission
	err := s.db.Where("family_id = ? AND delete_at IS NULL", familyID).
		Order("create_at DESC").
		Find(&subs).Error
	return subs, err
}

func (s *gormSubmissionStore) ListAll() ([]models.Submission, error) {
	var subs []models.Submission
	err := s.db.Where("delete_at IS NULL").
		Order("create_at DESC").
		Find(&subs).Error
	return subs, err
}

// generateSubmissionNumber builds the opaque reference shown to families,
// e.g. "ENT-2026-1a2b3c4d".
func generateSubmissionNumber(now time.Time) string {
	short := strings.Split(uuid.NewString(), "-")[0]
	return "ENT-" + now.Format("2006") + "-" + short
}
