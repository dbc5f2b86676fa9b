package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"aula-ceip-api/models"
)

// Mailer is the outbound email transport. Delivery is at-most-once per
// call; the dispatcher performs no retries.
type Mailer interface {
	Send(to []string, subject, text, html string) error
}

// Directory resolves the lookups the dispatcher needs around a submission:
// who to address, and the assignment title shown in the message.
type Directory interface {
	FamilyEmails(familyID int) ([]string, error)
	FamilyUserIDs(familyID int) ([]int, error)
	UserEmail(userID int) (string, error)
	AssignmentTitle(assignmentID int) (string, error)
	SaveNotification(n *models.Notification) error
}

// ReviewState is the review-relevant slice of a submission. Comment is
// stored trimmed; "" means unset.
type ReviewState struct {
	Status  string
	Grade   *float64
	Comment string
}

// ReviewStateOf extracts the review state of a submission.
func ReviewStateOf(sub *models.Submission) ReviewState {
	return ReviewState{
		Status:  sub.Status,
		Grade:   sub.Grade,
		Comment: sub.TrimmedComment(),
	}
}

// ReviewDiff is the set of review fields whose value differs between a
// submission's pre- and post-mutation state.
type ReviewDiff struct {
	StatusChanged  bool
	GradeChanged   bool
	CommentChanged bool
	Before         ReviewState
	After          ReviewState
}

func (d ReviewDiff) Empty() bool {
	return !d.StatusChanged && !d.GradeChanged && !d.CommentChanged
}

// DiffReviewStates compares two review states. Grades count as unchanged
// when both are null; comments are compared trimmed, so empty and null are
// the same thing.
func DiffReviewStates(before, after ReviewState) ReviewDiff {
	d := ReviewDiff{Before: before, After: after}
	d.StatusChanged = before.Status != after.Status
	d.GradeChanged = !gradesEqual(before.Grade, after.Grade)
	d.CommentChanged = strings.TrimSpace(before.Comment) != strings.TrimSpace(after.Comment)
	return d
}

func gradesEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Dispatch outcomes.
const (
	NotifySent    = "sent"
	NotifySkipped = "skipped"
	NotifyFailed  = "failed"
)

// NotifyResult reports what the dispatcher did. Skipped is a valid no-op,
// not an error; Failed means the transport rejected the message after the
// submission update had already been persisted.
type NotifyResult struct {
	Outcome string `json:"outcome"`
	Reason  string `json:"reason,omitempty"`
}

// NotificationDispatcher composes and delivers a human-readable summary of
// a submission change to the owning family. Best-effort: a transport
// failure is logged and reported, never raised.
type NotificationDispatcher struct {
	dir     Directory
	mailer  Mailer
	baseURL string
}

func NewNotificationDispatcher(dir Directory, mailer Mailer, appBaseURL string) *NotificationDispatcher {
	return &NotificationDispatcher{dir: dir, mailer: mailer, baseURL: strings.TrimSpace(appBaseURL)}
}

// Notify delivers the diff summary for sub. An empty diff still produces a
// deterministic "(no highlighted changes)" message; callers are expected
// not to invoke the dispatcher in that case, but the contract stays total.
func (nd *NotificationDispatcher) Notify(sub *models.Submission, diff ReviewDiff) NotifyResult {
	to := nd.resolveRecipients(sub)
	if len(to) == 0 {
		return NotifyResult{Outcome: NotifySkipped, Reason: "no-recipient"}
	}

	title := ""
	if nd.dir != nil && sub.AssignmentID > 0 {
		t, err := nd.dir.AssignmentTitle(sub.AssignmentID)
		if err == nil {
			title = strings.TrimSpace(t)
		}
	}

	subject := "Submission update"
	if title != "" {
		subject += " — " + title
	}

	text, html, summary := nd.composeBody(title, diff)

	nd.saveInAppNotifications(sub, subject, summary)

	if err := nd.mailer.Send(to, subject, text, html); err != nil {
		log.Printf("[notify] send failed for submission %d: %v", sub.SubmissionID, err)
		return NotifyResult{Outcome: NotifyFailed, Reason: err.Error()}
	}
	return NotifyResult{Outcome: NotifySent}
}

// resolveRecipients walks the fallback chain: family record addresses,
// then the submitter account's email, then the contact address captured on
// the submission itself.
func (nd *NotificationDispatcher) resolveRecipients(sub *models.Submission) []string {
	seen := map[string]bool{}
	out := make([]string, 0, 2)
	add := func(addr string) {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			return
		}
		key := strings.ToLower(addr)
		if !seen[key] {
			seen[key] = true
			out = append(out, addr)
		}
	}

	if nd.dir != nil && sub.FamilyID != nil {
		if emails, err := nd.dir.FamilyEmails(*sub.FamilyID); err == nil {
			for _, e := range emails {
				add(e)
			}
		}
	}
	if len(out) == 0 && nd.dir != nil && sub.UserID != nil {
		if email, err := nd.dir.UserEmail(*sub.UserID); err == nil {
			add(email)
		}
	}
	if len(out) == 0 && sub.ContactEmail != nil {
		add(*sub.ContactEmail)
	}
	return out
}

func (nd *NotificationDispatcher) composeBody(title string, diff ReviewDiff) (text, html, summary string) {
	intro := "The submission has been updated."
	if title != "" {
		intro = fmt.Sprintf("The submission for %q has been updated.", title)
	}

	lines := []string{"Hello,", "", intro, ""}
	meta := make([]EmailMetaItem, 0, 3)
	highlights := make([]string, 0, 3)

	if diff.StatusChanged && diff.After.Status != "" {
		lines = append(lines, "Status: "+diff.After.Status)
		meta = append(meta, EmailMetaItem{Label: "Status", Value: diff.After.Status})
		highlights = append(highlights, "status: "+diff.After.Status)
	}
	if diff.GradeChanged {
		lines = append(lines, "Grade: "+FormatGrade(diff.After.Grade))
		meta = append(meta, EmailMetaItem{Label: "Grade", Value: FormatGrade(diff.After.Grade)})
		highlights = append(highlights, "grade: "+FormatGrade(diff.After.Grade))
	}
	if diff.CommentChanged {
		c := strings.TrimSpace(diff.After.Comment)
		if c == "" {
			c = "(no comment)"
		}
		lines = append(lines, "Teacher's comment:", c)
		meta = append(meta, EmailMetaItem{Label: "Teacher's comment", Value: c})
		highlights = append(highlights, "comment updated")
	}
	if len(meta) == 0 {
		lines = append(lines, "(no highlighted changes)")
		highlights = append(highlights, "(no highlighted changes)")
	}

	lines = append(lines, "", "You can check the details in the family portal.")
	if nd.baseURL != "" {
		lines = append(lines, nd.baseURL)
	}
	lines = append(lines, "", "— Aula CEIP")

	text = strings.Join(lines, "\n")
	html = BuildEmailHTML("Submission update", []string{"Hello,", intro}, meta, "Open family portal", nd.baseURL)
	summary = strings.Join(highlights, "; ")
	return text, html, summary
}

// saveInAppNotifications mirrors the email into the portal feed of every
// account of the owning family. Failures are logged and ignored.
func (nd *NotificationDispatcher) saveInAppNotifications(sub *models.Submission, title, summary string) {
	if nd.dir == nil || sub.FamilyID == nil {
		return
	}
	userIDs, err := nd.dir.FamilyUserIDs(*sub.FamilyID)
	if err != nil {
		log.Printf("[notify] family user lookup failed for submission %d: %v", sub.SubmissionID, err)
		return
	}
	subID := uint(sub.SubmissionID)
	for _, uid := range userIDs {
		n := &models.Notification{
			UserID:              uint(uid),
			Title:               title,
			Message:             summary,
			Type:                "info",
			RelatedSubmissionID: &subID,
			CreateAt:            time.Now(),
		}
		if err := nd.dir.SaveNotification(n); err != nil {
			log.Printf("[notify] in-app notification failed for user %d: %v", uid, err)
		}
	}
}

// FormatGrade renders a grade with one decimal, or a dash when unset.
func FormatGrade(g *float64) string {
	if g == nil {
		return "—"
	}
	return fmt.Sprintf("%.1f", *g)
}

// gormDirectory is the MySQL-backed Directory.
type gormDirectory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) Directory {
	return &gormDirectory{db: db}
}

func (d *gormDirectory) FamilyEmails(familyID int) ([]string, error) {
	var family models.Family
	err := d.db.Where("family_id = ? AND delete_at IS NULL", familyID).First(&family).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return family.Emails(), nil
}

func (d *gormDirectory) FamilyUserIDs(familyID int) ([]int, error) {
	var ids []int
	err := d.db.Model(&models.User{}).
		Where("family_id = ? AND delete_at IS NULL", familyID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (d *gormDirectory) UserEmail(userID int) (string, error) {
	var user models.User
	err := d.db.Select("user_id, email").
		Where("user_id = ? AND delete_at IS NULL", userID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return user.Email, nil
}

func (d *gormDirectory) AssignmentTitle(assignmentID int) (string, error) {
	var a models.Announcement
	err := d.db.Select("announcement_id, title").
		Where("announcement_id = ? AND delete_at IS NULL", assignmentID).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return a.Title, nil
}

func (d *gormDirectory) SaveNotification(n *models.Notification) error {
	return d.db.Create(n).Error
}
