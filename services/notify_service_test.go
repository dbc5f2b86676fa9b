package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aula-ceip-api/models"
)

type fakeDirectory struct {
	familyEmails map[int][]string
	familyUsers  map[int][]int
	userEmails   map[int]string
	titles       map[int]string
	saved        []*models.Notification
	saveErr      error
}

func (f *fakeDirectory) FamilyEmails(familyID int) ([]string, error) {
	return f.familyEmails[familyID], nil
}

func (f *fakeDirectory) FamilyUserIDs(familyID int) ([]int, error) {
	return f.familyUsers[familyID], nil
}

func (f *fakeDirectory) UserEmail(userID int) (string, error) {
	return f.userEmails[userID], nil
}

func (f *fakeDirectory) AssignmentTitle(assignmentID int) (string, error) {
	return f.titles[assignmentID], nil
}

func (f *fakeDirectory) SaveNotification(n *models.Notification) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, n)
	return nil
}

type fakeMailer struct {
	to      [][]string
	subject []string
	text    []string
	html    []string
	err     error
}

func (f *fakeMailer) Send(to []string, subject, text, html string) error {
	if f.err != nil {
		return f.err
	}
	f.to = append(f.to, to)
	f.subject = append(f.subject, subject)
	f.text = append(f.text, text)
	f.html = append(f.html, html)
	return nil
}

func intPtr(i int) *int { return &i }

func reviewedSubmission() *models.Submission {
	return &models.Submission{
		SubmissionID: 5,
		AssignmentID: 7,
		FamilyID:     intPtr(3),
	}
}

func statusDiff(from, to string) ReviewDiff {
	return DiffReviewStates(ReviewState{Status: from}, ReviewState{Status: to})
}

func TestNotifySkippedWithoutRecipients(t *testing.T) {
	dir := &fakeDirectory{}
	mailer := &fakeMailer{}
	nd := NewNotificationDispatcher(dir, mailer, "")

	sub := &models.Submission{SubmissionID: 5, AssignmentID: 7}
	result := nd.Notify(sub, statusDiff(models.StatusPending, models.StatusApproved))

	assert.Equal(t, NotifySkipped, result.Outcome)
	assert.Equal(t, "no-recipient", result.Reason)
	assert.Empty(t, mailer.to)
}

func TestNotifyRecipientChainAndDedupe(t *testing.T) {
	dir := &fakeDirectory{
		familyEmails: map[int][]string{3: {"madre@example.com", "MADRE@example.com", "padre@example.com"}},
	}
	mailer := &fakeMailer{}
	nd := NewNotificationDispatcher(dir, mailer, "")

	result := nd.Notify(reviewedSubmission(), statusDiff(models.StatusPending, models.StatusApproved))

	assert.Equal(t, NotifySent, result.Outcome)
	require.Len(t, mailer.to, 1)
	assert.Equal(t, []string{"madre@example.com", "padre@example.com"}, mailer.to[0])
}

func TestNotifyFallsBackToSubmitterThenContact(t *testing.T) {
	dir := &fakeDirectory{userEmails: map[int]string{9: "cuenta@example.com"}}
	mailer := &fakeMailer{}
	nd := NewNotificationDispatcher(dir, mailer, "")

	sub := &models.Submission{SubmissionID: 5, AssignmentID: 7, UserID: intPtr(9)}
	nd.Notify(sub, statusDiff(models.StatusPending, models.StatusReviewed))

	require.Len(t, mailer.to, 1)
	assert.Equal(t, []string{"cuenta@example.com"}, mailer.to[0])

	contact := "anon@example.com"
	sub = &models.Submission{SubmissionID: 6, AssignmentID: 7, ContactEmail: &contact}
	nd.Notify(sub, statusDiff(models.StatusPending, models.StatusReviewed))

	require.Len(t, mailer.to, 2)
	assert.Equal(t, []string{"anon@example.com"}, mailer.to[1])
}

func TestNotifyBodyCarriesOnlyChangedFields(t *testing.T) {
	dir := &fakeDirectory{
		familyEmails: map[int][]string{3: {"familia@example.com"}},
		titles:       map[int]string{7: "Lectura de la semana"},
	}
	mailer := &fakeMailer{}
	nd := NewNotificationDispatcher(dir, mailer, "https://aula.example.com")

	grade := 9.5
	diff := DiffReviewStates(
		ReviewState{Status: models.StatusPending},
		ReviewState{Status: models.StatusApproved, Grade: &grade},
	)
	nd.Notify(reviewedSubmission(), diff)

	require.Len(t, mailer.text, 1)
	body := mailer.text[0]
	assert.Contains(t, mailer.subject[0], "Lectura de la semana")
	assert.Contains(t, body, "Status: approved")
	assert.Contains(t, body, "Grade: 9.5")
	assert.NotContains(t, body, "Teacher's comment")
	assert.Contains(t, body, "https://aula.example.com")
	assert.Contains(t, body, "— Aula CEIP")
}

func TestNotifyEmptyDiffStillProducesMessage(t *testing.T) {
	dir := &fakeDirectory{familyEmails: map[int][]string{3: {"familia@example.com"}}}
	mailer := &fakeMailer{}
	nd := NewNotificationDispatcher(dir, mailer, "")

	result := nd.Notify(reviewedSubmission(), ReviewDiff{})

	assert.Equal(t, NotifySent, result.Outcome)
	require.Len(t, mailer.text, 1)
	assert.Contains(t, mailer.text[0], "(no highlighted changes)")
}

func TestNotifyTransportFailureIsReportedNotRaised(t *testing.T) {
	dir := &fakeDirectory{
		familyEmails: map[int][]string{3: {"familia@example.com"}},
		familyUsers:  map[int][]int{3: {11}},
	}
	mailer := &fakeMailer{err: errors.New("smtp: connection refused")}
	nd := NewNotificationDispatcher(dir, mailer, "")

	result := nd.Notify(reviewedSubmission(), statusDiff(models.StatusPending, models.StatusRejected))

	assert.Equal(t, NotifyFailed, result.Outcome)
	assert.Contains(t, result.Reason, "connection refused")
	// the in-app feed entry is written even when the email bounces
	require.Len(t, dir.saved, 1)
	assert.Equal(t, uint(11), dir.saved[0].UserID)
}

func TestNotifyWritesInAppFeedPerFamilyAccount(t *testing.T) {
	dir := &fakeDirectory{
		familyEmails: map[int][]string{3: {"familia@example.com"}},
		familyUsers:  map[int][]int{3: {11, 12}},
	}
	mailer := &fakeMailer{}
	nd := NewNotificationDispatcher(dir, mailer, "")

	nd.Notify(reviewedSubmission(), statusDiff(models.StatusPending, models.StatusApproved))

	require.Len(t, dir.saved, 2)
	assert.Contains(t, dir.saved[0].Message, "status: approved")
	require.NotNil(t, dir.saved[0].RelatedSubmissionID)
	assert.Equal(t, uint(5), *dir.saved[0].RelatedSubmissionID)
}

func TestFormatGrade(t *testing.T) {
	assert.Equal(t, "—", FormatGrade(nil))
	g := 7.0
	assert.Equal(t, "7.0", FormatGrade(&g))
	g = 9.55
	assert.Equal(t, "9.5", FormatGrade(&g))
}

func TestDiffReviewStates(t *testing.T) {
	g1, g2 := 5.0, 5.0
	d := DiffReviewStates(
		ReviewState{Status: models.StatusReviewed, Grade: &g1, Comment: "ok"},
		ReviewState{Status: models.StatusReviewed, Grade: &g2, Comment: "ok"},
	)
	assert.True(t, d.Empty())

	d = DiffReviewStates(
		ReviewState{Status: models.StatusReviewed, Comment: "  ok  "},
		ReviewState{Status: models.StatusReviewed, Comment: "ok"},
	)
	assert.True(t, d.Empty(), "comments compare trimmed")

	d = DiffReviewStates(
		ReviewState{Grade: &g1},
		ReviewState{},
	)
	assert.True(t, d.GradeChanged)
}
