package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() SubmissionDraft {
	return SubmissionDraft{
		AssignmentID:   7,
		StudentName:    "Lucía",
		StudentSurname: "García",
		LinkURL:        "https://example.com/video",
	}
}

func TestValidateDraftAccepts(t *testing.T) {
	assert.NoError(t, ValidateDraft(validDraft()))

	d := validDraft()
	d.LinkURL = "  http://example.com/doc  "
	assert.NoError(t, ValidateDraft(d), "link is validated trimmed")
}

func TestValidateDraftNamesEveryBadField(t *testing.T) {
	err := ValidateDraft(SubmissionDraft{LinkURL: "ftp://example.com"})

	require.Error(t, err)
	var iie *InvalidInputError
	require.ErrorAs(t, err, &iie)
	assert.ElementsMatch(t, []string{"assignmentId", "submitterName", "submitterSurname", "link"}, iie.Fields)
}

func TestValidateDraftRejectsNonHTTPLink(t *testing.T) {
	for _, link := range []string{"", "javascript:alert(1)", "example.com/video", "mailto:a@b.com"} {
		d := validDraft()
		d.LinkURL = link
		err := ValidateDraft(d)
		require.Error(t, err, "link %q", link)
		assert.True(t, IsInvalidInput(err))
	}
}

func TestGenerateSubmissionNumber(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	a := generateSubmissionNumber(now)
	b := generateSubmissionNumber(now)

	assert.True(t, strings.HasPrefix(a, "ENT-2026-"), "got %q", a)
	assert.NotEqual(t, a, b, "numbers must not collide within a year")
}
