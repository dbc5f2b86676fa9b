package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	cases := map[string]string{
		"pending":     StatusPending,
		" Approved ":  StatusApproved,
		"REVIEWED":    StatusReviewed,
		"pendiente":   StatusPending,
		"enviada":     StatusPending,
		"revisada":    StatusReviewed,
		"aprobada":    StatusApproved,
		"rechazada":   StatusRejected,
		"suspendida":  StatusRejected,
		"archived":    "",
		"":            "",
		"aprobada  x": "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeStatus(in), "NormalizeStatus(%q)", in)
	}
}

func TestTrimmedComment(t *testing.T) {
	var sub Submission
	assert.Equal(t, "", sub.TrimmedComment())

	c := "   "
	sub.Comment = &c
	assert.Equal(t, "", sub.TrimmedComment())

	c = "  bien  "
	assert.Equal(t, "bien", sub.TrimmedComment())
}

func TestIsReviewer(t *testing.T) {
	assert.True(t, IsReviewer(RoleTeacher))
	assert.True(t, IsReviewer(RoleAdmin))
	assert.False(t, IsReviewer(RoleFamily))
	assert.False(t, IsReviewer(0))
}
