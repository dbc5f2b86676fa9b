package services

import (
	"math"
	"strings"
	"time"

	"aula-ceip-api/models"
)

// Actor is the authenticated principal performing a review operation. Role
// is best-known-at-resolution-time, looked up from the users table by the
// auth middleware.
type Actor struct {
	UserID int
	RoleID int
}

func (a Actor) IsReviewer() bool {
	return models.IsReviewer(a.RoleID)
}

// ReviewPatch is a partial change to the review fields. Status nil means
// untouched. Grade and Comment carry an explicit presence flag so "set to
// null" and "not in the request" stay distinguishable.
type ReviewPatch struct {
	Status         *string
	Grade          *float64 // nil with GradePresent = clear the grade
	GradePresent   bool
	Comment        string
	CommentPresent bool
}

// Notifier is the dispatcher as seen by the workflow.
type Notifier interface {
	Notify(sub *models.Submission, diff ReviewDiff) NotifyResult
}

// ReviewService is the only component that mutates submission review
// fields, and the only caller of the Notification Dispatcher. Persistence
// and notification are deliberately not transactional: a committed update
// with a failed email is an acceptable end state.
type ReviewService struct {
	store    SubmissionStore
	notifier Notifier
}

func NewReviewService(store SubmissionStore, notifier Notifier) *ReviewService {
	return &ReviewService{store: store, notifier: notifier}
}

// ApplyReview applies a combined status/grade/comment patch. A patch that
// changes nothing performs no write (update_at untouched) and triggers no
// dispatch. An effective patch produces exactly one write and exactly one
// dispatch carrying the full diff.
func (s *ReviewService) ApplyReview(id int, patch ReviewPatch, actor Actor) (*models.Submission, *NotifyResult, error) {
	if !actor.IsReviewer() {
		return nil, nil, ErrForbidden
	}

	sub, err := s.store.Get(id)
	if err != nil {
		return nil, nil, err
	}

	before := ReviewStateOf(sub)
	after := before
	updates := map[string]interface{}{}

	if patch.Status != nil {
		status := models.NormalizeStatus(*patch.Status)
		if status == "" {
			return nil, nil, newInvalidInput("status")
		}
		if status != before.Status {
			after.Status = status
			updates["status"] = status
		}
	}

	if patch.GradePresent {
		if patch.Grade != nil {
			g := ClampGrade(*patch.Grade)
			if before.Grade == nil || *before.Grade != g {
				after.Grade = &g
				updates["grade"] = g
			}
		} else if before.Grade != nil {
			after.Grade = nil
			updates["grade"] = nil
		}
	}

	if patch.CommentPresent {
		comment := strings.TrimSpace(patch.Comment)
		if comment != before.Comment {
			after.Comment = comment
			if comment == "" {
				updates["comment"] = nil
			} else {
				updates["comment"] = comment
			}
		}
	}

	diff := DiffReviewStates(before, after)
	if diff.Empty() {
		return sub, nil, nil
	}

	now := time.Now()
	updates["update_at"] = now
	if err := s.store.Update(id, updates); err != nil {
		return nil, nil, err
	}

	updated := *sub
	updated.Status = after.Status
	updated.Grade = after.Grade
	if after.Comment == "" {
		updated.Comment = nil
	} else {
		c := after.Comment
		updated.Comment = &c
	}
	updated.UpdateAt = &now

	result := s.notifier.Notify(&updated, diff)
	return &updated, &result, nil
}

// SetStatus re-tags a submission. Any status is reachable from any other.
func (s *ReviewService) SetStatus(id int, status string, actor Actor) (*models.Submission, *NotifyResult, error) {
	return s.ApplyReview(id, ReviewPatch{Status: &status}, actor)
}

// SetGrade sets (or clears, with nil) the grade.
func (s *ReviewService) SetGrade(id int, grade *float64, actor Actor) (*models.Submission, *NotifyResult, error) {
	return s.ApplyReview(id, ReviewPatch{Grade: grade, GradePresent: true}, actor)
}

// SetComment sets the reviewer comment; empty-after-trim clears it.
func (s *ReviewService) SetComment(id int, comment string, actor Actor) (*models.Submission, *NotifyResult, error) {
	return s.ApplyReview(id, ReviewPatch{Comment: comment, CommentPresent: true}, actor)
}

// ClampGrade corrects out-of-range input into [0,10] and rounds to one
// decimal. Silent correction is deliberate, matching the portal's lenient
// grade inputs.
func ClampGrade(g float64) float64 {
	if g < 0 {
		g = 0
	}
	if g > 10 {
		g = 10
	}
	return math.Round(g*10) / 10
}
