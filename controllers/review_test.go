package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aula-ceip-api/models"
	"aula-ceip-api/services"
)

/* ==========================
   Test doubles
   ========================== */

type stubStore struct {
	subs    map[int]*models.Submission
	drafts  []services.SubmissionDraft
	updates []map[string]interface{}
}

func newStubStore(subs ...*models.Submission) *stubStore {
	st := &stubStore{subs: map[int]*models.Submission{}}
	for _, s := range subs {
		st.subs[s.SubmissionID] = s
	}
	return st
}

func (st *stubStore) Create(draft services.SubmissionDraft) (*models.Submission, error) {
	if err := services.ValidateDraft(draft); err != nil {
		return nil, err
	}
	st.drafts = append(st.drafts, draft)
	sub := &models.Submission{
		SubmissionID:     100 + len(st.drafts),
		SubmissionNumber: "ENT-2026-test0001",
		AssignmentID:     draft.AssignmentID,
		StudentName:      draft.StudentName,
		StudentSurname:   draft.StudentSurname,
		LinkURL:          draft.LinkURL,
		FamilyID:         draft.FamilyID,
		Status:           models.StatusPending,
		Origin:           draft.Origin,
		CreateAt:         time.Now(),
	}
	st.subs[sub.SubmissionID] = sub
	return sub, nil
}

func (st *stubStore) Get(id int) (*models.Submission, error) {
	sub, ok := st.subs[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (st *stubStore) Update(id int, updates map[string]interface{}) error {
	if _, ok := st.subs[id]; !ok {
		return services.ErrNotFound
	}
	st.updates = append(st.updates, updates)
	return nil
}

func (st *stubStore) ListByFamily(familyID int) ([]models.Submission, error) {
	var out []models.Submission
	for _, s := range st.subs {
		if s.FamilyID != nil && *s.FamilyID == familyID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (st *stubStore) ListAll() ([]models.Submission, error) {
	var out []models.Submission
	for _, s := range st.subs {
		out = append(out, *s)
	}
	return out, nil
}

type stubNotifier struct {
	diffs []services.ReviewDiff
}

func (n *stubNotifier) Notify(sub *models.Submission, diff services.ReviewDiff) services.NotifyResult {
	n.diffs = append(n.diffs, diff)
	return services.NotifyResult{Outcome: services.NotifySent}
}

// sessionFor mimics what the auth middleware puts on the context.
func sessionFor(userID, roleID int, familyID *int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("roleID", roleID)
		if familyID != nil {
			c.Set("familyID", *familyID)
		}
		c.Next()
	}
}

func newTestRouter(api *API, session gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("", session)
	g.POST("/submissions", api.CreateSubmission)
	g.PATCH("/submissions/:id", api.UpdateSubmissionReview)
	g.POST("/submissions/:id/approve", api.ApproveSubmission)
	g.POST("/submissions/:id/reject", api.RejectSubmission)
	return r
}

func jsonRequest(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func gradedSubmission(id int) *models.Submission {
	g := 8.0
	fam := 3
	return &models.Submission{
		SubmissionID: id,
		AssignmentID: 7,
		FamilyID:     &fam,
		Status:       models.StatusReviewed,
		Grade:        &g,
		CreateAt:     time.Now(),
	}
}

func newTestAPI(store *stubStore, notifier *stubNotifier) *API {
	reviews := services.NewReviewService(store, notifier)
	return NewAPI(nil, store, reviews, notifier, nil)
}

/* ==========================
   PATCH /submissions/:id
   ========================== */

func TestUpdateReviewNullGradeClears(t *testing.T) {
	store := newStubStore(gradedSubmission(1))
	api := newTestAPI(store, &stubNotifier{})
	r := newTestRouter(api, sessionFor(1, models.RoleTeacher, nil))

	w := jsonRequest(t, r, http.MethodPatch, "/submissions/1", `{"grade": null}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, store.updates, 1)
	assert.Contains(t, store.updates[0], "grade")
	assert.Nil(t, store.updates[0]["grade"])
}

func TestUpdateReviewAbsentGradeUntouched(t *testing.T) {
	store := newStubStore(gradedSubmission(1))
	notifier := &stubNotifier{}
	api := newTestAPI(store, notifier)
	r := newTestRouter(api, sessionFor(1, models.RoleTeacher, nil))

	w := jsonRequest(t, r, http.MethodPatch, "/submissions/1", `{"comment": "bien"}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, store.updates, 1)
	assert.NotContains(t, store.updates[0], "grade")
	require.Len(t, notifier.diffs, 1)
	assert.False(t, notifier.diffs[0].GradeChanged)
	assert.True(t, notifier.diffs[0].CommentChanged)
}

func TestUpdateReviewForbiddenForFamilies(t *testing.T) {
	store := newStubStore(gradedSubmission(1))
	fam := 3
	api := newTestAPI(store, &stubNotifier{})
	r := newTestRouter(api, sessionFor(2, models.RoleFamily, &fam))

	w := jsonRequest(t, r, http.MethodPatch, "/submissions/1", `{"status": "approved"}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, store.updates)
}

func TestUpdateReviewUnknownSubmission(t *testing.T) {
	api := newTestAPI(newStubStore(), &stubNotifier{})
	r := newTestRouter(api, sessionFor(1, models.RoleTeacher, nil))

	w := jsonRequest(t, r, http.MethodPatch, "/submissions/42", `{"status": "approved"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateReviewInvalidStatus(t *testing.T) {
	store := newStubStore(gradedSubmission(1))
	api := newTestAPI(store, &stubNotifier{})
	r := newTestRouter(api, sessionFor(1, models.RoleTeacher, nil))

	w := jsonRequest(t, r, http.MethodPatch, "/submissions/1", `{"status": "archived"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.updates)
}

func TestUpdateReviewNoOpOmitsNotification(t *testing.T) {
	store := newStubStore(gradedSubmission(1))
	notifier := &stubNotifier{}
	api := newTestAPI(store, notifier)
	r := newTestRouter(api, sessionFor(1, models.RoleTeacher, nil))

	w := jsonRequest(t, r, http.MethodPatch, "/submissions/1", `{"status": "reviewed"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotContains(t, resp, "notification")
	assert.Empty(t, notifier.diffs)
}

func TestUpdateReviewLegacyCommentAlias(t *testing.T) {
	store := newStubStore(gradedSubmission(1))
	api := newTestAPI(store, &stubNotifier{})
	r := newTestRouter(api, sessionFor(1, models.RoleTeacher, nil))

	w := jsonRequest(t, r, http.MethodPatch, "/submissions/1", `{"comentarioDocente": "bien leído"}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, store.updates, 1)
	assert.Equal(t, "bien leído", store.updates[0]["comment"])
}

func TestApproveWithEmptyBody(t *testing.T) {
	store := newStubStore(gradedSubmission(1))
	notifier := &stubNotifier{}
	api := newTestAPI(store, notifier)
	r := newTestRouter(api, sessionFor(1, models.RoleTeacher, nil))

	w := jsonRequest(t, r, http.MethodPost, "/submissions/1/approve", "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, store.updates, 1)
	assert.Equal(t, models.StatusApproved, store.updates[0]["status"])
	require.Len(t, notifier.diffs, 1)
	assert.True(t, notifier.diffs[0].StatusChanged)
}

/* ==========================
   POST /submissions
   ========================== */

func TestCreateSubmissionLegacyFieldNames(t *testing.T) {
	store := newStubStore()
	api := newTestAPI(store, &stubNotifier{})
	fam := 3
	r := newTestRouter(api, sessionFor(2, models.RoleFamily, &fam))

	body := `{"tareaId": 7, "nombre": "Lucía", "apellidos": "García", "linkUrl": "https://example.com/video"}`
	w := jsonRequest(t, r, http.MethodPost, "/submissions", body)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Len(t, store.drafts, 1)
	draft := store.drafts[0]
	assert.Equal(t, 7, draft.AssignmentID)
	assert.Equal(t, "Lucía", draft.StudentName)
	assert.Equal(t, "García", draft.StudentSurname)
	assert.Equal(t, "https://example.com/video", draft.LinkURL)
	assert.Equal(t, models.OriginAuth, draft.Origin)
	require.NotNil(t, draft.FamilyID)
	assert.Equal(t, 3, *draft.FamilyID)
}

func TestCreateSubmissionMissingLink(t *testing.T) {
	store := newStubStore()
	api := newTestAPI(store, &stubNotifier{})
	fam := 3
	r := newTestRouter(api, sessionFor(2, models.RoleFamily, &fam))

	w := jsonRequest(t, r, http.MethodPost, "/submissions", `{"assignmentId": 7, "submitterName": "Lucía", "submitterSurname": "García"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "link")
}

func TestCreateSubmissionRejectsNonFamily(t *testing.T) {
	api := newTestAPI(newStubStore(), &stubNotifier{})
	r := newTestRouter(api, sessionFor(1, models.RoleTeacher, nil))

	w := jsonRequest(t, r, http.MethodPost, "/submissions", `{"assignmentId": 7, "submitterName": "a", "submitterSurname": "b", "link": "https://x.example"}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
