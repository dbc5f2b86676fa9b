package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"aula-ceip-api/models"
	"aula-ceip-api/services"
)

// createSubmissionRequest accepts both the canonical field names and the
// legacy ones the first portal iterations used (tareaId, nombre/apellidos,
// linkUrl vs linkURL). Normalization happens here, once; everything past
// this point sees the canonical schema.
type createSubmissionRequest struct {
	AssignmentID int `json:"assignmentId"`
	TareaID      int `json:"tareaId"`

	SubmitterName    string `json:"submitterName"`
	SubmitterSurname string `json:"submitterSurname"`
	Nombre           string `json:"nombre"`
	Apellidos        string `json:"apellidos"`

	Link    string `json:"link"`
	LinkURL string `json:"linkURL"`
	LinkUrl string `json:"linkUrl"`

	Email string `json:"email"`
}

func (r *createSubmissionRequest) normalize() (assignmentID int, name, surname, link, email string) {
	assignmentID = r.AssignmentID
	if assignmentID == 0 {
		assignmentID = r.TareaID
	}
	name = firstNonEmpty(r.SubmitterName, r.Nombre)
	surname = firstNonEmpty(r.SubmitterSurname, r.Apellidos)
	link = firstNonEmpty(r.Link, r.LinkURL, r.LinkUrl)
	email = strings.TrimSpace(r.Email)
	return
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// CreateSubmission - authenticated family form
func (api *API) CreateSubmission(c *gin.Context) {
	var req createSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	roleID, _ := getCurrentRoleID(c)
	if roleID != models.RoleFamily {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only family accounts can submit"})
		return
	}
	familyID, ok := getCurrentFamilyID(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account has no family assigned"})
		return
	}
	userID, _ := getCurrentUserID(c)

	assignmentID, name, surname, link, email := req.normalize()

	draft := services.SubmissionDraft{
		AssignmentID:   assignmentID,
		StudentName:    name,
		StudentSurname: surname,
		LinkURL:        link,
		FamilyID:       &familyID,
		UserID:         &userID,
		Origin:         models.OriginAuth,
	}
	if email != "" {
		draft.ContactEmail = &email
	}

	sub, err := api.Store.Create(draft)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":           true,
		"id":                sub.SubmissionID,
		"submission_number": sub.SubmissionNumber,
	})
}

// CreatePublicSubmission - anonymous public form, no auth
func (api *API) CreatePublicSubmission(c *gin.Context) {
	var req createSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	assignmentID, name, surname, link, email := req.normalize()

	draft := services.SubmissionDraft{
		AssignmentID:   assignmentID,
		StudentName:    name,
		StudentSurname: surname,
		LinkURL:        link,
		Origin:         models.OriginPublic,
	}
	if email != "" {
		draft.ContactEmail = &email
	}

	sub, err := api.Store.Create(draft)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":           true,
		"id":                sub.SubmissionID,
		"submission_number": sub.SubmissionNumber,
	})
}

// GetSubmissions lists submissions: reviewers see everything, family
// accounts only their own.
func (api *API) GetSubmissions(c *gin.Context) {
	roleID, _ := getCurrentRoleID(c)

	var (
		subs []models.Submission
		err  error
	)
	if models.IsReviewer(roleID) {
		subs, err = api.Store.ListAll()
	} else {
		familyID, ok := getCurrentFamilyID(c)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account has no family assigned"})
			return
		}
		subs, err = api.Store.ListByFamily(familyID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	// Optional status filter on top of the role scope
	if status := models.NormalizeStatus(c.Query("status")); status != "" {
		filtered := make([]models.Submission, 0, len(subs))
		for _, s := range subs {
			if s.Status == status {
				filtered = append(filtered, s)
			}
		}
		subs = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    subs,
		"count":   len(subs),
	})
}

// GetSubmission returns one submission, subject to the same role scope.
func (api *API) GetSubmission(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	sub, err := api.Store.Get(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	roleID, _ := getCurrentRoleID(c)
	if !models.IsReviewer(roleID) {
		familyID, ok := getCurrentFamilyID(c)
		if !ok || sub.FamilyID == nil || *sub.FamilyID != familyID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    sub,
	})
}
