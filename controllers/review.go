package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"aula-ceip-api/models"
	"aula-ceip-api/services"
)

// reviewPatchRequest is the PATCH body. Grade and comment use RawMessage
// so an explicit null ("clear this field") stays distinguishable from an
// absent key.
type reviewPatchRequest struct {
	Status  *string         `json:"status"`
	Grade   json.RawMessage `json:"grade"`
	Comment json.RawMessage `json:"comment"`

	// Legacy alias from the first portal iterations.
	ComentarioDocente json.RawMessage `json:"comentarioDocente"`
}

func (r *reviewPatchRequest) toPatch() (services.ReviewPatch, error) {
	patch := services.ReviewPatch{Status: r.Status}

	if len(r.Grade) > 0 {
		patch.GradePresent = true
		if string(r.Grade) != "null" {
			var g float64
			if err := json.Unmarshal(r.Grade, &g); err != nil {
				return patch, err
			}
			patch.Grade = &g
		}
	}

	comment := r.Comment
	if len(comment) == 0 {
		comment = r.ComentarioDocente
	}
	if len(comment) > 0 {
		patch.CommentPresent = true
		if string(comment) != "null" {
			var s string
			if err := json.Unmarshal(comment, &s); err != nil {
				return patch, err
			}
			patch.Comment = s
		}
	}

	return patch, nil
}

// UpdateSubmissionReview - PATCH /submissions/:id - the applyReview entry
// point: combined status/grade/comment changes, one notification at most.
func (api *API) UpdateSubmissionReview(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var req reviewPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	sub, result, err := api.Reviews.ApplyReview(id, patch, currentActor(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	resp := gin.H{
		"success":    true,
		"submission": sub,
	}
	if result != nil {
		resp["notification"] = result
	}
	c.JSON(http.StatusOK, resp)
}

// ApproveSubmission - convenience endpoint: status=approved plus optional
// grade/comment in the same review (single notification).
func (api *API) ApproveSubmission(c *gin.Context) {
	api.applyStatusShortcut(c, models.StatusApproved)
}

// RejectSubmission - convenience endpoint: status=rejected.
func (api *API) RejectSubmission(c *gin.Context) {
	api.applyStatusShortcut(c, models.StatusRejected)
}

func (api *API) applyStatusShortcut(c *gin.Context, status string) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var req reviewPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}
	patch.Status = &status

	sub, result, err := api.Reviews.ApplyReview(id, patch, currentActor(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	resp := gin.H{
		"success":    true,
		"submission": sub,
	}
	if result != nil {
		resp["notification"] = result
	}
	c.JSON(http.StatusOK, resp)
}

// NotifySubmission - POST /submissions/:id/notify - explicit dispatch
// trigger for flows where persistence and notification are split across
// two calls. The body describes the changes to announce; nothing is
// persisted here.
func (api *API) NotifySubmission(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var req reviewPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	sub, err := api.Store.Get(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	// "after" is the stored state overlaid with the announced changes.
	before := services.ReviewStateOf(sub)
	after := before
	if patch.Status != nil {
		if status := models.NormalizeStatus(*patch.Status); status != "" {
			after.Status = status
		}
	}
	if patch.GradePresent {
		if patch.Grade != nil {
			g := services.ClampGrade(*patch.Grade)
			after.Grade = &g
		} else {
			after.Grade = nil
		}
	}
	if patch.CommentPresent {
		after.Comment = patch.Comment
	}

	result := api.Notifier.Notify(sub, services.DiffReviewStates(before, after))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}
