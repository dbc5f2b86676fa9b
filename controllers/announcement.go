// controllers/announcement.go
package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"aula-ceip-api/models"
)

// ===== ANNOUNCEMENT CONTROLLERS =====

// GetAnnouncements lists avisos and tareas. Families and the public feed
// only ever see published entries; reviewers can ask for drafts too.
func (api *API) GetAnnouncements(c *gin.Context) {
	announcementType := c.Query("type")
	subjectID := c.Query("subject_id")
	includeUnpublished := c.Query("include_unpublished") == "true"

	query := api.DB.Model(&models.Announcement{}).
		Preload("Subject").
		Where("delete_at IS NULL")

	if announcementType != "" && announcementType != "all" {
		query = query.Where("announcement_type = ?", announcementType)
	}
	if subjectID != "" {
		query = query.Where("subject_id = ?", subjectID)
	}

	roleID, _ := getCurrentRoleID(c)
	if !includeUnpublished || !models.IsReviewer(roleID) {
		query = query.Where("published = 1")
	}

	query = query.Order("create_at DESC")

	var announcements []models.Announcement
	if err := query.Find(&announcements).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch announcements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    announcements,
		"count":   len(announcements),
	})
}

// GetAnnouncement returns one announcement by ID
func (api *API) GetAnnouncement(c *gin.Context) {
	id := c.Param("id")

	var announcement models.Announcement
	if err := api.DB.Preload("Subject").
		Where("announcement_id = ? AND delete_at IS NULL", id).
		First(&announcement).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Announcement not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    announcement,
	})
}

// CreateAnnouncement creates an aviso or tarea (teacher/admin only)
func (api *API) CreateAnnouncement(c *gin.Context) {
	var req struct {
		Title     string  `json:"title" binding:"required"`
		Body      string  `json:"body" binding:"required"`
		Type      string  `json:"type"`
		SubjectID *int    `json:"subject_id"`
		Published *bool   `json:"published"`
		DueDate   *string `json:"due_date"` // RFC 3339, tareas only
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing title or body"})
		return
	}

	annType := strings.TrimSpace(req.Type)
	if annType == "" {
		annType = models.AnnouncementTypeNotice
	}
	if annType != models.AnnouncementTypeNotice && annType != models.AnnouncementTypeAssignment {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid announcement type"})
		return
	}

	published := true
	if req.Published != nil {
		published = *req.Published
	}

	userID, _ := getCurrentUserID(c)
	now := time.Now()
	announcement := models.Announcement{
		Title:            strings.TrimSpace(req.Title),
		Body:             req.Body,
		AnnouncementType: annType,
		SubjectID:        req.SubjectID,
		Published:        published,
		CreatedBy:        userID,
		CreateAt:         now,
		UpdateAt:         now,
	}

	// Due dates only make sense on assignments.
	if annType == models.AnnouncementTypeAssignment && req.DueDate != nil {
		due, err := time.Parse(time.RFC3339, *req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_date"})
			return
		}
		announcement.DueDate = &due
	}

	if err := api.DB.Create(&announcement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create announcement"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    announcement,
	})
}

// UpdateAnnouncement updates title/body/published/due_date (teacher/admin only)
func (api *API) UpdateAnnouncement(c *gin.Context) {
	id := c.Param("id")

	var announcement models.Announcement
	if err := api.DB.Where("announcement_id = ? AND delete_at IS NULL", id).
		First(&announcement).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Announcement not found"})
		return
	}

	var req struct {
		Title     *string `json:"title"`
		Body      *string `json:"body"`
		SubjectID *int    `json:"subject_id"`
		Published *bool   `json:"published"`
		DueDate   *string `json:"due_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Body != nil {
		updates["body"] = *req.Body
	}
	if req.SubjectID != nil {
		updates["subject_id"] = *req.SubjectID
	}
	if req.Published != nil {
		updates["published"] = *req.Published
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			updates["due_date"] = nil
		} else {
			due, err := time.Parse(time.RFC3339, *req.DueDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_date"})
				return
			}
			updates["due_date"] = due
		}
	}

	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": announcement})
		return
	}
	updates["update_at"] = time.Now()

	if err := api.DB.Model(&announcement).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update announcement"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    announcement,
	})
}

// DeleteAnnouncement soft-deletes an announcement (teacher/admin only)
func (api *API) DeleteAnnouncement(c *gin.Context) {
	id := c.Param("id")

	res := api.DB.Model(&models.Announcement{}).
		Where("announcement_id = ? AND delete_at IS NULL", id).
		Update("delete_at", time.Now())
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete announcement"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Announcement not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Announcement deleted"})
}

// GetSubjects lists the subjects used to tag announcements
func (api *API) GetSubjects(c *gin.Context) {
	var subjects []models.Subject
	if err := api.DB.Where("delete_at IS NULL").Order("name ASC").Find(&subjects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subjects"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    subjects,
		"count":   len(subjects),
	})
}
