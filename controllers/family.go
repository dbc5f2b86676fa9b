package controllers

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"aula-ceip-api/models"
	"aula-ceip-api/services"
	"aula-ceip-api/utils"
)

// CreateFamily provisions a household: family record plus a portal account
// with a one-time password, delivered by a best-effort invite email
// (admin only).
func (api *API) CreateFamily(c *gin.Context) {
	var req struct {
		Email        string  `json:"email" binding:"required"`
		SecondEmail  *string `json:"second_email"`
		GuardianName *string `json:"guardianName"`
		StudentName  *string `json:"studentName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !utils.ValidateEmail(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email"})
		return
	}

	var existing models.User
	if err := api.DB.Where("email = ? AND delete_at IS NULL", email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
		return
	}

	classroom := os.Getenv("AULA_CLASS_NAME")
	if classroom == "" {
		classroom = "Clase Única"
	}
	tutorName := os.Getenv("AULA_TUTOR_NAME")
	if tutorName == "" {
		tutorName = "Tutor/a"
	}

	now := time.Now()
	family := models.Family{
		Email:        email,
		SecondEmail:  req.SecondEmail,
		GuardianName: req.GuardianName,
		StudentName:  req.StudentName,
		Classroom:    classroom,
		TutorName:    tutorName,
		Active:       true,
		CreateAt:     &now,
		UpdateAt:     &now,
	}

	tempPassword := uuid.NewString()
	hashed, err := utils.HashPassword(tempPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to provision account"})
		return
	}

	tx := api.DB.Begin()
	if err := tx.Create(&family).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create family"})
		return
	}

	user := models.User{
		Email:       email,
		Password:    hashed,
		DisplayName: req.GuardianName,
		RoleID:      models.RoleFamily,
		FamilyID:    &family.FamilyID,
		Active:      true,
		CreateAt:    &now,
		UpdateAt:    &now,
	}
	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create family account"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction failed"})
		return
	}

	// Invite email is advisory; provisioning already committed.
	api.sendInviteEmail(email, tempPassword)

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"family_id": family.FamilyID,
		"user_id":   user.UserID,
	})
}

func (api *API) sendInviteEmail(email, tempPassword string) {
	if api.Mailer == nil {
		return
	}
	baseURL := strings.TrimSpace(os.Getenv("APP_BASE_URL"))
	paragraphs := []string{
		"Hello,",
		"Your Aula CEIP family account is ready.",
		"Sign in with this email address and the temporary password below, then change it from your profile.",
	}
	text := strings.Join(append(paragraphs, "", "Temporary password: "+tempPassword, "", "— Aula CEIP"), "\n")
	html := buildFamilyInviteHTML(paragraphs, tempPassword, baseURL)
	if err := api.Mailer.Send([]string{email}, "Welcome to Aula CEIP", text, html); err != nil {
		log.Printf("[families] invite email failed for %s: %v", email, err)
	}
}

func buildFamilyInviteHTML(paragraphs []string, tempPassword, baseURL string) string {
	meta := []services.EmailMetaItem{
		{Label: "Temporary password", Value: tempPassword},
	}
	return services.BuildEmailHTML("Welcome to Aula CEIP", paragraphs, meta, "Open family portal", baseURL)
}

// GetFamilies lists household records (teacher/admin only)
func (api *API) GetFamilies(c *gin.Context) {
	query := api.DB.Model(&models.Family{}).Where("delete_at IS NULL")
	if c.Query("active_only") == "true" {
		query = query.Where("active = 1")
	}

	var families []models.Family
	if err := query.Order("create_at DESC").Find(&families).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch families"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    families,
		"count":   len(families),
	})
}
