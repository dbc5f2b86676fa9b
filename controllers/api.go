package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"aula-ceip-api/services"
)

// API bundles the handlers' dependencies. Everything is injected at
// startup so tests can swap in doubles for the store, dispatcher and
// mailer.
type API struct {
	DB       *gorm.DB
	Store    services.SubmissionStore
	Reviews  *services.ReviewService
	Notifier services.Notifier
	Mailer   services.Mailer
}

func NewAPI(db *gorm.DB, store services.SubmissionStore, reviews *services.ReviewService, notifier services.Notifier, mailer services.Mailer) *API {
	return &API{
		DB:       db,
		Store:    store,
		Reviews:  reviews,
		Notifier: notifier,
		Mailer:   mailer,
	}
}

/* ==========================
   Helpers
   ========================== */

func getCurrentUserID(c *gin.Context) (int, bool) {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(int); ok {
			return id, true
		}
	}
	return 0, false
}

func getCurrentRoleID(c *gin.Context) (int, bool) {
	if v, ok := c.Get("roleID"); ok {
		if id, ok := v.(int); ok {
			return id, true
		}
	}
	return 0, false
}

func getCurrentFamilyID(c *gin.Context) (int, bool) {
	if v, ok := c.Get("familyID"); ok {
		if id, ok := v.(int); ok {
			return id, true
		}
	}
	return 0, false
}

func currentActor(c *gin.Context) services.Actor {
	uid, _ := getCurrentUserID(c)
	rid, _ := getCurrentRoleID(c)
	return services.Actor{UserID: uid, RoleID: rid}
}

// handleServiceError maps workflow errors onto HTTP responses.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case err == services.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
	case err == services.ErrForbidden:
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	case services.IsInvalidInput(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
