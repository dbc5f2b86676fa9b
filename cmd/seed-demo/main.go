// Seeds a fresh database with roles, subjects and a handful of demo
// accounts so the portal can be clicked through locally.
// cmd/seed-demo/main.go
package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"aula-ceip-api/config"
	"aula-ceip-api/models"
	"aula-ceip-api/utils"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db := config.InitDB()

	seedRoles(db)
	seedSubjects(db)

	teacherID := seedUser(db, "maestra@aulaceip.example", "demo1234", "Maestra Demo", models.RoleTeacher, nil)
	seedUser(db, "admin@aulaceip.example", "demo1234", "Admin Demo", models.RoleAdmin, nil)

	famID := seedFamily(db, "familia.garcia@example.com", "Carmen García", "Lucía")
	seedUser(db, "familia.garcia@example.com", "demo1234", "Familia García", models.RoleFamily, &famID)

	assignmentID := seedAnnouncements(db, teacherID)
	seedSubmission(db, assignmentID, famID)

	log.Println("Demo data seeded")
}

func seedRoles(db *gorm.DB) {
	roles := map[int]string{
		models.RoleTeacher: "teacher",
		models.RoleFamily:  "family",
		models.RoleAdmin:   "admin",
	}
	for id, name := range roles {
		role := models.Role{RoleID: id, Role: name}
		if err := db.Where("role_id = ?", id).FirstOrCreate(&role).Error; err != nil {
			log.Fatal("Failed to seed roles:", err)
		}
	}
	log.Println("Roles ready")
}

func seedSubjects(db *gorm.DB) {
	names := []string{"Lengua", "Matemáticas", "Ciencias", "Inglés", "Plástica"}
	for _, name := range names {
		subject := models.Subject{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&subject).Error; err != nil {
			log.Fatal("Failed to seed subjects:", err)
		}
	}
	log.Println("Subjects ready")
}

func seedUser(db *gorm.DB, email, password, displayName string, roleID int, familyID *int) int {
	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Printf("User %s already exists, skipping", email)
		return existing.UserID
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	now := time.Now()
	user := models.User{
		Email:       email,
		Password:    hashed,
		DisplayName: &displayName,
		RoleID:      roleID,
		FamilyID:    familyID,
		Active:      true,
		CreateAt:    &now,
		UpdateAt:    &now,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatal("Failed to seed user:", err)
	}
	log.Printf("User %s created", email)
	return user.UserID
}

func seedFamily(db *gorm.DB, email, guardianName, studentName string) int {
	var existing models.Family
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Printf("Family %s already exists, skipping", email)
		return existing.FamilyID
	}

	now := time.Now()
	family := models.Family{
		Email:        email,
		GuardianName: &guardianName,
		StudentName:  &studentName,
		Classroom:    "Clase Única",
		TutorName:    "Tutor/a",
		Active:       true,
		CreateAt:     &now,
		UpdateAt:     &now,
	}
	if err := db.Create(&family).Error; err != nil {
		log.Fatal("Failed to seed family:", err)
	}
	log.Printf("Family %s created", email)
	return family.FamilyID
}

// seedAnnouncements creates one notice and one assignment and returns the
// assignment's id so a demo submission can point at it.
func seedAnnouncements(db *gorm.DB, createdBy int) int {
	var subject models.Subject
	_ = db.Where("name = ?", "Lengua").First(&subject).Error

	now := time.Now()
	notice := models.Announcement{
		Title:            "Bienvenidos al nuevo curso",
		Body:             "Ya está abierto el aula virtual. Las tareas semanales aparecerán aquí.",
		AnnouncementType: models.AnnouncementTypeNotice,
		Published:        true,
		CreatedBy:        createdBy,
		CreateAt:         now,
		UpdateAt:         now,
	}
	if err := db.Where("title = ?", notice.Title).FirstOrCreate(&notice).Error; err != nil {
		log.Fatal("Failed to seed notice:", err)
	}

	due := now.AddDate(0, 0, 7)
	assignment := models.Announcement{
		Title:            "Tarea: lectura de la semana",
		Body:             "Grabad un vídeo corto leyendo el cuento y enviad el enlace.",
		SubjectID:        &subject.SubjectID,
		AnnouncementType: models.AnnouncementTypeAssignment,
		Published:        true,
		DueDate:          &due,
		CreatedBy:        createdBy,
		CreateAt:         now,
		UpdateAt:         now,
	}
	if err := db.Where("title = ?", assignment.Title).FirstOrCreate(&assignment).Error; err != nil {
		log.Fatal("Failed to seed assignment:", err)
	}

	log.Println("Announcements ready")
	return assignment.AnnouncementID
}

func seedSubmission(db *gorm.DB, assignmentID, familyID int) {
	var count int64
	db.Model(&models.Submission{}).Where("assignment_id = ?", assignmentID).Count(&count)
	if count > 0 {
		log.Println("Demo submission already exists, skipping")
		return
	}

	sub := models.Submission{
		SubmissionNumber: "ENT-DEMO-0001",
		AssignmentID:     assignmentID,
		StudentName:      "Lucía",
		StudentSurname:   "García",
		LinkURL:          "https://example.com/lectura-lucia",
		FamilyID:         &familyID,
		Status:           models.StatusPending,
		Origin:           models.OriginAuth,
		CreateAt:         time.Now(),
	}
	if err := db.Create(&sub).Error; err != nil {
		log.Fatal("Failed to seed submission:", err)
	}
	log.Println("Demo submission created")
}
