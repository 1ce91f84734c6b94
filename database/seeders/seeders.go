package seeders

import (
	"encoding/json"
	"inevitable_academy_go/database"
	"inevitable_academy_go/models"
	"inevitable_academy_go/utils"
	"log"
	"os"
)

// SeedAll runs all seeders
func SeedAll() {
	log.Println("Starting database seeding...")

	SeedUsers()
	SeedWeeklyFocus()

	log.Println("Database seeding completed successfully!")
}

// SeedUsers creates the initial owner account when the users table is empty.
// The password comes from SEED_OWNER_PASSWORD so no credential lands in code.
func SeedUsers() {
	var count int64
	database.DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		log.Println("Users already seeded, skipping...")
		return
	}

	password := os.Getenv("SEED_OWNER_PASSWORD")
	if password == "" {
		password = "changeme123"
		log.Println("SEED_OWNER_PASSWORD not set, using development default")
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		log.Printf("Failed to hash seed password: %v", err)
		return
	}

	owner := models.User{
		Username: "owner",
		Password: hashed,
		Email:    "owner@inevitableacademy.co.za",
		Role:     "owner",
		Status:   "active",
	}

	if err := database.DB.Create(&owner).Error; err != nil {
		log.Printf("Failed to seed owner account: %v", err)
		return
	}

	log.Println("Seeded owner account")
}

// SeedWeeklyFocus creates the dashboard focus card so the admin view never
// renders empty on a fresh install.
func SeedWeeklyFocus() {
	var count int64
	database.DB.Model(&models.WeeklyFocus{}).Count(&count)
	if count > 0 {
		return
	}

	topics, _ := json.Marshal([]string{
		"Grade 10 Maths Algebra revision",
		"Grade 9 Science Practical skills",
	})

	focus := models.WeeklyFocus{
		Topics:      models.JSON(topics),
		LessonPlan:  "Revise core concepts and exam techniques",
		TutorNotes:  "Pay attention to weak algebra foundations",
		WeeklyGoals: "Improve class average by 5%",
	}

	if err := database.DB.Create(&focus).Error; err != nil {
		log.Printf("Failed to seed weekly focus: %v", err)
	}
}
