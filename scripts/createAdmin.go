package main

import (
	"errors"
	"flag"
	"log"

	"examprep/config"
	"examprep/database"
	"examprep/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Creates an ADMIN user, or promotes an existing one, and grants every admin permission.
//
//	go run ./scripts -email admin@example.com -password secret123 -name Admin
func main() {
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "password for a new admin")
	name := flag.String("name", "Admin", "display name for a new admin")
	flag.Parse()

	if *email == "" {
		log.Fatal("-email is required")
	}

	// Load config and connect to database
	config.LoadConfig()
	database.ConnectDb()
	db := database.Database.Db

	var user models.User
	err := db.Where("email = ? AND is_deleted = ?", *email, false).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if len(*password) < 8 {
			log.Fatal("-password of at least 8 characters is required for a new admin")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*password), config.AppConfig.SaltRound)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		user = models.User{Name: *name, Email: *email, Role: models.RoleAdmin, Password: string(hashed), IsEmailVerified: true}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("Failed to create admin: %v", err)
		}
		log.Printf("Created admin %d (%s)", user.ID, user.Email)
	case err != nil:
		log.Fatalf("Failed to look up user: %v", err)
	default:
		if err := db.Model(&user).Update("role", models.RoleAdmin).Error; err != nil {
			log.Fatalf("Failed to promote user: %v", err)
		}
		log.Printf("Promoted user %d (%s) to admin", user.ID, user.Email)
	}

	for _, p := range []string{models.PermissionManageContent, models.PermissionRecordPayment} {
		perm := models.Permission{UserID: user.ID, Permission: p}
		if err := db.Where("user_id = ? AND permission = ? AND is_deleted = ?", user.ID, p, false).FirstOrCreate(&perm).Error; err != nil {
			log.Fatalf("Failed to grant %s: %v", p, err)
		}
	}
	log.Println("Permissions granted.")
}
