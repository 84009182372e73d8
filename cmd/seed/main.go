// Command seed provisions a local database with an admin account and a
// small demo catalog so a freshly migrated instance is playable.
package main

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/MeMoElprince/QA-Game/internal/config"
	"github.com/MeMoElprince/QA-Game/internal/db"
)

var demoCategories = []string{
	"History", "Science", "Geography", "Movies", "Sports", "Music",
}

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}

	conn, err := db.Open()
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	if err := seedAdmin(conn); err != nil {
		log.Fatalf("admin seed failed: %v", err)
	}
	if err := seedCatalog(conn); err != nil {
		log.Fatalf("catalog seed failed: %v", err)
	}
	log.Println("seed complete")
}

func seedAdmin(conn *gorm.DB) error {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "admin-change-me"
	}

	var count int64
	if err := conn.Model(&db.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Printf("admin already seeded email=%s", email)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := db.User{
		Email:          email,
		Name:           "Admin",
		PasswordHash:   string(hash),
		PhoneNumber:    "+10000000000",
		Role:           db.RoleAdmin,
		OwnedGameCount: 10,
	}
	if err := conn.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("admin seeded email=%s user_id=%d", email, admin.ID)
	return nil
}

// seedCatalog inserts six categories with two questions per point tier,
// the minimum pool a single game provision needs.
func seedCatalog(conn *gorm.DB) error {
	var count int64
	if err := conn.Model(&db.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Printf("catalog already seeded categories=%d", count)
		return nil
	}

	return conn.Transaction(func(tx *gorm.DB) error {
		for _, name := range demoCategories {
			category := db.Category{Name: name}
			if err := tx.Create(&category).Error; err != nil {
				return err
			}
			for _, score := range db.QuestionTiers {
				for i := 1; i <= 2; i++ {
					question := db.Question{
						CategoryID: category.ID,
						Score:      score,
						Text:       fmt.Sprintf("%s demo question %d for %d points", name, i, score),
						Answer:     fmt.Sprintf("%s demo answer %d", name, i),
					}
					if err := tx.Create(&question).Error; err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}
