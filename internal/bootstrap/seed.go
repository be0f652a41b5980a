package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"anoa.com/learnify/internal/entity"
	"anoa.com/learnify/internal/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Topic{},
		&entity.Lesson{},
	)
}

type AdminSeed struct {
	Name     string
	Email    string
	Password string
}

// SeedAdminUser creates the development admin account once. An existing
// account with the same email is left untouched.
func SeedAdminUser(ctx context.Context, db *gorm.DB, seed AdminSeed, log logger.Logger) error {
	seed.Email = strings.ToLower(strings.TrimSpace(seed.Email))
	if seed.Email == "" || seed.Password == "" {
		return fmt.Errorf("admin seed requires email and password")
	}

	var count int64
	if err := db.WithContext(ctx).Model(&entity.User{}).
		Where("email = ?", seed.Email).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Info("Admin user already exists, skipping seed")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	name := seed.Name
	if name == "" {
		name = "Administrator"
	}

	admin := entity.User{
		Name:         name,
		Email:        seed.Email,
		PasswordHash: string(hashed),
		Role:         entity.RoleAdmin,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return err
	}

	log.With(map[string]interface{}{"email": seed.Email}).Info("Admin user seeded")
	return nil
}
