package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/yarmel/photoshare/model"
	"github.com/yarmel/photoshare/utils/auth"
)

// SeedOptions carries the operator-supplied seed inputs. Credentials come
// from the caller, never read from the environment here.
type SeedOptions struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll(opts SeedOptions) error {
	log.Println("Starting database seeding...")

	if err := s.SeedAdminUser(opts); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := s.SeedTags(); err != nil {
		return fmt.Errorf("failed to seed tags: %w", err)
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

// SeedAdminUser creates the default admin account. Skipped when an admin
// already exists or no credentials were supplied — the first signup ever
// becomes admin on its own either way.
func (s *Seeder) SeedAdminUser(opts SeedOptions) error {
	var count int64
	if err := s.db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping...")
		return nil
	}

	if opts.AdminEmail == "" || opts.AdminPassword == "" {
		log.Println("Admin credentials not supplied, skipping admin user creation")
		return nil
	}

	username := opts.AdminUsername
	if username == "" {
		username = "admin"
	}

	passwordHash, err := auth.HashPassword(opts.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &model.User{
		Username:     username,
		Email:        opts.AdminEmail,
		PasswordHash: passwordHash,
		Role:         model.RoleAdmin,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("Created admin user: %s\n", admin.Email)
	return nil
}

// SeedTags creates a starter tag vocabulary
func (s *Seeder) SeedTags() error {
	var count int64
	if err := s.db.Model(&model.Tag{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Tags already exist, skipping...")
		return nil
	}

	names := []string{
		"nature", "portrait", "travel", "food", "architecture",
		"street", "landscape", "macro", "blackandwhite", "sunset",
	}

	tags := make([]model.Tag, 0, len(names))
	for _, name := range names {
		tags = append(tags, model.Tag{Name: name})
	}

	if err := s.db.Create(&tags).Error; err != nil {
		return err
	}

	log.Printf("Created %d tags\n", len(tags))
	return nil
}

// RunSeeds is a convenience function to run all seeds
func RunSeeds(db *gorm.DB, opts SeedOptions) error {
	return NewSeeder(db).SeedAll(opts)
}
