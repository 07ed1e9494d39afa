package config

import (
	"log"

	"realhub-app/internal/devserver/models"
	"realhub-app/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAccounts(); err != nil {
		log.Printf("⚠️ Account seeder skipped: %v", err)
	}
	if err := s.seedMasterData(); err != nil {
		log.Printf("⚠️ Master data seeder skipped: %v", err)
	}
	if err := s.seedLoanRequests(); err != nil {
		log.Printf("⚠️ Loan request seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAccounts seeds a default admin, an employee and a pair of agents.
// Development/testing only; production accounts come through a secure process.
func (s *Seeder) seedAccounts() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", "ADMIN").Count(&count)
	if count > 0 {
		return nil // Already seeded
	}

	hashed, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	accounts := []models.User{
		{
			Phone:            "0800000001",
			Username:         "admin",
			Password:         hashed,
			FullName:         "Platform Admin",
			Role:             "ADMIN",
			Approved:         true,
			ProfileCompleted: true,
			IsActive:         true,
		},
		{
			Phone:            "0800000002",
			Username:         "employee",
			Password:         hashed,
			FullName:         "Review Employee",
			Role:             "EMPLOYEE",
			Approved:         true,
			ProfileCompleted: true,
			IsActive:         true,
		},
		{
			Phone:            "0810000001",
			FullName:         "Agent One",
			Role:             "AGENT",
			Approved:         true,
			ProfileCompleted: true,
			IsActive:         true,
		},
		{
			Phone:            "0810000002",
			FullName:         "Agent Two",
			Role:             "AGENT",
			Approved:         false, // Pending approval
			ProfileCompleted: true,
			IsActive:         true,
		},
	}

	for i := range accounts {
		if err := s.db.Create(&accounts[i]).Error; err != nil {
			return err
		}
	}

	log.Printf("✅ Seeded %d accounts (admin password: admin123456)", len(accounts))
	return nil
}
