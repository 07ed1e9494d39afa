package config

import (
	"log"

	"realhub-app/internal/devserver/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// seedMasterData seeds categories plus a few approved demo listings
func (s *Seeder) seedMasterData() error {
	if err := s.seedCategories(); err != nil {
		return err
	}
	if err := s.seedDemoListings(); err != nil {
		return err
	}

	log.Println("✅ Master data seeded successfully")
	return nil
}

func (s *Seeder) seedCategories() error {
	categories := []models.Category{
		{Name: "Condominium"},
		{Name: "Detached House"},
		{Name: "Townhouse"},
		{Name: "Land"},
		{Name: "Commercial"},
	}

	for _, c := range categories {
		var existing models.Category
		err := s.db.Where("name = ?", c.Name).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := s.db.Create(&c).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedDemoListings() error {
	var count int64
	s.db.Model(&models.Property{}).Count(&count)
	if count > 0 {
		return nil // Already seeded
	}

	var agent models.User
	if err := s.db.Where("role = ? AND approved = ?", "AGENT", true).First(&agent).Error; err != nil {
		return err
	}

	properties := []models.Property{
		{
			ID:          uuid.New().String(),
			OwnerID:     agent.ID,
			Status:      "approved",
			Title:       "Riverside 2BR Condo",
			Description: "Fully furnished two-bedroom condo with river view",
			Price:       4500000,
			Location:    "Bangkok, Charoen Nakhon",
			Bedrooms:    2,
			AreaSqm:     68,
			CategoryID:  1,
		},
		{
			ID:          uuid.New().String(),
			OwnerID:     agent.ID,
			Status:      "approved",
			Title:       "Suburban Family Home",
			Description: "Detached house with garden, near international school",
			Price:       8900000,
			Location:    "Nonthaburi, Chaengwattana",
			Bedrooms:    4,
			AreaSqm:     220,
			CategoryID:  2,
		},
	}
	for i := range properties {
		if err := s.db.Create(&properties[i]).Error; err != nil {
			return err
		}
	}

	banner := models.Banner{
		ID:        uuid.New().String(),
		OwnerID:   agent.ID,
		Status:    "approved",
		Title:     "New Year Campaign",
		ImageURL:  "https://cdn.example.com/banners/new-year.png",
		TargetURL: "https://example.com/campaigns/new-year",
		Position:  1,
	}
	return s.db.Create(&banner).Error
}
