package config

import (
	"log"
	"time"

	"realhub-app/internal/devserver/models"

	"github.com/google/uuid"
)

// seedLoanRequests seeds a small triage queue with mixed ages so the SLA
// sweep produces all three states
func (s *Seeder) seedLoanRequests() error {
	var count int64
	s.db.Model(&models.LoanRequest{}).Count(&count)
	if count > 0 {
		return nil // Already seeded
	}

	var agent models.User
	if err := s.db.Where("role = ? AND approved = ?", "AGENT", true).First(&agent).Error; err != nil {
		return err
	}

	now := time.Now()
	requests := []models.LoanRequest{
		{
			ID:         uuid.New().String(),
			MemberName: "Somsri P.",
			Amount:     2500000,
			Status:     "assigned",
			AssigneeID: &agent.ID,
			Priority:   1,
			SLAState:   models.SLAOk,
			CreatedAt:  now.Add(-2 * time.Hour),
		},
		{
			ID:         uuid.New().String(),
			MemberName: "Anan K.",
			Amount:     5200000,
			Status:     "new",
			Priority:   2,
			SLAState:   models.SLAOk,
			CreatedAt:  now.Add(-30 * time.Hour),
		},
		{
			ID:         uuid.New().String(),
			MemberName: "Wipa T.",
			Amount:     1800000,
			Status:     "new",
			Priority:   1,
			SLAState:   models.SLAOk,
			CreatedAt:  now.Add(-80 * time.Hour),
		},
	}

	for i := range requests {
		if err := s.db.Create(&requests[i]).Error; err != nil {
			return err
		}
	}

	log.Printf("✅ Seeded %d loan requests", len(requests))
	return nil
}
