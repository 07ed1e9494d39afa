package services

import (
	"log"
	"time"

	"realhub-app/internal/devserver/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// SLA thresholds for unassigned or unresolved loan requests
const (
	slaWarnAfter   = 24 * time.Hour
	slaBreachAfter = 72 * time.Hour
)

// SLAService periodically recomputes loan-request SLA states
type SLAService struct {
	db   *gorm.DB
	cron *cron.Cron
}

// NewSLAService creates the SLA sweep scheduler
func NewSLAService(db *gorm.DB) *SLAService {
	return &SLAService{
		db:   db,
		cron: cron.New(),
	}
}

// Start registers the sweep and launches the scheduler. One sweep runs
// immediately so freshly seeded data gets a state.
func (s *SLAService) Start() error {
	// Every 15 minutes
	if _, err := s.cron.AddFunc("*/15 * * * *", s.Sweep); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("🚀 SLA sweep scheduled (every 15 minutes)")

	go s.Sweep()
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish
func (s *SLAService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 SLA sweep stopped")
}

// Sweep recomputes the SLA state of every open loan request from its age
func (s *SLAService) Sweep() {
	var loans []models.LoanRequest
	err := s.db.Where("status NOT IN ?", []string{"closed", "rejected"}).Find(&loans).Error
	if err != nil {
		log.Printf("❌ SLA sweep query failed: %v", err)
		return
	}

	now := time.Now()
	updated := 0
	for _, loan := range loans {
		state := slaStateFor(now.Sub(loan.CreatedAt))
		if state == loan.SLAState {
			continue
		}
		if err := s.db.Model(&loan).Update("sla_state", state).Error; err != nil {
			log.Printf("❌ SLA update failed for %s: %v", loan.ID, err)
			continue
		}
		updated++
		if state == models.SLABreached {
			log.Printf("⚠️ Loan %s breached SLA (age %s)", loan.ID, now.Sub(loan.CreatedAt).Round(time.Hour))
		}
	}

	if updated > 0 {
		log.Printf("✅ SLA sweep updated %d of %d open requests", updated, len(loans))
	}
}

func slaStateFor(age time.Duration) string {
	switch {
	case age >= slaBreachAfter:
		return models.SLABreached
	case age >= slaWarnAfter:
		return models.SLAWarning
	default:
		return models.SLAOk
	}
}
