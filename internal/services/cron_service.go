package services

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CronService manages scheduled background jobs
type CronService struct {
	cron          *cron.Cron
	expirationSvc *ExpirationService
	logger        *logrus.Logger
	sweepSpec     string
}

// NewCronService creates a new CronService. sweepSpec is a cron expression
// with seconds precision, e.g. "0 * * * * *" for every minute.
func NewCronService(expirationSvc *ExpirationService, logger *logrus.Logger, sweepSpec string) *CronService {
	return &CronService{
		cron:          cron.New(cron.WithSeconds()),
		expirationSvc: expirationSvc,
		logger:        logger,
		sweepSpec:     sweepSpec,
	}
}

// Start registers and starts all cron jobs
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(s.sweepSpec, s.sweepExpiredJob); err != nil {
		return fmt.Errorf("failed to schedule expired booking sweep: %w", err)
	}
	s.logger.WithField("spec", s.sweepSpec).Info("Scheduled expired booking sweep")

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

func (s *CronService) sweepExpiredJob() {
	if _, err := s.expirationSvc.SweepExpired(); err != nil {
		s.logger.WithError(err).Error("Scheduled sweep failed")
	}
}
