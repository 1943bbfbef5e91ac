// internal/scheduler/scheduler.go
package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/greenbourne277/zbwcloud/internal/services"
)

// Scheduler runs the periodic application of all templates. An empty cron
// expression disables it.
type Scheduler struct {
	cron            *cron.Cron
	templateService *services.TemplateService
	logger          *logrus.Logger
}

func New(templateService *services.TemplateService, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(),
		templateService: templateService,
		logger:          logger,
	}
}

func (s *Scheduler) Start(applyCron string) error {
	if applyCron == "" {
		s.logger.Info("template apply schedule disabled")
		return nil
	}

	_, err := s.cron.AddFunc(applyCron, s.applyAll)
	if err != nil {
		return fmt.Errorf("invalid template apply cron %q: %w", applyCron, err)
	}

	s.cron.Start()
	s.logger.WithField("cron", applyCron).Info("template apply schedule started")
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) applyAll() {
	results, err := s.templateService.ApplyAllTemplates()
	if err != nil {
		s.logger.WithError(err).Error("scheduled template apply failed")
		return
	}

	var linked, conflicts int
	for _, r := range results {
		linked += len(r.LinkedMetadataIDs)
		conflicts += len(r.Errors)
	}
	s.logger.WithFields(logrus.Fields{
		"templates": len(results),
		"linked":    linked,
		"conflicts": conflicts,
	}).Info("scheduled template apply finished")
}
