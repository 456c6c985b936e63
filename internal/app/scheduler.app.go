package app

import (
	"context"
	"fmt"

	"factorindex/internal/db/models/postgres/public/model"
	"factorindex/internal/domain"
	"factorindex/internal/logger"

	"github.com/robfig/cron/v3"
)

type ScheduleSettings struct {
	// Refresh runs a minimal refresh cycle, which also rebalances when due
	Refresh string `yaml:"refresh"`
	// Rebalance runs a standalone rebalance check, empty disables it
	Rebalance string `yaml:"rebalance"`
}

func DefaultScheduleSettings() ScheduleSettings {
	return ScheduleSettings{
		// weekdays after the US close
		Refresh: "30 21 * * MON-FRI",
	}
}

type Scheduler struct {
	cron     *cron.Cron
	queue    *JobQueue
	pipeline IndexPipeline
}

func NewScheduler(ctx context.Context, settings ScheduleSettings, queue *JobQueue, pipeline IndexPipeline) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(),
		queue:    queue,
		pipeline: pipeline,
	}

	if settings.Refresh != "" {
		if err := s.add(ctx, settings.Refresh, model.JobRunType_Refresh, map[string]string{"mode": string(domain.RefreshModeMinimal)}, pipeline.RefreshJob(domain.RefreshModeMinimal)); err != nil {
			return nil, err
		}
	}
	if settings.Rebalance != "" {
		if err := s.add(ctx, settings.Rebalance, model.JobRunType_Rebalance, map[string]bool{"force": false}, pipeline.RebalanceJob(false)); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Scheduler) add(ctx context.Context, spec string, jobType model.JobRunType, params any, fn JobFunc) error {
	log := logger.FromContext(ctx)
	_, err := s.cron.AddFunc(spec, func() {
		if _, err := s.queue.Enqueue(ctx, jobType, params, fn); err != nil {
			log.Errorf("failed to enqueue scheduled %s job: %s", jobType, err.Error())
		}
	})
	if err != nil {
		return fmt.Errorf("invalid %s schedule %q: %w", jobType, spec, err)
	}
	log.Infof("scheduled %s job at %q", jobType, spec)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}
