package app

import (
	"time"

	"factorindex/internal/db/models/postgres/public/model"
	"factorindex/internal/domain"
	"factorindex/internal/repository"
)

// ReportFlags describe how fresh the served data is. They are read from job
// records, so reports never wait on a running refresh.
type ReportFlags struct {
	IsStale            bool `json:"isStale"`
	LastRefreshPartial bool `json:"lastRefreshPartial"`
	RefreshInProgress  bool `json:"refreshInProgress"`
}

type CurrentAllocations struct {
	Date          *time.Time          `json:"date"`
	ConfigVersion int32               `json:"configVersion"`
	Allocations   []domain.Allocation `json:"allocations"`
	ReportFlags
}

type IndexHistory struct {
	Values []domain.IndexValue `json:"values"`
	ReportFlags
}

type RiskReport struct {
	Snapshots []domain.RiskMetricSnapshot `json:"snapshots"`
	ReportFlags
}

type ReportHandler struct {
	AllocationRepository repository.AllocationRepository
	IndexValueRepository repository.IndexValueRepository
	RiskMetricRepository repository.RiskMetricRepository
	JobRunRepository     repository.JobRunRepository
	// StaleAfter is how long a successful refresh keeps data fresh
	StaleAfter time.Duration
	Now        func() time.Time
}

func (h ReportHandler) now() time.Time {
	if h.Now == nil {
		return time.Now().UTC()
	}
	return h.Now().UTC()
}

func (h ReportHandler) Flags() (*ReportFlags, error) {
	flags := &ReportFlags{}

	inProgress, err := h.JobRunRepository.GetLatest(model.JobRunType_Refresh, []model.JobRunState{
		model.JobRunState_Pending,
		model.JobRunState_Running,
	})
	if err != nil {
		return nil, err
	}
	flags.RefreshInProgress = inProgress != nil

	lastGood, err := h.JobRunRepository.GetLatest(model.JobRunType_Refresh, []model.JobRunState{
		model.JobRunState_Succeeded,
		model.JobRunState_Partial,
	})
	if err != nil {
		return nil, err
	}
	if lastGood == nil || lastGood.CompletedAt == nil {
		flags.IsStale = true
		return flags, nil
	}
	flags.LastRefreshPartial = lastGood.State == model.JobRunState_Partial
	flags.IsStale = h.now().Sub(*lastGood.CompletedAt) > h.StaleAfter

	return flags, nil
}

func (h ReportHandler) GetCurrentAllocations() (*CurrentAllocations, error) {
	flags, err := h.Flags()
	if err != nil {
		return nil, err
	}

	out := &CurrentAllocations{
		Allocations: []domain.Allocation{},
		ReportFlags: *flags,
	}
	set, err := h.AllocationRepository.GetLatest(nil)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return out, nil
	}

	out.Date = &set.Date
	out.ConfigVersion = set.ConfigVersion
	out.Allocations = set.ToAllocations()
	return out, nil
}

func (h ReportHandler) GetIndexHistory(start, end *time.Time) (*IndexHistory, error) {
	flags, err := h.Flags()
	if err != nil {
		return nil, err
	}
	values, err := h.IndexValueRepository.List(nil, start, end)
	if err != nil {
		return nil, err
	}
	return &IndexHistory{
		Values:      values,
		ReportFlags: *flags,
	}, nil
}

func (h ReportHandler) GetRiskMetrics(windowDays int, limit int) (*RiskReport, error) {
	flags, err := h.Flags()
	if err != nil {
		return nil, err
	}
	snapshots, err := h.RiskMetricRepository.List(nil, windowDays, limit)
	if err != nil {
		return nil, err
	}
	return &RiskReport{
		Snapshots:   snapshots,
		ReportFlags: *flags,
	}, nil
}
