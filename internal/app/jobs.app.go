package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"factorindex/internal/db/models/postgres/public/model"
	"factorindex/internal/db/models/postgres/public/table"
	"factorindex/internal/domain"
	"factorindex/internal/logger"
	"factorindex/internal/repository"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// JobFunc does the work of a job. partial marks a run that finished but
// skipped some of its inputs.
type JobFunc func(ctx context.Context) (result any, partial bool, err error)

var ErrJobNotCancellable = errors.New("job is not pending or running")

type queuedJob struct {
	run *model.JobRun
	fn  JobFunc
}

// JobQueue runs refresh and rebalance work in the background, one job at a
// time, and records every run in job_run.
type JobQueue struct {
	JobRunRepository repository.JobRunRepository

	jobs    chan queuedJob
	mu      sync.Mutex
	cancels map[uuid.UUID]context.CancelFunc
	// pending runs that were cancelled before a worker picked them up
	cancelledPending map[uuid.UUID]bool
	wg               sync.WaitGroup

	jobsTotal   *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec
}

func NewJobQueue(jobRunRepository repository.JobRunRepository, registerer prometheus.Registerer) *JobQueue {
	q := &JobQueue{
		JobRunRepository: jobRunRepository,
		jobs:             make(chan queuedJob, 64),
		cancels:          map[uuid.UUID]context.CancelFunc{},
		cancelledPending: map[uuid.UUID]bool{},
		jobsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "factorindex",
			Name:      "jobs_total",
			Help:      "Completed jobs by type and final state.",
		}, []string{"job_type", "state"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "factorindex",
			Name:      "job_duration_seconds",
			Help:      "Job run time by type.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"job_type"}),
	}
	if registerer != nil {
		registerer.MustRegister(q.jobsTotal, q.jobDuration)
	}
	return q
}

// Start launches the worker. It returns when ctx is done and the current job
// has finished.
func (q *JobQueue) Start(ctx context.Context) {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case job := <-q.jobs:
				q.execute(ctx, job)
			}
		}
	}()
}

func (q *JobQueue) Wait() {
	q.wg.Wait()
}

// Enqueue records a pending run and hands it to the worker.
func (q *JobQueue) Enqueue(ctx context.Context, jobType model.JobRunType, params any, fn JobFunc) (*model.JobRun, error) {
	run, err := q.add(jobType, params)
	if err != nil {
		return nil, err
	}

	select {
	case q.jobs <- queuedJob{run: run, fn: fn}:
	default:
		q.finish(ctx, run, time.Now(), nil, nil, fmt.Errorf("job queue is full"))
		return nil, fmt.Errorf("job queue is full, %s not enqueued", jobType)
	}

	logger.FromContext(ctx).Infof("enqueued %s job %s", jobType, run.JobRunID.String())
	return run, nil
}

// Run records and executes a job on the calling goroutine.
func (q *JobQueue) Run(ctx context.Context, jobType model.JobRunType, params any, fn JobFunc) (*model.JobRun, error) {
	run, err := q.add(jobType, params)
	if err != nil {
		return nil, err
	}
	return q.execute(ctx, queuedJob{run: run, fn: fn}), nil
}

func (q *JobQueue) Get(id uuid.UUID) (*model.JobRun, error) {
	return q.JobRunRepository.Get(id)
}

// List returns the most recent runs, newest first.
func (q *JobQueue) List(limit int) ([]model.JobRun, error) {
	return q.JobRunRepository.List(limit)
}

// Cancel stops a running job at its next cancellation check, or prevents a
// pending one from starting.
func (q *JobQueue) Cancel(id uuid.UUID) (*model.JobRun, error) {
	run, err := q.JobRunRepository.Get(id)
	if err != nil {
		return nil, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	switch run.State {
	case model.JobRunState_Running:
		cancel, ok := q.cancels[id]
		if !ok {
			return nil, fmt.Errorf("job %s is running in another process: %w", id.String(), ErrJobNotCancellable)
		}
		cancel()
		return run, nil
	case model.JobRunState_Pending:
		// the worker may have picked it up since it was read
		if cancel, ok := q.cancels[id]; ok {
			cancel()
			return run, nil
		}
		q.cancelledPending[id] = true
		now := time.Now().UTC()
		run.State = model.JobRunState_Cancelled
		run.CompletedAt = &now
		return q.JobRunRepository.Update(nil, run, postgres.ColumnList{
			table.JobRun.State,
			table.JobRun.CompletedAt,
		})
	default:
		return nil, fmt.Errorf("job %s is %s: %w", id.String(), run.State, ErrJobNotCancellable)
	}
}

func (q *JobQueue) add(jobType model.JobRunType, params any) (*model.JobRun, error) {
	var paramsStr *string
	if params != nil {
		bytes, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal job params: %w", err)
		}
		s := string(bytes)
		paramsStr = &s
	}

	return q.JobRunRepository.Add(nil, model.JobRun{
		JobRunID: uuid.New(),
		JobType:  jobType,
		State:    model.JobRunState_Pending,
		Params:   paramsStr,
	})
}

func (q *JobQueue) execute(parent context.Context, job queuedJob) *model.JobRun {
	run := job.run
	log := logger.FromContext(parent).With("jobRunID", run.JobRunID.String(), "jobType", run.JobType.String())

	q.mu.Lock()
	if q.cancelledPending[run.JobRunID] {
		delete(q.cancelledPending, run.JobRunID)
		q.mu.Unlock()
		log.Info("skipping cancelled job")
		run.State = model.JobRunState_Cancelled
		return run
	}
	ctx, cancel := context.WithCancel(parent)
	q.cancels[run.JobRunID] = cancel
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		delete(q.cancels, run.JobRunID)
		q.mu.Unlock()
		cancel()
	}()

	profile, endProfile := domain.NewProfile()
	ctx = domain.ContextWithProfile(logger.WithContext(ctx, log), profile)

	startedAt := time.Now().UTC()
	run.State = model.JobRunState_Running
	run.StartedAt = &startedAt
	if updated, err := q.JobRunRepository.Update(nil, run, postgres.ColumnList{
		table.JobRun.State,
		table.JobRun.StartedAt,
	}); err != nil {
		log.Errorf("failed to mark job running: %s", err.Error())
	} else {
		run = updated
	}

	result, partial, err := job.fn(ctx)
	endProfile()

	var profileJson []byte
	if b, marshalErr := profile.ToJsonBytes(); marshalErr == nil {
		profileJson = b
	}

	state := model.JobRunState_Succeeded
	switch {
	case err != nil && ctx.Err() != nil && errors.Is(err, context.Canceled):
		state = model.JobRunState_Cancelled
	case err != nil:
		state = model.JobRunState_Failed
	case partial:
		state = model.JobRunState_Partial
	}
	run.State = state

	return q.finish(ctx, run, startedAt, result, profileJson, err)
}

func (q *JobQueue) finish(ctx context.Context, run *model.JobRun, startedAt time.Time, result any, profile []byte, jobErr error) *model.JobRun {
	log := logger.FromContext(ctx)

	completedAt := time.Now().UTC()
	run.CompletedAt = &completedAt
	if jobErr != nil {
		msg := jobErr.Error()
		run.ErrorMessage = &msg
		if run.State != model.JobRunState_Cancelled {
			run.State = model.JobRunState_Failed
		}
	}
	if result != nil {
		if bytes, err := json.Marshal(result); err == nil {
			s := string(bytes)
			run.Result = &s
		} else {
			log.Warnf("failed to marshal job result: %s", err.Error())
		}
	}
	if profile != nil {
		s := string(profile)
		run.Profile = &s
	}

	updated, err := q.JobRunRepository.Update(nil, run, postgres.ColumnList{
		table.JobRun.State,
		table.JobRun.Result,
		table.JobRun.ErrorMessage,
		table.JobRun.Profile,
		table.JobRun.CompletedAt,
	})
	if err != nil {
		log.Errorf("failed to record job completion: %s", err.Error())
	} else {
		run = updated
	}

	q.jobsTotal.WithLabelValues(run.JobType.String(), run.State.String()).Inc()
	q.jobDuration.WithLabelValues(run.JobType.String()).Observe(completedAt.Sub(startedAt).Seconds())

	if jobErr != nil {
		log.Errorf("%s job %s: %s", run.JobType, run.State, jobErr.Error())
	} else {
		log.Infof("%s job %s", run.JobType, run.State)
	}

	return run
}
