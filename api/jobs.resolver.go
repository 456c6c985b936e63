package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"factorindex/internal/app"
	"factorindex/internal/db/models/postgres/public/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultJobsLimit = 20

type jobRunResponse struct {
	JobRunID     uuid.UUID       `json:"jobRunID"`
	JobType      string          `json:"jobType"`
	State        string          `json:"state"`
	Params       json.RawMessage `json:"params,omitempty"`
	Result       json.RawMessage `json:"result,omitempty"`
	ErrorMessage *string         `json:"errorMessage,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	StartedAt    *time.Time      `json:"startedAt,omitempty"`
	CompletedAt  *time.Time      `json:"completedAt,omitempty"`
}

func jobRunToResponse(run model.JobRun) jobRunResponse {
	out := jobRunResponse{
		JobRunID:     run.JobRunID,
		JobType:      run.JobType.String(),
		State:        run.State.String(),
		ErrorMessage: run.ErrorMessage,
		CreatedAt:    run.CreatedAt,
		StartedAt:    run.StartedAt,
		CompletedAt:  run.CompletedAt,
	}
	if run.Params != nil && json.Valid([]byte(*run.Params)) {
		out.Params = json.RawMessage(*run.Params)
	}
	if run.Result != nil && json.Valid([]byte(*run.Result)) {
		out.Result = json.RawMessage(*run.Result)
	}
	return out
}

// submitJob queues fn, or runs it inline when the caller asked to wait.
func (m ApiHandler) submitJob(ctx *gin.Context, jobType model.JobRunType, params any, fn app.JobFunc) {
	wait, err := parseBoolParam(ctx, "wait")
	if err != nil {
		returnErrorJsonCode(err, ctx, http.StatusBadRequest)
		return
	}

	if wait {
		run, err := m.JobQueue.Run(ctx.Request.Context(), jobType, params, fn)
		if err != nil {
			returnErrorJson(fmt.Errorf("failed to run %s job: %w", jobType, err), ctx)
			return
		}
		ctx.JSON(200, jobRunToResponse(*run))
		return
	}

	run, err := m.JobQueue.Enqueue(ctx.Request.Context(), jobType, params, fn)
	if err != nil {
		returnErrorJson(fmt.Errorf("failed to enqueue %s job: %w", jobType, err), ctx)
		return
	}
	ctx.JSON(http.StatusAccepted, jobRunToResponse(*run))
}

func (m ApiHandler) listJobs(ctx *gin.Context) {
	limit, err := parseIntParam(ctx, "limit", defaultJobsLimit)
	if err != nil {
		returnErrorJsonCode(err, ctx, http.StatusBadRequest)
		return
	}

	runs, err := m.JobQueue.List(limit)
	if err != nil {
		returnErrorJson(fmt.Errorf("failed to list jobs: %w", err), ctx)
		return
	}

	out := []jobRunResponse{}
	for _, r := range runs {
		out = append(out, jobRunToResponse(r))
	}
	ctx.JSON(200, out)
}

func (m ApiHandler) getJob(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("invalid job id %q", ctx.Param("id")), ctx, http.StatusBadRequest)
		return
	}

	run, err := m.JobQueue.Get(id)
	if err != nil {
		returnErrorJson(err, ctx)
		return
	}
	ctx.JSON(200, jobRunToResponse(*run))
}

func (m ApiHandler) cancelJob(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("invalid job id %q", ctx.Param("id")), ctx, http.StatusBadRequest)
		return
	}

	run, err := m.JobQueue.Cancel(id)
	if err != nil {
		returnErrorJson(fmt.Errorf("failed to cancel job: %w", err), ctx)
		return
	}
	ctx.JSON(200, jobRunToResponse(*run))
}
