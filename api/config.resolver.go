package api

import (
	"context"
	"fmt"
	"net/http"

	"factorindex/internal/db/models/postgres/public/model"
	"factorindex/internal/domain"

	"github.com/gin-gonic/gin"
)

type getConfigResponse struct {
	Config   domain.StrategyConfig   `json:"config"`
	Versions []domain.StrategyConfig `json:"versions,omitempty"`
}

func (m ApiHandler) getConfig(ctx *gin.Context) {
	history, err := parseBoolParam(ctx, "history")
	if err != nil {
		returnErrorJsonCode(err, ctx, http.StatusBadRequest)
		return
	}

	cfg, err := m.StrategyService.GetConfig(nil)
	if err != nil {
		returnErrorJson(fmt.Errorf("failed to get strategy config: %w", err), ctx)
		return
	}
	out := getConfigResponse{Config: *cfg}

	if history {
		versions, err := m.StrategyService.ListConfigs(nil)
		if err != nil {
			returnErrorJson(fmt.Errorf("failed to list strategy configs: %w", err), ctx)
			return
		}
		out.Versions = versions
	}

	ctx.JSON(200, out)
}

// updateConfig stores a new config version. Fields missing from the body keep
// their defaults. With recompute set the forced rebalance runs as a job.
func (m ApiHandler) updateConfig(ctx *gin.Context) {
	recompute, err := parseBoolParam(ctx, "recompute")
	if err != nil {
		returnErrorJsonCode(err, ctx, http.StatusBadRequest)
		return
	}

	cfg := domain.DefaultStrategyConfig()
	if err := ctx.ShouldBindJSON(&cfg); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), ctx, http.StatusBadRequest)
		return
	}
	cfg.Version = 0
	if err := cfg.Validate(); err != nil {
		returnErrorJson(err, ctx)
		return
	}

	if recompute {
		m.submitJob(ctx, model.JobRunType_Rebalance, map[string]any{"force": true, "config": cfg}, func(c context.Context) (any, bool, error) {
			result, err := m.StrategyService.UpdateConfig(c, cfg, true)
			return result, false, err
		})
		return
	}

	result, err := m.StrategyService.UpdateConfig(ctx.Request.Context(), cfg, false)
	if err != nil {
		returnErrorJson(fmt.Errorf("failed to update strategy config: %w", err), ctx)
		return
	}
	ctx.JSON(200, result)
}
