package api

import (
	"fmt"
	"net/http"
	"time"

	"factorindex/internal/domain"

	"github.com/gin-gonic/gin"
)

func (m ApiHandler) getIndexHistory(ctx *gin.Context) {
	start, err := parseDateParam(ctx, "start")
	if err != nil {
		returnErrorJsonCode(err, ctx, http.StatusBadRequest)
		return
	}
	end, err := parseDateParam(ctx, "end")
	if err != nil {
		returnErrorJsonCode(err, ctx, http.StatusBadRequest)
		return
	}
	if start != nil && end != nil && end.Before(*start) {
		returnErrorJsonCode(fmt.Errorf("end %s is before start %s", end.Format(time.DateOnly), start.Format(time.DateOnly)), ctx, http.StatusBadRequest)
		return
	}

	out, err := m.ReportHandler.GetIndexHistory(start, end)
	if err != nil {
		returnErrorJson(fmt.Errorf("failed to get index history: %w", err), ctx)
		return
	}

	ctx.JSON(200, out)
}

type getBenchmarkResponse struct {
	Values []domain.IndexValue `json:"values"`
}

// getBenchmark returns the benchmark rebased to the index base value on start.
func (m ApiHandler) getBenchmark(ctx *gin.Context) {
	start, err := parseDateParam(ctx, "start")
	if err != nil {
		returnErrorJsonCode(err, ctx, http.StatusBadRequest)
		return
	}
	if start == nil {
		returnErrorJsonCode(fmt.Errorf("start is required"), ctx, http.StatusBadRequest)
		return
	}
	end, err := parseDateParam(ctx, "end")
	if err != nil {
		returnErrorJsonCode(err, ctx, http.StatusBadRequest)
		return
	}
	if end == nil {
		now := time.Now().UTC()
		end = &now
	}

	values, err := m.IndexService.Benchmark(ctx.Request.Context(), nil, *start, *end)
	if err != nil {
		returnErrorJson(fmt.Errorf("failed to get benchmark: %w", err), ctx)
		return
	}

	ctx.JSON(200, getBenchmarkResponse{Values: values})
}
