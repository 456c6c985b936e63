package api

import (
	"fmt"
	"net/http"

	"factorindex/internal/domain"

	"github.com/gin-gonic/gin"
)

const defaultRiskLimit = 30

func (m ApiHandler) getRiskMetrics(ctx *gin.Context) {
	window, err := parseIntParam(ctx, "window", domain.AllTimeWindow)
	if err != nil {
		returnErrorJsonCode(err, ctx, http.StatusBadRequest)
		return
	}
	limit, err := parseIntParam(ctx, "limit", defaultRiskLimit)
	if err != nil {
		returnErrorJsonCode(err, ctx, http.StatusBadRequest)
		return
	}

	out, err := m.ReportHandler.GetRiskMetrics(window, limit)
	if err != nil {
		returnErrorJson(fmt.Errorf("failed to get risk metrics: %w", err), ctx)
		return
	}

	ctx.JSON(200, out)
}
