package api

import (
	"net/http"
	"time"

	"factorindex/internal/db/models/postgres/public/model"

	"github.com/gin-gonic/gin"
)

func (m ApiHandler) rebalance(ctx *gin.Context) {
	force, err := parseBoolParam(ctx, "force")
	if err != nil {
		returnErrorJsonCode(err, ctx, http.StatusBadRequest)
		return
	}

	m.submitJob(ctx, model.JobRunType_Rebalance, map[string]bool{"force": force}, m.Pipeline.RebalanceJob(force))
}

// recompute rebuilds the index from the given date, or from the first
// allocation when none is given.
func (m ApiHandler) recompute(ctx *gin.Context) {
	from, err := parseDateParam(ctx, "from")
	if err != nil {
		returnErrorJsonCode(err, ctx, http.StatusBadRequest)
		return
	}

	params := map[string]string{}
	if from != nil {
		params["from"] = from.Format(time.DateOnly)
	}
	m.submitJob(ctx, model.JobRunType_RecomputeIndex, params, m.Pipeline.RecomputeJob(from))
}
