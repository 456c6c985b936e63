package api

import (
	"fmt"
	"net/http"

	"factorindex/internal/db/models/postgres/public/model"
	"factorindex/internal/domain"

	"github.com/gin-gonic/gin"
)

func (m ApiHandler) refresh(ctx *gin.Context) {
	mode, ok := domain.ParseRefreshMode(ctx.Query("mode"))
	if !ok {
		returnErrorJsonCode(fmt.Errorf("invalid refresh mode %q", ctx.Query("mode")), ctx, http.StatusBadRequest)
		return
	}

	m.submitJob(ctx, model.JobRunType_Refresh, map[string]string{"mode": string(mode)}, m.Pipeline.RefreshJob(mode))
}
