package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

func (m ApiHandler) getCurrentAllocations(ctx *gin.Context) {
	out, err := m.ReportHandler.GetCurrentAllocations()
	if err != nil {
		returnErrorJson(fmt.Errorf("failed to get current allocations: %w", err), ctx)
		return
	}

	ctx.JSON(200, out)
}
