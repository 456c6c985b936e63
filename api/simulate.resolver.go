package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"factorindex/internal/app"
	"factorindex/internal/calculator"
	l3_service "factorindex/internal/service/l3"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type simulateRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	StartDate string          `json:"startDate"`
	Currency  string          `json:"currency"`
}

type simulateResponse struct {
	Currency string `json:"currency"`
	*calculator.SimulationResult
	app.ReportFlags
}

func (m ApiHandler) simulate(ctx *gin.Context) {
	var requestBody simulateRequest
	if err := ctx.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), ctx, http.StatusBadRequest)
		return
	}

	startDate, err := time.Parse(time.DateOnly, requestBody.StartDate)
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("invalid startDate %q, expected YYYY-MM-DD", requestBody.StartDate), ctx, http.StatusBadRequest)
		return
	}
	if !requestBody.Amount.IsPositive() {
		returnErrorJsonCode(fmt.Errorf("amount must be positive, got %s", requestBody.Amount.String()), ctx, http.StatusBadRequest)
		return
	}

	flags, err := m.ReportHandler.Flags()
	if err != nil {
		returnErrorJson(fmt.Errorf("failed to get report flags: %w", err), ctx)
		return
	}

	result, err := m.SimulationService.Simulate(ctx.Request.Context(), nil, l3_service.SimulateInput{
		Amount:    requestBody.Amount,
		StartDate: startDate,
		Currency:  requestBody.Currency,
	})
	if err != nil {
		returnErrorJson(fmt.Errorf("failed to simulate investment: %w", err), ctx)
		return
	}

	currency := strings.ToUpper(requestBody.Currency)
	if currency == "" {
		currency = strings.ToUpper(m.BaseCurrency)
	}
	ctx.JSON(200, simulateResponse{
		Currency:         currency,
		SimulationResult: result,
		ReportFlags:      *flags,
	})
}
