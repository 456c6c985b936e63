package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"factorindex/internal/app"
	"factorindex/internal/calculator"
	"factorindex/internal/domain"
	mock_repository "factorindex/internal/repository/mocks"
	l1_service "factorindex/internal/service/l1"
	l3_service "factorindex/internal/service/l3"
	mock_l3_service "factorindex/internal/service/l3/mocks"

	"github.com/gin-gonic/gin"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/golang-jwt/jwt"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testSecret = "test-secret"

type apiMocks struct {
	jobRunRepository     *mock_repository.MockJobRunRepository
	allocationRepository *mock_repository.MockAllocationRepository
	strategyService      *mock_l3_service.MockStrategyService
	simulationService    *mock_l3_service.MockSimulationService
}

func newTestApi(t *testing.T) (*gin.Engine, apiMocks) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	mocks := apiMocks{
		jobRunRepository:     mock_repository.NewMockJobRunRepository(ctrl),
		allocationRepository: mock_repository.NewMockAllocationRepository(ctrl),
		strategyService:      mock_l3_service.NewMockStrategyService(ctrl),
		simulationService:    mock_l3_service.NewMockSimulationService(ctrl),
	}
	handler := ApiHandler{
		JobQueue: app.NewJobQueue(mocks.jobRunRepository, nil),
		ReportHandler: app.ReportHandler{
			AllocationRepository: mocks.allocationRepository,
			JobRunRepository:     mocks.jobRunRepository,
			StaleAfter:           36 * time.Hour,
		},
		StrategyService:   mocks.strategyService,
		SimulationService: mocks.simulationService,
		BaseCurrency:      "USD",
		JwtSecret:         testSecret,
	}
	return handler.NewEngine(), mocks
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func adminToken(t *testing.T) string {
	return signToken(t, testSecret, jwt.MapClaims{
		"sub":  "ops",
		"role": adminRole,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
}

func serve(engine *gin.Engine, method, path string, body []byte, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func Test_parseAdminJWT(t *testing.T) {
	t.Run("valid token", func(t *testing.T) {
		claims, err := parseAdminJWT(adminToken(t), testSecret)
		require.NoError(t, err)
		require.Equal(t, adminClaims{Subject: "ops", Role: adminRole}, *claims)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := parseAdminJWT(adminToken(t), "other-secret")
		require.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"role": adminRole,
			"exp":  time.Now().Add(-time.Hour).Unix(),
		})
		_, err := parseAdminJWT(token, testSecret)
		require.Error(t, err)
	})
}

func TestAdminRoutes_auth(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		engine, _ := newTestApi(t)
		w := serve(engine, http.MethodGet, "/config", nil, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non admin role", func(t *testing.T) {
		engine, _ := newTestApi(t)
		token := signToken(t, testSecret, jwt.MapClaims{
			"role": "viewer",
			"exp":  time.Now().Add(time.Hour).Unix(),
		})
		w := serve(engine, http.MethodGet, "/config", nil, token)
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin token", func(t *testing.T) {
		engine, mocks := newTestApi(t)
		cfg := domain.DefaultStrategyConfig()
		cfg.Version = 3
		mocks.strategyService.EXPECT().GetConfig(gomock.Nil()).Return(&cfg, nil)

		w := serve(engine, http.MethodGet, "/config", nil, adminToken(t))
		require.Equal(t, http.StatusOK, w.Code)

		out := getConfigResponse{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		require.Equal(t, int32(3), out.Config.Version)
		require.Empty(t, out.Versions)
	})
}

func TestUpdateConfig(t *testing.T) {
	t.Run("invalid config is rejected with reasons", func(t *testing.T) {
		engine, _ := newTestApi(t)
		body := []byte(`{"factorWeights": {"momentum": 0.5, "marketCap": 0.3, "riskParity": 0.25}}`)

		w := serve(engine, http.MethodPut, "/config", body, adminToken(t))
		require.Equal(t, http.StatusBadRequest, w.Code)

		out := map[string]any{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		require.Len(t, out["reasons"], 1)
	})

	t.Run("partial body keeps defaults", func(t *testing.T) {
		engine, mocks := newTestApi(t)
		body := []byte(`{"lookbackDays": 60}`)

		expected := domain.DefaultStrategyConfig()
		expected.LookbackDays = 60
		mocks.strategyService.EXPECT().UpdateConfig(gomock.Any(), expected, false).Return(&l3_service.UpdateConfigResult{
			Config: expected,
		}, nil)

		w := serve(engine, http.MethodPut, "/config", body, adminToken(t))
		require.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGetCurrentAllocations(t *testing.T) {
	engine, mocks := newTestApi(t)
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	mocks.jobRunRepository.EXPECT().GetLatest(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)
	mocks.allocationRepository.EXPECT().GetLatest(gomock.Nil()).Return(&domain.AllocationSet{
		Date:          date,
		ConfigVersion: 2,
		Weights:       map[string]float64{"AAA": 0.6, "BBB": 0.4},
	}, nil)

	w := serve(engine, http.MethodGet, "/allocations/current", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	out := app.CurrentAllocations{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Equal(t, int32(2), out.ConfigVersion)
	require.Len(t, out.Allocations, 2)
	require.Equal(t, "AAA", out.Allocations[0].Symbol)
	require.True(t, out.IsStale)
}

func TestSimulate(t *testing.T) {
	t.Run("bad start date", func(t *testing.T) {
		engine, _ := newTestApi(t)
		w := serve(engine, http.MethodPost, "/simulate", []byte(`{"amount": 1000, "startDate": "03/01/2024"}`), "")
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("non positive amount", func(t *testing.T) {
		engine, _ := newTestApi(t)
		w := serve(engine, http.MethodPost, "/simulate", []byte(`{"amount": 0, "startDate": "2024-03-01"}`), "")
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("simulates in requested currency", func(t *testing.T) {
		engine, mocks := newTestApi(t)
		start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

		mocks.jobRunRepository.EXPECT().GetLatest(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)
		mocks.simulationService.EXPECT().Simulate(gomock.Any(), gomock.Nil(), gomock.Any()).DoAndReturn(
			func(_ any, _ any, in l3_service.SimulateInput) (*calculator.SimulationResult, error) {
				require.True(t, in.Amount.Equal(decimal.NewFromInt(1000)))
				require.True(t, in.StartDate.Equal(start))
				require.Equal(t, "eur", in.Currency)
				return &calculator.SimulationResult{
					StartDate:     start,
					InitialAmount: decimal.NewFromInt(1000),
					FinalAmount:   decimal.NewFromInt(1100),
					RoiPct:        10,
				}, nil
			})

		w := serve(engine, http.MethodPost, "/simulate", []byte(`{"amount": "1000", "startDate": "2024-03-01", "currency": "eur"}`), "")
		require.Equal(t, http.StatusOK, w.Code)

		out := map[string]any{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		require.Equal(t, "EUR", out["currency"])
		require.Equal(t, "1100", out["finalAmount"])
		require.Equal(t, true, out["isStale"])
	})
}

func TestRefresh_invalidMode(t *testing.T) {
	engine, _ := newTestApi(t)
	w := serve(engine, http.MethodPost, "/refresh?mode=everything", nil, adminToken(t))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetJob_invalidID(t *testing.T) {
	engine, _ := newTestApi(t)
	w := serve(engine, http.MethodGet, "/jobs/not-a-uuid", nil, adminToken(t))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func Test_returnErrorJson(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid config", &domain.ConfigInvalidError{Reasons: []string{"bad"}}, http.StatusBadRequest},
		{"insufficient assets", fmt.Errorf("failed: %w", &domain.InsufficientAssetsError{Required: 2}), http.StatusConflict},
		{"not cancellable", fmt.Errorf("job is done: %w", app.ErrJobNotCancellable), http.StatusConflict},
		{"circuit open", fmt.Errorf("refresh: %w", &domain.CircuitOpenError{Provider: "alpaca"}), http.StatusServiceUnavailable},
		{"no rows", fmt.Errorf("failed to get job run: %w", qrm.ErrNoRows), http.StatusNotFound},
		{"no index", domain.ErrNoIndexHistory, http.StatusNotFound},
		{"missing fx", l1_service.FxRateNotFoundError{From: "EUR", To: "USD"}, http.StatusUnprocessableEntity},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			returnErrorJson(tc.err, c)
			require.Equal(t, tc.code, w.Code)
		})
	}
}
