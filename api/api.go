package api

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"factorindex/internal/app"
	"factorindex/internal/domain"
	"factorindex/internal/logger"
	l1_service "factorindex/internal/service/l1"
	l2_service "factorindex/internal/service/l2"
	l3_service "factorindex/internal/service/l3"
	"factorindex/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ApiHandler struct {
	Db                *sql.DB
	JobQueue          *app.JobQueue
	Pipeline          app.IndexPipeline
	ReportHandler     app.ReportHandler
	StrategyService   l3_service.StrategyService
	SimulationService l3_service.SimulationService
	IndexService      l2_service.IndexService
	BaseCurrency      string
	// JwtSecret signs the HS256 tokens accepted by admin routes
	JwtSecret string
	Gatherer  prometheus.Gatherer
}

func (m ApiHandler) NewEngine() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	router.Use(m.logRequestMiddlware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to factorindex"})
	})
	router.GET("/allocations/current", m.getCurrentAllocations)
	router.GET("/index", m.getIndexHistory)
	router.GET("/benchmark", m.getBenchmark)
	router.GET("/risk", m.getRiskMetrics)
	router.POST("/simulate", m.simulate)

	if m.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Gatherer, promhttp.HandlerOpts{})))
	}

	admin := router.Group("")
	admin.Use(adminMiddleware(m.JwtSecret))
	admin.POST("/refresh", m.refresh)
	admin.POST("/rebalance", m.rebalance)
	admin.POST("/recompute", m.recompute)
	admin.GET("/config", m.getConfig)
	admin.PUT("/config", m.updateConfig)
	admin.GET("/jobs", m.listJobs)
	admin.GET("/jobs/:id", m.getJob)
	admin.POST("/jobs/:id/cancel", m.cancelJob)

	return router
}

func (m ApiHandler) StartApi(port int) error {
	return m.NewEngine().Run(fmt.Sprintf(":%d", port))
}

// returnErrorJson picks the status from the error kind.
func returnErrorJson(err error, c *gin.Context) {
	var (
		configErr       *domain.ConfigInvalidError
		insufficientErr *domain.InsufficientAssetsError
		fxErr           l1_service.FxRateNotFoundError
	)

	switch {
	case errors.As(err, &configErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   err.Error(),
			"reasons": configErr.Reasons,
		})
		return
	case errors.As(err, &insufficientErr):
		returnErrorJsonCode(err, c, http.StatusConflict)
	case errors.Is(err, app.ErrJobNotCancellable):
		returnErrorJsonCode(err, c, http.StatusConflict)
	case errors.Is(err, domain.ErrCircuitOpen):
		returnErrorJsonCode(err, c, http.StatusServiceUnavailable)
	case errors.Is(err, qrm.ErrNoRows), errors.Is(err, domain.ErrNoIndexHistory):
		returnErrorJsonCode(err, c, http.StatusNotFound)
	case errors.As(err, &fxErr):
		returnErrorJsonCode(err, c, http.StatusUnprocessableEntity)
	default:
		returnErrorJsonCode(err, c, http.StatusInternalServerError)
	}
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	log := logger.FromContext(c.Request.Context())
	if code >= 500 {
		log.Errorf("%s %s: %s", c.Request.Method, c.FullPath(), err.Error())
	} else {
		log.Warnf("%s %s: %s", c.Request.Method, c.FullPath(), err.Error())
	}
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

func parseDateParam(c *gin.Context, name string) (*time.Time, error) {
	t, err := util.ParseDate(c.Query(name))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return t, nil
}

func parseIntParam(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}

func parseBoolParam(c *gin.Context, name string) (bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}

type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r responseBodyWriter) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// logRequestMiddlware gives each request its own logger and logs the outcome.
// Error bodies are logged in full; successful ones are not.
func (m ApiHandler) logRequestMiddlware(ctx *gin.Context) {
	w := &responseBodyWriter{body: &bytes.Buffer{}, ResponseWriter: ctx.Writer}
	ctx.Writer = w

	requestID := uuid.New()
	log := logger.FromContext(ctx.Request.Context()).With(
		"requestID", requestID.String(),
		"method", ctx.Request.Method,
		"route", ctx.Request.URL.Path,
	)
	ctx.Request = ctx.Request.WithContext(logger.WithContext(ctx.Request.Context(), log))
	ctx.Header("X-Request-ID", requestID.String())

	start := time.Now().UTC()
	ctx.Next()

	status := ctx.Writer.Status()
	fields := []interface{}{
		"status", status,
		"durationMs", time.Since(start).Milliseconds(),
		"ipAddress", ctx.ClientIP(),
	}
	if status >= 400 {
		fields = append(fields, "responseBody", w.body.String())
	}
	log.Infow("handled request", fields...)
}
