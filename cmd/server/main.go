package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/highdxy/uncertainty-sampling/internal/errors"
	"github.com/highdxy/uncertainty-sampling/internal/monitoring"
	"github.com/highdxy/uncertainty-sampling/internal/security"
	"github.com/highdxy/uncertainty-sampling/internal/types"
	"github.com/highdxy/uncertainty-sampling/internal/uncertainty"
)

const version = "1.0.0"

func main() {
	// Structured logging setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	port := getEnvOrDefault("PORT", "8080")

	r := setupRouter()

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

// setupRouter builds the gin engine with middleware and routes. Pulled
// out of main so endpoint tests can exercise the same wiring.
func setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	appMetrics := monitoring.NewMetrics()
	appLogger := monitoring.NewLogger()

	// Security middleware setup
	securityConfig := security.DefaultSecurityConfig()
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		securityConfig.AllowedOrigins = strings.Split(origins, ",")
	}
	if rpm := os.Getenv("RATE_LIMIT_RPM"); rpm != "" {
		if parsed, err := strconv.Atoi(rpm); err == nil && parsed > 0 {
			securityConfig.MaxRequestsPerMin = parsed
		}
	}
	if maxClasses := os.Getenv("MAX_CLASSES"); maxClasses != "" {
		if parsed, err := strconv.Atoi(maxClasses); err == nil && parsed > 1 {
			securityConfig.MaxClasses = parsed
		}
	}
	securityMiddleware := security.NewSecurityMiddleware(securityConfig)

	// Monitoring first to capture all requests, then error handling,
	// then the security chain.
	r.Use(monitoring.MonitoringMiddleware(appMetrics, appLogger))
	r.Use(errors.ErrorHandler())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     securityConfig.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(security.SecurityHeadersMiddleware())
	r.Use(securityMiddleware.RateLimitByIP)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   version,
		})
	})

	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, appMetrics.GetStats())
	})

	// Swagger documentation routes
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/softmax", handleSoftmax(securityMiddleware))
		v1.POST("/score", handleScore(securityMiddleware, appMetrics, appLogger))
		v1.POST("/score/all", handleScoreAll(securityMiddleware, appMetrics, appLogger))
	}

	return r
}

// handleSoftmax converts raw model scores into a probability distribution.
//
// @Summary      Softmax normalization
// @Description  Converts raw model scores into a probability distribution
// @Accept       json
// @Produce      json
// @Param        request  body      types.SoftmaxRequest  true  "Raw scores and optional base"
// @Success      200      {object}  types.SoftmaxResponse
// @Failure      400      {object}  errors.AppError
// @Router       /api/v1/softmax [post]
func handleSoftmax(sm *security.SecurityMiddleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.SoftmaxRequest
		if err := c.BindJSON(&req); err != nil {
			appErr := errors.NewValidationError("invalid request body", err.Error())
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		if err := sm.ValidateVector(req.Scores); err != nil {
			appErr := errors.NewValidationError(err.Error())
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		base := req.Base
		if base == 0 {
			base = uncertainty.DefaultBase
		}

		dist, err := uncertainty.SoftmaxBase(req.Scores, base)
		if err != nil {
			appErr := errors.NewValidationError(err.Error())
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		c.JSON(http.StatusOK, types.SoftmaxResponse{
			Distribution: dist,
			Base:         base,
		})
	}
}

// handleScore computes a single uncertainty score for a distribution.
//
// @Summary      Uncertainty score
// @Description  Scores a probability distribution with one uncertainty metric
// @Accept       json
// @Produce      json
// @Param        request  body      types.ScoreRequest  true  "Distribution, method and sorted flag"
// @Success      200      {object}  types.ScoreResponse
// @Failure      400      {object}  errors.AppError
// @Router       /api/v1/score [post]
func handleScore(sm *security.SecurityMiddleware, metrics *monitoring.Metrics, logger *monitoring.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.ScoreRequest
		if err := c.BindJSON(&req); err != nil {
			appErr := errors.NewValidationError("invalid request body", err.Error())
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		if err := sm.ValidateDistribution(req.Distribution); err != nil {
			appErr := errors.NewValidationError(err.Error())
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		start := time.Now()
		score, err := scoreByMethod(req.Method, req.Distribution, req.Sorted)
		if err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		metrics.RecordScore(req.Method)
		logger.ScoreLogger(req.Method, len(req.Distribution), score, time.Since(start))

		c.JSON(http.StatusOK, types.ScoreResponse{
			Method: req.Method,
			Score:  score,
			Labels: len(req.Distribution),
		})
	}
}

// handleScoreAll computes every uncertainty metric for one
// distribution, applying softmax first when raw scores are given.
//
// @Summary      All uncertainty scores
// @Description  Computes margin, ratio, least-confidence and entropy scores at once
// @Accept       json
// @Produce      json
// @Param        request  body      types.ScoreAllRequest  true  "Distribution or raw scores"
// @Success      200      {object}  types.ScoreAllResponse
// @Failure      400      {object}  errors.AppError
// @Router       /api/v1/score/all [post]
func handleScoreAll(sm *security.SecurityMiddleware, metrics *monitoring.Metrics, logger *monitoring.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.ScoreAllRequest
		if err := c.BindJSON(&req); err != nil {
			appErr := errors.NewValidationError("invalid request body", err.Error())
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		if (req.Distribution == nil) == (req.Scores == nil) {
			appErr := errors.NewValidationError("exactly one of distribution or scores must be set")
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		dist := req.Distribution
		sorted := req.Sorted

		if req.Scores != nil {
			if err := sm.ValidateVector(req.Scores); err != nil {
				appErr := errors.NewValidationError(err.Error())
				errors.LogError(c, appErr)
				c.JSON(appErr.HTTPStatus, appErr)
				return
			}

			base := req.Base
			if base == 0 {
				base = uncertainty.DefaultBase
			}

			var err error
			dist, err = uncertainty.SoftmaxBase(req.Scores, base)
			if err != nil {
				appErr := errors.NewValidationError(err.Error())
				errors.LogError(c, appErr)
				c.JSON(appErr.HTTPStatus, appErr)
				return
			}
			sorted = false
		}

		if err := sm.ValidateDistribution(dist); err != nil {
			appErr := errors.NewValidationError(err.Error())
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		start := time.Now()

		margin, err := uncertainty.MarginConfidence(dist, sorted)
		if err != nil {
			appErr := errors.NewValidationError(err.Error())
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		ratio, err := uncertainty.RatioConfidence(dist, sorted)
		if err != nil {
			appErr := errors.NewValidationError(err.Error())
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		least, err := uncertainty.LeastConfidence(dist, sorted)
		if err != nil {
			appErr := errors.NewValidationError(err.Error())
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		entropy, err := uncertainty.EntropyScore(dist)
		if err != nil {
			appErr := errors.NewValidationError(err.Error())
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		metrics.RecordScore("all")
		logger.ScoreLogger("all", len(dist), entropy, time.Since(start))

		c.JSON(http.StatusOK, types.ScoreAllResponse{
			Distribution:    dist,
			MarginOfConf:    margin,
			RatioOfConf:     ratio,
			LeastConfidence: least,
			EntropyScore:    entropy,
			Labels:          len(dist),
		})
	}
}

// scoreByMethod dispatches a method name from the API to the scoring
// library. Short and long method names are both accepted.
func scoreByMethod(method string, dist []float64, sorted bool) (float64, error) {
	switch method {
	case "margin", "margin_confidence":
		return uncertainty.MarginConfidence(dist, sorted)
	case "ratio", "ratio_confidence":
		return uncertainty.RatioConfidence(dist, sorted)
	case "least", "least_confidence":
		return uncertainty.LeastConfidence(dist, sorted)
	case "entropy", "entropy_score":
		return uncertainty.EntropyScore(dist)
	default:
		return 0, errors.NewValidationError("unknown scoring method: " + method)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
