package security

import (
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/highdxy/uncertainty-sampling/internal/errors"
)

// SecurityConfig holds security configuration
type SecurityConfig struct {
	MaxClasses        int           `json:"max_classes"`
	MaxRequestsPerMin int           `json:"max_requests_per_min"`
	AllowedOrigins    []string      `json:"allowed_origins"`
	TrustedProxies    []string      `json:"trusted_proxies"`
	RequestTimeout    time.Duration `json:"request_timeout"`
}

// DefaultSecurityConfig returns secure defaults
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		MaxClasses:        10000,
		MaxRequestsPerMin: 120,
		AllowedOrigins:    []string{"http://localhost:3000", "http://localhost:5173"},
		TrustedProxies:    []string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"},
		RequestTimeout:    10 * time.Second,
	}
}

// SecurityMiddleware provides rate limiting and input validation
type SecurityMiddleware struct {
	config     SecurityConfig
	mu         sync.Mutex
	ipLimiters map[string]*rate.Limiter
}

// NewSecurityMiddleware creates a new security middleware instance
func NewSecurityMiddleware(config SecurityConfig) *SecurityMiddleware {
	return &SecurityMiddleware{
		config:     config,
		ipLimiters: make(map[string]*rate.Limiter),
	}
}

// ValidateVector checks that a score or probability vector is usable:
// at least two entries, no more than MaxClasses, every value finite.
func (sm *SecurityMiddleware) ValidateVector(vector []float64) error {
	if len(vector) < 2 {
		return fmt.Errorf("vector needs at least two entries, got %d", len(vector))
	}
	if len(vector) > sm.config.MaxClasses {
		return fmt.Errorf("vector exceeds maximum of %d entries", sm.config.MaxClasses)
	}
	for i, v := range vector {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("vector entry %d is not a finite number", i)
		}
	}
	return nil
}

// ValidateDistribution additionally checks the vector is a probability
// distribution: non-negative values summing to 1.0 within tolerance.
func (sm *SecurityMiddleware) ValidateDistribution(dist []float64) error {
	if err := sm.ValidateVector(dist); err != nil {
		return err
	}

	sum := 0.0
	for i, p := range dist {
		if p < 0 {
			return fmt.Errorf("probability at index %d is negative", i)
		}
		sum += p
	}
	if math.Abs(sum-1.0) > 1e-6 {
		return fmt.Errorf("probabilities sum to %g, expected 1.0", sum)
	}
	return nil
}

// RateLimitByIP implements per-IP rate limiting
func (sm *SecurityMiddleware) RateLimitByIP(c *gin.Context) {
	clientIP := c.ClientIP()

	sm.mu.Lock()
	limiter, exists := sm.ipLimiters[clientIP]
	if !exists {
		rps := rate.Limit(float64(sm.config.MaxRequestsPerMin) / 60.0)
		// Allow burst of up to half the requests per minute
		burst := sm.config.MaxRequestsPerMin / 2
		if burst < 5 {
			burst = 5
		}
		limiter = rate.NewLimiter(rps, burst)
		sm.ipLimiters[clientIP] = limiter
	}
	sm.mu.Unlock()

	if !limiter.Allow() {
		appErr := errors.NewRateLimitError("60")
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		c.Abort()
		return
	}

	c.Next()
}

// SecurityHeadersMiddleware adds security headers to all responses
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		// HSTS only in production with HTTPS
		if os.Getenv("ENABLE_HSTS") == "true" {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		}

		c.Next()
	}
}
