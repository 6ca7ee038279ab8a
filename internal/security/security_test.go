package security

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestValidateVector(t *testing.T) {
	sm := NewSecurityMiddleware(DefaultSecurityConfig())

	tests := []struct {
		name    string
		vector  []float64
		wantErr bool
	}{
		{
			name:    "valid vector",
			vector:  []float64{1.0, 4.0, 2.0, 3.0},
			wantErr: false,
		},
		{
			name:    "negative values allowed for raw scores",
			vector:  []float64{-1.0, 2.0},
			wantErr: false,
		},
		{
			name:    "single entry rejected",
			vector:  []float64{1.0},
			wantErr: true,
		},
		{
			name:    "empty rejected",
			vector:  []float64{},
			wantErr: true,
		},
		{
			name:    "NaN rejected",
			vector:  []float64{0.5, math.NaN()},
			wantErr: true,
		},
		{
			name:    "infinity rejected",
			vector:  []float64{0.5, math.Inf(1)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sm.ValidateVector(tt.vector)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateVectorMaxClasses(t *testing.T) {
	config := DefaultSecurityConfig()
	config.MaxClasses = 4
	sm := NewSecurityMiddleware(config)

	assert.NoError(t, sm.ValidateVector([]float64{0.25, 0.25, 0.25, 0.25}))
	assert.Error(t, sm.ValidateVector([]float64{0.2, 0.2, 0.2, 0.2, 0.2}))
}

func TestValidateDistribution(t *testing.T) {
	sm := NewSecurityMiddleware(DefaultSecurityConfig())

	tests := []struct {
		name    string
		dist    []float64
		wantErr bool
	}{
		{
			name:    "valid distribution",
			dist:    []float64{0.0321, 0.6439, 0.0871, 0.2369},
			wantErr: false,
		},
		{
			name:    "one-hot distribution",
			dist:    []float64{1.0, 0.0, 0.0},
			wantErr: false,
		},
		{
			name:    "does not sum to one",
			dist:    []float64{0.5, 0.4},
			wantErr: true,
		},
		{
			name:    "negative probability",
			dist:    []float64{1.2, -0.2},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sm.ValidateDistribution(tt.dist)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRateLimitByIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	config := DefaultSecurityConfig()
	config.MaxRequestsPerMin = 10 // burst of 5
	sm := NewSecurityMiddleware(config)

	r := gin.New()
	r.Use(sm.RateLimitByIP)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	statuses := make([]int, 0, 8)
	for i := 0; i < 8; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/ping", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		r.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}

	// Burst admits the first few, then the limiter kicks in.
	assert.Equal(t, http.StatusOK, statuses[0])
	assert.Contains(t, statuses, http.StatusTooManyRequests)
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(SecurityHeadersMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ping", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
}
