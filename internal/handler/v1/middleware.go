package v1

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/docpoint/docpoint-api/internal/config"
	"github.com/docpoint/docpoint-api/internal/domain"
	"github.com/docpoint/docpoint-api/pkg/auth"
	"github.com/docpoint/docpoint-api/pkg/metrics"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const claimsKey = "claims"

// Authenticate validates the bearer token and attaches the claims to the
// request context. Role checks happen in RequireRole, after the token has
// already proven who the caller is.
func Authenticate(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			respondError(c, http.StatusUnauthorized, "missing bearer token")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			respondError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole rejects principals whose token carries the wrong role claim.
// A patient token on a doctor route fails here, before any handler runs.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFromContext(c)
		if claims == nil || claims.Role != role {
			respondError(c, http.StatusForbidden, "access denied")
			c.Abort()
			return
		}
		c.Next()
	}
}

func claimsFromContext(c *gin.Context) *domain.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, ok := v.(*domain.Claims)
	if !ok {
		return nil
	}
	return claims
}

func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	origins := strings.Join(cfg.AllowedOrigins, ", ")
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(int(cfg.MaxAge.Seconds()))

	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origins)
		c.Header("Access-Control-Allow-Methods", methods)
		c.Header("Access-Control-Allow-Headers", headers)
		c.Header("Access-Control-Max-Age", maxAge)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// RateLimit applies a per-IP token bucket. Stale limiters are evicted to
// keep the map bounded under churny client IPs.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	type entry struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	var (
		mu       sync.Mutex
		visitors = make(map[string]*entry)
	)

	go func() {
		for range time.Tick(time.Minute) {
			mu.Lock()
			for ip, e := range visitors {
				if time.Since(e.lastSeen) > 3*time.Minute {
					delete(visitors, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		e, ok := visitors[ip]
		if !ok {
			e = &entry{limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize)}
			visitors[ip] = e
		}
		e.lastSeen = time.Now()
		mu.Unlock()

		if !e.limiter.Allow() {
			respondError(c, http.StatusTooManyRequests, "rate limit exceeded")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Metrics records request counts, latency, and in-flight gauge per route.
func Metrics(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		collector.InFlightGauge.Inc()

		c.Next()

		collector.InFlightGauge.Dec()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		collector.RequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		collector.RequestDuration.WithLabelValues(c.Request.Method, path, status).
			Observe(time.Since(start).Seconds())
	}
}
