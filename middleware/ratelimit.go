package middleware

import (
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"homefolio-api/pkg/appenv"
	"homefolio-api/types"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterStore maps a limiter key (authenticated user or client IP) to its
// token bucket. A janitor goroutine evicts buckets not seen for staleAfter so
// the map does not grow with every IP that ever hit the API.
type limiterStore struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	rate       rate.Limit
	burst      int
	staleAfter time.Duration
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterStore(r rate.Limit, burst int, staleAfter time.Duration) *limiterStore {
	s := &limiterStore{
		buckets:    make(map[string]*bucket),
		rate:       r,
		burst:      burst,
		staleAfter: staleAfter,
	}
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			s.evictStale()
		}
	}()
	return s
}

func (s *limiterStore) allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(s.rate, s.burst)}
		s.buckets[key] = b
	}
	b.lastSeen = time.Now()
	return b.limiter.Allow()
}

func (s *limiterStore) evictStale() {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-s.staleAfter)
	for k, b := range s.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(s.buckets, k)
		}
	}
}

func envFloat(name string, def float64) float64 {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return def
}

func envInt(name string, def int) int {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return def
}

// exemptIPs parses RATE_LIMIT_WHITELIST: comma-separated IPs and CIDRs,
// typically the health-check probes and internal gateways.
func exemptIPs() ([]net.IP, []*net.IPNet) {
	var ips []net.IP
	var nets []*net.IPNet
	for _, part := range strings.Split(os.Getenv("RATE_LIMIT_WHITELIST"), ",") {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}
		if ip := net.ParseIP(p); ip != nil {
			ips = append(ips, ip)
			continue
		}
		if _, n, err := net.ParseCIDR(p); err == nil {
			nets = append(nets, n)
		}
	}
	return ips, nets
}

func isExempt(clientIP string, ips []net.IP, nets []*net.IPNet) bool {
	ip := net.ParseIP(clientIP)
	if ip == nil {
		return false
	}
	for _, w := range ips {
		if w.Equal(ip) {
			return true
		}
	}
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

func limitingDisabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("RATE_LIMIT_ENABLED"))) {
	case "0", "false", "no":
		return true
	}
	return appenv.IsTest()
}

func tooManyRequests(c *gin.Context) {
	c.Header("Retry-After", "1")
	c.JSON(http.StatusTooManyRequests, types.NewErrorResponse("RATE_LIMIT_EXCEEDED", "Too many requests"))
	c.Abort()
}

// RateLimitMiddleware applies a token bucket per authenticated user, falling
// back to the client IP for unauthenticated traffic. Tune with RATE_LIMIT_RPS
// (default 5) and RATE_LIMIT_BURST (default 20); disable with
// RATE_LIMIT_ENABLED=false. Preflight and /health are not counted.
func RateLimitMiddleware() gin.HandlerFunc {
	if limitingDisabled() {
		return func(c *gin.Context) { c.Next() }
	}

	store := newLimiterStore(rate.Limit(envFloat("RATE_LIMIT_RPS", 5)), envInt("RATE_LIMIT_BURST", 20), 10*time.Minute)
	ips, nets := exemptIPs()

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || c.Request.URL.Path == "/health" {
			c.Next()
			return
		}
		clientIP := c.ClientIP()
		if isExempt(clientIP, ips, nets) {
			c.Next()
			return
		}
		key := "ip:" + clientIP
		if userID := c.GetInt("userId"); userID != 0 {
			key = "uid:" + strconv.Itoa(userID)
		}
		if !store.allow(key) {
			tooManyRequests(c)
			return
		}
		c.Next()
	}
}

// RateLimitAuthMiddleware guards /register and /login with a much tighter
// per-IP budget than the general limiter, independent of it, so credential
// stuffing cannot hide inside an otherwise normal traffic pattern.
func RateLimitAuthMiddleware() gin.HandlerFunc {
	if limitingDisabled() {
		return func(c *gin.Context) { c.Next() }
	}
	store := newLimiterStore(rate.Limit(1), 5, 10*time.Minute)
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		if !store.allow("auth:" + c.ClientIP()) {
			tooManyRequests(c)
			return
		}
		c.Next()
	}
}
