package rest

import (
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/server/auth"
	"github.com/dmitrijs2005/jobboard/internal/shared"
)

const (
	requestIDKey = "request_id"
	principalKey = "principal"
)

// requestLogger tags each request with a random id and logs it once the
// handler chain has finished.
func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id, err := shared.MakeRandHexString(8)
		if err != nil {
			id = "-"
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)

		c.Next()

		s.logger.Info(c.Request.Context(), "request",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// bearerToken extracts the token of an "Authorization: Bearer <token>"
// header. Anything else yields "".
func bearerToken(c *gin.Context) string {
	scheme, token, ok := strings.Cut(c.GetHeader(common.AuthorizationHeaderName), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}

// guard runs g against the request's bearer token and stores the
// resulting principal for the handlers.
func (s *HTTPServer) guard(g auth.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := g(c.Request.Context(), bearerToken(c))
		if err != nil {
			s.abortWithError(c, err)
			return
		}
		c.Set(principalKey, p)
		c.Next()
	}
}

// principal returns the caller admitted by guard.
func principal(c *gin.Context) *auth.Principal {
	return c.MustGet(principalKey).(*auth.Principal)
}

func (s *HTTPServer) limitLogin(c *gin.Context) {
	if !s.limiter.allow(c.ClientIP()) {
		s.abortWithError(c, common.ErrTooManyLoginAttempts)
		return
	}
	c.Next()
}

// loginLimiter keeps one token bucket per client IP. Buckets idle for
// longer than loginLimiterIdle are dropped once the map grows past
// loginLimiterSweepAt entries.
type loginLimiter struct {
	mu      sync.Mutex
	perMin  rate.Limit
	burst   int
	clients map[string]*limiterEntry
	now     func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const (
	loginLimiterIdle    = 10 * time.Minute
	loginLimiterSweepAt = 10000
)

func newLoginLimiter(perMinute, burst int) *loginLimiter {
	return &loginLimiter{
		perMin:  rate.Limit(float64(perMinute) / 60),
		burst:   burst,
		clients: make(map[string]*limiterEntry),
		now:     time.Now,
	}
}

func (l *loginLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.clients) >= loginLimiterSweepAt {
		for k, e := range l.clients {
			if now.Sub(e.lastSeen) > loginLimiterIdle {
				delete(l.clients, k)
			}
		}
	}

	e, ok := l.clients[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.perMin, l.burst)}
		l.clients[ip] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}
