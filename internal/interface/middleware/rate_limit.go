package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/bhudevswayam/service-app/internal/infrastructure/metrics"
	"github.com/bhudevswayam/service-app/pkg/apperr"
	"github.com/bhudevswayam/service-app/pkg/response"
)

// ipFromCtx prefers the address RealIP resolved.
func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

// unmatchedRoute labels requests no route matched, so arbitrary paths never
// become label values or limiter keys.
const unmatchedRoute = "unmatched"

func routeOf(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return unmatchedRoute
}

// KeyFunc builds the counter key for a request.
type KeyFunc func(c *gin.Context) string

// AllowFunc returns true for requests that skip the limit.
type AllowFunc func(*gin.Context) bool

func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:ip:" + ipFromCtx(c)
	}
}

// KeyByUserID limits per authenticated user; anonymous requests fall back to IP.
// Must run after the auth guard.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		id, ok := IdentityFrom(c)
		if !ok {
			return "rl:user:anon:ip:" + ipFromCtx(c)
		}
		return "rl:user:" + id.TenantID + ":" + id.UserID
	}
}

// KeyByTenantAndIP limits per tenant header, route and client IP. Used on
// the public auth routes so one tenant's login storm cannot lock out another.
func KeyByTenantAndIP() KeyFunc {
	return func(c *gin.Context) string {
		tenant := TenantFrom(c)
		if tenant == "" {
			tenant = "none"
		}
		return "rl:tenant:" + tenant + ":path:" + routeOf(c) + ":ip:" + ipFromCtx(c)
	}
}

// fixed window: INCR, start the window on the first hit, return count and
// remaining window in ms in one round trip
var hitScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

// RateLimit allows perWindow requests per window for each key. It is a no-op
// without redis and fails open when redis errors. OPTIONS is never counted.
func RateLimit(rdb *redis.Client, perWindow int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil || perWindow <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	limit := strconv.Itoa(perWindow)
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}

		count, ttl, err := hit(c, rdb, keyFn(c), window)
		if err != nil {
			c.Next()
			return
		}
		reset := int((ttl + time.Second - 1) / time.Second)

		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(0, perWindow-count)))
		c.Header("X-RateLimit-Reset", strconv.Itoa(reset))

		if count > perWindow {
			if reset > 0 {
				c.Header("Retry-After", strconv.Itoa(reset))
			}
			metrics.ObserveRateLimited(routeOf(c))
			response.Error[any](c, http.StatusTooManyRequests, apperr.KindRateLimited, "rate limit exceeded", nil)
			return
		}
		c.Next()
	}
}

func hit(c *gin.Context, rdb *redis.Client, key string, window time.Duration) (int, time.Duration, error) {
	vals, err := hitScript.Run(c.Request.Context(), rdb, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(vals) != 2 {
		return 0, 0, redis.Nil
	}
	ttl := time.Duration(vals[1]) * time.Millisecond
	if ttl < 0 {
		ttl = 0
	}
	return int(vals[0]), ttl, nil
}
