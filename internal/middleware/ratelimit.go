package middleware

import (
	"fmt"
	"log"
	"time"

	"ajopay/internal/errors"
	"ajopay/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Requests per minute by KYC tier. Unverified accounts get the tightest
// budget.
var tierRequestBudgets = map[models.KYCTier]int{
	models.TierUnverified: 10,
	models.TierBasic:      30,
	models.TierFull:       60,
}

// Money-moving endpoints get a tighter per-minute budget than the tier
// default.
var endpointBudgets = map[string]int{
	"/api/wallet/withdraw": 5,
	"/api/wallet/credit":   10,
}

// RateLimiter throttles authenticated requests per user and endpoint using
// fixed one-minute windows in Redis.
type RateLimiter struct {
	client *redis.Client
	window time.Duration
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	if client == nil {
		panic("redis client is required")
	}
	return &RateLimiter{client: client, window: time.Minute}
}

// Handler enforces the budget for the authenticated user. Requests without
// claims pass through; unauthenticated routes are throttled elsewhere.
func (r *RateLimiter) Handler(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return c.Next()
	}

	budget := tierRequestBudgets[claims.KYCTier]
	if b, ok := endpointBudgets[c.Path()]; ok && b < budget {
		budget = b
	}
	if budget <= 0 {
		budget = tierRequestBudgets[models.TierUnverified]
	}

	windowStart := time.Now().UTC().Truncate(r.window)
	key := fmt.Sprintf("ratelimit:%d:%s:%d", claims.UserID, c.Path(), windowStart.Unix())

	ctx := c.UserContext()
	pipe := r.client.TxPipeline()
	count := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		// Redis being down must not take withdrawals with it.
		log.Printf("middleware: rate limit check failed, allowing request: %v", err)
		return c.Next()
	}

	if int(count.Val()) > budget {
		resetAt := windowStart.Add(r.window)
		rateErr := &errors.RateLimitExceededError{
			UserID:   claims.UserID,
			Endpoint: c.Path(),
			Limit:    budget,
			ResetAt:  resetAt,
		}
		c.Set("Retry-After", fmt.Sprintf("%d", int(time.Until(resetAt).Seconds())+1))
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": errors.UserMessage(rateErr),
		})
	}

	return c.Next()
}
