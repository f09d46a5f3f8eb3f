package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/stillframe-app/stillframe_api/shared"
)

// RateLimitService throttles the gameplay and auth surfaces with fixed windows in
// redis, keyed per authenticated user (or client IP before auth).
type RateLimitService struct {
	appContext.DefaultService

	configs map[string]*RateLimitConfig
	mutex   sync.RWMutex

	redisSvc *RedisService
}

// RateLimitConfig represents rate limiting configuration
type RateLimitConfig struct {
	EndpointType string
	MaxRequests  int
	WindowSize   time.Duration
	Description  string
	IsActive     bool
}

const RATE_LIMIT_SVC = "rate_limit_svc"

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *appContext.Context) error {
	svc.configs = make(map[string]*RateLimitConfig)
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	svc.initDefaultConfigs()
	return nil
}

func (svc *RateLimitService) initDefaultConfigs() {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	svc.configs = map[string]*RateLimitConfig{
		"login": {
			EndpointType: "login",
			MaxRequests:  10,
			WindowSize:   15 * time.Minute,
			Description:  "Login attempts rate limit",
			IsActive:     true,
		},
		"register": {
			EndpointType: "register",
			MaxRequests:  5,
			WindowSize:   15 * time.Minute,
			Description:  "Registration rate limit",
			IsActive:     true,
		},
		"guess": {
			EndpointType: "guess",
			MaxRequests:  30,
			WindowSize:   time.Minute,
			Description:  "Guess submission rate limit",
			IsActive:     true,
		},
		"read": {
			EndpointType: "read",
			MaxRequests:  120,
			WindowSize:   time.Minute,
			Description:  "Challenge read rate limit",
			IsActive:     true,
		},
	}
}

func (svc *RateLimitService) config(endpointType string) *RateLimitConfig {
	svc.mutex.RLock()
	defer svc.mutex.RUnlock()
	return svc.configs[endpointType]
}

// Allow reports whether another request fits inside the caller's current window.
func (svc *RateLimitService) Allow(ctx context.Context, endpointType, callerID string) (bool, error) {
	cfg := svc.config(endpointType)
	if cfg == nil || !cfg.IsActive {
		return true, nil
	}

	key := fmt.Sprintf("ratelimit:%s:%s", endpointType, callerID)
	count, err := svc.redisSvc.IncrWithWindow(ctx, key, cfg.WindowSize)
	if err != nil {
		// Redis being down must not take gameplay with it.
		log.WithError(err).Warn("Rate limit check failed, allowing request")
		return true, nil
	}

	return count <= int64(cfg.MaxRequests), nil
}

// Limit is the fiber middleware for one endpoint type.
func (svc *RateLimitService) Limit(endpointType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		callerID, _ := c.Locals(shared.UserID).(string)
		if callerID == "" {
			callerID = c.IP()
		}

		allowed, err := svc.Allow(c.Context(), endpointType, callerID)
		if err != nil {
			return err
		}
		if !allowed {
			log.WithFields(log.Fields{
				"endpoint_type": endpointType,
				"caller":        callerID,
			}).Warn("Rate limit exceeded")
			return shared.NewRateLimitError("Too many requests, slow down")
		}

		return c.Next()
	}
}
