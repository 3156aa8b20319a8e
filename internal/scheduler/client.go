package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"estatematch_backend/platform/config"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// debounceTTL suppresses duplicate match tasks for the same demand while one
// is already queued.
const debounceTTL = 30 * time.Second

// Client enqueues deferred match runs. A short-lived redis key per demand
// debounces the creation path against the periodic rescan.
type Client struct {
	client *asynq.Client
	redis  *redis.Client
	queue  string
}

// NewClient creates a scheduler client from the redis configuration.
func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	return &Client{
		client: asynq.NewClient(opt),
		redis: redis.NewClient(&redis.Options{
			Addr:      opt.Addr,
			Password:  opt.Password,
			DB:        opt.DB,
			TLSConfig: opt.TLSConfig,
		}),
		queue: queue,
	}, nil
}

// Close releases the underlying connections.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	if c.redis != nil {
		_ = c.redis.Close()
	}
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// EnqueueDemandMatch schedules a match run for one demand after the given
// delay. Repeated calls within the debounce window are dropped.
func (c *Client) EnqueueDemandMatch(ctx context.Context, demandID uuid.UUID, delay time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}

	if c.redis != nil {
		claimed, err := c.redis.SetNX(ctx, debounceKey(demandID), "1", debounceTTL).Result()
		if err == nil && !claimed {
			return nil
		}
	}

	task, err := NewDemandMatchTask(DemandMatchPayload{DemandID: demandID.String()})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.ProcessIn(delay), asynq.Queue(c.queue))
	return err
}

func debounceKey(demandID uuid.UUID) string {
	return "demands:match:debounce:" + demandID.String()
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
