package applicationinfra

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Abraxas-365/hirehub/recruitment/application"
	"github.com/go-redis/redis/v8"
)

// RedisProjectionQueue implements application.ProjectionQueue using a Redis
// list for ready tasks and a sorted set, scored by due time, for delayed ones
type RedisProjectionQueue struct {
	client    *redis.Client
	queueName string
	now       func() time.Time
}

// NewRedisProjectionQueue creates a new Redis-based queue
func NewRedisProjectionQueue(client *redis.Client, queueName string) *RedisProjectionQueue {
	return &RedisProjectionQueue{
		client:    client,
		queueName: queueName,
		now:       time.Now,
	}
}

var _ application.ProjectionQueue = (*RedisProjectionQueue)(nil)

func (q *RedisProjectionQueue) delayedQueue() string {
	return q.queueName + ":delayed"
}

// Enqueue adds a task to the queue
func (q *RedisProjectionQueue) Enqueue(ctx context.Context, task application.ProjectionTask) error {
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal %s task %s: %w", task.Kind, task.ID, err)
	}

	if err := q.client.LPush(ctx, q.queueName, data).Err(); err != nil {
		return application.ErrQueueUnavailable(fmt.Errorf("enqueue %s task %s: %w", task.Kind, task.ID, err))
	}
	return nil
}

// Dequeue gets a task from the queue, blocking up to timeout
func (q *RedisProjectionQueue) Dequeue(ctx context.Context, timeout time.Duration) (*application.ProjectionTask, error) {
	result, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		// redis.Nil is returned when timeout occurs
		if err == redis.Nil {
			return nil, nil
		}
		return nil, application.ErrQueueUnavailable(fmt.Errorf("dequeue task: %w", err))
	}

	if len(result) < 2 {
		return nil, fmt.Errorf("invalid result from queue: expected 2 elements, got %d", len(result))
	}

	var task application.ProjectionTask
	if err := json.Unmarshal([]byte(result[1]), &task); err != nil {
		return nil, fmt.Errorf("unmarshal task %q: %w", result[1], err)
	}
	return &task, nil
}

// EnqueueDelayed schedules a task for later processing
func (q *RedisProjectionQueue) EnqueueDelayed(ctx context.Context, task application.ProjectionTask, delay time.Duration) error {
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal delayed %s task %s: %w", task.Kind, task.ID, err)
	}

	score := float64(q.now().Add(delay).UnixMilli())
	if err := q.client.ZAdd(ctx, q.delayedQueue(), &redis.Z{
		Score:  score,
		Member: data,
	}).Err(); err != nil {
		return application.ErrQueueUnavailable(fmt.Errorf("enqueue delayed %s task %s: %w", task.Kind, task.ID, err))
	}
	return nil
}

// MoveDelayedToReady moves due delayed tasks to the main queue
func (q *RedisProjectionQueue) MoveDelayedToReady(ctx context.Context) (int, error) {
	now := float64(q.now().UnixMilli())

	tasks, err := q.client.ZRangeByScore(ctx, q.delayedQueue(), &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%f", now),
	}).Result()
	if err != nil {
		return 0, application.ErrQueueUnavailable(fmt.Errorf("get delayed tasks: %w", err))
	}

	if len(tasks) == 0 {
		return 0, nil
	}

	pipe := q.client.TxPipeline()
	for _, t := range tasks {
		pipe.LPush(ctx, q.queueName, t)
		pipe.ZRem(ctx, q.delayedQueue(), t)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, application.ErrQueueUnavailable(fmt.Errorf("move delayed tasks to ready: %w", err))
	}
	return len(tasks), nil
}

// Stats reports queue depths
func (q *RedisProjectionQueue) Stats(ctx context.Context) (map[string]any, error) {
	ready, err := q.client.LLen(ctx, q.queueName).Result()
	if err != nil {
		return nil, fmt.Errorf("get queue size: %w", err)
	}
	delayed, err := q.client.ZCard(ctx, q.delayedQueue()).Result()
	if err != nil {
		return nil, fmt.Errorf("get delayed queue size: %w", err)
	}

	return map[string]any{
		"queue_name":    q.queueName,
		"ready_tasks":   ready,
		"delayed_tasks": delayed,
	}, nil
}
