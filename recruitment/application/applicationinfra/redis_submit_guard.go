package applicationinfra

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Abraxas-365/hirehub/pkg/kernel"
	"github.com/Abraxas-365/hirehub/recruitment/application"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// releaseScript deletes the key only while it still holds this instance's
// token. Windows taken by other instances expire on their own.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// RedisSubmitGuard debounces submissions of the same pair with SET NX PX
type RedisSubmitGuard struct {
	client  *redis.Client
	prefix  string
	window  time.Duration
	token   string
	release *redis.Script
}

func NewRedisSubmitGuard(client *redis.Client, prefix string, window time.Duration) *RedisSubmitGuard {
	return &RedisSubmitGuard{
		client:  client,
		prefix:  prefix,
		window:  window,
		token:   uuid.NewString(),
		release: redis.NewScript(releaseScript),
	}
}

var _ application.SubmitGuard = (*RedisSubmitGuard)(nil)

func (g *RedisSubmitGuard) key(candidateID kernel.CandidateID, jobID kernel.JobID) string {
	return g.prefix + ":" + application.PairKey(candidateID, jobID)
}

// Acquire reports whether no other submission of the pair is in its window.
// A non-positive window disables the guard; SET NX without PX would never expire.
func (g *RedisSubmitGuard) Acquire(ctx context.Context, candidateID kernel.CandidateID, jobID kernel.JobID) (bool, error) {
	if g.window <= 0 {
		return true, nil
	}
	ok, err := g.client.SetNX(ctx, g.key(candidateID, jobID), g.token, g.window).Result()
	if err != nil {
		return false, fmt.Errorf("acquire submit window: %w", err)
	}
	return ok, nil
}

// Release ends the window early
func (g *RedisSubmitGuard) Release(ctx context.Context, candidateID kernel.CandidateID, jobID kernel.JobID) error {
	if err := g.release.Run(ctx, g.client, []string{g.key(candidateID, jobID)}, g.token).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("release submit window: %w", err)
	}
	return nil
}

// ============================================================================
// In-memory guard
// ============================================================================

// MemorySubmitGuard is the single-process counterpart of RedisSubmitGuard
type MemorySubmitGuard struct {
	mu      sync.Mutex
	window  time.Duration
	holders map[string]time.Time
	now     func() time.Time
}

func NewMemorySubmitGuard(window time.Duration) *MemorySubmitGuard {
	return &MemorySubmitGuard{
		window:  window,
		holders: make(map[string]time.Time),
		now:     time.Now,
	}
}

var _ application.SubmitGuard = (*MemorySubmitGuard)(nil)

func (g *MemorySubmitGuard) Acquire(ctx context.Context, candidateID kernel.CandidateID, jobID kernel.JobID) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.window <= 0 {
		return true, nil
	}

	key := application.PairKey(candidateID, jobID)
	now := g.now()
	if until, held := g.holders[key]; held && now.Before(until) {
		return false, nil
	}
	g.holders[key] = now.Add(g.window)
	return true, nil
}

func (g *MemorySubmitGuard) Release(ctx context.Context, candidateID kernel.CandidateID, jobID kernel.JobID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.holders, application.PairKey(candidateID, jobID))
	return nil
}
