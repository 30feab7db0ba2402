package applicationinfra

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
)

func TestMemorySubmitGuardWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1700000000, 0)
	g := NewMemorySubmitGuard(3 * time.Second)
	g.now = func() time.Time { return now }

	if ok, _ := g.Acquire(ctx, "c", "j"); !ok {
		t.Fatal("first acquire should pass")
	}
	if ok, _ := g.Acquire(ctx, "c", "j"); ok {
		t.Fatal("second acquire inside the window should be rejected")
	}
	if ok, _ := g.Acquire(ctx, "c", "other"); !ok {
		t.Fatal("other pairs are independent")
	}

	now = now.Add(3 * time.Second)
	if ok, _ := g.Acquire(ctx, "c", "j"); !ok {
		t.Fatal("acquire after the window should pass")
	}

	_ = g.Release(ctx, "c", "j")
	if ok, _ := g.Acquire(ctx, "c", "j"); !ok {
		t.Fatal("acquire after release should pass")
	}
}

func TestSubmitGuardsWithoutWindowNeverBlock(t *testing.T) {
	ctx := context.Background()

	mem := NewMemorySubmitGuard(0)
	for i := 0; i < 3; i++ {
		if ok, err := mem.Acquire(ctx, "c", "j"); !ok || err != nil {
			t.Fatalf("memory guard attempt %d: ok=%v err=%v", i, ok, err)
		}
	}

	// nothing listens here: a zero window must not reach Redis at all
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	defer client.Close()
	rg := NewRedisSubmitGuard(client, "test:submit", 0)
	for i := 0; i < 3; i++ {
		if ok, err := rg.Acquire(ctx, "c", "j"); !ok || err != nil {
			t.Fatalf("redis guard attempt %d: ok=%v err=%v", i, ok, err)
		}
	}
}
