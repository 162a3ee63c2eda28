package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		calls    int
		wantPass int
	}{
		{
			name:     "burst allows initial requests",
			rps:      1,
			burst:    3,
			calls:    3,
			wantPass: 3,
		},
		{
			name:     "exceeding burst blocks",
			rps:      1,
			burst:    2,
			calls:    5,
			wantPass: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			krl := New(tt.rps, tt.burst)
			defer krl.Stop()

			passed := 0
			for i := 0; i < tt.calls; i++ {
				if krl.Allow("model-a") {
					passed++
				}
			}
			if passed != tt.wantPass {
				t.Errorf("got %d passed, want %d", passed, tt.wantPass)
			}
		})
	}
}

func TestKeyedRateLimiter_KeysAreIndependent(t *testing.T) {
	krl := New(1, 1)
	defer krl.Stop()

	if !krl.Allow("model-a") {
		t.Fatal("first call for model-a should pass")
	}
	if krl.Allow("model-a") {
		t.Error("second call for model-a should be limited")
	}
	// A different key has its own bucket.
	if !krl.Allow("model-b") {
		t.Error("first call for model-b should pass")
	}
}

func TestKeyedRateLimiter_WaitHonorsContext(t *testing.T) {
	krl := New(0.1, 1)
	defer krl.Stop()

	// Drain the bucket.
	if !krl.Allow("model-a") {
		t.Fatal("first call should pass")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := krl.Wait(ctx, "model-a"); err == nil {
		t.Error("expected Wait to fail when context expires before a token is available")
	}
}
