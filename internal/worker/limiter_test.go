package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_AllowWithinBurst(t *testing.T) {
	l := NewLimiter(1, 2)

	if !l.Allow("groq") {
		t.Error("first request must be allowed")
	}
	if !l.Allow("groq") {
		t.Error("second request within burst must be allowed")
	}
	if l.Allow("groq") {
		t.Error("third request must exceed the burst")
	}
}

func TestLimiter_ProvidersAreIndependent(t *testing.T) {
	l := NewLimiter(1, 1)

	if !l.Allow("groq") {
		t.Fatal("groq budget should be fresh")
	}
	if !l.Allow("openai") {
		t.Error("openai budget must not be consumed by groq")
	}
}

func TestLimiter_SetProviderRate(t *testing.T) {
	l := NewLimiter(1, 1)
	l.SetProviderRate("ollama", 1000, 10)

	for i := 0; i < 10; i++ {
		if !l.Allow("ollama") {
			t.Fatalf("request %d should fit in the custom burst", i)
		}
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	l := NewLimiter(0.001, 1)
	l.Allow("slow") // drain the burst

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, "slow"); err == nil {
		t.Error("expected context deadline error")
	}
}
