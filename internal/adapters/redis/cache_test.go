package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "vendor_insight/internal/adapters/redis"
	"vendor_insight/internal/domain"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return redisad.New(mr.Addr(), "", 0), mr
}

func TestCache_SetGetDel(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	var miss domain.Report
	ok, err := c.Get(ctx, "gap:report", &miss)
	if err != nil || ok {
		t.Fatalf("expected clean miss, ok=%v err=%v", ok, err)
	}

	want := domain.Report{
		Overall: domain.OverallSummary{Positive: 60, Negative: 40, Total: 10},
		Trends:  domain.StaticTrends(),
	}
	if err := c.Set(ctx, "gap:report", want, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got domain.Report
	ok, err = c.Get(ctx, "gap:report", &got)
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if got.Overall != want.Overall || got.Trends != want.Trends {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	if err := c.Del(ctx, "gap:report"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	ok, _ = c.Get(ctx, "gap:report", &got)
	if ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "gap:report", domain.Report{}, 30*time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	mr.FastForward(31 * time.Second)

	var got domain.Report
	ok, err := c.Get(ctx, "gap:report", &got)
	if err != nil || ok {
		t.Fatalf("expected expiry miss, ok=%v err=%v", ok, err)
	}
}
