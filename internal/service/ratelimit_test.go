package service_test

import (
	"testing"
	"time"

	"github.com/msomdec/focusdoro/internal/service"
)

func TestTokenBucket_AllowWithinCapacity(t *testing.T) {
	tb := service.NewTokenBucket(1, 3)
	defer tb.Close()

	for i := 0; i < 3; i++ {
		if !tb.Allow("client") {
			t.Fatalf("request %d should be allowed within capacity", i+1)
		}
	}
	if tb.Allow("client") {
		t.Fatal("request over capacity should be denied")
	}
}

func TestTokenBucket_KeysIndependent(t *testing.T) {
	tb := service.NewTokenBucket(1, 1)
	defer tb.Close()

	if !tb.Allow("a") {
		t.Fatal("first request for key a should be allowed")
	}
	if tb.Allow("a") {
		t.Fatal("second request for key a should be denied")
	}
	if !tb.Allow("b") {
		t.Fatal("key b has its own bucket and should be allowed")
	}
}

func TestTokenBucket_Refills(t *testing.T) {
	// High refill rate keeps the test fast.
	tb := service.NewTokenBucket(100, 1)
	defer tb.Close()

	if !tb.Allow("client") {
		t.Fatal("first request should be allowed")
	}
	if tb.Allow("client") {
		t.Fatal("bucket should be empty immediately after")
	}

	time.Sleep(50 * time.Millisecond)

	if !tb.Allow("client") {
		t.Fatal("bucket should have refilled")
	}
}
