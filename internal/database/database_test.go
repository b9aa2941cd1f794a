package database

import (
	"context"
	"testing"
	"time"
)

func TestOpenInMemory(t *testing.T) {
	db, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	var fk int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("querying pragma: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}
}

func TestConnectRetriesThenFails(t *testing.T) {
	start := time.Now()
	_, err := Connect(context.Background(), "/nonexistent-dir/test.db", 3, 10*time.Millisecond)
	if err == nil {
		t.Fatal("expected an error for an unwritable path")
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("elapsed = %v, want at least two backoff sleeps", elapsed)
	}
}

func TestConnectHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Connect(ctx, "/nonexistent-dir/test.db", 5, time.Second)
	if err == nil {
		t.Fatal("expected an error after cancellation")
	}
}
