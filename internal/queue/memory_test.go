package queue

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func waitWithTimeout(t *testing.T, wg *sync.WaitGroup, timeout time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatal("Timeout waiting for WaitGroup")
	}
}

func TestMemoryQueue_PublishSubscribe(t *testing.T) {
	q := NewMemoryQueue()
	defer func() { _ = q.Close() }()

	var received []byte
	var wg sync.WaitGroup
	wg.Add(1)

	err := q.Subscribe("readings.b1", func(data []byte) error {
		received = data
		wg.Done()
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	if err := q.Publish(context.Background(), "readings.b1", []byte("payload")); err != nil {
		t.Fatalf("Failed to publish: %v", err)
	}

	waitWithTimeout(t, &wg, 2*time.Second)

	if string(received) != "payload" {
		t.Errorf("Expected 'payload', got '%s'", received)
	}
}

func TestMemoryQueue_PublishCopiesData(t *testing.T) {
	q := NewMemoryQueue()
	defer func() { _ = q.Close() }()

	original := []byte("original")
	if err := q.Publish(context.Background(), "test", original); err != nil {
		t.Fatalf("Failed to publish: %v", err)
	}

	original[0] = 'X'

	var received []byte
	var wg sync.WaitGroup
	wg.Add(1)
	_ = q.Subscribe("test", func(data []byte) error {
		received = data
		wg.Done()
		return nil
	})

	waitWithTimeout(t, &wg, 2*time.Second)

	if string(received) != "original" {
		t.Errorf("Published data should be copied, got '%s'", received)
	}
}

func TestMemoryQueue_PublishBatch(t *testing.T) {
	q := NewMemoryQueue()
	defer func() { _ = q.Close() }()

	messages := []BatchMessage{
		{Subject: "readings.b1", Data: []byte("msg1")},
		{Subject: "readings.b2", Data: []byte("msg2")},
		{Subject: "readings.b1", Data: []byte("msg3")},
	}

	count, err := q.PublishBatch(context.Background(), messages)
	if err != nil {
		t.Fatalf("Failed to publish batch: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 published, got %d", count)
	}
	if q.PendingCount("readings.b1") != 2 {
		t.Errorf("Expected 2 pending in readings.b1, got %d", q.PendingCount("readings.b1"))
	}
	if q.PendingCount("readings.b2") != 1 {
		t.Errorf("Expected 1 pending in readings.b2, got %d", q.PendingCount("readings.b2"))
	}
}

func TestMemoryQueue_PublishBatchEmpty(t *testing.T) {
	q := NewMemoryQueue()
	defer func() { _ = q.Close() }()

	count, err := q.PublishBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("Empty batch should not error: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 published, got %d", count)
	}
}

func TestMemoryQueue_DoubleSubscribe(t *testing.T) {
	q := NewMemoryQueue()
	defer func() { _ = q.Close() }()

	if err := q.Subscribe("test", func([]byte) error { return nil }); err != nil {
		t.Fatalf("First subscribe failed: %v", err)
	}
	if err := q.Subscribe("test", func([]byte) error { return nil }); err == nil {
		t.Fatal("Expected error for double subscribe")
	}
}

func TestMemoryQueue_Unsubscribe(t *testing.T) {
	q := NewMemoryQueue()
	defer func() { _ = q.Close() }()

	_ = q.Subscribe("test", func([]byte) error { return nil })

	if err := q.Unsubscribe("test"); err != nil {
		t.Fatalf("Failed to unsubscribe: %v", err)
	}
	if err := q.Unsubscribe("test"); err == nil {
		t.Fatal("Expected error for double unsubscribe")
	}
}

func TestMemoryQueue_HandlerErrorDoesNotStopConsumer(t *testing.T) {
	q := NewMemoryQueue()
	defer func() { _ = q.Close() }()

	var calls int32
	_ = q.Subscribe("test", func([]byte) error {
		atomic.AddInt32(&calls, 1)
		return fmt.Errorf("handler error")
	})

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_ = q.Publish(ctx, "test", []byte("msg"))
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if atomic.LoadInt32(&calls) >= 5 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("Expected 5 handler calls, got %d", atomic.LoadInt32(&calls))
}

func TestMemoryQueue_ConcurrentPublish(t *testing.T) {
	q := NewMemoryQueue()
	defer func() { _ = q.Close() }()

	ctx := context.Background()
	goroutines := 10
	perGoroutine := 100

	var wg sync.WaitGroup
	var errCount int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				if err := q.Publish(ctx, "concurrent", []byte(fmt.Sprintf("%d-%d", id, j))); err != nil {
					atomic.AddInt32(&errCount, 1)
				}
			}
		}(i)
	}
	wg.Wait()

	if errCount > 0 {
		t.Errorf("Had %d errors during concurrent publish", errCount)
	}
	if q.PendingCount("concurrent") != goroutines*perGoroutine {
		t.Errorf("Expected %d pending, got %d", goroutines*perGoroutine, q.PendingCount("concurrent"))
	}
}

func TestMemoryQueue_Close(t *testing.T) {
	q := NewMemoryQueue()

	_ = q.Subscribe("a", func([]byte) error { return nil })
	_ = q.Subscribe("b", func([]byte) error { return nil })
	_ = q.Publish(context.Background(), "c", []byte("msg"))

	if err := q.Close(); err != nil {
		t.Fatalf("Failed to close: %v", err)
	}
	if len(q.subscriptions) != 0 {
		t.Error("Subscriptions should be empty after close")
	}
	if len(q.channels) != 0 {
		t.Error("Channels should be empty after close")
	}
}
