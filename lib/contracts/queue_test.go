package contracts

import (
	"fmt"
	"testing"
)

func TestQueueDepthBound(t *testing.T) {
	env := newTestEnvWith(t, func(cfg *Config) {
		cfg.QueueDepth = 3
	})

	// fill the queue to its configured depth
	for i := byte(1); i <= 3; i++ {
		a := account(i)
		env.placeContract(t, a)
		if err := env.engine.DestroyRecord(a); err != nil {
			t.Fatalf("destroy %d failed: %s", i, err)
		}
	}
	if got := env.engine.QueueLen(); got != 3 {
		t.Fatalf("queue length = %d, want 3", got)
	}

	// the fourth destruction must be rejected and leave the record alive
	a := account(4)
	env.placeContract(t, a)
	if err := env.engine.DestroyRecord(a); err != ErrDeletionQueueFull {
		t.Fatalf("destroy beyond depth returned %v, want ErrDeletionQueueFull", err)
	}
	if got := env.engine.QueueLen(); got != 3 {
		t.Errorf("queue length = %d after rejected destroy, want 3", got)
	}
	env.aliveRecord(t, a) // still alive, caller may retry later

	// tombstoning is subject to the same backpressure
	if err := env.engine.TombstoneRecord(a, [32]byte{}); err != ErrDeletionQueueFull {
		t.Errorf("tombstone beyond depth returned %v, want ErrDeletionQueueFull", err)
	}
	env.aliveRecord(t, a)
}

func TestQueueForDeletion(t *testing.T) {
	env := newTestEnvWith(t, func(cfg *Config) {
		cfg.QueueDepth = 2
	})

	record := &AliveRecord{
		NamespaceID:    env.engine.GenerateNamespaceID(account(1)),
		TotalPairCount: 5,
	}

	for i := 0; i < 2; i++ {
		if err := env.engine.QueueForDeletion(record); err != nil {
			t.Fatalf("enqueue %d failed: %s", i, err)
		}
	}
	if err := env.engine.QueueForDeletion(record); err != ErrDeletionQueueFull {
		t.Fatalf("enqueue beyond depth returned %v, want ErrDeletionQueueFull", err)
	}
	if got := env.engine.QueueLen(); got != 2 {
		t.Errorf("queue length = %d, want 2", got)
	}
}

func TestQueueSurvivesReload(t *testing.T) {
	env := newTestEnv(t)

	for i := byte(1); i <= 4; i++ {
		a := account(i)
		env.placeContract(t, a)
		if err := env.engine.DestroyRecord(a); err != nil {
			t.Fatalf("destroy failed: %s", err)
		}
	}

	// a second engine over the same store sees the persisted queue
	other, err := NewEngine(Config{
		Store:      env.store,
		Ticks:      TickFunc(func() uint64 { return env.tick }),
		Costs:      env.engine.costs,
		QueueDepth: env.engine.queueDepth,
		Log:        env.engine.log,
	})
	if err != nil {
		t.Fatalf("failed to create second engine: %s", err)
	}

	if got := other.QueueLen(); got != 4 {
		t.Errorf("reloaded queue length = %d, want 4", got)
	}
}

func TestNamespaceOwnershipTransfer(t *testing.T) {
	env := newTestEnv(t)
	a := account(1)
	ns := env.placeContract(t, a)

	for i := 0; i < 4; i++ {
		key := fmt.Sprintf("key-%d", i)
		if err := env.engine.Write(a, ns, []byte(key), []byte("value")); err != nil {
			t.Fatalf("write failed: %s", err)
		}
	}
	if err := env.engine.DestroyRecord(a); err != nil {
		t.Fatalf("destroy failed: %s", err)
	}

	// entries stay readable until the batch processor gets to them
	if _, loaded := env.engine.Read(ns, []byte("key-0")); !loaded {
		t.Errorf("orphaned namespace entry vanished before batch deletion")
	}
}
