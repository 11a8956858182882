package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvChange(t *testing.T, ch <-chan Change) Change {
	t.Helper()
	select {
	case c, ok := <-ch:
		require.True(t, ok, "channel closed before a change arrived")
		return c
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change")
		return Change{}
	}
}

func TestMemoryPublishReachesSubscriber(t *testing.T) {
	m := NewMemory()
	ch, cancel := m.Subscribe(context.Background(), 1)
	defer cancel()

	m.Publish(context.Background(), Change{UserID: 1, Family: FamilyCheckIns})

	got := recvChange(t, ch)
	assert.Equal(t, uint(1), got.UserID)
	assert.Equal(t, FamilyCheckIns, got.Family)
}

func TestMemoryScopedToUser(t *testing.T) {
	m := NewMemory()
	mine, cancelMine := m.Subscribe(context.Background(), 1)
	defer cancelMine()
	theirs, cancelTheirs := m.Subscribe(context.Background(), 2)
	defer cancelTheirs()

	m.Publish(context.Background(), Change{UserID: 2, Family: FamilyHabits})

	got := recvChange(t, theirs)
	assert.Equal(t, uint(2), got.UserID)

	select {
	case c := <-mine:
		t.Fatalf("user 1 received another user's change: %+v", c)
	default:
	}
}

func TestMemoryFanOut(t *testing.T) {
	m := NewMemory()
	a, cancelA := m.Subscribe(context.Background(), 7)
	defer cancelA()
	b, cancelB := m.Subscribe(context.Background(), 7)
	defer cancelB()

	m.Publish(context.Background(), Change{UserID: 7, Family: FamilyCompletions})

	assert.Equal(t, FamilyCompletions, recvChange(t, a).Family)
	assert.Equal(t, FamilyCompletions, recvChange(t, b).Family)
}

func TestMemoryCancelClosesChannel(t *testing.T) {
	m := NewMemory()
	ch, cancel := m.Subscribe(context.Background(), 1)
	cancel()

	_, ok := <-ch
	assert.False(t, ok)

	// Publishing after cancel is a no-op, and cancel is safe to call twice.
	m.Publish(context.Background(), Change{UserID: 1, Family: FamilyCheckIns})
	cancel()
}

func TestMemoryPublishNeverBlocks(t *testing.T) {
	m := NewMemory()
	_, cancel := m.Subscribe(context.Background(), 1)
	defer cancel()

	// Flood well past the buffer; a slow consumer drops, never stalls.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			m.Publish(context.Background(), Change{UserID: 1, Family: FamilyCheckIns})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}
