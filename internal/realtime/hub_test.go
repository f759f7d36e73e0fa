package realtime

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentbounty/bountyboard/internal/domain"
)

func insertChange(table, id string) domain.Change {
	return domain.Change{Table: table, Op: domain.ChangeOpInsert, RecordID: id, At: time.Now()}
}

func TestHubDeliversToTableSubscribers(t *testing.T) {
	h := NewHub(8)

	got := make(chan domain.Change, 4)
	sub := h.Subscribe(domain.TableActivityFeed, func(c domain.Change) { got <- c })
	defer sub.Unsubscribe()

	h.Publish(insertChange(domain.TableActivityFeed, "e1"))

	select {
	case c := <-got:
		assert.Equal(t, "e1", c.RecordID)
		assert.Equal(t, domain.ChangeOpInsert, c.Op)
	case <-time.After(time.Second):
		t.Fatal("expected change to be delivered")
	}
}

func TestHubIgnoresOtherTables(t *testing.T) {
	h := NewHub(8)

	var calls atomic.Int32
	sub := h.Subscribe(domain.TableActivityFeed, func(domain.Change) { calls.Add(1) })
	defer sub.Unsubscribe()

	h.Publish(insertChange(domain.TableBounties, "b1"))
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, int32(0), calls.Load())
}

func TestUnsubscribeReleasesSubscription(t *testing.T) {
	h := NewHub(8)

	var calls atomic.Int32
	sub := h.Subscribe(domain.TableActivityFeed, func(domain.Change) { calls.Add(1) })
	require.Equal(t, 1, h.SubscriptionCount())

	sub.Unsubscribe()
	sub.Unsubscribe()

	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("delivery goroutine did not exit")
	}
	assert.Equal(t, 0, h.SubscriptionCount())

	h.Publish(insertChange(domain.TableActivityFeed, "e1"))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestPublishDoesNotBlockOnSlowSubscriber(t *testing.T) {
	h := NewHub(1)

	release := make(chan struct{})
	sub := h.Subscribe(domain.TableActivityFeed, func(domain.Change) { <-release })
	defer func() {
		close(release)
		sub.Unsubscribe()
	}()

	finished := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			h.Publish(insertChange(domain.TableActivityFeed, "e"))
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestUnsubscribeFromCallback(t *testing.T) {
	h := NewHub(4)

	var sub *Subscription
	called := make(chan struct{})
	sub = h.Subscribe(domain.TableActivityFeed, func(domain.Change) {
		sub.Unsubscribe()
		close(called)
	})

	h.Publish(insertChange(domain.TableActivityFeed, "e1"))

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("callback not invoked")
	}
	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("delivery goroutine did not exit")
	}
}

func TestUnsubscribeDuringCallbackStopsQueuedChanges(t *testing.T) {
	h := NewHub(8)

	var calls atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})
	sub := h.Subscribe(domain.TableActivityFeed, func(domain.Change) {
		if calls.Add(1) == 1 {
			close(entered)
			<-release
		}
	})

	h.Publish(insertChange(domain.TableActivityFeed, "a1"))
	<-entered

	// Queued behind the running callback.
	h.Publish(insertChange(domain.TableActivityFeed, "a2"))
	h.Publish(insertChange(domain.TableActivityFeed, "a3"))

	sub.Unsubscribe()
	close(release)

	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("delivery goroutine did not exit")
	}
	assert.Equal(t, int32(1), calls.Load())

	h.Publish(insertChange(domain.TableActivityFeed, "a4"))
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}
