package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubDeliversToOwnUserOnly(t *testing.T) {
	hub := NewHub(4, nil)

	adaCh, adaCancel := hub.Subscribe("ada@example.com")
	defer adaCancel()
	bobCh, bobCancel := hub.Subscribe("bob@example.com")
	defer bobCancel()

	hub.Notify(Event{UserKey: "ada@example.com", TaskID: "t1", Title: "Upcoming Task Reminder"})

	select {
	case event := <-adaCh:
		assert.Equal(t, "t1", event.TaskID)
		assert.False(t, event.FiredAt.IsZero())
	case <-time.After(time.Second):
		t.Fatal("subscriber never received the event")
	}

	select {
	case <-bobCh:
		t.Fatal("event leaked to another user's stream")
	default:
	}
}

func TestHubFansOutToAllSubscribers(t *testing.T) {
	hub := NewHub(4, nil)

	first, cancelFirst := hub.Subscribe("ada@example.com")
	defer cancelFirst()
	second, cancelSecond := hub.Subscribe("ada@example.com")
	defer cancelSecond()

	hub.Notify(Event{UserKey: "ada@example.com", TaskID: "t1"})

	for _, ch := range []<-chan Event{first, second} {
		select {
		case event := <-ch:
			assert.Equal(t, "t1", event.TaskID)
		case <-time.After(time.Second):
			t.Fatal("a subscriber missed the event")
		}
	}
}

func TestHubCancelClosesChannel(t *testing.T) {
	hub := NewHub(4, nil)

	ch, cancel := hub.Subscribe("ada@example.com")
	cancel()

	_, open := <-ch
	assert.False(t, open)

	// Cancelling twice must not panic or close twice.
	cancel()

	hub.Notify(Event{UserKey: "ada@example.com", TaskID: "t1"})
}

func TestHubDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub(1, nil)

	ch, cancel := hub.Subscribe("ada@example.com")
	defer cancel()

	hub.Notify(Event{UserKey: "ada@example.com", TaskID: "t1"})
	hub.Notify(Event{UserKey: "ada@example.com", TaskID: "t2"})

	require.EqualValues(t, 1, hub.Dropped())

	event := <-ch
	assert.Equal(t, "t1", event.TaskID)
}

// A stream disconnect may close its channel at the same instant a reminder
// fires. Delivery racing the cancels must never panic the firing goroutine.
func TestHubNotifyRacingCancels(t *testing.T) {
	hub := NewHub(1, nil)

	for round := 0; round < 50; round++ {
		cancels := make([]func(), 0, 200)
		for i := 0; i < 200; i++ {
			_, cancel := hub.Subscribe("ada@example.com")
			cancels = append(cancels, cancel)
		}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			hub.Notify(Event{UserKey: "ada@example.com", TaskID: "t1"})
		}()
		go func() {
			defer wg.Done()
			for _, cancel := range cancels {
				cancel()
			}
		}()
		wg.Wait()
	}
}

func TestHubNoSubscribersIsFine(t *testing.T) {
	hub := NewHub(4, nil)
	hub.Notify(Event{UserKey: "nobody@example.com", TaskID: "t1"})
	assert.Zero(t, hub.Dropped())
}
