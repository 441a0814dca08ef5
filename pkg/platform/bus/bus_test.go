package bus

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitReachesAllSubscribers(t *testing.T) {
	b := New()
	var first, second int
	b.On("changed", func() { first++ })
	b.On("changed", func() { second++ })

	b.Emit("changed")

	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}

func TestEmitIsScopedToEventName(t *testing.T) {
	b := New()
	var hits int
	b.On("a", func() { hits++ })

	b.Emit("b")

	assert.Zero(t, hits)
}

func TestOffStopsDelivery(t *testing.T) {
	b := New()
	var hits int
	sub := b.On("changed", func() { hits++ })

	b.Emit("changed")
	b.Off(sub)
	b.Emit("changed")

	assert.Equal(t, 1, hits)

	// Double Off is a no-op.
	b.Off(sub)
	b.Emit("changed")
	assert.Equal(t, 1, hits)
}

func TestHandlerCanUnsubscribeDuringDispatch(t *testing.T) {
	b := New()
	var hits int
	var sub Subscription
	sub = b.On("changed", func() {
		hits++
		b.Off(sub)
	})

	b.Emit("changed")
	b.Emit("changed")

	assert.Equal(t, 1, hits)
}

func TestConcurrentEmitAndSubscribe(t *testing.T) {
	b := New()
	var mu sync.Mutex
	total := 0

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			b.On("changed", func() {
				mu.Lock()
				total++
				mu.Unlock()
			})
		}()
		go func() {
			defer wg.Done()
			b.Emit("changed")
		}()
	}
	wg.Wait()

	// No assertion on total beyond absence of races; the final emit must see
	// every subscriber registered above.
	b.Emit("changed")
	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, total, 8)
}
