package http_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	httpadapter "github.com/randomtoy/dicegame/internal/adapters/http"
	"github.com/randomtoy/dicegame/internal/logging"
	"github.com/randomtoy/dicegame/internal/ports"
)

func TestStreamHub_PublishDoesNotBlock(t *testing.T) {
	hub := httpadapter.NewStreamHub(logging.NewNop())
	ch, cancel := hub.Subscribe("v")
	defer cancel()

	for range 100 {
		hub.Publish(ports.ViewSnapshot{ViewID: "v", Display: "Rolling..."})
	}
	assert.Len(t, ch, cap(ch))

	msg := <-ch
	assert.Contains(t, msg, `"display":"Rolling..."`)
}

func TestStreamHub_OnlyMatchingView(t *testing.T) {
	hub := httpadapter.NewStreamHub(logging.NewNop())
	a, cancelA := hub.Subscribe("a")
	defer cancelA()
	b, cancelB := hub.Subscribe("b")
	defer cancelB()

	hub.Publish(ports.ViewSnapshot{ViewID: "a"})
	assert.Len(t, a, 1)
	assert.Empty(t, b)
}

func TestStreamHub_DropClosesSubscribers(t *testing.T) {
	hub := httpadapter.NewStreamHub(logging.NewNop())
	ch, cancel := hub.Subscribe("v")
	assert.Equal(t, 1, hub.Subscribers("v"))

	hub.Drop("v")
	_, ok := <-ch
	assert.False(t, ok)
	assert.Zero(t, hub.Subscribers("v"))

	assert.NotPanics(t, cancel)
}

func TestStreamHub_CancelRemovesSubscriber(t *testing.T) {
	hub := httpadapter.NewStreamHub(logging.NewNop())
	_, cancel1 := hub.Subscribe("v")
	_, cancel2 := hub.Subscribe("v")

	cancel1()
	cancel1()
	assert.Equal(t, 1, hub.Subscribers("v"))
	cancel2()
	assert.Zero(t, hub.Subscribers("v"))
}
