package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	err      error
	panics   bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("boom")
	}
	h.received = append(h.received, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func newTestEvent(eventType string) shared.DomainEvent {
	e := shared.NewBaseDomainEvent(eventType, uuid.New(), "TestAggregate")
	return &e
}

func TestInMemoryEventBusPublish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"OrderShipped"}}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), newTestEvent("OrderShipped"))
	require.NoError(t, err)
	require.Len(t, handler.received, 1)
	assert.Equal(t, "OrderShipped", handler.received[0].EventType())
}

func TestInMemoryEventBusIgnoresUnsubscribedTypes(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"OrderShipped"}}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), newTestEvent("OrderCancelled"))
	require.NoError(t, err)
	assert.Empty(t, handler.received)
}

func TestInMemoryEventBusHandlerErrorDoesNotBlockOthers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{types: []string{"OrderShipped"}, err: errors.New("handler failure")}
	healthy := &recordingHandler{types: []string{"OrderShipped"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("OrderShipped"))
	require.NoError(t, err)
	assert.Len(t, healthy.received, 1)
}

func TestInMemoryEventBusRecoversFromPanic(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	panicking := &recordingHandler{types: []string{"OrderShipped"}, panics: true}
	healthy := &recordingHandler{types: []string{"OrderShipped"}}
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	assert.NotPanics(t, func() {
		_ = bus.Publish(context.Background(), newTestEvent("OrderShipped"))
	})
	assert.Len(t, healthy.received, 1)
}

func TestInMemoryEventBusUnsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"OrderShipped"}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	err := bus.Publish(context.Background(), newTestEvent("OrderShipped"))
	require.NoError(t, err)
	assert.Empty(t, handler.received)
}

func TestInMemoryEventBusStartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	require.NoError(t, bus.Stop(context.Background()))
}

func TestHandlerRegistryWildcard(t *testing.T) {
	registry := NewHandlerRegistry()
	wildcard := &recordingHandler{}
	typed := &recordingHandler{types: []string{"OrderShipped"}}

	registry.Register(wildcard)
	registry.Register(typed, "OrderShipped")

	assert.Len(t, registry.HandlersFor("OrderShipped"), 2)
	assert.Len(t, registry.HandlersFor("OrderCancelled"), 1)
}

func TestHandlerRegistryUnregister(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := &recordingHandler{types: []string{"OrderShipped"}}

	registry.Register(handler, "OrderShipped")
	registry.Unregister(handler)

	assert.Empty(t, registry.HandlersFor("OrderShipped"))
}
