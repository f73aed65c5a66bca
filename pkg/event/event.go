// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// World event types
const (
	ProjectileFired  Type = "projectile_fired"
	EnemyDestroyed   Type = "enemy_destroyed"
	ShipDamaged      Type = "ship_damaged"
	EntityCollision  Type = "entity_collision"
	ShipRefueled     Type = "ship_refueled"
	ItemAcquired     Type = "item_acquired"
	MissionCompleted Type = "mission_completed"
	GameEnded        Type = "game_ended"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
	GetFrame() uint64
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
	Frame     uint64
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// GetFrame returns the simulation frame the event happened on
func (e *BaseEvent) GetFrame() uint64 {
	return e.Frame
}

// Handler is a function that handles events
type Handler func(Event)

// SubscriptionID identifies a registered handler
type SubscriptionID uint64

// Subscription is returned by Subscribe. Cancel removes the handler and is
// safe to call more than once.
type Subscription struct {
	ID     SubscriptionID
	Cancel func()
}

type subscription struct {
	id      SubscriptionID
	handler Handler
}

// Bus manages event subscriptions and dispatching. Handlers run
// synchronously on the publishing goroutine, in subscription order.
type Bus struct {
	handlers map[Type][]subscription
	nextID   SubscriptionID
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscription),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})
	return &Subscription{
		ID:     id,
		Cancel: func() { b.Unsubscribe(eventType, id) },
	}
}

// Unsubscribe removes the handler registered under id
func (b *Bus) Unsubscribe(eventType Type, id SubscriptionID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, s := range subs {
		if s.id == id {
			kept := make([]subscription, 0, len(subs)-1)
			kept = append(kept, subs[:i]...)
			b.handlers[eventType] = append(kept, subs[i+1:]...)
			return true
		}
	}
	return false
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// ProjectileEvent is published when a ship, enemy or turret fires
type ProjectileEvent struct {
	BaseEvent
	Kind  string
	Owner string
}

// NewProjectileEvent creates a new projectile event
func NewProjectileEvent(source interface{}, frame uint64, kind, owner string) *ProjectileEvent {
	return &ProjectileEvent{
		BaseEvent: BaseEvent{EventType: ProjectileFired, Source: source, Frame: frame},
		Kind:      kind,
		Owner:     owner,
	}
}

// DamageEvent is published when the ship loses health
type DamageEvent struct {
	BaseEvent
	Cause  string
	Amount float64
	Health float64
}

// NewDamageEvent creates a new damage event
func NewDamageEvent(source interface{}, frame uint64, cause string, amount, health float64) *DamageEvent {
	return &DamageEvent{
		BaseEvent: BaseEvent{EventType: ShipDamaged, Source: source, Frame: frame},
		Cause:     cause,
		Amount:    amount,
		Health:    health,
	}
}

// CollisionEvent contains information about entity collisions
type CollisionEvent struct {
	BaseEvent
	KindA string
	KindB string
}

// NewCollisionEvent creates a new collision event
func NewCollisionEvent(source interface{}, frame uint64, kindA, kindB string) *CollisionEvent {
	return &CollisionEvent{
		BaseEvent: BaseEvent{EventType: EntityCollision, Source: source, Frame: frame},
		KindA:     kindA,
		KindB:     kindB,
	}
}

// GameEvent carries world-level state changes: enemy kills, mission
// progress and game over. Detail holds the reason or the entity kind.
type GameEvent struct {
	BaseEvent
	Detail string
}

// NewGameEvent creates a new game event
func NewGameEvent(eventType Type, source interface{}, frame uint64, detail string) *GameEvent {
	return &GameEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source, Frame: frame},
		Detail:    detail,
	}
}
