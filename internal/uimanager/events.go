package uimanager

import (
	"github.com/zjrosen/strata/internal/panel"
	"github.com/zjrosen/strata/internal/pubsub"
)

// Lifecycle event types published on the manager's broker.
const (
	EventOpened     pubsub.EventType = "opened"
	EventShown      pubsub.EventType = "shown"
	EventHidden     pubsub.EventType = "hidden"
	EventClosed     pubsub.EventType = "closed"
	EventPreloaded  pubsub.EventType = "preloaded"
	EventLoadFailed pubsub.EventType = "load_failed"
	EventCleared    pubsub.EventType = "cleared"
)

// Event describes one lifecycle change. Err is set for EventLoadFailed.
type Event struct {
	Address panel.Address
	Layer   string
	Err     error
}
