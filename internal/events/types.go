package events

import "time"

// EventType indicates what kind of change occurred
type EventType string

const (
	EventBoardCreated      EventType = "board.created"
	EventBoardDeleted      EventType = "board.deleted"
	EventListAdded         EventType = "list.added"
	EventListMoved         EventType = "list.moved"
	EventListRenamed       EventType = "list.renamed"
	EventListDeleted       EventType = "list.deleted"
	EventCardAdded         EventType = "card.added"
	EventCardMoved         EventType = "card.moved"
	EventCardUpdated       EventType = "card.updated"
	EventCardDeleted       EventType = "card.deleted"
	EventPermissionChanged EventType = "permission.changed"
)

// Event is a change notification, published once the change has committed
type Event struct {
	Type      EventType `json:"type"`
	BoardID   int64     `json:"board_id"`            // board the change belongs to
	EntityID  int64     `json:"entity_id,omitempty"` // list, card or user id depending on Type
	ScopeID   int64     `json:"scope_id,omitempty"`  // destination list or board for moves
	ActorID   int64     `json:"actor_id"`
	Timestamp time.Time `json:"timestamp"`
}
