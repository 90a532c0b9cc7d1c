package model

import "time"

type EventType string

const (
	EventCreate EventType = "CREATE"
	EventWrite  EventType = "WRITE"
	EventRemove EventType = "REMOVE"
	EventRename EventType = "RENAME"
)

type FileEvent struct {
	ID        string
	Type      EventType
	Path      string
	Timestamp time.Time
}

// IsUpdate reports whether the event means the file now has new content.
func (e FileEvent) IsUpdate() bool {
	return e.Type == EventCreate || e.Type == EventWrite
}
