package domain

import "time"

type EntryID string

// Entry is a single text row owned by the server. The client never invents
// IDs or timestamps; both arrive from the API.
type Entry struct {
	ID        EntryID
	Text      string
	CreatedAt time.Time
}

type ListKind string

const (
	ListRecords   ListKind = "records"
	ListShortcuts ListKind = "shortcuts"
)

func (k ListKind) Valid() bool {
	switch k {
	case ListRecords, ListShortcuts:
		return true
	default:
		return false
	}
}

func (k ListKind) String() string {
	return string(k)
}

// EditCursor tracks the one entry currently being edited in place.
// The zero value means no edit is active.
type EditCursor struct {
	Kind  ListKind
	ID    EntryID
	Draft string
}

func (c EditCursor) Active() bool {
	return c.ID != ""
}
