package model

// Snapshot is a point-in-time copy of both collections.
// Readers own the copy; mutating it never affects the store.
type Snapshot struct {
	Persons []Person  `json:"persons"`
	Files   FileStore `json:"files"`
	// Version increases by one on every replacement
	Version uint64 `json:"version"`
}

// Collection names a persisted collection
type Collection string

const (
	CollectionPersons Collection = "persons"
	CollectionFiles   Collection = "files"
)

// ChangeEvent is the payload of a collections-changed notification
type ChangeEvent struct {
	Changed  []Collection `json:"changed"`
	Snapshot Snapshot     `json:"snapshot"`
}

// Touches reports whether the event changed collection c
func (e ChangeEvent) Touches(c Collection) bool {
	for _, changed := range e.Changed {
		if changed == c {
			return true
		}
	}
	return false
}

// ActivityRow is one line of the activity view: a person and how many files it owns
type ActivityRow struct {
	Person    Person `json:"person"`
	FileCount int    `json:"fileCount"`
}
