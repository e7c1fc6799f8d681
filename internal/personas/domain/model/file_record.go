package model

// FileRecord is an uploaded image reference attributed to exactly one Person.
// Only the reference is stored; image bytes are never copied.
type FileRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Date is formatted when the record is created and is immutable
	Date string `json:"date"`
	URI  string `json:"uri,omitempty"`
}

// FileDraft holds the inputs of an upload command
type FileDraft struct {
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// FileStore maps a Person id to that person's files in upload order.
type FileStore map[string][]FileRecord

// Clone returns a deep copy. A nil store yields an empty (non-nil) store.
func (fs FileStore) Clone() FileStore {
	out := make(FileStore, len(fs))
	for owner, files := range fs {
		out[owner] = CloneFiles(files)
	}
	return out
}

// Count returns the number of files attached to owner
func (fs FileStore) Count(owner string) int {
	return len(fs[owner])
}

// CloneFiles copies a file sequence, preserving order
func CloneFiles(files []FileRecord) []FileRecord {
	out := make([]FileRecord, len(files))
	copy(out, files)
	return out
}

// FindFile returns the index of the file with id, or -1
func FindFile(files []FileRecord, id string) int {
	for i, f := range files {
		if f.ID == id {
			return i
		}
	}
	return -1
}
