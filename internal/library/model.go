package library

// Status is a reading-status shelf.
type Status string

// The four shelves every library is partitioned into.
const (
	StatusToRead    Status = "to_read"
	StatusReading   Status = "reading"
	StatusFinished  Status = "finished"
	StatusAbandoned Status = "abandoned"
)

// Valid reports whether s is one of the known shelves.
func (s Status) Valid() bool {
	switch s {
	case StatusToRead, StatusReading, StatusFinished, StatusAbandoned:
		return true
	}
	return false
}

// Book is one catalog entry. Immutable once fetched; refreshed by re-query.
type Book struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Author        *string `json:"author"`
	CoverImageURL *string `json:"cover_image_url"`
	Description   *string `json:"description"`
	TotalPages    *int    `json:"total_pages"`
	InLibrary     bool    `json:"in_library"`
}

// Entry is a Book the user has shelved, plus its reading state.
// Progress is only meaningful while Status is "reading", but the server does
// not clear it on other shelves and neither do we.
type Entry struct {
	Book
	Status   Status   `json:"status"`
	Progress *float64 `json:"progress_percentage"`
}

// Category is one catalog category.
type Category struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
}

// Shelves is the user's library partitioned by status.
type Shelves struct {
	Reading   []Entry `json:"reading"`
	ToRead    []Entry `json:"to_read"`
	Finished  []Entry `json:"finished"`
	Abandoned []Entry `json:"abandoned"`
}

// IsEmpty reports whether the library has nothing to show. Abandoned entries
// don't count: a library holding only abandoned books still gets the empty
// prompt pointing at the catalog.
func (s Shelves) IsEmpty() bool {
	return len(s.Reading) == 0 && len(s.ToRead) == 0 && len(s.Finished) == 0
}

// Total returns the entry count across all four shelves.
func (s Shelves) Total() int {
	return len(s.Reading) + len(s.ToRead) + len(s.Finished) + len(s.Abandoned)
}

// ByStatus returns the partition for the given shelf.
func (s Shelves) ByStatus(st Status) []Entry {
	switch st {
	case StatusReading:
		return s.Reading
	case StatusToRead:
		return s.ToRead
	case StatusFinished:
		return s.Finished
	case StatusAbandoned:
		return s.Abandoned
	}
	return nil
}

// Find returns the entry with the given book ID, searching all shelves.
func (s Shelves) Find(bookID string) *Entry {
	for _, shelf := range [][]Entry{s.Reading, s.ToRead, s.Finished, s.Abandoned} {
		for i := range shelf {
			if shelf[i].ID == bookID {
				return &shelf[i]
			}
		}
	}
	return nil
}

// Patch is a partial update to a library entry. Nil fields are left unchanged.
type Patch struct {
	Status   *Status  `json:"status,omitempty"`
	Progress *float64 `json:"progress,omitempty"`
}

// IsZero reports whether the patch would change nothing.
func (p Patch) IsZero() bool {
	return p.Status == nil && p.Progress == nil
}
