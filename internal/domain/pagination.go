package domain

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Page is a cursor page request: rows with id > Cursor ordered by id, at most
// Limit of them. A nil Cursor starts from the beginning.
type Page struct {
	Cursor *uint
	Limit  int
}

func NewPage(cursor *uint, limit int) Page {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return Page{Cursor: cursor, Limit: limit}
}

// After reports whether id is past the cursor.
func (p Page) After(id uint) bool {
	return p.Cursor == nil || id > *p.Cursor
}

// NextCursor returns the cursor for the page following ids, or nil when
// fewer than Limit rows came back.
func (p Page) NextCursor(lastID uint, count int) *uint {
	if count < p.Limit || count == 0 {
		return nil
	}
	next := lastID
	return &next
}
