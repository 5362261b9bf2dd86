package blog

import "strings"

// Status enumerates the lifecycle states of a post. Domain code and the
// JSON surface use the lowercase form; the store keeps the uppercase form.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// ParseStatus resolves a status value case-insensitively.
func ParseStatus(raw string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusDraft:
		return StatusDraft, true
	case StatusPublished:
		return StatusPublished, true
	case StatusArchived:
		return StatusArchived, true
	}
	return "", false
}

// storeForm returns the representation persisted in the status column.
func (s Status) storeForm() string {
	return strings.ToUpper(string(s))
}

// statusFromStore maps a stored status value back to its domain form.
func statusFromStore(raw string) Status {
	if status, ok := ParseStatus(raw); ok {
		return status
	}
	return StatusDraft
}
