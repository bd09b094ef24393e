package domain

import "strings"

// ContentStatus represents the lifecycle state shared by every content kind.
type ContentStatus string

const (
	// StatusPublished identifies content visible to players
	StatusPublished ContentStatus = "published"
	// StatusDraft indicates content still under curation
	StatusDraft ContentStatus = "draft"
	// StatusTrash marks content removed from circulation but still recoverable
	StatusTrash ContentStatus = "trash"
)

// ContentStatuses lists every status in display order.
func ContentStatuses() []ContentStatus {
	return []ContentStatus{StatusPublished, StatusDraft, StatusTrash}
}

// Valid reports whether the status belongs to the closed status set.
func (s ContentStatus) Valid() bool {
	switch s {
	case StatusPublished, StatusDraft, StatusTrash:
		return true
	default:
		return false
	}
}

func (s ContentStatus) String() string { return string(s) }

// ParseContentStatus normalises persisted or user supplied values. The second
// return value is false when the input is outside the closed status set.
func ParseContentStatus(input string) (ContentStatus, bool) {
	status := ContentStatus(strings.ToLower(strings.TrimSpace(input)))
	return status, status.Valid()
}

// ContentKind identifies a content family stored by the platform.
type ContentKind string

const (
	KindQuestion ContentKind = "question"
	KindRiddle   ContentKind = "riddle"
	KindJoke     ContentKind = "joke"
)

// ContentKinds lists the supported kinds.
func ContentKinds() []ContentKind {
	return []ContentKind{KindQuestion, KindRiddle, KindJoke}
}

// Valid reports whether the kind is supported.
func (k ContentKind) Valid() bool {
	switch k {
	case KindQuestion, KindRiddle, KindJoke:
		return true
	default:
		return false
	}
}

// Label returns the human readable entity label used in result messages.
func (k ContentKind) Label() string {
	switch k {
	case KindQuestion:
		return "Question"
	case KindRiddle:
		return "Riddle"
	case KindJoke:
		return "Joke"
	default:
		return strings.TrimSpace(string(k))
	}
}

// ParseContentKind accepts singular or plural spellings ("jokes").
func ParseContentKind(input string) (ContentKind, bool) {
	value := strings.ToLower(strings.TrimSpace(input))
	kind := ContentKind(strings.TrimSuffix(value, "s"))
	return kind, kind.Valid()
}
