package domain

import internaldomain "github.com/goliatone/go-quizbox/internal/domain"

// ContentStatus represents lifecycle states for content entries.
type ContentStatus = internaldomain.ContentStatus

const (
	// StatusPublished identifies content visible to players.
	StatusPublished = internaldomain.StatusPublished
	// StatusDraft indicates content still under curation.
	StatusDraft = internaldomain.StatusDraft
	// StatusTrash marks content removed from circulation but still recoverable.
	StatusTrash = internaldomain.StatusTrash
)

// BulkActionType names a status transition applied to a batch of content.
type BulkActionType = internaldomain.BulkActionType

const (
	ActionPublish = internaldomain.ActionPublish
	ActionDraft   = internaldomain.ActionDraft
	ActionTrash   = internaldomain.ActionTrash
	ActionDelete  = internaldomain.ActionDelete
	ActionRestore = internaldomain.ActionRestore
)

// ContentKind identifies a content family (question, riddle, joke).
type ContentKind = internaldomain.ContentKind

const (
	KindQuestion = internaldomain.KindQuestion
	KindRiddle   = internaldomain.KindRiddle
	KindJoke     = internaldomain.KindJoke
)
