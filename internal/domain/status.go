package domain

import "strings"

// BulkActionType names a status transition applied to a batch of content.
type BulkActionType string

const (
	ActionPublish BulkActionType = "publish"
	ActionDraft   BulkActionType = "draft"
	ActionTrash   BulkActionType = "trash"
	ActionDelete  BulkActionType = "delete"
	ActionRestore BulkActionType = "restore"
)

// BulkActionTypes lists the closed action set.
func BulkActionTypes() []BulkActionType {
	return []BulkActionType{ActionPublish, ActionDraft, ActionTrash, ActionDelete, ActionRestore}
}

// Valid reports whether the action is one of the known types.
func (a BulkActionType) Valid() bool {
	switch a {
	case ActionPublish, ActionDraft, ActionTrash, ActionDelete, ActionRestore:
		return true
	default:
		return false
	}
}

func (a BulkActionType) String() string { return string(a) }

// PastTense renders the verb used in result summaries. Unknown actions fall
// back to the raw value suffixed with "ed".
func (a BulkActionType) PastTense() string {
	switch a {
	case ActionPublish:
		return "published"
	case ActionDraft:
		return "drafted"
	case ActionTrash:
		return "trashed"
	case ActionDelete:
		return "deleted"
	case ActionRestore:
		return "restored"
	default:
		return strings.TrimSpace(string(a)) + "ed"
	}
}

// NormalizeBulkAction lower-cases and trims caller input without validating it;
// unknown values are left for the bulk engine to reject.
func NormalizeBulkAction(input string) BulkActionType {
	return BulkActionType(strings.ToLower(strings.TrimSpace(input)))
}
