package fulfillment

import (
	"github.com/locddhe176242/G174---MMS-sub001/internal/domain/identity"
)

// EditPermissions is the field-level mutability a (status, role) pair grants
// on a document. It is computed by pure functions; no ambient state is read.
type EditPermissions struct {
	CanEditHeader   bool `json:"can_edit_header"`
	CanEditItems    bool `json:"can_edit_items"`
	CanEditNotes    bool `json:"can_edit_notes"`
	CanEditTracking bool `json:"can_edit_tracking"`
}

func allEditable() EditPermissions {
	return EditPermissions{CanEditHeader: true, CanEditItems: true, CanEditNotes: true, CanEditTracking: true}
}

// DeliveryEditPermissions computes edit rights on a delivery. Draft is fully
// editable for every role. Once the delivery advances, ordinary roles keep
// only tracking fields through PICKED (logistics metadata is safe to amend
// after picking, quantities are not); managers retain header, items and
// notes until the document reaches a terminal state.
func DeliveryEditPermissions(status DeliveryStatus, actor identity.Actor) EditPermissions {
	switch status {
	case DeliveryStatusDraft:
		return allEditable()
	case DeliveryStatusPicked:
		if actor.IsManager() {
			return allEditable()
		}
		return EditPermissions{CanEditTracking: true}
	case DeliveryStatusShipped, DeliveryStatusDelivered:
		if actor.IsManager() {
			return allEditable()
		}
		return EditPermissions{}
	case DeliveryStatusCancelled:
		return EditPermissions{}
	}
	return EditPermissions{}
}

// GoodIssueEditPermissions computes edit rights on a good issue. Once an
// issue is approved only managers retain header, items and notes.
func GoodIssueEditPermissions(status IssueStatus, actor identity.Actor) EditPermissions {
	switch status {
	case IssueStatusDraft:
		return allEditable()
	case IssueStatusApproved:
		if actor.IsManager() {
			return EditPermissions{CanEditHeader: true, CanEditItems: true, CanEditNotes: true}
		}
		return EditPermissions{}
	case IssueStatusRejected:
		return EditPermissions{}
	}
	return EditPermissions{}
}

// ReturnOrderEditPermissions computes edit rights on a return order
func ReturnOrderEditPermissions(status ReturnStatus, actor identity.Actor) EditPermissions {
	switch status {
	case ReturnStatusDraft:
		return allEditable()
	case ReturnStatusApproved:
		if actor.IsManager() {
			return EditPermissions{CanEditHeader: true, CanEditItems: true, CanEditNotes: true}
		}
		return EditPermissions{}
	case ReturnStatusRejected, ReturnStatusCancelled:
		return EditPermissions{}
	}
	return EditPermissions{}
}
