package services

import "errors"

// Price request statuses.
const (
	RequestStatusDraft     = "draft"
	RequestStatusPending   = "pending"
	RequestStatusApproved  = "approved"
	RequestStatusAssigned  = "assigned"
	RequestStatusCompleted = "completed"
	RequestStatusCancelled = "cancelled"
)

// Proposal statuses.
const (
	ProposalStatusDraft    = "draft"
	ProposalStatusSent     = "sent"
	ProposalStatusApproved = "approved"
	ProposalStatusRejected = "rejected"
)

// Guard errors returned when a transition is attempted from the wrong state.
// Callers must report these as warnings without mutating the record.
var (
	ErrRequestAlreadyProcessed = errors.New("request has already been processed")
	ErrRequestNotDraft         = errors.New("only draft requests can be modified")
	ErrRequestNotAssigned      = errors.New("request is not assigned to a supplier")
	ErrRequestHasNoItems       = errors.New("request must contain at least one item")
	ErrInvalidStatusChange     = errors.New("status change not allowed")
)

// SubmitRequest moves a draft request to pending. A request without items
// cannot be submitted.
func SubmitRequest(status string, itemCount int) (string, error) {
	if status != RequestStatusDraft {
		return status, ErrRequestNotDraft
	}
	if itemCount == 0 {
		return status, ErrRequestHasNoItems
	}
	return RequestStatusPending, nil
}

// ApproveRequest moves a pending request to approved, or directly to
// assigned when a supplier is picked in the same action.
func ApproveRequest(status string, supplierAssigned bool) (string, error) {
	if status != RequestStatusPending {
		return status, ErrRequestAlreadyProcessed
	}
	if supplierAssigned {
		return RequestStatusAssigned, nil
	}
	return RequestStatusApproved, nil
}

// RejectRequest cancels a pending request.
func RejectRequest(status string) (string, error) {
	if status != RequestStatusPending {
		return status, ErrRequestAlreadyProcessed
	}
	return RequestStatusCancelled, nil
}

// CompleteRequest records a supplier quote on an assigned request.
func CompleteRequest(status string) (string, error) {
	if status != RequestStatusAssigned {
		return status, ErrRequestNotAssigned
	}
	return RequestStatusCompleted, nil
}

// CanEditRequest reports whether the customer may still edit or delete the
// request. Everything past draft belongs to the admin workflow.
func CanEditRequest(status string) bool {
	return status == RequestStatusDraft
}

// ChangeProposalStatus validates a proposal status transition: a draft is
// sent to the client, a sent proposal is approved or rejected by the client.
func ChangeProposalStatus(current, next string) (string, error) {
	switch current {
	case ProposalStatusDraft:
		if next == ProposalStatusSent {
			return next, nil
		}
	case ProposalStatusSent:
		if next == ProposalStatusApproved || next == ProposalStatusRejected {
			return next, nil
		}
	}
	return current, ErrInvalidStatusChange
}

// RequestStatusText returns the display label for a price request status.
func RequestStatusText(status string) string {
	switch status {
	case RequestStatusDraft:
		return "Taslak"
	case RequestStatusPending:
		return "Beklemede"
	case RequestStatusApproved:
		return "Onaylandı"
	case RequestStatusAssigned:
		return "Tedarikçiye Atandı"
	case RequestStatusCompleted:
		return "Tamamlandı"
	case RequestStatusCancelled:
		return "İptal Edildi"
	default:
		return "Bilinmiyor"
	}
}

// RequestStatusBadgeClass returns the UI badge class for a request status.
func RequestStatusBadgeClass(status string) string {
	switch status {
	case RequestStatusPending:
		return "warning"
	case RequestStatusApproved:
		return "info"
	case RequestStatusAssigned:
		return "primary"
	case RequestStatusCompleted:
		return "success"
	case RequestStatusCancelled:
		return "danger"
	default:
		return "secondary"
	}
}

// ProposalStatusText returns the display label for a proposal status.
func ProposalStatusText(status string) string {
	switch status {
	case ProposalStatusDraft:
		return "Taslak"
	case ProposalStatusSent:
		return "Gönderildi"
	case ProposalStatusApproved:
		return "Onaylandı"
	case ProposalStatusRejected:
		return "Reddedildi"
	default:
		return "Bilinmiyor"
	}
}
