package services

import (
	"errors"
	"testing"
)

func TestSubmitRequest(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		itemCount  int
		wantStatus string
		wantErr    error
	}{
		{"draft with items", RequestStatusDraft, 2, RequestStatusPending, nil},
		{"draft without items", RequestStatusDraft, 0, RequestStatusDraft, ErrRequestHasNoItems},
		{"already pending", RequestStatusPending, 2, RequestStatusPending, ErrRequestNotDraft},
		{"completed", RequestStatusCompleted, 2, RequestStatusCompleted, ErrRequestNotDraft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SubmitRequest(tt.status, tt.itemCount)
			if got != tt.wantStatus {
				t.Errorf("status = %q, want %q", got, tt.wantStatus)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestApproveRequest(t *testing.T) {
	tests := []struct {
		name             string
		status           string
		supplierAssigned bool
		wantStatus       string
		wantErr          error
	}{
		{"pending without supplier", RequestStatusPending, false, RequestStatusApproved, nil},
		{"pending with supplier", RequestStatusPending, true, RequestStatusAssigned, nil},
		{"draft", RequestStatusDraft, false, RequestStatusDraft, ErrRequestAlreadyProcessed},
		{"already approved", RequestStatusApproved, false, RequestStatusApproved, ErrRequestAlreadyProcessed},
		{"completed stays completed", RequestStatusCompleted, true, RequestStatusCompleted, ErrRequestAlreadyProcessed},
		{"cancelled", RequestStatusCancelled, false, RequestStatusCancelled, ErrRequestAlreadyProcessed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApproveRequest(tt.status, tt.supplierAssigned)
			if got != tt.wantStatus {
				t.Errorf("status = %q, want %q", got, tt.wantStatus)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRejectRequest(t *testing.T) {
	got, err := RejectRequest(RequestStatusPending)
	if err != nil || got != RequestStatusCancelled {
		t.Errorf("RejectRequest(pending) = %q, %v; want cancelled, nil", got, err)
	}

	got, err = RejectRequest(RequestStatusAssigned)
	if !errors.Is(err, ErrRequestAlreadyProcessed) || got != RequestStatusAssigned {
		t.Errorf("RejectRequest(assigned) = %q, %v; want assigned, ErrRequestAlreadyProcessed", got, err)
	}
}

func TestCompleteRequest(t *testing.T) {
	got, err := CompleteRequest(RequestStatusAssigned)
	if err != nil || got != RequestStatusCompleted {
		t.Errorf("CompleteRequest(assigned) = %q, %v; want completed, nil", got, err)
	}

	got, err = CompleteRequest(RequestStatusPending)
	if !errors.Is(err, ErrRequestNotAssigned) || got != RequestStatusPending {
		t.Errorf("CompleteRequest(pending) = %q, %v; want pending, ErrRequestNotAssigned", got, err)
	}
}

func TestCanEditRequest(t *testing.T) {
	if !CanEditRequest(RequestStatusDraft) {
		t.Error("draft requests should be editable")
	}
	for _, status := range []string{RequestStatusPending, RequestStatusApproved, RequestStatusAssigned, RequestStatusCompleted, RequestStatusCancelled} {
		if CanEditRequest(status) {
			t.Errorf("%s requests should not be editable", status)
		}
	}
}

func TestChangeProposalStatus(t *testing.T) {
	tests := []struct {
		name    string
		current string
		next    string
		want    string
		wantErr bool
	}{
		{"send draft", ProposalStatusDraft, ProposalStatusSent, ProposalStatusSent, false},
		{"approve sent", ProposalStatusSent, ProposalStatusApproved, ProposalStatusApproved, false},
		{"reject sent", ProposalStatusSent, ProposalStatusRejected, ProposalStatusRejected, false},
		{"approve draft directly", ProposalStatusDraft, ProposalStatusApproved, ProposalStatusDraft, true},
		{"reopen approved", ProposalStatusApproved, ProposalStatusDraft, ProposalStatusApproved, true},
		{"reject rejected", ProposalStatusRejected, ProposalStatusRejected, ProposalStatusRejected, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ChangeProposalStatus(tt.current, tt.next)
			if got != tt.want {
				t.Errorf("status = %q, want %q", got, tt.want)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidStatusChange) {
				t.Errorf("err = %v, want ErrInvalidStatusChange", err)
			}
		})
	}
}

func TestRequestStatusText(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{RequestStatusDraft, "Taslak"},
		{RequestStatusPending, "Beklemede"},
		{RequestStatusApproved, "Onaylandı"},
		{RequestStatusAssigned, "Tedarikçiye Atandı"},
		{RequestStatusCompleted, "Tamamlandı"},
		{RequestStatusCancelled, "İptal Edildi"},
		{"bogus", "Bilinmiyor"},
	}

	for _, tt := range tests {
		if got := RequestStatusText(tt.status); got != tt.want {
			t.Errorf("RequestStatusText(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestRequestStatusBadgeClass(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{RequestStatusPending, "warning"},
		{RequestStatusApproved, "info"},
		{RequestStatusAssigned, "primary"},
		{RequestStatusCompleted, "success"},
		{RequestStatusCancelled, "danger"},
		{RequestStatusDraft, "secondary"},
	}

	for _, tt := range tests {
		if got := RequestStatusBadgeClass(tt.status); got != tt.want {
			t.Errorf("RequestStatusBadgeClass(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}
