package hms

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{"DOCTOR", RoleDoctor, false},
		{"doctor", RoleDoctor, false},
		{"lab-technician", RoleLabTechnician, false},
		{" HOSPITAL_ADMIN ", RoleHospitalAdmin, false},
		{"janitor", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRole(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidRole) {
				t.Errorf("expected ErrInvalidRole, got %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseRole(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPage_InRange(t *testing.T) {
	tests := []struct {
		name   string
		page   Page[Patient]
		want   bool
		hasNxt bool
	}{
		{"empty first page", Page[Patient]{Number: 0, TotalPages: 0}, true, false},
		{"empty later page", Page[Patient]{Number: 2, TotalPages: 0}, false, false},
		{"first of three", Page[Patient]{Number: 0, TotalPages: 3}, true, true},
		{"last of three", Page[Patient]{Number: 2, TotalPages: 3}, true, false},
		{"beyond range", Page[Patient]{Number: 3, TotalPages: 3}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.page.InRange(); got != tt.want {
				t.Errorf("InRange() = %v, want %v", got, tt.want)
			}
			if got := tt.page.HasNext(); got != tt.hasNxt {
				t.Errorf("HasNext() = %v, want %v", got, tt.hasNxt)
			}
		})
	}
}

func TestBilling_Balance(t *testing.T) {
	tests := []struct {
		name string
		b    Billing
		want float64
	}{
		{"unpaid", Billing{TotalAmount: 1500}, 1500},
		{"partial with insurance", Billing{TotalAmount: 1500, PaidAmount: 500, InsuranceCoveredAmount: 400}, 600},
		{"overpaid clamps to zero", Billing{TotalAmount: 1000, PaidAmount: 1200}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.b.Balance(); got != tt.want {
				t.Errorf("Balance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLabOrderStatus_Next(t *testing.T) {
	tests := []struct {
		from   LabOrderStatus
		want   LabOrderStatus
		wantOK bool
	}{
		{LabOrdered, LabSampleCollected, true},
		{LabSampleCollected, LabProcessing, true},
		{LabProcessing, LabCompleted, true},
		{LabCompleted, LabVerified, true},
		{LabVerified, LabReleased, true},
		{LabReleased, "", false},
		{LabCancelled, "", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			got, ok := tt.from.Next()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Next() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestClaimStatus_NeedsApprovedAmount(t *testing.T) {
	for _, s := range ClaimStatuses {
		want := s == ClaimApproved || s == ClaimPartiallyApproved
		if got := s.NeedsApprovedAmount(); got != want {
			t.Errorf("%s.NeedsApprovedAmount() = %v, want %v", s, got, want)
		}
	}
}

func TestDrug_LowStock(t *testing.T) {
	d := Drug{QuantityInStock: 10, ReorderLevel: 10}
	if !d.LowStock() {
		t.Error("expected stock at reorder level to be low")
	}
	d.QuantityInStock = 11
	if d.LowStock() {
		t.Error("expected stock above reorder level not to be low")
	}
}
