package models

import "testing"

func TestAllowed(t *testing.T) {
	tests := []struct {
		name string
		role string
		op   Operation
		want bool
	}{
		{"admin can set status", RoleAdmin, OpExpenseSetStatus, true},
		{"admin can list users", RoleAdmin, OpUserList, true},
		{"user can create expenses", RoleUser, OpExpenseCreate, true},
		{"user can delete expenses", RoleUser, OpExpenseDelete, true},
		{"user can read stats", RoleUser, OpStatsRead, true},
		{"user cannot set status", RoleUser, OpExpenseSetStatus, false},
		{"user cannot list users", RoleUser, OpUserList, false},
		{"unknown role is denied", "auditor", OpExpenseList, false},
		{"unknown operation is denied", RoleAdmin, Operation("expense:export"), false},
		{"empty role is denied", "", OpExpenseList, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allowed(tt.role, tt.op); got != tt.want {
				t.Errorf("Allowed(%q, %q) = %v, want %v", tt.role, tt.op, got, tt.want)
			}
		})
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusApproved, StatusRejected} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "archived", "Pending", "APPROVED"} {
		if ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = true, want false", s)
		}
	}
}
