package models

import (
	"errors"
	"testing"
)

func TestParsePermission(t *testing.T) {
	tests := []struct {
		in      string
		want    Permission
		wantErr bool
	}{
		{in: "manage:user", want: Permission{"manage", "user"}},
		{in: " View : Movie ", want: Permission{"view", "movie"}},
		{in: "manage", wantErr: true},
		{in: "manage:user:booking", wantErr: true},
		{in: "manage::user", wantErr: true},
		{in: ":user", wantErr: true},
		{in: "manage:", wantErr: true},
		{in: " : ", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParsePermission(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidPermission) {
				t.Errorf("ParsePermission(%q): err = %v, want ErrInvalidPermission", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePermission(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePermission(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHasPermission_Admin(t *testing.T) {
	ok, err := HasPermission(UserRoleAdmin, "manage:user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("admin should have manage:user")
	}
}

func TestHasPermission_Customer(t *testing.T) {
	should := []string{"create:booking", "view:booking", "view:movie", "view:showtime"}
	shouldNot := []string{"manage:user", "manage:movie", "manage:showtime"}

	for _, perm := range should {
		if ok, _ := HasPermission(UserRoleCustomer, perm); !ok {
			t.Errorf("customer should have %s", perm)
		}
	}
	for _, perm := range shouldNot {
		if ok, _ := HasPermission(UserRoleCustomer, perm); ok {
			t.Errorf("customer should NOT have %s", perm)
		}
	}
}

func TestHasPermission_Malformed(t *testing.T) {
	for _, perm := range []string{"manage", "manage:user:x"} {
		if _, err := HasPermission(UserRoleAdmin, perm); !errors.Is(err, ErrInvalidPermission) {
			t.Errorf("HasPermission(%q): err = %v, want ErrInvalidPermission", perm, err)
		}
	}
}

func TestHasPermission_UnknownRole(t *testing.T) {
	ok, err := HasPermission(UserRole("GHOST"), "view:movie")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("unknown role should have no permissions")
	}
}

// Role sets are built by strict additive composition: each role contains
// everything the role below it has.
func TestRoleComposition(t *testing.T) {
	subset := func(small, big []Permission) bool {
		set := make(map[Permission]struct{}, len(big))
		for _, p := range big {
			set[p] = struct{}{}
		}
		for _, p := range small {
			if _, ok := set[p]; !ok {
				return false
			}
		}
		return true
	}

	customer := PermissionsForRole(UserRoleCustomer)
	staff := PermissionsForRole(UserRoleStaff)
	manager := PermissionsForRole(UserRoleManager)
	admin := PermissionsForRole(UserRoleAdmin)

	for _, perms := range [][]Permission{customer, staff, manager, admin} {
		if len(perms) == 0 {
			t.Fatal("every role must have a non-empty permission set")
		}
	}

	if !subset(customer, staff) || !subset(staff, manager) || !subset(manager, admin) {
		t.Error("role permission sets are not additively composed")
	}

	if len(customer) >= len(manager) {
		t.Error("customer set should be a strict subset of manager's")
	}
}

func TestPermissionsForRole_Copy(t *testing.T) {
	perms := PermissionsForRole(UserRoleCustomer)
	perms[0] = Permission{"manage", "user"}

	if ok, _ := HasPermission(UserRoleCustomer, "manage:user"); ok {
		t.Error("mutating the returned slice must not affect the role table")
	}
}
