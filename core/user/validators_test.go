package user

import (
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/equilibrar/core"
)

func wantedTag(t *testing.T, err error, field, tag string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected a %q error on %s, got nil", tag, field)
	}
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		t.Fatalf("error = %v, want validator.ValidationErrors", err)
	}
	for _, fe := range vErrs {
		if fe.Field() == field && fe.Tag() == tag {
			return
		}
	}
	t.Errorf("no %q error on %s in %v", tag, field, err)
}

func TestPasswordPolicy(t *testing.T) {
	tests := []struct {
		name    string
		pwd     string
		wantTag string
	}{
		{name: "too short", pwd: "lol", wantTag: pwdMinLenTag},
		{name: "whitespace", pwd: "pass word1", wantTag: pwdNoSpaceTag},
		{name: "all numeric", pwd: "12345678", wantTag: pwdNotAllNumTag},
		{name: "similar to email", pwd: "ben@test.cl", wantTag: pwdAttrSimTag},
		{name: "similar to name", pwd: "Benito Olmos", wantTag: pwdAttrSimTag},
		{name: "ok", pwd: "Str0ngPa$$word"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := NewUser{
				Name:            "Benito Olmos",
				Email:           "ben@test.cl",
				Role:            RoleAdmin,
				Password:        tt.pwd,
				PasswordConfirm: tt.pwd,
			}
			err := core.Validate.Struct(nu)
			if tt.wantTag == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			wantedTag(t, err, "password", tt.wantTag)
		})
	}
}

func TestRoleValidation(t *testing.T) {
	for _, role := range AllRoles {
		nu := NewUser{Name: "Benito", Email: "ben@test.cl", Role: role}
		if err := core.Validate.Struct(nu); err != nil {
			t.Errorf("role %q rejected: %v", role, err)
		}
	}

	nu := NewUser{Name: "Benito", Email: "ben@test.cl", Role: "superuser"}
	wantedTag(t, core.Validate.Struct(nu), "role", roleTag)
}

func TestPhoneValidation(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		valid bool
	}{
		{name: "empty is fine", phone: "", valid: true},
		{name: "chilean mobile", phone: "+56 9 5214 7788", valid: true},
		{name: "digits only", phone: "987654321", valid: true},
		{name: "too short", phone: "123", valid: false},
		{name: "letters", phone: "call me maybe", valid: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := UpdateProfile{Phone: tt.phone}
			err := up.Validate()
			if tt.valid && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("Validate() expected an error")
			}
		})
	}
}
