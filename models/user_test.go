package models

import (
	"context"
	"testing"

	"github.com/boldventures/scorecard_backend/utils"
)

func TestCreateUserMissingFields(t *testing.T) {
	cases := []struct {
		name  string
		input NewUser
		want  string
	}{
		{"username", NewUser{Password: "pw", RetypePassword: "pw", Firstname: "Bob", Lastname: "Smith"}, "Username is required."},
		{"password", NewUser{Username: "bob", RetypePassword: "pw", Firstname: "Bob", Lastname: "Smith"}, "Password is required."},
		{"firstname", NewUser{Username: "bob", Password: "pw", RetypePassword: "pw", Lastname: "Smith"}, "First name is required."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CreateUser(context.Background(), &tc.input)
			if err == nil || !utils.IsValidationError(err) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if err.Error() != tc.want {
				t.Fatalf("got %q, want %q", err.Error(), tc.want)
			}
		})
	}
}

func TestCreateUserPasswordMismatch(t *testing.T) {
	input := NewUser{Username: "bob", Password: "pw1", RetypePassword: "pw2", Firstname: "Bob", Lastname: "Smith"}
	_, err := CreateUser(context.Background(), &input)
	if err == nil || !utils.IsValidationError(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if err.Error() != "Passwords do not match." {
		t.Fatalf("got %q", err.Error())
	}
}

func TestUserDisplayName(t *testing.T) {
	user := User{FirstName: "Ada", LastName: "Lovelace"}
	if got := user.DisplayName(); got != "Ada Lovelace" {
		t.Fatalf("DisplayName() = %q", got)
	}
}
