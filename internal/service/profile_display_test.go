package service

import (
	"testing"

	"chargecars-portal/internal/domain"
)

func TestDisplayName(t *testing.T) {
	cases := []struct {
		name    string
		profile *domain.Profile
		want    string
	}{
		{"nil profile", nil, "Gebruiker"},
		{"empty profile", &domain.Profile{}, "Gebruiker"},
		{"display name wins", &domain.Profile{DisplayName: "Team Lead", FirstName: "Anna"}, "Team Lead"},
		{"full name", &domain.Profile{FullName: "Anna de Vries"}, "Anna de Vries"},
		{"first and last", &domain.Profile{FirstName: "Anna", LastName: "de Vries"}, "Anna de Vries"},
		{"first only", &domain.Profile{FirstName: "Anna"}, "Anna"},
		{"email local part", &domain.Profile{Email: "anna@example.nl"}, "anna"},
		{"email without at sign", &domain.Profile{Email: "anna.devries"}, "anna.devries"},
		{"from contact", &domain.Profile{Contact: &domain.Contact{FirstName: "Bram", LastName: "Jansen"}}, "Bram Jansen"},
		{"from _contact", &domain.Profile{ContactAlt: &domain.Contact{DisplayName: "Cas"}}, "Cas"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DisplayName(tc.profile); got != tc.want {
				t.Fatalf("DisplayName = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestInitials(t *testing.T) {
	cases := []struct {
		name    string
		profile *domain.Profile
		want    string
	}{
		{"nil", nil, "G"},
		{"empty", &domain.Profile{}, "G"},
		{"first and last", &domain.Profile{FirstName: "anna", LastName: "vries"}, "AV"},
		{"first only", &domain.Profile{FirstName: "émile"}, "É"},
		{"display name first two words", &domain.Profile{DisplayName: "Jan van Dijk"}, "JV"},
		{"full name is not used", &domain.Profile{FullName: "Jan van Dijk", Email: "zoe@example.nl"}, "Z"},
		{"single word display", &domain.Profile{DisplayName: "Support"}, "S"},
		{"email", &domain.Profile{Email: "zoe@example.nl"}, "Z"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Initials(tc.profile); got != tc.want {
				t.Fatalf("Initials = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRoleLabel(t *testing.T) {
	cases := []struct {
		profile *domain.Profile
		want    string
	}{
		{nil, "Gebruiker"},
		{&domain.Profile{SignupType: "customer"}, "Klant"},
		{&domain.Profile{SignupType: "internal"}, "Medewerker"},
		{&domain.Profile{SignupType: "external"}, "Partner"},
		{&domain.Profile{SignupType: "technician"}, "Technicus"},
		{&domain.Profile{SignupType: "admin"}, "Gebruiker"},
		{&domain.Profile{ContactType: "partner"}, "Partner"},
		{&domain.Profile{Contact: &domain.Contact{ContactType: "customer"}}, "Klant"},
		{&domain.Profile{ContactType: "vendor"}, "Gebruiker"},
	}
	for _, tc := range cases {
		if got := RoleLabel(tc.profile); got != tc.want {
			t.Errorf("RoleLabel(%+v) = %q, want %q", tc.profile, got, tc.want)
		}
	}
}

func TestProfileImage(t *testing.T) {
	p := &domain.Profile{
		Avatar:  "https://cdn/avatar.png",
		Contact: &domain.Contact{ProfilePicture: "https://cdn/contact.png"},
	}
	if got := ProfileImageURL(p); got != "https://cdn/contact.png" {
		t.Fatalf("expected contact picture first, got %q", got)
	}
	if got := ProfileImageURL(&domain.Profile{Avatar: "https://cdn/avatar.png"}); got != "https://cdn/avatar.png" {
		t.Fatalf("expected avatar fallback, got %q", got)
	}
	if HasProfileImage(&domain.Profile{}) || HasProfileImage(nil) {
		t.Fatalf("expected no image")
	}
}

func TestInternalUserAndPermissions(t *testing.T) {
	if !IsInternalUser(&domain.Profile{SignupType: "technician"}) {
		t.Fatalf("technician should be internal")
	}
	if !IsInternalUser(&domain.Profile{ContactType: "internal"}) {
		t.Fatalf("internal contact should be internal")
	}
	if IsInternalUser(&domain.Profile{SignupType: "customer"}) || IsInternalUser(nil) {
		t.Fatalf("customer should not be internal")
	}

	p := &domain.Profile{Permissions: []string{"orders.read"}}
	if !HasPermission(p, "orders.read") || HasPermission(p, "orders.write") || HasPermission(nil, "orders.read") {
		t.Fatalf("unexpected permission result")
	}
}

func TestNewProfileView(t *testing.T) {
	p := &domain.Profile{
		ID:         "42",
		SignupType: "internal",
		Contact:    &domain.Contact{FirstName: "Anna", LastName: "Smit", Email: "anna@cc.nl"},
	}
	view := NewProfileView(p)
	if view.ID != "42" || view.Email != "anna@cc.nl" || view.DisplayName != "Anna Smit" ||
		view.Initials != "AS" || view.RoleLabel != "Medewerker" || !view.IsInternal || view.Role != "internal" {
		t.Fatalf("unexpected view: %+v", view)
	}

	empty := NewProfileView(nil)
	if empty.DisplayName != "Gebruiker" || empty.Initials != "G" || empty.RoleLabel != "Gebruiker" {
		t.Fatalf("unexpected empty view: %+v", empty)
	}
}
