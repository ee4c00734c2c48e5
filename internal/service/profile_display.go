package service

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"chargecars-portal/internal/domain"
)

const (
	FallbackDisplayName = "Gebruiker"
	FallbackInitial     = "G"
	DefaultRoleLabel    = "Gebruiker"
)

var signupRoleLabels = map[string]string{
	string(domain.SignupCustomer):   "Klant",
	string(domain.SignupInternal):   "Medewerker",
	string(domain.SignupExternal):   "Partner",
	string(domain.SignupTechnician): "Technicus",
}

var contactRoleLabels = map[string]string{
	"customer":   "Klant",
	"internal":   "Medewerker",
	"partner":    "Partner",
	"technician": "Technicus",
}

// DisplayName elige el nombre visible del perfil con caida a "Gebruiker".
func DisplayName(p *domain.Profile) string {
	if p == nil {
		return FallbackDisplayName
	}
	m := p.MergeContact()
	full := strings.TrimSpace(strings.TrimSpace(m.FirstName) + " " + strings.TrimSpace(m.LastName))
	if name := firstNonEmpty(m.DisplayName, m.FullName, full); name != "" {
		return strings.TrimSpace(name)
	}
	if local, _, _ := strings.Cut(strings.TrimSpace(m.Email), "@"); local != "" {
		return local
	}
	return FallbackDisplayName
}

// Initials devuelve una o dos iniciales en mayusculas.
func Initials(p *domain.Profile) string {
	if p == nil {
		return FallbackInitial
	}
	m := p.MergeContact()
	first, last := strings.TrimSpace(m.FirstName), strings.TrimSpace(m.LastName)
	switch {
	case first != "" && last != "":
		return leadingRune(first) + leadingRune(last)
	case first != "":
		return leadingRune(first)
	}

	// iniciales de las dos primeras palabras: "Jan van Dijk" da "JV"
	if name := strings.TrimSpace(m.DisplayName); name != "" {
		parts := strings.Fields(name)
		if len(parts) >= 2 {
			return leadingRune(parts[0]) + leadingRune(parts[1])
		}
		return leadingRune(parts[0])
	}
	if email := strings.TrimSpace(m.Email); email != "" {
		return leadingRune(email)
	}
	return FallbackInitial
}

// RoleLabel traduce signup_type o contact_type a la etiqueta en neerlandes.
func RoleLabel(p *domain.Profile) string {
	if p == nil {
		return DefaultRoleLabel
	}
	m := p.MergeContact()
	if m.SignupType != "" {
		if label, ok := signupRoleLabels[m.SignupType]; ok {
			return label
		}
		return DefaultRoleLabel
	}
	if label, ok := contactRoleLabels[m.ContactType]; ok {
		return label
	}
	return DefaultRoleLabel
}

// ProfileImageURL prioriza la foto del contacto sobre la del usuario.
func ProfileImageURL(p *domain.Profile) string {
	if p == nil {
		return ""
	}
	var contactPicture domain.ImageRef
	if c := p.Contact; c != nil {
		contactPicture = c.ProfilePicture
	} else if c := p.ContactAlt; c != nil {
		contactPicture = c.ProfilePicture
	}
	return firstNonEmpty(string(contactPicture), string(p.ProfilePicture), string(p.Avatar))
}

func HasProfileImage(p *domain.Profile) bool {
	return ProfileImageURL(p) != ""
}

// IsInternalUser es verdadero para medewerkers y tecnicos.
func IsInternalUser(p *domain.Profile) bool {
	if p == nil {
		return false
	}
	switch p.MergeContact().Role() {
	case string(domain.SignupInternal), string(domain.SignupTechnician):
		return true
	}
	return false
}

func HasPermission(p *domain.Profile, permission string) bool {
	if p == nil || permission == "" {
		return false
	}
	for _, perm := range p.Permissions {
		if perm == permission {
			return true
		}
	}
	return false
}

// ProfileView es la proyeccion del perfil que consume la UI.
type ProfileView struct {
	ID              string   `json:"id,omitempty"`
	Email           string   `json:"email,omitempty"`
	DisplayName     string   `json:"display_name"`
	Initials        string   `json:"initials"`
	RoleLabel       string   `json:"role_label"`
	Role            string   `json:"role,omitempty"`
	ProfileImageURL string   `json:"profile_image_url,omitempty"`
	HasProfileImage bool     `json:"has_profile_image"`
	IsInternal      bool     `json:"is_internal"`
	Permissions     []string `json:"permissions,omitempty"`
}

func NewProfileView(p *domain.Profile) ProfileView {
	view := ProfileView{
		DisplayName:     DisplayName(p),
		Initials:        Initials(p),
		RoleLabel:       RoleLabel(p),
		ProfileImageURL: ProfileImageURL(p),
		HasProfileImage: HasProfileImage(p),
		IsInternal:      IsInternalUser(p),
	}
	if p != nil {
		m := p.MergeContact()
		view.ID = m.ID.String()
		view.Email = m.Email
		view.Role = m.Role()
		view.Permissions = m.Permissions
	}
	return view
}

func leadingRune(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}
