package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FlexString acepta valores JSON string o numericos (Xano mezcla ambos en ids).
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

// ImageRef acepta una URL plana o un objeto {"url": "..."}.
type ImageRef string

func (i *ImageRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*i = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*i = ImageRef(s)
		return nil
	}
	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}
	*i = ImageRef(obj.URL)
	return nil
}

// Contact es el sub-objeto de contacto que Xano anida en el perfil.
type Contact struct {
	ID             FlexString `json:"id,omitempty"`
	FirstName      string     `json:"first_name,omitempty"`
	LastName       string     `json:"last_name,omitempty"`
	Email          string     `json:"email,omitempty"`
	DisplayName    string     `json:"display_name,omitempty"`
	OrganizationID FlexString `json:"organization_id,omitempty"`
	ContactType    string     `json:"contact_type,omitempty"`
	JobTitle       string     `json:"job_title,omitempty"`
	ProfilePicture ImageRef   `json:"profile_picture,omitempty"`
}

// Profile es el usuario autenticado tal como lo devuelve /me o /login.
// Todos los campos son opcionales: el perfil puede venir incompleto.
type Profile struct {
	ID             FlexString `json:"id,omitempty"`
	FirstName      string     `json:"first_name,omitempty"`
	LastName       string     `json:"last_name,omitempty"`
	Email          string     `json:"email,omitempty"`
	DisplayName    string     `json:"display_name,omitempty"`
	FullName       string     `json:"full_name,omitempty"`
	SignupType     string     `json:"signup_type,omitempty"`
	RoleID         FlexString `json:"role_id,omitempty"`
	OrganizationID FlexString `json:"organization_id,omitempty"`
	ContactType    string     `json:"contact_type,omitempty"`
	AccessLevel    string     `json:"access_level,omitempty"`
	ProfilePicture ImageRef   `json:"profile_picture,omitempty"`
	Avatar         ImageRef   `json:"avatar,omitempty"`
	Permissions    []string   `json:"permissions,omitempty"`
	Contact        *Contact   `json:"contact,omitempty"`
	ContactAlt     *Contact   `json:"_contact,omitempty"`
}

// MergeContact devuelve una copia del perfil con los huecos rellenados desde
// el contacto anidado. Los campos del perfil tienen prioridad.
func (p Profile) MergeContact() Profile {
	c := p.Contact
	if c == nil {
		c = p.ContactAlt
	}
	if c == nil {
		return p
	}
	merged := p
	merged.Contact = c
	merged.ContactAlt = nil
	merged.FirstName = firstNonEmpty(p.FirstName, c.FirstName)
	merged.LastName = firstNonEmpty(p.LastName, c.LastName)
	merged.Email = firstNonEmpty(p.Email, c.Email)
	merged.DisplayName = firstNonEmpty(p.DisplayName, c.DisplayName)
	merged.ContactType = firstNonEmpty(p.ContactType, c.ContactType)
	if merged.OrganizationID == "" {
		merged.OrganizationID = c.OrganizationID
	}
	if merged.ProfilePicture == "" {
		merged.ProfilePicture = c.ProfilePicture
	}
	return merged
}

// Role devuelve el tipo de alta, o el tipo de contacto si no hay alta.
func (p Profile) Role() string {
	return firstNonEmpty(p.SignupType, p.ContactType)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// SignupType enumera los tipos de alta aceptados por /signup.
type SignupType string

const (
	SignupCustomer   SignupType = "customer"
	SignupInternal   SignupType = "internal"
	SignupExternal   SignupType = "external"
	SignupTechnician SignupType = "technician"
)

func (t SignupType) Valid() bool {
	switch t {
	case SignupCustomer, SignupInternal, SignupExternal, SignupTechnician:
		return true
	}
	return false
}

// SignupInput es el payload de registro enviado a Xano.
type SignupInput struct {
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Email          string     `json:"email"`
	Password       string     `json:"password"`
	SignupType     SignupType `json:"signup_type"`
	OrganizationID string     `json:"organization_id,omitempty"`
}
