package xano

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"chargecars-portal/internal/domain"
)

// Variantes observadas del campo de token y de expiracion.
var (
	tokenFields  = []string{"authToken", "auth_token", "token", "accessToken"}
	expiryFields = []string{"expires_in", "expiresIn", "auth_token_exp"}
)

// AuthResult es la respuesta 2xx de /login o /signup.
type AuthResult struct {
	Token   string
	Expiry  string
	User    *domain.Profile
	Message string
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	return c.authenticate(ctx, "/login", body)
}

func (c *Client) Signup(ctx context.Context, input domain.SignupInput) (AuthResult, error) {
	return c.authenticate(ctx, "/signup", input)
}

// Me obtiene el perfil asociado al token. Un cuerpo que no sea un objeto
// (null incluido) es ErrMalformed: no hay usuario que instalar.
func (c *Client) Me(ctx context.Context, token string) (domain.Profile, error) {
	raw, err := c.do(ctx, http.MethodGet, c.authURL+"/me", token, nil)
	if err != nil {
		return domain.Profile{}, err
	}
	body := bytes.TrimSpace(raw)
	if len(body) == 0 || body[0] != '{' {
		return domain.Profile{}, fmt.Errorf("%w: profile is not an object", ErrMalformed)
	}
	var profile domain.Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return domain.Profile{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return profile, nil
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (AuthResult, error) {
	raw, err := c.do(ctx, http.MethodPost, c.authURL+path, "", body)
	if err != nil {
		return AuthResult{}, err
	}
	return ParseAuthResult(raw)
}

// ParseAuthResult extrae token, expiracion y usuario de un cuerpo de auth.
func ParseAuthResult(raw []byte) (AuthResult, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return AuthResult{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var res AuthResult
	for _, name := range tokenFields {
		if v := scalarString(fields[name]); v != "" {
			res.Token = v
			break
		}
	}
	for _, name := range expiryFields {
		if v := scalarString(fields[name]); v != "" {
			res.Expiry = v
			break
		}
	}
	res.Message = scalarString(fields["message"])

	if userRaw, ok := fields["user"]; ok && !isNull(userRaw) {
		var user domain.Profile
		if err := json.Unmarshal(userRaw, &user); err == nil {
			res.User = &user
		}
	}
	return res, nil
}

// scalarString devuelve el valor de un string o numero JSON como texto.
func scalarString(raw json.RawMessage) string {
	if len(raw) == 0 || isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}
