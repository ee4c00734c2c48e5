package xano

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNetwork   = errors.New("xano: network error")
	ErrMalformed = errors.New("xano: malformed response")
)

// APIError es una respuesta no 2xx de Xano.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("xano: status %d", e.StatusCode)
	}
	return fmt.Sprintf("xano: status %d: %s", e.StatusCode, e.Message)
}

var userMessages = map[int]string{
	http.StatusBadRequest:          "De ingevoerde gegevens zijn niet geldig. Controleer de formuliervelden.",
	http.StatusUnauthorized:        "Uw sessie is verlopen. Log opnieuw in.",
	http.StatusForbidden:           "U heeft geen toestemming voor deze actie.",
	http.StatusNotFound:            "De gevraagde resource is niet gevonden.",
	http.StatusConflict:            "Er bestaat al een record met deze gegevens.",
	http.StatusUnprocessableEntity: "De ingevoerde gegevens konden niet worden verwerkt.",
	http.StatusTooManyRequests:     "Te veel verzoeken. Probeer het later opnieuw.",
	http.StatusInternalServerError: "Er is een serverfout opgetreden. Probeer het later opnieuw.",
	http.StatusBadGateway:          "De service is tijdelijk niet beschikbaar. Probeer het later opnieuw.",
	http.StatusServiceUnavailable:  "De service is tijdelijk niet beschikbaar. Probeer het later opnieuw.",
	http.StatusGatewayTimeout:      "De service is tijdelijk niet beschikbaar. Probeer het later opnieuw.",
}

const (
	networkMessage = "Netwerkfout. Controleer uw internetverbinding."
	unknownMessage = "Er is een onverwachte fout opgetreden."
)

// UserMessage traduce un error del cliente a un mensaje para el usuario final.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if msg, ok := userMessages[apiErr.StatusCode]; ok {
			return msg
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return unknownMessage
	}
	if errors.Is(err, ErrNetwork) {
		return networkMessage
	}
	return unknownMessage
}

// HTTPStatus devuelve el codigo a reenviar al cliente del portal.
func HTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	if errors.Is(err, ErrNetwork) || errors.Is(err, ErrMalformed) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
