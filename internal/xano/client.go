// Package xano es el cliente HTTP del backend Xano de ChargeCars.
package xano

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client habla con dos grupos de la API: el de auth y el de datos (V2).
type Client struct {
	authURL string
	dataURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient construye el cliente; baseURL es la raiz sin grupo.
func NewClient(baseURL, authGroup, dataGroup string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://api.chargecars.nl"
	}
	if authGroup == "" {
		authGroup = "auth"
	}
	if dataGroup == "" {
		dataGroup = "V2"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	base := strings.TrimRight(baseURL, "/")
	return &Client{
		authURL: base + "/api:" + authGroup,
		dataURL: base + "/api:" + dataGroup,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// WithHTTPClient reemplaza el *http.Client (tests).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.client = hc
	return c
}

// do ejecuta la peticion y devuelve el cuerpo crudo de una respuesta 2xx.
// Las respuestas no 2xx se devuelven como *APIError con el mensaje del servidor.
func (c *Client) do(ctx context.Context, method, rawURL, token string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: extractMessage(respBody)}
		c.logger.Debug("xano error response",
			zap.String("method", method),
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode),
		)
		return nil, apiErr
	}
	return respBody, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL, token string, out any) error {
	body, err := c.do(ctx, http.MethodGet, rawURL, token, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

func extractMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

func withQuery(base string, params url.Values) string {
	if len(params) == 0 {
		return base
	}
	return base + "?" + params.Encode()
}

// IsUnauthorized indica si el error es un 401 de la API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}
