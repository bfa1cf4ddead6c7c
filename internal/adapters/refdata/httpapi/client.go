package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"kennel-ops/internal/platform/httpclient"
	"kennel-ops/internal/ports/refdata"
)

var (
	ErrNotConfigured = errors.New("refdata client not configured")
	ErrUpstream      = errors.New("refdata upstream error")
)

// Config del cliente del directorio de clientes/animales.
// BaseURL y APIKey normalmente vendrán de env vars en quien lo instancie.
type Config struct {
	BaseURL string
	APIKey  string

	// Opcional: nombre del header donde se manda la API key.
	// Si está vacío, se usa "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration
}

// Client consulta un servicio externo de referencia (CRM de la
// guardería) por HTTP. Implementa refdata.Accessor.
type Client struct {
	http         *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

func NewClient(cfg Config) (*Client, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}

	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		http:         hc,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != ""
}

type clientDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type animalDTO struct {
	ID               string `json:"id"`
	ClientID         string `json:"clientId"`
	Name             string `json:"name"`
	Species          string `json:"species"`
	Food             string `json:"food"`
	Medications      string `json:"medications"`
	Notes            string `json:"notes"`
	RabiesExpiration string `json:"rabiesExpiration"` // YYYY-MM-DD, vacío si no hay registro
}

func (c *Client) ClientByID(ctx context.Context, id string) (refdata.Client, error) {
	if !c.IsConfigured() {
		return refdata.Client{}, ErrNotConfigured
	}

	var dto clientDTO
	if err := c.get(ctx, "/clients/"+id, &dto); err != nil {
		return refdata.Client{}, err
	}
	return refdata.Client{
		ID:    dto.ID,
		Name:  strings.TrimSpace(dto.Name),
		Phone: strings.TrimSpace(dto.Phone),
		Email: strings.TrimSpace(dto.Email),
	}, nil
}

func (c *Client) AnimalByID(ctx context.Context, id string) (refdata.Animal, error) {
	if !c.IsConfigured() {
		return refdata.Animal{}, ErrNotConfigured
	}

	var dto animalDTO
	if err := c.get(ctx, "/animals/"+id, &dto); err != nil {
		return refdata.Animal{}, err
	}

	an := refdata.Animal{
		ID:          dto.ID,
		ClientID:    dto.ClientID,
		Name:        strings.TrimSpace(dto.Name),
		Species:     refdata.NormalizeSpecies(dto.Species),
		Food:        dto.Food,
		Medications: dto.Medications,
		Notes:       dto.Notes,
	}
	if s := strings.TrimSpace(dto.RabiesExpiration); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return refdata.Animal{}, fmt.Errorf("%w: invalid rabiesExpiration %q", ErrUpstream, s)
		}
		an.RabiesExpiration = &t
	}
	return an, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	var headers map[string]string
	if c.apiKey != "" {
		headers = map[string]string{c.apiKeyHeader: c.apiKey}
	}

	err := c.http.DoJSON(ctx, http.MethodGet, path, headers, nil, out)
	if err == nil {
		return nil
	}

	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == http.StatusNotFound {
			return refdata.ErrNotFound
		}
		return fmt.Errorf("%w: status=%d", ErrUpstream, httpErr.StatusCode)
	}
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}
