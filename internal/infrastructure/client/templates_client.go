package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/denisokoth/shopcore-api/internal/application/port"
	"github.com/denisokoth/shopcore-api/internal/domain/entity"
)

// TemplatesClient talks to the templating service over HTTP
type TemplatesClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewTemplatesClient creates a templates service client
func NewTemplatesClient(baseURL string, timeout time.Duration) *TemplatesClient {
	return &TemplatesClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

var _ port.TemplatesAdapter = (*TemplatesClient)(nil)

func (c *TemplatesClient) ListTemplatesByState(ctx context.Context, companyID, state string) ([]port.Template, error) {
	endpoint := fmt.Sprintf("%s/api/templates?assignedState=%s&companyId=%s",
		c.baseURL, url.QueryEscape(state), url.QueryEscape(companyID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("templates service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("templates service returned %d", resp.StatusCode)
	}

	var templates []port.Template
	if err := json.NewDecoder(resp.Body).Decode(&templates); err != nil {
		return nil, fmt.Errorf("decode templates response: %w", err)
	}
	return templates, nil
}

func (c *TemplatesClient) RenderPDF(ctx context.Context, templateID string, order *entity.Order) ([]byte, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/api/templates/%s/pdf", c.baseURL, url.PathEscape(templateID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/pdf")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("templates service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pdf render returned %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/pdf") {
		return nil, fmt.Errorf("pdf render returned unexpected content type %q", ct)
	}

	return io.ReadAll(resp.Body)
}
