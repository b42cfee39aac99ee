package contentful

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/frahmantamala/plan-checkout/internal/plan"
)

// Config addresses one Contentful space/environment through the Content
// Delivery API.
type Config struct {
	BaseURL     string
	SpaceID     string
	Environment string
	AccessToken string
	Timeout     time.Duration
}

// Client resolves pricing plans stored as Contentful entries. A plan entry
// carries name and price, and links to a second entry holding the gateway
// connection (field apiConnection).
type Client struct {
	baseURL     string
	spaceID     string
	environment string
	accessToken string
	client      *http.Client
	logger      *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	env := cfg.Environment
	if env == "" {
		env = "master"
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		spaceID:     cfg.SpaceID,
		environment: env,
		accessToken: cfg.AccessToken,
		client:      &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

var _ plan.RepositoryAPI = (*Client)(nil)

type link struct {
	Sys struct {
		Type     string `json:"type"`
		LinkType string `json:"linkType"`
		ID       string `json:"id"`
	} `json:"sys"`
}

type planFields struct {
	Name          string `json:"name"`
	Price         string `json:"price"`
	APIConnection *link  `json:"apiConnection"`
}

type connectionFields struct {
	APIEndpoint string `json:"apiEndpoint"`
	HTTPMethod  string `json:"httpMethod"`
	APIKey      string `json:"apiKey"`
	SecretKey   string `json:"secretKey"`
}

type entry[T any] struct {
	Sys struct {
		ID string `json:"id"`
	} `json:"sys"`
	Fields T `json:"fields"`
}

type entriesResponse struct {
	Total    int                 `json:"total"`
	Items    []entry[planFields] `json:"items"`
	Includes struct {
		Entry []entry[connectionFields] `json:"Entry"`
	} `json:"includes"`
}

func (c *Client) FindByID(ctx context.Context, id string) (*plan.Plan, error) {
	query := url.Values{}
	query.Set("sys.id", id)
	query.Set("include", "1")
	query.Set("limit", "1")

	endpoint := fmt.Sprintf("%s/spaces/%s/environments/%s/entries?%s",
		c.baseURL, url.PathEscape(c.spaceID), url.PathEscape(c.environment), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create contentful request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contentful request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("contentful returned error",
			"status", resp.StatusCode,
			"plan_id", id,
			"response", string(body))
		return nil, fmt.Errorf("contentful returned status %d", resp.StatusCode)
	}

	var payload entriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode contentful response: %w", err)
	}

	if len(payload.Items) == 0 {
		return nil, nil
	}

	item := payload.Items[0]
	result := &plan.Plan{
		ID:       item.Sys.ID,
		Name:     item.Fields.Name,
		RawPrice: item.Fields.Price,
	}

	if conn := item.Fields.APIConnection; conn != nil && conn.Sys.ID != "" {
		for _, included := range payload.Includes.Entry {
			if included.Sys.ID != conn.Sys.ID {
				continue
			}
			if included.Fields.APIEndpoint != "" {
				result.Gateway = &plan.GatewayConfig{
					APIEndpoint: included.Fields.APIEndpoint,
					HTTPMethod:  included.Fields.HTTPMethod,
					APIKey:      included.Fields.APIKey,
					SecretKey:   included.Fields.SecretKey,
				}
			}
			break
		}
		if result.Gateway == nil {
			c.logger.Warn("plan links an unresolved api connection",
				"plan_id", id,
				"connection_id", conn.Sys.ID)
		}
	}

	c.logger.Debug("plan resolved from contentful",
		"plan_id", result.ID,
		"has_gateway", result.Gateway != nil)

	return result, nil
}
