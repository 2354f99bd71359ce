// Package ramp is the client for the Ramp developer API: token exchange,
// entity listing and bill retrieval, normalized into domain records at this
// boundary.
package ramp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ahmetbesiroglu/ramp-aging-report/internal/config"
	"github.com/ahmetbesiroglu/ramp-aging-report/internal/domain"
	"github.com/ahmetbesiroglu/ramp-aging-report/internal/logger"
)

const tokenScope = "accounting:read bills:read business:read merchants:read " +
	"transactions:read reimbursements:read vendors:read entities:read statements:read"

// Client talks to the Ramp developer API with client-credentials auth.
// It authenticates lazily on the first call and reuses the token for the
// rest of the run (report runs are far shorter than token lifetimes).
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	accessToken  string
}

// NewClient builds a client from loaded configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:      strings.TrimRight(cfg.APIBaseURL, "/"),
		clientID:     cfg.RampClientID,
		clientSecret: cfg.RampClientSecret,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
	}
}

// ensureToken performs the OAuth2 client-credentials exchange once.
func (c *Client) ensureToken(ctx context.Context) error {
	if c.accessToken != "" {
		return nil
	}

	form := url.Values{
		"grant_type": {"client_credentials"},
		"scope":      {tokenScope},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/developer/v1/token", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("ensureToken: build request: %w", err)
	}

	secret := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Basic "+secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var tok tokenResponse
	if err := c.do(req, &tok); err != nil {
		return fmt.Errorf("ensureToken: %w", err)
	}
	if tok.AccessToken == "" {
		return fmt.Errorf("ensureToken: token endpoint returned no access_token")
	}

	c.accessToken = tok.AccessToken
	return nil
}

// Entities lists all legal entities visible to the credentials.
func (c *Client) Entities(ctx context.Context) ([]domain.Entity, error) {
	if err := c.ensureToken(ctx); err != nil {
		return nil, err
	}

	var entities []domain.Entity
	next := c.baseURL + "/developer/v1/entities"
	for next != "" {
		req, err := c.getRequest(ctx, next)
		if err != nil {
			return nil, fmt.Errorf("entities: %w", err)
		}

		var page entitiesResponse
		if err := c.do(req, &page); err != nil {
			return nil, fmt.Errorf("entities: %w", err)
		}
		for _, e := range page.Data {
			entities = append(entities, domain.Entity{ID: e.ID, Name: e.EntityName})
		}
		next = page.Page.Next
	}
	return entities, nil
}

// Bills fetches every bill of an entity issued up to the given ISO cutoff
// timestamp, following cursor pagination, and normalizes each record. Bills
// whose payload defies normalization are logged and dropped rather than
// failing the entity.
func (c *Client) Bills(ctx context.Context, entityID, toIssuedDate string) ([]domain.Bill, error) {
	if err := c.ensureToken(ctx); err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx)

	params := url.Values{
		"entity_id":      {entityID},
		"to_issued_date": {toIssuedDate},
	}

	var bills []domain.Bill
	next := c.baseURL + "/developer/v1/bills?" + params.Encode()
	for next != "" {
		req, err := c.getRequest(ctx, next)
		if err != nil {
			return nil, fmt.Errorf("bills for entity %s: %w", entityID, err)
		}

		var page billsResponse
		if err := c.do(req, &page); err != nil {
			return nil, fmt.Errorf("bills for entity %s: %w", entityID, err)
		}
		for _, w := range page.Data {
			b, err := normalizeBill(w)
			if err != nil {
				log.Warn().Err(err).Str("entity_id", entityID).Msg("dropping malformed bill record")
				continue
			}
			bills = append(bills, b)
		}
		next = page.Page.Next
	}
	return bills, nil
}

func (c *Client) getRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	return req, nil
}

// do executes a request and decodes the JSON body into out, mapping
// non-2xx statuses to errors that carry the response snippet.
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, snippet)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", req.URL.Path, err)
	}
	return nil
}
