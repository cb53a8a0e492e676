package msgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/custodia-labs/fieldarchive/internal/connectors/ratelimit"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// client performs authenticated Graph requests.
type client struct {
	baseURL     string
	api         *http.Client
	plain       *http.Client
	rateLimiter *ratelimit.Limiter
}

func newClient(cfg Config) *client {
	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       []string{DefaultScope},
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	// The token source outlives any single request.
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, cfg.HTTPClient)

	return &client{
		baseURL:     cfg.BaseURL,
		api:         cc.Client(tokenCtx),
		plain:       cfg.HTTPClient,
		rateLimiter: ratelimit.New(ratelimit.Graph),
	}
}

// getJSON fetches an API path or absolute URL and decodes the JSON body into out.
func (c *client) getJSON(ctx context.Context, target string, out any) error {
	resp, err := c.do(ctx, c.api, c.resolve(target))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// getBinary fetches content, authenticated unless the URL is pre-authenticated.
func (c *client) getBinary(ctx context.Context, target string, authenticated bool, limit int64) ([]byte, error) {
	hc := c.plain
	if authenticated {
		hc = c.api
	}

	resp, err := c.do(ctx, hc, c.resolve(target))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, ErrTooLarge
	}
	return data, nil
}

func (c *client) do(ctx context.Context, hc *http.Client, target string) (*http.Response, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		c.rateLimiter.BackoffFromResponse(resp)
		return nil, parseAPIError(resp)
	}
	return resp, nil
}

func (c *client) resolve(target string) string {
	if isAbsolute(target) {
		return target
	}
	return c.baseURL + target
}

func isAbsolute(target string) bool {
	return len(target) > 8 && (target[:7] == "http://" || target[:8] == "https://")
}

func parseAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if json.Unmarshal(data, &body) == nil {
		apiErr.Code = body.Error.Code
		apiErr.Message = body.Error.Message
	}
	return apiErr
}
