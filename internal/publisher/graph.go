package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/maheshrc27/postflow/internal/transfer"
)

// graphClient issues form-encoded calls against a Meta Graph style API
// (Facebook, Instagram, Threads), passing the token as access_token.
type graphClient struct {
	platform string
	baseURL  string
	http     *http.Client
}

func newGraphClient(platform, baseURL string, client *http.Client) graphClient {
	return graphClient{platform: platform, baseURL: strings.TrimRight(baseURL, "/"), http: client}
}

func (g graphClient) post(ctx context.Context, path, token string, form url.Values, out any) error {
	form.Set("access_token", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create %s request: %w", g.platform, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return g.do(req, out)
}

func (g graphClient) get(ctx context.Context, path, token string, query url.Values, out any) error {
	query.Set("access_token", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create %s request: %w", g.platform, err)
	}

	return g.do(req, out)
}

func (g graphClient) do(req *http.Request, out any) error {
	resp, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", g.platform, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read %s response: %w", g.platform, err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr transfer.GraphErrorResponse
		if json.Unmarshal(body, &apiErr) == nil {
			if msg := apiErr.UserMessage(); msg != "" {
				return errors.New(msg)
			}
		}
		return statusError(g.platform, resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", g.platform, err)
	}
	return nil
}
