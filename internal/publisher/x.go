package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/transfer"
)

type XPublisher struct {
	baseURL string
	client  *http.Client
}

func NewXPublisher(baseURL string, client *http.Client) *XPublisher {
	return &XPublisher{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (p *XPublisher) Platform() models.PlatformID {
	return models.PlatformX
}

func (p *XPublisher) Publish(ctx context.Context, content Content, cred Credential) (*Result, error) {
	payload := transfer.TweetRequest{Text: content.Text}
	switch {
	case isXMediaID(content.MediaURL):
		payload.Media = &transfer.TweetMedia{MediaIDs: []string{content.MediaURL}}
	case content.MediaURL != "":
		// The v2 tweet endpoint only accepts ids from the media upload API.
		return nil, errors.New("X media must be uploaded before publishing")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal tweet: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/2/tweets", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create tweet request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := bearerClient(ctx, p.client, cred.AccessToken).Do(req)
	if err != nil {
		return nil, fmt.Errorf("post tweet: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read tweet response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, xError(resp.StatusCode, respBody)
	}

	var tweet transfer.TweetResponse
	if err := json.Unmarshal(respBody, &tweet); err != nil {
		return nil, fmt.Errorf("decode tweet response: %w", err)
	}

	return &Result{PlatformPostID: tweet.Data.ID}, nil
}

func xError(status int, body []byte) error {
	var apiErr transfer.XErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil {
		switch {
		case apiErr.Detail != "":
			return errors.New(apiErr.Detail)
		case apiErr.Title != "":
			return errors.New(apiErr.Title)
		case len(apiErr.Errors) > 0 && apiErr.Errors[0].Message != "":
			return errors.New(apiErr.Errors[0].Message)
		}
	}
	return statusError("X", status, body)
}

// X media must be uploaded separately; posts reference it by numeric id.
func isXMediaID(ref string) bool {
	if ref == "" {
		return false
	}
	for _, r := range ref {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
