// Package publisher holds one adapter per social platform. Each adapter
// pushes a single post to a single account and reports failures with
// messages that can be shown to the account owner as-is.
package publisher

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	config "github.com/maheshrc27/postflow/configs"
	"github.com/maheshrc27/postflow/internal/media"
	"github.com/maheshrc27/postflow/internal/models"
	"golang.org/x/oauth2"
)

// Content is what gets published, already resolved from a ScheduledPost.
type Content struct {
	PostID       int64
	PostType     models.PostType
	Text         string
	Title        string
	Description  string
	Link         string
	MediaURL     string
	ThumbnailURL string
}

func ContentFromPost(post *models.ScheduledPost) Content {
	return Content{
		PostID:       post.ID,
		PostType:     post.PostType,
		Text:         post.Content,
		Title:        post.Title,
		Description:  post.Description,
		Link:         post.Link,
		MediaURL:     post.MediaURL,
		ThumbnailURL: post.Thumbnail,
	}
}

// Credential authorizes a publish call for one connected account.
type Credential struct {
	AccessToken string
	AccountID   string
}

type Result struct {
	PlatformPostID string
}

type Publisher interface {
	Platform() models.PlatformID
	Publish(ctx context.Context, content Content, cred Credential) (*Result, error)
}

// Registry maps platform ids to their publisher.
type Registry struct {
	publishers map[models.PlatformID]Publisher
}

func NewRegistry(publishers ...Publisher) *Registry {
	r := &Registry{publishers: make(map[models.PlatformID]Publisher, len(publishers))}
	for _, p := range publishers {
		r.publishers[p.Platform()] = p
	}
	return r
}

func (r *Registry) Get(platform models.PlatformID) (Publisher, bool) {
	p, ok := r.publishers[platform]
	return p, ok
}

// Missing lists known platforms without a registered publisher.
func (r *Registry) Missing() []models.PlatformID {
	var missing []models.PlatformID
	for _, p := range models.Platforms {
		if _, ok := r.publishers[p]; !ok {
			missing = append(missing, p)
		}
	}
	return missing
}

// NewDefaultRegistry wires a publisher for every supported platform.
func NewDefaultRegistry(cfg config.Config, store media.Store) *Registry {
	client := &http.Client{Timeout: 2 * time.Minute}
	apis := cfg.PlatformAPIs

	return NewRegistry(
		NewXPublisher(apis.XBase, client),
		NewLinkedInPublisher(apis.LinkedInBase, client, store),
		NewYouTubePublisher(apis.YouTubeUploadBase, &http.Client{}, store),
		NewFacebookPublisher(apis.GraphBase, client, store),
		NewInstagramPublisher(apis.InstagramBase, client, store),
		NewThreadsPublisher(apis.ThreadsBase, client, store),
	)
}

// bearerClient returns a client that sends token as an OAuth2 bearer token
// on top of base's transport and timeout.
func bearerClient(ctx context.Context, base *http.Client, token string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
	client.Timeout = base.Timeout
	return client
}

// truncate shortens s to at most n bytes without splitting a rune. Invalid
// UTF-8 is dropped since the result ends up in a TEXT column.
func truncate(s string, n int) string {
	s = strings.ToValidUTF8(s, "")
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

func statusError(platform string, status int, body []byte) error {
	msg := truncate(string(body), 500)
	if msg == "" {
		msg = http.StatusText(status)
	}
	return fmt.Errorf("%s API error (status %d): %s", platform, status, msg)
}
