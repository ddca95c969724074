package publisher

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/maheshrc27/postflow/internal/media"
	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/transfer"
)

// FacebookPublisher posts to a Facebook Page. The connection's account id is
// the page id and its token a page access token.
type FacebookPublisher struct {
	graph graphClient
	store media.Store
}

func NewFacebookPublisher(baseURL string, client *http.Client, store media.Store) *FacebookPublisher {
	return &FacebookPublisher{graph: newGraphClient("Facebook", baseURL, client), store: store}
}

func (p *FacebookPublisher) Platform() models.PlatformID {
	return models.PlatformFacebook
}

func (p *FacebookPublisher) Publish(ctx context.Context, content Content, cred Credential) (*Result, error) {
	if cred.AccountID == "" {
		return nil, errors.New("Facebook page id is missing. Please reconnect your account.")
	}

	var (
		form = url.Values{}
		path string
	)

	mediaURL := p.store.PublicURL(content.MediaURL)
	switch {
	case mediaURL != "" && media.IsVideo(mediaURL):
		path = "/" + cred.AccountID + "/videos"
		form.Set("file_url", mediaURL)
		form.Set("description", withLink(content.Text, content.Link))
		if content.Title != "" {
			form.Set("title", content.Title)
		}
	case mediaURL != "":
		path = "/" + cred.AccountID + "/photos"
		form.Set("url", mediaURL)
		form.Set("caption", withLink(content.Text, content.Link))
	default:
		path = "/" + cred.AccountID + "/feed"
		form.Set("message", content.Text)
		if content.Link != "" {
			form.Set("link", content.Link)
		}
	}

	var created transfer.GraphIDResponse
	if err := p.graph.post(ctx, path, cred.AccessToken, form, &created); err != nil {
		return nil, err
	}

	id := created.PostID
	if id == "" {
		id = created.ID
	}
	return &Result{PlatformPostID: id}, nil
}

func withLink(text, link string) string {
	if link == "" {
		return text
	}
	if text == "" {
		return link
	}
	return text + "\n\n" + link
}
