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

type ThreadsPublisher struct {
	graph graphClient
	store media.Store
}

func NewThreadsPublisher(baseURL string, client *http.Client, store media.Store) *ThreadsPublisher {
	return &ThreadsPublisher{graph: newGraphClient("Threads", baseURL, client), store: store}
}

func (p *ThreadsPublisher) Platform() models.PlatformID {
	return models.PlatformThreads
}

func (p *ThreadsPublisher) Publish(ctx context.Context, content Content, cred Credential) (*Result, error) {
	userID := cred.AccountID
	if userID == "" {
		userID = "me"
	}

	form := url.Values{}
	form.Set("text", withLink(content.Text, content.Link))

	switch mediaURL := p.store.PublicURL(content.MediaURL); {
	case mediaURL == "":
		form.Set("media_type", "TEXT")
	case media.IsVideo(mediaURL):
		form.Set("media_type", "VIDEO")
		form.Set("video_url", mediaURL)
	default:
		form.Set("media_type", "IMAGE")
		form.Set("image_url", mediaURL)
	}

	var container transfer.GraphIDResponse
	if err := p.graph.post(ctx, "/v1.0/"+userID+"/threads", cred.AccessToken, form, &container); err != nil {
		return nil, err
	}
	if container.ID == "" {
		return nil, errors.New("no container ID returned from Threads")
	}

	publishForm := url.Values{}
	publishForm.Set("creation_id", container.ID)

	var published transfer.GraphIDResponse
	if err := p.graph.post(ctx, "/v1.0/"+userID+"/threads_publish", cred.AccessToken, publishForm, &published); err != nil {
		return nil, err
	}

	return &Result{PlatformPostID: published.ID}, nil
}
