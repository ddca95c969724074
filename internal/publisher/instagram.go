package publisher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/maheshrc27/postflow/internal/media"
	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/transfer"
)

// InstagramPublisher creates a media container and publishes it. Video
// containers are processed asynchronously by Instagram and are polled
// until ready.
type InstagramPublisher struct {
	graph        graphClient
	store        media.Store
	pollInterval time.Duration
	maxPolls     int
}

func NewInstagramPublisher(baseURL string, client *http.Client, store media.Store) *InstagramPublisher {
	return &InstagramPublisher{
		graph:        newGraphClient("Instagram", baseURL, client),
		store:        store,
		pollInterval: 5 * time.Second,
		maxPolls:     60,
	}
}

func (p *InstagramPublisher) Platform() models.PlatformID {
	return models.PlatformInstagram
}

func (p *InstagramPublisher) Publish(ctx context.Context, content Content, cred Credential) (*Result, error) {
	mediaURL := p.store.PublicURL(content.MediaURL)
	if mediaURL == "" {
		return nil, errors.New("Instagram posts require an image or video")
	}
	if cred.AccountID == "" {
		return nil, errors.New("Instagram account id is missing. Please reconnect your account.")
	}

	isVideo := media.IsVideo(mediaURL)

	form := url.Values{}
	form.Set("caption", content.Text)
	if isVideo {
		form.Set("media_type", "REELS")
		form.Set("video_url", mediaURL)
	} else {
		form.Set("image_url", mediaURL)
	}

	var container transfer.GraphIDResponse
	if err := p.graph.post(ctx, "/"+cred.AccountID+"/media", cred.AccessToken, form, &container); err != nil {
		return nil, err
	}
	if container.ID == "" {
		return nil, errors.New("no media ID returned from Instagram")
	}

	if isVideo {
		if err := p.waitForContainer(ctx, container.ID, cred.AccessToken); err != nil {
			return nil, err
		}
	}

	publishForm := url.Values{}
	publishForm.Set("creation_id", container.ID)

	var published transfer.GraphIDResponse
	if err := p.graph.post(ctx, "/"+cred.AccountID+"/media_publish", cred.AccessToken, publishForm, &published); err != nil {
		return nil, err
	}

	return &Result{PlatformPostID: published.ID}, nil
}

func (p *InstagramPublisher) waitForContainer(ctx context.Context, containerID, token string) error {
	query := url.Values{}
	query.Set("fields", "status_code,status")

	for i := 0; i < p.maxPolls; i++ {
		var status transfer.GraphContainerStatus
		if err := p.graph.get(ctx, "/"+containerID, token, query, &status); err != nil {
			return err
		}

		switch status.StatusCode {
		case "FINISHED", "PUBLISHED":
			return nil
		case "ERROR", "EXPIRED":
			return fmt.Errorf("Instagram could not process the video: %s", status)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.pollInterval):
		}
	}
	return errors.New("Instagram is still processing the video, try again later")
}
