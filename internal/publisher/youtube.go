package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/maheshrc27/postflow/internal/media"
	"github.com/maheshrc27/postflow/internal/models"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	youtubeDefaultTitle = "Untitled Video"
	youtubeCategory     = "22" // People & Blogs
)

// YouTubePublisher uploads videos through the resumable upload protocol:
// open a session with the metadata, PUT the bytes to the session URL, then
// optionally set a custom thumbnail through the YouTube Data API client.
// The session and the transfer are separate requests so each reports its
// own failure.
type YouTubePublisher struct {
	uploadBase string
	apiBase    string
	client     *http.Client
	store      media.Store
}

// NewYouTubePublisher takes the upload root (".../upload"). The Data API
// endpoint is the same host without the upload segment.
func NewYouTubePublisher(uploadBase string, client *http.Client, store media.Store) *YouTubePublisher {
	uploadBase = strings.TrimRight(uploadBase, "/")
	return &YouTubePublisher{
		uploadBase: uploadBase,
		apiBase:    strings.TrimSuffix(uploadBase, "/upload") + "/",
		client:     client,
		store:      store,
	}
}

func (p *YouTubePublisher) Platform() models.PlatformID {
	return models.PlatformYouTube
}

func (p *YouTubePublisher) Publish(ctx context.Context, content Content, cred Credential) (*Result, error) {
	if content.MediaURL == "" {
		return nil, errors.New("Video file is required for YouTube posts")
	}

	video, err := p.store.Open(ctx, content.MediaURL)
	if err != nil {
		return nil, fmt.Errorf("Failed to read video file: %w", err)
	}
	defer video.Body.Close()

	client := bearerClient(ctx, p.client, cred.AccessToken)

	uploadURL, err := p.startUpload(ctx, client, content, video)
	if err != nil {
		return nil, err
	}

	uploaded, err := p.uploadVideo(ctx, client, uploadURL, video)
	if err != nil {
		return nil, err
	}

	if content.ThumbnailURL != "" {
		if err := p.setThumbnail(ctx, client, uploaded.Id, content.ThumbnailURL); err != nil {
			slog.Warn("youtube thumbnail not set",
				"post_id", content.PostID,
				"video_id", uploaded.Id,
				"error", err)
		}
	}

	return &Result{PlatformPostID: uploaded.Id}, nil
}

func (p *YouTubePublisher) startUpload(ctx context.Context, client *http.Client, content Content, video *media.Object) (string, error) {
	title := content.Title
	if title == "" {
		title = youtubeDefaultTitle
	}
	description := content.Description
	if description == "" {
		description = content.Text
	}

	metadata := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       title,
			Description: description,
			Tags:        []string{},
			CategoryId:  youtubeCategory,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           "public",
			SelfDeclaredMadeForKids: false,
			ForceSendFields:         []string{"SelfDeclaredMadeForKids"},
		},
	}

	body, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("marshal video metadata: %w", err)
	}

	endpoint := p.uploadBase + "/youtube/v3/videos?uploadType=resumable&part=snippet,status"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create upload session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("X-Upload-Content-Length", strconv.FormatInt(video.Size, 10))
	req.Header.Set("X-Upload-Content-Type", video.ContentType)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("Failed to initiate YouTube upload: %w", err)
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		return "", fmt.Errorf("Failed to initiate YouTube upload: %s", googleMessage(err))
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", errors.New("Failed to get YouTube upload URL")
	}
	return location, nil
}

func (p *YouTubePublisher) uploadVideo(ctx context.Context, client *http.Client, uploadURL string, video *media.Object) (*youtube.Video, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, video.Body)
	if err != nil {
		return nil, fmt.Errorf("create upload request: %w", err)
	}
	req.ContentLength = video.Size
	req.Header.Set("Content-Type", video.ContentType)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Failed to upload video to YouTube: %w", err)
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		return nil, fmt.Errorf("Failed to upload video to YouTube: %s", googleMessage(err))
	}

	var uploaded youtube.Video
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	if uploaded.Id == "" {
		return nil, errors.New("Failed to upload video to YouTube: no video id returned")
	}
	return &uploaded, nil
}

func (p *YouTubePublisher) setThumbnail(ctx context.Context, client *http.Client, videoID, ref string) error {
	thumb, err := p.store.Open(ctx, ref)
	if err != nil {
		return fmt.Errorf("read thumbnail: %w", err)
	}
	defer thumb.Body.Close()

	service, err := youtube.NewService(ctx, option.WithHTTPClient(client), option.WithEndpoint(p.apiBase))
	if err != nil {
		return fmt.Errorf("create youtube service: %w", err)
	}

	_, err = service.Thumbnails.Set(videoID).
		Media(thumb.Body, googleapi.ContentType(thumb.ContentType)).
		Context(ctx).
		Do()
	if err != nil {
		return errors.New(googleMessage(err))
	}
	return nil
}

func googleMessage(err error) string {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiErr.Body != "" {
			return truncate(apiErr.Body, 500)
		}
		return http.StatusText(apiErr.Code)
	}
	return err.Error()
}
