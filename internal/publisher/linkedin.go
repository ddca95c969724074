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

	"github.com/maheshrc27/postflow/internal/media"
	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/transfer"
)

const (
	linkedInImageRecipe = "urn:li:digitalmediaRecipe:feedshare-image"
	linkedInVideoRecipe = "urn:li:digitalmediaRecipe:feedshare-video"
)

// LinkedInPublisher posts ugcPosts shares. Images and videos are registered
// as LinkedIn assets and uploaded before the share references them.
type LinkedInPublisher struct {
	baseURL string
	client  *http.Client
	store   media.Store
}

func NewLinkedInPublisher(baseURL string, client *http.Client, store media.Store) *LinkedInPublisher {
	return &LinkedInPublisher{baseURL: strings.TrimRight(baseURL, "/"), client: client, store: store}
}

func (p *LinkedInPublisher) Platform() models.PlatformID {
	return models.PlatformLinkedIn
}

func (p *LinkedInPublisher) Publish(ctx context.Context, content Content, cred Credential) (*Result, error) {
	if cred.AccountID == "" {
		return nil, errors.New("LinkedIn account id is missing. Please reconnect your account.")
	}

	client := bearerClient(ctx, p.client, cred.AccessToken)
	owner := "urn:li:person:" + cred.AccountID

	var asset linkedInAsset
	if content.PostType != models.PostTypeArticle && content.MediaURL != "" {
		var err error
		asset, err = p.uploadAsset(ctx, client, owner, content.MediaURL)
		if err != nil {
			return nil, err
		}
	}

	body, err := json.Marshal(p.buildShare(content, owner, asset))
	if err != nil {
		return nil, fmt.Errorf("marshal share: %w", err)
	}

	resp, respBody, err := p.send(ctx, client, http.MethodPost, p.baseURL+"/v2/ugcPosts", bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, fmt.Errorf("post to LinkedIn: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, linkedInError(respBody, "Failed to post to LinkedIn")
	}

	id := resp.Header.Get("X-RestLi-Id")
	if id == "" {
		var created struct {
			ID string `json:"id"`
		}
		if json.Unmarshal(respBody, &created) == nil {
			id = created.ID
		}
	}

	return &Result{PlatformPostID: id}, nil
}

// linkedInAsset is an uploaded digital media asset and the share media
// category it belongs to.
type linkedInAsset struct {
	urn      string
	category string
}

// uploadAsset registers an upload for the media and transfers the bytes.
func (p *LinkedInPublisher) uploadAsset(ctx context.Context, client *http.Client, owner, ref string) (linkedInAsset, error) {
	var asset linkedInAsset

	obj, err := p.store.Open(ctx, ref)
	if err != nil {
		return asset, fmt.Errorf("Failed to read media file: %w", err)
	}
	defer obj.Body.Close()

	recipe, category := linkedInImageRecipe, "IMAGE"
	if media.IsVideo(ref) || strings.HasPrefix(obj.ContentType, "video/") {
		recipe, category = linkedInVideoRecipe, "VIDEO"
	}

	register, err := json.Marshal(transfer.LinkedInRegisterUploadRequest{
		RegisterUploadRequest: transfer.LinkedInRegisterUpload{
			Recipes: []string{recipe},
			Owner:   owner,
			ServiceRelationships: []transfer.LinkedInServiceRelationship{{
				RelationshipType: "OWNER",
				Identifier:       "urn:li:userGeneratedContent",
			}},
		},
	})
	if err != nil {
		return asset, fmt.Errorf("marshal register upload: %w", err)
	}

	resp, respBody, err := p.send(ctx, client, http.MethodPost, p.baseURL+"/v2/assets?action=registerUpload", bytes.NewReader(register), "application/json")
	if err != nil {
		return asset, fmt.Errorf("register LinkedIn upload: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return asset, linkedInError(respBody, "Failed to register LinkedIn media upload")
	}

	var registered transfer.LinkedInRegisterUploadResponse
	if err := json.Unmarshal(respBody, &registered); err != nil {
		return asset, fmt.Errorf("decode register upload response: %w", err)
	}
	uploadURL := registered.Value.UploadMechanism.HTTPRequest.UploadURL
	if uploadURL == "" || registered.Value.Asset == "" {
		return asset, errors.New("Failed to register LinkedIn media upload")
	}

	resp, respBody, err = p.send(ctx, client, http.MethodPut, uploadURL, obj.Body, obj.ContentType)
	if err != nil {
		return asset, fmt.Errorf("upload media to LinkedIn: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return asset, linkedInError(respBody, "Failed to upload media to LinkedIn")
	}

	asset.urn = registered.Value.Asset
	asset.category = category
	return asset, nil
}

func (p *LinkedInPublisher) send(ctx context.Context, client *http.Client, method, endpoint string, body io.Reader, contentType string) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	return resp, respBody, nil
}

func linkedInError(body []byte, fallback string) error {
	var apiErr transfer.LinkedInErrorResponse
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
		return errors.New(truncate(apiErr.Message, 500))
	}
	return errors.New(fallback)
}

func (p *LinkedInPublisher) buildShare(content Content, owner string, asset linkedInAsset) transfer.LinkedInUGCPost {
	share := transfer.LinkedInShareContent{
		ShareCommentary:    transfer.LinkedInText{Text: content.Text},
		ShareMediaCategory: "NONE",
	}

	switch {
	case content.PostType == models.PostTypeArticle:
		article := transfer.LinkedInMedia{
			Status:      "READY",
			Description: &transfer.LinkedInText{Text: content.Description},
			OriginalURL: content.Link,
			Title:       &transfer.LinkedInText{Text: content.Title},
		}
		if thumb := p.store.PublicURL(content.ThumbnailURL); thumb != "" {
			article.Thumbnails = []transfer.LinkedInThumbnail{{URL: thumb}}
		} else if mediaURL := p.store.PublicURL(content.MediaURL); mediaURL != "" {
			article.Thumbnails = []transfer.LinkedInThumbnail{{URL: mediaURL}}
		}
		share.ShareMediaCategory = "ARTICLE"
		share.Media = []transfer.LinkedInMedia{article}
	case asset.urn != "":
		share.ShareMediaCategory = asset.category
		share.Media = []transfer.LinkedInMedia{{
			Status: "READY",
			Media:  asset.urn,
			Title:  &transfer.LinkedInText{Text: content.Title},
		}}
	}

	post := transfer.LinkedInUGCPost{
		Author:         owner,
		LifecycleState: "PUBLISHED",
		Visibility:     map[string]string{"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC"},
	}
	post.SpecificContent.ShareContent = share
	return post
}
