package publisher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInstagram(server *httptest.Server) *InstagramPublisher {
	p := NewInstagramPublisher(server.URL, server.Client(), newFakeStore())
	p.pollInterval = 0
	p.maxPolls = 3
	return p
}

func TestInstagramPublisher_Image(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/17841/media", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "https://cdn.example.com/p.jpg", r.PostForm.Get("image_url"))
		assert.Empty(t, r.PostForm.Get("media_type"))
		assert.Equal(t, "caption here", r.PostForm.Get("caption"))
		assert.Equal(t, "ig-token", r.PostForm.Get("access_token"))
		w.Write([]byte(`{"id":"container-1"}`))
	})
	mux.HandleFunc("/17841/media_publish", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "container-1", r.PostForm.Get("creation_id"))
		w.Write([]byte(`{"id":"ig-media-9"}`))
	})
	mux.HandleFunc("/container-1", func(w http.ResponseWriter, r *http.Request) {
		t.Error("image containers are not polled")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	result, err := newTestInstagram(server).Publish(context.Background(),
		Content{Text: "caption here", MediaURL: "https://cdn.example.com/p.jpg"},
		Credential{AccessToken: "ig-token", AccountID: "17841"})
	require.NoError(t, err)
	assert.Equal(t, "ig-media-9", result.PlatformPostID)
}

func TestInstagramPublisher_VideoPollsUntilFinished(t *testing.T) {
	var polls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/17841/media", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "REELS", r.PostForm.Get("media_type"))
		assert.Equal(t, "https://cdn.example.com/v.mp4", r.PostForm.Get("video_url"))
		w.Write([]byte(`{"id":"container-2"}`))
	})
	mux.HandleFunc("/container-2", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "ig-token", r.URL.Query().Get("access_token"))
		if polls.Add(1) < 2 {
			w.Write([]byte(`{"id":"container-2","status_code":"IN_PROGRESS"}`))
			return
		}
		w.Write([]byte(`{"id":"container-2","status_code":"FINISHED"}`))
	})
	mux.HandleFunc("/17841/media_publish", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"ig-reel-1"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	result, err := newTestInstagram(server).Publish(context.Background(),
		Content{Text: "reel", MediaURL: "https://cdn.example.com/v.mp4"},
		Credential{AccessToken: "ig-token", AccountID: "17841"})
	require.NoError(t, err)
	assert.Equal(t, "ig-reel-1", result.PlatformPostID)
	assert.EqualValues(t, 2, polls.Load())
}

func TestInstagramPublisher_VideoProcessingFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/17841/media", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"container-3"}`))
	})
	mux.HandleFunc("/container-3", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"container-3","status_code":"ERROR","status":"Error: unsupported codec"}`))
	})
	mux.HandleFunc("/17841/media_publish", func(w http.ResponseWriter, r *http.Request) {
		t.Error("failed containers must not be published")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	_, err := newTestInstagram(server).Publish(context.Background(),
		Content{MediaURL: "https://cdn.example.com/v.mp4"},
		Credential{AccessToken: "ig-token", AccountID: "17841"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported codec")
}

func TestInstagramPublisher_VideoStillProcessing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/17841/media", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"container-4"}`))
	})
	mux.HandleFunc("/container-4", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"container-4","status_code":"IN_PROGRESS"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	_, err := newTestInstagram(server).Publish(context.Background(),
		Content{MediaURL: "https://cdn.example.com/v.mp4"},
		Credential{AccessToken: "ig-token", AccountID: "17841"})
	require.Error(t, err)
	assert.Equal(t, "Instagram is still processing the video, try again later", err.Error())
}

func TestInstagramPublisher_Validation(t *testing.T) {
	p := NewInstagramPublisher("http://127.0.0.1:0", http.DefaultClient, newFakeStore())

	_, err := p.Publish(context.Background(), Content{Text: "no media"}, Credential{AccessToken: "ig-token", AccountID: "17841"})
	require.Error(t, err)
	assert.Equal(t, "Instagram posts require an image or video", err.Error())

	_, err = p.Publish(context.Background(), Content{MediaURL: "https://cdn.example.com/p.jpg"}, Credential{AccessToken: "ig-token"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account id is missing")
}

func TestInstagramPublisher_ContainerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid OAuth access token - Cannot parse access token","type":"OAuthException","code":190}}`))
	}))
	defer server.Close()

	_, err := newTestInstagram(server).Publish(context.Background(),
		Content{MediaURL: "https://cdn.example.com/p.jpg"},
		Credential{AccessToken: "bad", AccountID: "17841"})
	require.Error(t, err)
	assert.Equal(t, "Invalid OAuth access token - Cannot parse access token", err.Error())
}
