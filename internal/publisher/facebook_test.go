package publisher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacebookPublisher_Publish(t *testing.T) {
	tests := []struct {
		name     string
		content  Content
		wantPath string
		check    func(t *testing.T, r *http.Request)
		response string
		wantID   string
	}{
		{
			name:     "text with link goes to feed",
			content:  Content{Text: "read this", Link: "https://example.com/a"},
			wantPath: "/1234/feed",
			check: func(t *testing.T, r *http.Request) {
				assert.Equal(t, "read this", r.PostForm.Get("message"))
				assert.Equal(t, "https://example.com/a", r.PostForm.Get("link"))
			},
			response: `{"id":"1234_999"}`,
			wantID:   "1234_999",
		},
		{
			name:     "image goes to photos",
			content:  Content{Text: "look", Link: "https://example.com/b", MediaURL: "https://cdn.example.com/p.jpg"},
			wantPath: "/1234/photos",
			check: func(t *testing.T, r *http.Request) {
				assert.Equal(t, "https://cdn.example.com/p.jpg", r.PostForm.Get("url"))
				assert.Equal(t, "look\n\nhttps://example.com/b", r.PostForm.Get("caption"))
			},
			response: `{"id":"photo-1","post_id":"1234_555"}`,
			wantID:   "1234_555",
		},
		{
			name:     "video goes to videos",
			content:  Content{Text: "watch", Title: "Demo", Link: "https://example.com/c", MediaURL: "https://cdn.example.com/clip.mp4"},
			wantPath: "/1234/videos",
			check: func(t *testing.T, r *http.Request) {
				assert.Equal(t, "https://cdn.example.com/clip.mp4", r.PostForm.Get("file_url"))
				assert.Equal(t, "watch\n\nhttps://example.com/c", r.PostForm.Get("description"))
				assert.Equal(t, "Demo", r.PostForm.Get("title"))
				assert.Empty(t, r.PostForm.Get("message"))
			},
			response: `{"id":"vid-777"}`,
			wantID:   "vid-777",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, tt.wantPath, r.URL.Path)
				assert.NoError(t, r.ParseForm())
				assert.Equal(t, "page-token", r.PostForm.Get("access_token"))
				tt.check(t, r)
				w.Write([]byte(tt.response))
			}))
			defer server.Close()

			result, err := NewFacebookPublisher(server.URL, server.Client(), newFakeStore()).
				Publish(context.Background(), tt.content, Credential{AccessToken: "page-token", AccountID: "1234"})
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, result.PlatformPostID)
		})
	}
}

func TestFacebookPublisher_Errors(t *testing.T) {
	t.Run("missing page id", func(t *testing.T) {
		_, err := NewFacebookPublisher("http://127.0.0.1:0", http.DefaultClient, newFakeStore()).
			Publish(context.Background(), Content{Text: "hi"}, Credential{AccessToken: "page-token"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "page id is missing")
	})

	t.Run("graph error message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"message":"(#200) The user hasn't authorized the application to perform this action","type":"OAuthException","code":200}}`))
		}))
		defer server.Close()

		_, err := NewFacebookPublisher(server.URL, server.Client(), newFakeStore()).
			Publish(context.Background(), Content{Text: "hi"}, Credential{AccessToken: "page-token", AccountID: "1234"})
		require.Error(t, err)
		assert.Equal(t, "(#200) The user hasn't authorized the application to perform this action", err.Error())
	})

	t.Run("user facing message preferred", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"message":"Invalid parameter","code":100,"error_user_msg":"The link could not be shared."}}`))
		}))
		defer server.Close()

		_, err := NewFacebookPublisher(server.URL, server.Client(), newFakeStore()).
			Publish(context.Background(), Content{Text: "hi", Link: "bad"}, Credential{AccessToken: "page-token", AccountID: "1234"})
		require.Error(t, err)
		assert.Equal(t, "The link could not be shared.", err.Error())
	})

	t.Run("non json error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := NewFacebookPublisher(server.URL, server.Client(), newFakeStore()).
			Publish(context.Background(), Content{Text: "hi"}, Credential{AccessToken: "page-token", AccountID: "1234"})
		require.Error(t, err)
		assert.Equal(t, "Facebook API error (status 502): Bad Gateway", err.Error())
	})
}

func TestWithLink(t *testing.T) {
	assert.Equal(t, "text", withLink("text", ""))
	assert.Equal(t, "https://x.y", withLink("", "https://x.y"))
	assert.Equal(t, "text\n\nhttps://x.y", withLink("text", "https://x.y"))
}
