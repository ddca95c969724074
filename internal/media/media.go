package media

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	config "github.com/maheshrc27/postflow/configs"
)

const r2Scheme = "r2://"

// Object is an opened media file. Size is always known once Open returns.
type Object struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

// Store resolves media references stored on posts. A reference is either an
// http(s) URL or an object key in the R2 bucket ("r2://key" or a bare key).
type Store interface {
	Open(ctx context.Context, ref string) (*Object, error)
	PublicURL(ref string) string
}

type store struct {
	http      *http.Client
	r2        *R2Client
	publicURL string
}

func NewStore(cfg config.Config) Store {
	s := &store{
		http:      &http.Client{Timeout: 10 * time.Minute},
		publicURL: strings.TrimRight(cfg.R2.PublicURL, "/"),
	}
	if cfg.R2.AccountID != "" && cfg.R2.BucketName != "" {
		s.r2 = NewR2Client(cfg.R2)
	}
	return s
}

// NewHTTPStore returns a Store that only resolves URL references.
func NewHTTPStore(client *http.Client) Store {
	return &store{http: client}
}

func isURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

func objectKey(ref string) string {
	return strings.TrimPrefix(ref, r2Scheme)
}

func (s *store) PublicURL(ref string) string {
	if ref == "" || isURL(ref) {
		return ref
	}
	if s.publicURL == "" {
		return ""
	}
	return s.publicURL + "/" + objectKey(ref)
}

func (s *store) Open(ctx context.Context, ref string) (*Object, error) {
	if ref == "" {
		return nil, errors.New("empty media reference")
	}

	var (
		obj *Object
		err error
	)
	if isURL(ref) {
		obj, err = s.fetch(ctx, ref)
	} else {
		if s.r2 == nil {
			return nil, fmt.Errorf("media %q: object storage is not configured", ref)
		}
		obj, err = s.r2.Get(ctx, objectKey(ref))
	}
	if err != nil {
		return nil, err
	}

	return normalize(obj)
}

func (s *store) fetch(ctx context.Context, url string) (*Object, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create media request: %w", err)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download media: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download media: unexpected status %d", resp.StatusCode)
	}

	return &Object{
		Body:        resp.Body,
		Size:        resp.ContentLength,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// normalize fills in a sniffed content type and buffers bodies of unknown
// length so callers can announce the size up front.
func normalize(obj *Object) (*Object, error) {
	reader := bufio.NewReaderSize(obj.Body, 512)
	body := struct {
		io.Reader
		io.Closer
	}{reader, obj.Body}
	obj.Body = body

	if obj.ContentType == "" || strings.HasPrefix(obj.ContentType, "application/octet-stream") {
		head, _ := reader.Peek(261)
		if kind, err := filetype.Match(head); err == nil && kind != types.Unknown {
			obj.ContentType = kind.MIME.Value
		} else {
			obj.ContentType = "application/octet-stream"
		}
	}

	if obj.Size < 0 {
		data, err := io.ReadAll(reader)
		obj.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read media: %w", err)
		}
		slog.Debug("buffered media of unknown length", "bytes", len(data))
		obj.Body = io.NopCloser(bytes.NewReader(data))
		obj.Size = int64(len(data))
	}

	return obj, nil
}

// IsVideo guesses from the reference whether it points at a video file.
func IsVideo(ref string) bool {
	ref = strings.ToLower(ref)
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	for _, ext := range []string{".mp4", ".mov", ".m4v", ".webm"} {
		if strings.HasSuffix(ref, ext) {
			return true
		}
	}
	return false
}
