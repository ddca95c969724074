package publisher

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/maheshrc27/postflow/internal/media"
)

type fakeStore struct {
	objects map[string][]byte
	types   map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeStore) put(ref, contentType string, data []byte) {
	f.objects[ref] = data
	f.types[ref] = contentType
}

func (f *fakeStore) Open(ctx context.Context, ref string) (*media.Object, error) {
	data, ok := f.objects[ref]
	if !ok {
		return nil, fmt.Errorf("media %s not found", ref)
	}
	return &media.Object{
		Body:        io.NopCloser(bytes.NewReader(data)),
		Size:        int64(len(data)),
		ContentType: f.types[ref],
	}, nil
}

func (f *fakeStore) PublicURL(ref string) string {
	return ref
}
