package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
)

type fakeStore struct {
	bucket string
	key    string
	size   int64
	opts   minio.PutObjectOptions
	calls  int
	err    error
}

func (f *fakeStore) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	f.calls++
	f.bucket = bucketName
	f.key = objectName
	f.size = objectSize
	f.opts = opts
	if f.err != nil {
		return minio.UploadInfo{}, f.err
	}
	return minio.UploadInfo{Bucket: bucketName, Key: objectName, Size: objectSize}, nil
}

func newTestPipeline(store objectStore) *Pipeline {
	return &Pipeline{
		httpClient: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		store:      store,
		endpoint:   "storage.example.com",
		bucket:     "event-images",
		useSSL:     true,
		maxRetries: 0,
		now:        func() time.Time { return time.Unix(1758000000, 0) },
	}
}

func TestFetchFollowsRedirects(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/a":
			http.Redirect(w, r, server.URL+"/b", http.StatusMovedPermanently)
		case "/b":
			http.Redirect(w, r, server.URL+"/c", http.StatusFound)
		case "/c":
			fmt.Fprint(w, "image-bytes")
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	p := newTestPipeline(&fakeStore{})
	data := p.Fetch(context.Background(), server.URL+"/a")

	if string(data) != "image-bytes" {
		t.Errorf("expected image bytes through redirect chain, got %q", data)
	}
}

func TestFetchCapsRedirectDepth(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Redirect loop
		http.Redirect(w, r, server.URL+r.URL.Path, http.StatusFound)
	}))
	defer server.Close()

	p := newTestPipeline(&fakeStore{})
	if data := p.Fetch(context.Background(), server.URL+"/loop"); data != nil {
		t.Errorf("expected nil for a redirect loop, got %d bytes", len(data))
	}
}

func TestFetchResolvesFailuresToNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	p := newTestPipeline(&fakeStore{})
	if data := p.Fetch(context.Background(), server.URL+"/missing"); data != nil {
		t.Errorf("expected nil for 404, got %d bytes", len(data))
	}

	if data := p.Fetch(context.Background(), "http://127.0.0.1:1/unreachable"); data != nil {
		t.Errorf("expected nil for transport error, got %d bytes", len(data))
	}
}

func TestStore(t *testing.T) {
	fake := &fakeStore{}
	p := newTestPipeline(fake)

	result := p.Store(context.Background(), []byte("image-bytes"), "desert-sound-festival", KindThumbnail)

	if result.Status != StatusStoredPendingTransform {
		t.Fatalf("expected stored-pending-transform, got %s", result.Status)
	}

	wantKey := "events/desert-sound-festival-thumbnail-1758000000.jpg"
	if fake.key != wantKey {
		t.Errorf("object key = %q, expected %q", fake.key, wantKey)
	}
	if fake.bucket != "event-images" {
		t.Errorf("bucket = %q", fake.bucket)
	}
	if fake.opts.ContentType != "image/jpeg" {
		t.Errorf("content type = %q", fake.opts.ContentType)
	}

	wantURL := "https://storage.example.com/event-images/processed/desert-sound-festival-thumbnail-1758000000.webp"
	if result.URL != wantURL {
		t.Errorf("derived URL = %q, expected %q", result.URL, wantURL)
	}
}

func TestStoreErrorResolvesToUnavailable(t *testing.T) {
	fake := &fakeStore{err: errors.New("bucket gone")}
	p := newTestPipeline(fake)

	result := p.Store(context.Background(), []byte("image-bytes"), "slug", KindCover)
	if result.Status != StatusUnavailable {
		t.Errorf("expected unavailable on store error, got %s", result.Status)
	}
	if result.URL != "" {
		t.Errorf("expected empty URL on failure, got %q", result.URL)
	}
}

func TestStoreRejectsEmptyData(t *testing.T) {
	fake := &fakeStore{}
	p := newTestPipeline(fake)

	result := p.Store(context.Background(), nil, "slug", KindCover)
	if result.Status != StatusUnavailable {
		t.Errorf("expected unavailable for empty data, got %s", result.Status)
	}
	if fake.calls != 0 {
		t.Errorf("expected no storage call for empty data, got %d", fake.calls)
	}
}
