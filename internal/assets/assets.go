// Package assets fetches remote event images and ingests them into
// S3-compatible object storage. Fetching follows redirects up to a fixed
// depth and retries transient failures; storing returns a tagged result so
// callers can tell "stored, derived asset pending" apart from "ingestion
// failed, keep the remote URL".
package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/shareef6907/BahrainNights-sub004/internal/config"
	"github.com/shareef6907/BahrainNights-sub004/internal/logger"
)

const (
	// maxRedirects caps redirect chains so a redirect loop cannot hang
	// the run.
	maxRedirects = 5

	// uploadPrefix namespaces every stored object key.
	uploadPrefix = "events"

	// processedPrefix is where the out-of-band converter publishes the
	// webp variant of each stored image.
	processedPrefix = "processed"

	contentType  = "image/jpeg"
	fetchTimeout = 30 * time.Second
)

// ImageKind distinguishes the two image slots an event carries.
type ImageKind string

const (
	KindThumbnail ImageKind = "thumbnail"
	KindCover     ImageKind = "cover"
)

// StoreStatus tags the outcome of an ingestion attempt.
type StoreStatus string

const (
	// StatusStoredPendingTransform means the original bytes are stored
	// and the derived URL will resolve once the converter has run.
	StatusStoredPendingTransform StoreStatus = "stored-pending-transform"
	// StatusUnavailable means ingestion failed; callers keep the remote
	// URL instead.
	StatusUnavailable StoreStatus = "unavailable"
)

// StoreResult is the tagged outcome of Store. URL is only meaningful when
// Status is StatusStoredPendingTransform.
type StoreResult struct {
	Status StoreStatus
	URL    string
}

// objectStore is the slice of the minio client the pipeline uses.
type objectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Pipeline fetches remote images and writes them to object storage.
type Pipeline struct {
	httpClient *http.Client
	store      objectStore
	endpoint   string
	bucket     string
	useSSL     bool
	maxRetries int
	now        func() time.Time
}

// New creates an asset pipeline backed by the configured S3-compatible
// endpoint.
func New(cfg *config.Config) (*Pipeline, error) {
	client, err := minio.New(cfg.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		Secure: cfg.StorageUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}

	return &Pipeline{
		httpClient: &http.Client{
			Timeout: fetchTimeout,
			// Redirects are followed manually in Fetch so the depth
			// cap is explicit
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		store:      client,
		endpoint:   cfg.StorageEndpoint,
		bucket:     cfg.StorageBucket,
		useSSL:     cfg.StorageUseSSL,
		maxRetries: cfg.MaxRetries,
		now:        time.Now,
	}, nil
}

// Fetch downloads an image, following up to maxRedirects redirect hops.
// Transient failures are retried with exponential backoff up to the
// configured retry budget. Any terminal failure resolves to nil rather
// than an error; a missing image never fails the page.
func (p *Pipeline) Fetch(ctx context.Context, remoteURL string) []byte {
	var data []byte

	operation := func() error {
		b, err := p.fetchOnce(ctx, remoteURL)
		if err != nil {
			return err
		}
		data = b
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(p.maxRetries)), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		logger.Error("Image fetch failed", logger.Fields{"url": remoteURL}, err)
		return nil
	}
	return data
}

// fetchOnce performs one GET, manually chasing 301/302 responses.
func (p *Pipeline) fetchOnce(ctx context.Context, remoteURL string) ([]byte, error) {
	url := remoteURL

	for hop := 0; hop <= maxRedirects; hop++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}

		resp, err := p.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching image: %w", err)
		}

		if resp.StatusCode == http.StatusMovedPermanently || resp.StatusCode == http.StatusFound {
			location := resp.Header.Get("Location")
			resp.Body.Close()
			if location == "" {
				return nil, backoff.Permanent(fmt.Errorf("redirect without location from %s", url))
			}
			url = location
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading image body: %w", err)
		}
		return data, nil
	}

	return nil, backoff.Permanent(fmt.Errorf("redirect chain exceeded %d hops for %s", maxRedirects, remoteURL))
}

// Store writes image bytes under a key derived from the event slug, the
// image kind, and a timestamp disambiguator. The returned URL points at
// the processed webp variant the converter publishes later; it is
// speculative, not a guarantee the derived asset exists yet.
func (p *Pipeline) Store(ctx context.Context, data []byte, slug string, kind ImageKind) StoreResult {
	if len(data) == 0 {
		return StoreResult{Status: StatusUnavailable}
	}

	stamp := p.now().Unix()
	key := fmt.Sprintf("%s/%s-%s-%d.jpg", uploadPrefix, slug, kind, stamp)

	_, err := p.store.PutObject(ctx, p.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		logger.Error("Image store failed", logger.Fields{"key": key}, err)
		return StoreResult{Status: StatusUnavailable}
	}

	return StoreResult{
		Status: StatusStoredPendingTransform,
		URL:    p.derivedURL(slug, kind, stamp),
	}
}

// derivedURL builds the public URL of the converted asset at the parallel
// processed path.
func (p *Pipeline) derivedURL(slug string, kind ImageKind, stamp int64) string {
	scheme := "https"
	if !p.useSSL {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s/%s/%s/%s-%s-%d.webp",
		scheme, p.endpoint, p.bucket, processedPrefix, slug, kind, stamp)
}
