package gcs

import (
	"context"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/bound/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"
)

type store struct {
	client *storage.Client
}

// New creates a ReportStore writing to Google Cloud Storage. Client options
// are passed through, e.g. option.WithEndpoint for an emulator.
func New(ctx context.Context, opts ...option.ClientOption) (interfaces.ReportStore, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Cloud Storage client")
	}
	return &store{client: client}, nil
}

// Put writes data to a gs://bucket/object URI
func (s *store) Put(ctx context.Context, uri string, data []byte, contentType string) error {
	bucket, object, err := ParseURI(uri)
	if err != nil {
		return err
	}

	w := s.client.Bucket(bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write report object", goerr.V("uri", uri))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize report object", goerr.V("uri", uri))
	}
	return nil
}

// ParseURI splits gs://bucket/path/to/object into bucket and object name
func ParseURI(uri string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(uri, "gs://")
	if !ok {
		return "", "", goerr.New("report URI must start with gs://", goerr.V("uri", uri))
	}

	bucket, object, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" || strings.HasSuffix(object, "/") {
		return "", "", goerr.New("report URI must name a bucket and an object", goerr.V("uri", uri))
	}
	return bucket, object, nil
}
