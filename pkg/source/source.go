// Package source reads table text from local files, stdin, http(s) URLs and
// S3-compatible object stores.
package source

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"sync"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/shenwei356/xopen"
)

// Environment variables read when building the default S3 client:
//   CURTAIN_S3_REGION=<region> (default us-east-1)
//   CURTAIN_S3_ENDPOINT=<url> (optional, for MinIO and other S3-compatible stores)
//   CURTAIN_S3_PATH_STYLE=true|false (default false)
//   AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY / AWS_SESSION_TOKEN (optional)

// S3Config configures the S3 client used for s3:// URIs.
type S3Config struct {
	Region    string `toml:"region"`
	Endpoint  string `toml:"endpoint"`
	PathStyle bool   `toml:"path_style"`
}

// S3ConfigFromEnv reads S3Config from the process environment.
func S3ConfigFromEnv() S3Config {
	return S3Config{
		Region:    os.Getenv("CURTAIN_S3_REGION"),
		Endpoint:  os.Getenv("CURTAIN_S3_ENDPOINT"),
		PathStyle: strings.EqualFold(os.Getenv("CURTAIN_S3_PATH_STYLE"), "true"),
	}
}

// Fetcher reads sources by URI. The S3 client is created on first use.
type Fetcher struct {
	cfg S3Config

	once   sync.Once
	client *s3.Client
	err    error
}

// New returns a Fetcher that builds its S3 client from cfg.
func New(cfg S3Config) *Fetcher {
	return &Fetcher{cfg: cfg}
}

// NewWithClient returns a Fetcher that uses client for s3:// URIs.
func NewWithClient(client *s3.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Open opens the source named by uri for reading. "-" is stdin;
// "s3://bucket/key" is fetched from the object store; anything else is
// opened with xopen, which handles local files and http(s) URLs. Gzip, bzip2,
// xz and zstd content is decompressed whatever the source.
func (f *Fetcher) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.HasPrefix(uri, "s3://") {
		return f.openS3(ctx, uri)
	}

	r, err := xopen.Ropen(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", uri, err)
	}
	return r, nil
}

// ReadText reads the whole source named by uri.
func (f *Fetcher) ReadText(ctx context.Context, uri string) (string, error) {
	r, err := f.Open(ctx, uri)
	if err != nil {
		return "", err
	}
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", uri, err)
	}
	return string(b), nil
}

func (f *Fetcher) s3Client(ctx context.Context) (*s3.Client, error) {
	f.once.Do(func() {
		if f.client != nil {
			return
		}
		region := f.cfg.Region
		if region == "" {
			region = "us-east-1"
		}
		awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
		if err != nil {
			f.err = fmt.Errorf("load aws config: %w", err)
			return
		}
		f.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if f.cfg.PathStyle {
				o.UsePathStyle = true
			}
			if f.cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(f.cfg.Endpoint)
			}
		})
	})
	return f.client, f.err
}

// objectReader decompresses an object body and closes both on Close.
type objectReader struct {
	*xopen.Reader
	body io.Closer
}

func (r objectReader) Close() error {
	err := r.Reader.Close()
	if cerr := r.body.Close(); err == nil {
		err = cerr
	}
	return err
}

func (f *Fetcher) openS3(ctx context.Context, uri string) (io.ReadCloser, error) {
	bucket, key, err := parseS3URI(uri)
	if err != nil {
		return nil, err
	}
	client, err := f.s3Client(ctx)
	if err != nil {
		return nil, err
	}
	out, err := client.GetObject(ctx, &s3.GetObjectInput{Bucket: &bucket, Key: &key})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", uri, err)
	}

	r, err := xopen.Buf(out.Body)
	if err != nil {
		out.Body.Close()
		return nil, fmt.Errorf("failed to decompress %s: %w", uri, err)
	}
	return objectReader{Reader: r, body: out.Body}, nil
}

func parseS3URI(uri string) (bucket, key string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", fmt.Errorf("invalid s3 uri %q: %w", uri, err)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 uri %q: want s3://bucket/key", uri)
	}
	return bucket, key, nil
}
