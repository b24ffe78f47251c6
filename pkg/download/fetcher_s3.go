package download

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/arthur-debert/docsync/pkg/errors"
)

// S3API is the part of *s3.Client the fetcher uses.
type S3API interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Fetcher downloads s3://bucket/key URLs. Without an explicit client it
// builds one from the default AWS credential chain on first use.
type S3Fetcher struct {
	Profile string
	Region  string

	once   sync.Once
	client S3API
	err    error
}

// NewS3Fetcher returns a fetcher using client. A nil client is resolved
// lazily from the environment.
func NewS3Fetcher(client S3API) *S3Fetcher {
	return &S3Fetcher{client: client}
}

func (f *S3Fetcher) api(ctx context.Context) (S3API, error) {
	f.once.Do(func() {
		if f.client != nil {
			return
		}
		var opts []func(*awsconfig.LoadOptions) error
		if f.Profile != "" {
			opts = append(opts, awsconfig.WithSharedConfigProfile(f.Profile))
		}
		if f.Region != "" {
			opts = append(opts, awsconfig.WithRegion(f.Region))
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			f.err = errors.Wrap(err, errors.ErrDownload, "failed to load AWS configuration")
			return
		}
		f.client = s3.NewFromConfig(cfg)
	})
	return f.client, f.err
}

// ParseS3URL splits s3://bucket/key into its parts.
func ParseS3URL(rawURL string) (bucket, key string, err error) {
	u, perr := url.Parse(rawURL)
	if perr != nil || u.Scheme != "s3" {
		return "", "", errors.New(errors.ErrInvalidInput, "invalid S3 URL").
			WithDetail("url", rawURL)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", errors.New(errors.ErrInvalidInput, "S3 URL needs a bucket and a key").
			WithDetail("url", rawURL)
	}
	return bucket, key, nil
}

// Size reads the object's ContentLength.
func (f *S3Fetcher) Size(ctx context.Context, rawURL string) (int64, error) {
	bucket, key, err := ParseS3URL(rawURL)
	if err != nil {
		return -1, err
	}
	client, err := f.api(ctx)
	if err != nil {
		return -1, err
	}
	out, err := client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return -1, errors.Wrap(err, errors.ErrDownload, "failed to stat S3 object").
			WithDetail("url", rawURL)
	}
	if out.ContentLength == nil {
		return -1, nil
	}
	return *out.ContentLength, nil
}

// Fetch opens the object, requesting a byte range when offset is
// positive. A response without Content-Range means the range was not
// applied.
func (f *S3Fetcher) Fetch(ctx context.Context, rawURL string, offset int64) (*Response, error) {
	bucket, key, err := ParseS3URL(rawURL)
	if err != nil {
		return nil, err
	}
	client, err := f.api(ctx)
	if err != nil {
		return nil, err
	}

	input := &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if offset > 0 {
		input.Range = aws.String(fmt.Sprintf("bytes=%d-", offset))
	}

	out, err := client.GetObject(ctx, input)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDownload, "failed to get S3 object").
			WithDetail("url", rawURL)
	}

	length := aws.ToInt64(out.ContentLength)
	if offset > 0 && aws.ToString(out.ContentRange) != "" {
		return &Response{Body: out.Body, Offset: offset, Total: offset + length}, nil
	}
	total := int64(-1)
	if out.ContentLength != nil {
		total = length
	}
	return &Response{Body: out.Body, Offset: 0, Total: total}, nil
}
