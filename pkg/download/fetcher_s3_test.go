package download

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"testing"

	"github.com/arthur-debert/docsync/pkg/errors"
	"github.com/arthur-debert/docsync/pkg/testutil"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 serves one object and records the ranges it was asked for.
type fakeS3 struct {
	data         []byte
	ignoreRanges bool
	ranges       []string
}

func (f *fakeS3) HeadObject(_ context.Context, _ *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	return &s3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(f.data)))}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	rng := aws.ToString(in.Range)
	f.ranges = append(f.ranges, rng)

	body := f.data
	out := &s3.GetObjectOutput{}
	if rng != "" && !f.ignoreRanges {
		var start int
		_, _ = fmt.Sscanf(rng, "bytes=%d-", &start)
		body = f.data[start:]
		out.ContentRange = aws.String("bytes " + rng[len("bytes="):] + "/" + strconv.Itoa(len(f.data)))
	}
	out.Body = io.NopCloser(bytes.NewReader(body))
	out.ContentLength = aws.Int64(int64(len(body)))
	return out, nil
}

func TestParseS3URL(t *testing.T) {
	tests := []struct {
		url     string
		bucket  string
		key     string
		wantErr bool
	}{
		{url: "s3://datasets/docs/v1.zip", bucket: "datasets", key: "docs/v1.zip"},
		{url: "s3://datasets/", wantErr: true},
		{url: "s3:///key", wantErr: true},
		{url: "https://datasets/key", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			bucket, key, err := ParseS3URL(tt.url)
			if tt.wantErr {
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestS3DownloadResumes(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteFile("docs.zip.partial", string(payload[:250]))
	client := &fakeS3{data: payload}

	m := testManager(env)
	m.Register("s3", NewS3Fetcher(client))

	result, err := m.Download(context.Background(), "s3://datasets/docs.zip", env.Abs("docs.zip"))
	require.NoError(t, err)

	assert.True(t, result.Resumed)
	assert.Equal(t, []string{"bytes=250-"}, client.ranges)
	env.AssertFileContent("docs.zip", string(payload))
}

func TestS3DownloadRestartsWithoutContentRange(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteFile("docs.zip.partial", "junk")
	client := &fakeS3{data: payload, ignoreRanges: true}

	m := testManager(env)
	m.Register("s3", NewS3Fetcher(client))

	result, err := m.Download(context.Background(), "s3://datasets/docs.zip", env.Abs("docs.zip"))
	require.NoError(t, err)

	assert.False(t, result.Resumed)
	env.AssertFileContent("docs.zip", string(payload))
}
