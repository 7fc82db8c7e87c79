package managerlogging

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	err error
}

func (f fakeClient) GetObject(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}

	return &s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader("hello")),
		ContentLength: aws.Int64(5),
	}, nil
}

func TestLogDownloadedParts(t *testing.T) {
	var buf bytes.Buffer

	d := &manager.Downloader{S3: fakeClient{}}
	LogDownloadedParts(log.New(&buf, "", 0))(d)

	for range 2 {
		_, err := d.S3.GetObject(context.Background(), &s3.GetObjectInput{})
		require.NoError(t, err)
	}

	assert.Equal(t, "downloaded 1 parts (5 B) so far\ndownloaded 2 parts (10 B) so far\n", buf.String())
}

// Applying the modifier twice keeps both tallies and does not stack clients.
func TestLogDownloadedParts_Twice(t *testing.T) {
	var first, second bytes.Buffer

	d := &manager.Downloader{S3: fakeClient{}}
	LogDownloadedParts(log.New(&first, "first ", 0))(d)
	LogDownloadedParts(log.New(&second, "second ", 0))(d)

	client, ok := d.S3.(*LoggingDownloadAPIClient)
	require.True(t, ok)
	assert.IsType(t, fakeClient{}, client.DownloadAPIClient)

	_, err := d.S3.GetObject(context.Background(), &s3.GetObjectInput{})
	require.NoError(t, err)

	assert.Equal(t, "first downloaded 1 parts (5 B) so far\n", first.String())
	assert.Equal(t, "second downloaded 1 parts (5 B) so far\n", second.String())
}

func TestLogDownloadedParts_Error(t *testing.T) {
	var buf bytes.Buffer

	d := &manager.Downloader{S3: fakeClient{err: errors.New("boom")}}
	LogDownloadedParts(log.New(&buf, "", 0))(d)

	_, err := d.S3.GetObject(context.Background(), &s3.GetObjectInput{})
	assert.Error(t, err)
	assert.Empty(t, buf.String())
}
