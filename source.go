package unzipr

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Options customises OpenFile and Resolve.
type Options struct {
	// S3Client is used to download archives given as "s3://bucket/key".
	//
	// If nil, S3 URIs cannot be opened.
	S3Client manager.DownloadAPIClient

	// ModifyGetObjectInput provides ways to customise the S3 GetObject calls, e.g. to add ExpectedBucketOwner.
	ModifyGetObjectInput func(*s3.GetObjectInput)

	// DownloaderOptions are applied to the manager.Downloader after its defaults, e.g. to change PartSize or to add
	// logging with managerlogging.LogDownloadedParts.
	DownloaderOptions []func(*manager.Downloader)
}

// OpenFile reads the named archive fully into memory and opens it with OpenBytes.
//
// The name is either a local file path or an S3 URI in format "s3://bucket/key". A KindDoesNotExist error is returned
// if the file or S3 object does not exist. Other read failures are returned as KindIO errors.
func OpenFile(ctx context.Context, name string, optFns ...func(*Options)) (*Archive, error) {
	opts := &Options{}
	for _, fn := range optFns {
		fn(opts)
	}

	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(name, "s3://") {
		data, err = opts.download(ctx, name)
	} else {
		data, err = readFile(name)
	}
	if err != nil {
		return nil, err
	}

	return OpenBytes(name, data)
}

func readFile(name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	switch {
	case err == nil:
		return data, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, &Error{Kind: KindDoesNotExist, Path: name, Err: err}
	default:
		return nil, WrapIO(name, err)
	}
}

func (opts *Options) download(ctx context.Context, uri string) ([]byte, error) {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return nil, &Error{Kind: KindDoesNotExist, Path: uri, Err: err}
	}

	if opts.S3Client == nil {
		return nil, WrapIO(uri, fmt.Errorf("no S3 client available"))
	}

	input := &s3.GetObjectInput{Bucket: &bucket, Key: &key}
	if opts.ModifyGetObjectInput != nil {
		opts.ModifyGetObjectInput(input)
	}

	// parts are fetched one at a time unless DownloaderOptions says otherwise.
	d := manager.NewDownloader(opts.S3Client, append([]func(*manager.Downloader){func(d *manager.Downloader) {
		d.Concurrency = 1
	}}, opts.DownloaderOptions...)...)

	buf := manager.NewWriteAtBuffer(nil)
	if _, err = d.Download(ctx, buf, input); err != nil {
		if isS3NotFound(err) {
			return nil, &Error{Kind: KindDoesNotExist, Path: uri, Err: err}
		}

		return nil, WrapIO(uri, fmt.Errorf("download s3 object error: %w", err))
	}

	return buf.Bytes(), nil
}

func isS3NotFound(err error) bool {
	var (
		noSuchKey    *types.NoSuchKey
		noSuchBucket *types.NoSuchBucket
		notFound     *types.NotFound
	)
	if errors.As(err, &noSuchKey) || errors.As(err, &noSuchBucket) || errors.As(err, &notFound) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NoSuchBucket", "NotFound":
			return true
		}
	}

	return false
}

// ParseS3URI parses S3 URIs in format s3://bucket/key.
//
// Both bucket and key must be non-empty.
func ParseS3URI(text string) (bucket, key string, err error) {
	if !strings.HasPrefix(text, "s3://") {
		return "", "", fmt.Errorf("text does not start with s3://")
	}

	parts := strings.SplitN(strings.TrimPrefix(text, "s3://"), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf(`"%s" is not in format s3://bucket/key`, text)
	}

	return parts[0], parts[1], nil
}
