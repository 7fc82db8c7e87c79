// Package managerlogging adds logging hooks to the S3 client that manager.Downloader uses to fetch archives.
package managerlogging

import (
	"context"
	"log"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dustin/go-humanize"
)

// LoggingDownloadAPIClient provides a post- hook on the GetObject calls that manager.Downloader makes.
//
// The hook may be called from any of the goroutines that download parts in parallel.
type LoggingDownloadAPIClient struct {
	manager.DownloadAPIClient
	PostGetObject func(*s3.GetObjectOutput, error)
}

// LogDownloadedParts creates a manager.Downloader modifier that logs every successfully downloaded part.
//
// The logger keeps a running tally of parts and bytes, and the log messages will be in this format:
// `downloaded %d parts (%s) so far`. If the downloader's client is already a LoggingDownloadAPIClient, its
// PostGetObject still runs before the new one.
func LogDownloadedParts(logger *log.Logger) func(*manager.Downloader) {
	return func(downloader *manager.Downloader) {
		client := &LoggingDownloadAPIClient{DownloadAPIClient: downloader.S3}

		var prev func(*s3.GetObjectOutput, error)
		if v, ok := downloader.S3.(*LoggingDownloadAPIClient); ok {
			client.DownloadAPIClient = v.DownloadAPIClient
			prev = v.PostGetObject
		}
		downloader.S3 = client

		var parts, size atomic.Int64
		client.PostGetObject = func(output *s3.GetObjectOutput, err error) {
			if prev != nil {
				prev(output, err)
			}
			if err != nil {
				return
			}

			n := parts.Add(1)
			s := size.Add(aws.ToInt64(output.ContentLength))
			logger.Printf("downloaded %d parts (%s) so far", n, humanize.Bytes(uint64(s)))
		}
	}
}

func (l LoggingDownloadAPIClient) GetObject(ctx context.Context, input *s3.GetObjectInput, f ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	o, err := l.DownloadAPIClient.GetObject(ctx, input, f...)
	if l.PostGetObject != nil {
		l.PostGetObject(o, err)
	}
	return o, err
}

var _ manager.DownloadAPIClient = LoggingDownloadAPIClient{}
var _ manager.DownloadAPIClient = &LoggingDownloadAPIClient{}
