package awsconfig

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ConfigLoaderMixin collects config.LoadOptions modifiers to be applied when the AWS config is eventually loaded.
type ConfigLoaderMixin struct {
	optFns []func(*config.LoadOptions) error
}

// AddOption adds a config.LoadOptions modifier.
func (c *ConfigLoaderMixin) AddOption(optFn func(*config.LoadOptions) error) {
	c.optFns = append(c.optFns, optFn)
}

// WithProfile adds config.WithSharedConfigProfile if profile is not empty.
func (c *ConfigLoaderMixin) WithProfile(profile string) {
	if profile != "" {
		c.AddOption(config.WithSharedConfigProfile(profile))
	}
}

// LoadDefaultConfig calls config.LoadDefaultConfig with the options added so far followed by the given ones.
func (c *ConfigLoaderMixin) LoadDefaultConfig(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
	return config.LoadDefaultConfig(ctx, append(c.optFns, optFns...)...)
}

// NewS3Client loads the AWS config and creates an S3 client from it.
func (c *ConfigLoaderMixin) NewS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := c.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(cfg, func(options *s3.Options) {
		// without this, getting a bunch of WARN message below:
		// WARN Response has no supported checksum. Not validating response payload.
		options.DisableLogOutputChecksumValidationSkipped = true
	}), nil
}
