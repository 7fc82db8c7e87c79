package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/unzipr"
	"github.com/nguyengg/unzipr/internal"
	"github.com/nguyengg/unzipr/internal/action"
	"github.com/nguyengg/unzipr/internal/cmd/awsconfig"
	"github.com/nguyengg/unzipr/managerlogging"
)

// Version is printed by --version.
const Version = "0.3.1"

// Unzipr is the top-level options of the unzipr command.
type Unzipr struct {
	List    bool           `short:"l" long:"list" description:"list files instead of unpacking"`
	Pipe    bool           `short:"p" long:"pipe" description:"extract files to pipe, no messages"`
	Exdir   flags.Filename `short:"d" long:"exdir" description:"an optional directory to which to extract files. By default, all files and subdirectories are recreated in the current directory"`
	Verbose bool           `short:"v" long:"verbose" description:"log unpacking progress to stderr"`
	Profile string         `long:"profile" description:"AWS profile to use for s3:// archives"`
	Version bool           `long:"version" description:"print version and exit"`
	Args    struct {
		Files []string `positional-arg-name:"file" description:"the archive followed by the names of the nested archives (and for --pipe, the file) inside it"`
	} `positional-args:"yes"`

	awsconfig.ConfigLoaderMixin
	stdout, stderr io.Writer
}

// NewParser creates the go-flags parser for the given Unzipr.
func NewParser(c *Unzipr) *flags.Parser {
	p := flags.NewNamedParser("unzipr", flags.Default)
	p.Usage = "[OPTIONS] archive [inner...]"
	p.LongDescription = "unzipr lists, unpacks, or pipes a file from zip of zip of zip files."
	if _, err := p.AddGroup("Application Options", "", c); err != nil {
		// only happens if the struct tags above are invalid.
		panic(err)
	}

	return p
}

// Execute runs the mode selected by the flags.
func (c *Unzipr) Execute(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))
	}

	if c.stdout == nil {
		c.stdout = os.Stdout
	}
	if c.stderr == nil {
		c.stderr = os.Stderr
	}

	if c.Version {
		_, err := fmt.Fprintf(c.stdout, "unzipr %s\n", Version)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := c.action(ctx)
	if err != nil {
		return err
	}

	return a.Exec(ctx)
}

// action builds the action selected by the flags from the positional arguments.
func (c *Unzipr) action(ctx context.Context) (action.Action, error) {
	files := c.Args.Files
	if c.List && c.Pipe {
		return nil, errors.New("--list and --pipe are mutually exclusive")
	}

	openOptFn, err := c.openOptions(ctx)
	if err != nil {
		return nil, err
	}

	optFns := []func(*action.Options){
		func(opts *action.Options) {
			opts.Stdout = c.stdout
			opts.OpenOptions = append(opts.OpenOptions, openOptFn)
		},
	}

	switch {
	case c.List:
		return action.NewList(files, optFns...)
	case c.Pipe:
		return action.NewPipe(files, optFns...)
	}

	dir := string(c.Exdir)
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, unzipr.WrapIO("", fmt.Errorf("get current working directory error: %w", err))
		}
		dir = wd
	}

	var prefix string
	if len(files) != 0 {
		prefix = internal.Prefix(files[0])
	}

	return action.NewUnpack(dir, files, append(optFns, func(opts *action.Options) {
		opts.Logger = internal.NewLogger(c.Verbose, prefix)
		opts.ProgressBar = c.Verbose && internal.IsTerminal(c.stderr)
	})...)
}

// openOptions returns the unzipr.Options modifier for the archive, loading the AWS config only if the archive is on S3.
func (c *Unzipr) openOptions(ctx context.Context) (func(*unzipr.Options), error) {
	if len(c.Args.Files) == 0 || !strings.HasPrefix(c.Args.Files[0], "s3://") {
		return func(*unzipr.Options) {}, nil
	}

	c.WithProfile(c.Profile)

	client, err := c.NewS3Client(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config error: %w", err)
	}

	return func(opts *unzipr.Options) {
		opts.S3Client = client
		if c.Verbose && !c.List && !c.Pipe {
			logger := internal.NewLogger(true, internal.Prefix(c.Args.Files[0]))
			opts.DownloaderOptions = append(opts.DownloaderOptions, managerlogging.LogDownloadedParts(logger))
		}
	}, nil
}
