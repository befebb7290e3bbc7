// Package source fetches score documents for the callers of the decoder:
// local files, stdin and S3 objects.
package source

import (
	"context"
	"io"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/jsphweid/scoreline/constants"
	"github.com/jsphweid/scoreline/file"
	"github.com/pkg/errors"
)

var ErrUnsupportedScheme = errors.New("unsupported source scheme")

// Loader resolves a source URI to MusicXML text. S3 is created on first
// use when left nil.
type Loader struct {
	S3    s3iface.S3API
	Stdin io.Reader

	once sync.Once
	err  error
}

var defaultLoader = &Loader{Stdin: os.Stdin}

// Load reads uri with the default loader. uri is a local path, "-" for
// stdin, or s3://bucket/key.
func Load(ctx context.Context, uri string) (string, error) {
	return defaultLoader.Load(ctx, uri)
}

func (l *Loader) Load(ctx context.Context, uri string) (string, error) {
	if uri == "-" {
		if l.Stdin == nil {
			return "", errors.New("no stdin configured")
		}
		dat, err := io.ReadAll(l.Stdin)
		if err != nil {
			return "", errors.Wrap(err, "reading stdin")
		}
		return string(dat), nil
	}

	if !strings.Contains(uri, "://") {
		return file.Read(uri)
	}

	u, err := url.Parse(uri)
	if err != nil {
		return "", errors.Wrapf(err, "parsing %q", uri)
	}
	switch u.Scheme {
	case "file":
		return file.Read(u.Path)
	case "s3":
		return l.loadS3(ctx, u.Host, strings.TrimPrefix(u.Path, "/"))
	}
	return "", errors.Wrapf(ErrUnsupportedScheme, "%q", u.Scheme)
}

func (l *Loader) loadS3(ctx context.Context, bucket, key string) (string, error) {
	client, err := l.s3Client()
	if err != nil {
		return "", err
	}

	out, err := client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", errors.Wrapf(err, "getting s3://%v/%v", bucket, key)
	}
	defer out.Body.Close()

	dat, err := io.ReadAll(out.Body)
	if err != nil {
		return "", errors.Wrapf(err, "reading s3://%v/%v", bucket, key)
	}
	if file.IsCompressed(key) {
		return file.Unpack(dat)
	}
	return string(dat), nil
}

func (l *Loader) s3Client() (s3iface.S3API, error) {
	l.once.Do(func() {
		if l.S3 != nil {
			return
		}
		cfg := &aws.Config{Region: aws.String(constants.GetRegion())}
		if endpoint := constants.GetS3Endpoint(); endpoint != "" {
			cfg.Endpoint = aws.String(endpoint)
			cfg.S3ForcePathStyle = aws.Bool(true)
		}
		sess, err := session.NewSession(cfg)
		if err != nil {
			l.err = errors.Wrap(err, "creating aws session")
			return
		}
		l.S3 = s3.New(sess)
	})
	return l.S3, l.err
}
