package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/vbind/internal/config"
	"github.com/vango-dev/vbind/internal/errors"
)

// Scheme identifies where a reference points.
type Scheme string

const (
	SchemeFile  Scheme = "file"
	SchemeStdin Scheme = "stdin"
	SchemeS3    Scheme = "s3"
)

// Ref is a parsed reference.
type Ref struct {
	Scheme Scheme
	Path   string // file path
	Bucket string // s3 bucket
	Key    string // s3 object key
}

func (r Ref) String() string {
	switch r.Scheme {
	case SchemeStdin:
		return "-"
	case SchemeS3:
		return "s3://" + r.Bucket + "/" + r.Key
	default:
		return r.Path
	}
}

// ParseRef parses a reference string.
func ParseRef(ref string) (Ref, error) {
	if ref == "-" {
		return Ref{Scheme: SchemeStdin}, nil
	}
	scheme, rest, ok := strings.Cut(ref, "://")
	if !ok {
		if ref == "" {
			return Ref{}, errors.New("E030").WithDetail("empty source reference")
		}
		return Ref{Scheme: SchemeFile, Path: ref}, nil
	}
	switch scheme {
	case "file":
		return Ref{Scheme: SchemeFile, Path: rest}, nil
	case "s3":
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" || key == "" {
			return Ref{}, errors.New("E032").
				WithLocation(ref, "").
				WithDetail("S3 references need a bucket and a key").
				WithSuggestion("Use s3://bucket/path/to/object")
		}
		return Ref{Scheme: SchemeS3, Bucket: bucket, Key: key}, nil
	default:
		return Ref{}, errors.New("E032").
			WithLocation(ref, "").
			WithDetail(fmt.Sprintf("scheme %q is not supported", scheme)).
			WithSuggestion("Use a file path, -, file:// or s3://")
	}
}

// ObjectGetter is the part of *s3.Client the loader uses.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Option configures a Loader.
type Option func(*Loader)

// WithS3Client sets the client used for s3:// references.
func WithS3Client(c ObjectGetter) Option {
	return func(l *Loader) { l.s3 = c }
}

// WithStdin sets the reader used for "-".
func WithStdin(r io.Reader) Option {
	return func(l *Loader) { l.stdin = r }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// Loader opens references.
type Loader struct {
	cfg    config.SourceConfig
	stdin  io.Reader
	logger *slog.Logger

	s3Once sync.Once
	s3     ObjectGetter
	s3Err  error
}

// NewLoader creates a Loader.
func NewLoader(cfg config.SourceConfig, opts ...Option) *Loader {
	l := &Loader{
		cfg:    cfg,
		stdin:  os.Stdin,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Open returns a reader for ref. The caller closes it.
func (l *Loader) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	r, err := ParseRef(ref)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("open source", "ref", r.String(), "scheme", r.Scheme)

	switch r.Scheme {
	case SchemeStdin:
		return io.NopCloser(l.stdin), nil
	case SchemeS3:
		return l.openS3(ctx, r)
	default:
		f, err := os.Open(r.Path)
		if err != nil {
			return nil, errors.New("E030").WithLocation(r.Path, "").Wrap(err)
		}
		return f, nil
	}
}

// ReadAll reads the whole of ref.
func (l *Loader) ReadAll(ctx context.Context, ref string) ([]byte, error) {
	rc, err := l.Open(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.New("E030").WithLocation(ref, "").Wrap(err)
	}
	return data, nil
}

// LoadData reads ref as a JSON object. Numbers decode as float64.
func (l *Loader) LoadData(ctx context.Context, ref string) (map[string]any, error) {
	raw, err := l.ReadAll(ctx, ref)
	if err != nil {
		return nil, err
	}
	return DecodeData(ref, raw)
}

// DecodeData decodes a JSON object. name is used in error locations.
func DecodeData(name string, raw []byte) (map[string]any, error) {
	var data map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&data); err != nil {
		return nil, errors.New("E031").
			WithLocation(name, "").
			WithSuggestion("The data document must be a single JSON object").
			Wrap(err)
	}
	if data == nil {
		return nil, errors.New("E031").
			WithLocation(name, "").
			WithDetail("data document is null")
	}
	return data, nil
}

func (l *Loader) openS3(ctx context.Context, r Ref) (io.ReadCloser, error) {
	client, err := l.s3Client(ctx)
	if err != nil {
		return nil, errors.New("E030").WithLocation(r.String(), "").Wrap(err)
	}
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.Bucket),
		Key:    aws.String(r.Key),
	})
	if err != nil {
		return nil, errors.New("E030").WithLocation(r.String(), "").Wrap(err)
	}
	return out.Body, nil
}

func (l *Loader) s3Client(ctx context.Context) (ObjectGetter, error) {
	l.s3Once.Do(func() {
		if l.s3 != nil {
			return
		}
		l.s3, l.s3Err = NewS3Client(ctx, l.cfg)
	})
	return l.s3, l.s3Err
}

// NewS3Client builds an S3 client from the default credential chain.
func NewS3Client(ctx context.Context, cfg config.SourceConfig) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3PathStyle
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
	}), nil
}
