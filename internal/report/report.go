// Package report encodes diff and bench results as TOML and publishes them
// to S3 so runs from different machines can be compared.
package report

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/internal/scenario"
)

// ContentType is the content type reports are uploaded with.
const ContentType = "application/toml"

// Report is the document written by Encode.
type Report struct {
	Kind      string    `toml:"kind"`
	Version   string    `toml:"version"`
	CreatedAt time.Time `toml:"created_at"`
	Bench     *Bench    `toml:"bench,omitempty"`
	Diffs     []Diff    `toml:"diff,omitempty"`
}

// Bench is a bench run.
type Bench struct {
	Size    int    `toml:"size"`
	Rounds  int    `toml:"rounds"`
	Seed    uint64 `toml:"seed"`
	Created int    `toml:"created"`
	Removed int    `toml:"removed"`
	Moved   int    `toml:"moved"`
	Mean    string `toml:"mean"`
	Slowest string `toml:"slowest"`
}

// Diff is one diff scenario.
type Diff struct {
	Name     string   `toml:"name"`
	Old      []string `toml:"old"`
	New      []string `toml:"new"`
	Created  int      `toml:"created"`
	Removed  int      `toml:"removed"`
	Moved    int      `toml:"moved"`
	Ops      []string `toml:"ops,omitempty"`
	Duration string   `toml:"duration"`
}

// FromBench builds a report for a bench run.
func FromBench(res scenario.BenchResult, seed uint64, version string) Report {
	return Report{
		Kind:      "bench",
		Version:   version,
		CreatedAt: time.Now().UTC(),
		Bench: &Bench{
			Size:    res.Size,
			Rounds:  res.Rounds,
			Seed:    seed,
			Created: res.Created,
			Removed: res.Removed,
			Moved:   res.Moved,
			Mean:    res.Mean().String(),
			Slowest: res.Slowest.String(),
		},
	}
}

// FromDiffs builds a report for diff scenarios. Host operations are
// included when withOps is set.
func FromDiffs(results []scenario.Result, withOps bool, version string) Report {
	r := Report{Kind: "diff", Version: version, CreatedAt: time.Now().UTC()}
	for _, res := range results {
		d := Diff{
			Name:     res.Scenario.Name,
			Old:      res.Scenario.Old,
			New:      res.Scenario.New,
			Created:  res.Created,
			Removed:  res.Removed,
			Moved:    res.Moved,
			Duration: res.Duration.String(),
		}
		if withOps {
			for _, op := range res.Ops {
				d.Ops = append(d.Ops, op.String())
			}
		}
		r.Diffs = append(r.Diffs, d)
	}
	return r
}

// Encode marshals r as TOML.
func Encode(r Report) ([]byte, error) {
	return toml.Marshal(r)
}

// PutObjectAPI is the part of the S3 client Upload needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ParseURL splits an s3://bucket/key URL.
func ParseURL(raw string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(raw, "s3://")
	if !ok {
		return "", "", errors.New("X002").
			WithDetail("Not an s3:// URL: " + raw).
			WithSuggestion("Use s3://bucket/path/report.toml")
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return "", "", errors.New("X002").
			WithDetail("Missing bucket or object key in " + raw).
			WithSuggestion("Use s3://bucket/path/report.toml")
	}
	return bucket, key, nil
}

// Upload encodes r and stores it at the s3:// URL.
func Upload(ctx context.Context, client PutObjectAPI, rawURL string, r Report) error {
	bucket, key, err := ParseURL(rawURL)
	if err != nil {
		return err
	}
	data, err := Encode(r)
	if err != nil {
		return errors.New("X002").WithDetail("Failed to encode report").Wrap(err)
	}

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(ContentType),
		Metadata: map[string]string{
			"report-kind": r.Kind,
			"version":     r.Version,
		},
	})
	if err != nil {
		return errors.New("X002").WithSource(rawURL).Wrap(err)
	}
	return nil
}

// NewS3Client creates a client from the default AWS credential chain. An
// empty region defers to AWS_REGION and the shared config.
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.New("X002").WithDetail("Failed to load AWS configuration").Wrap(err)
	}
	return s3.NewFromConfig(cfg), nil
}
