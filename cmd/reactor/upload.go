package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/internal/report"
)

// uploadFlags are shared by commands that can publish a report.
type uploadFlags struct {
	url    string
	region string
}

func (f *uploadFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.url, "upload", "", "Upload a TOML report to s3://bucket/key")
	cmd.Flags().StringVar(&f.region, "region", "", "AWS region for --upload (default: from the AWS config)")
}

func (f *uploadFlags) publish(cmd *cobra.Command, r report.Report) error {
	if f.url == "" {
		return nil
	}
	// Reject a bad URL before resolving credentials.
	if _, _, err := report.ParseURL(f.url); err != nil {
		return err
	}
	client, err := report.NewS3Client(cmd.Context(), f.region)
	if err != nil {
		return err
	}
	if err := report.Upload(cmd.Context(), client, f.url, r); err != nil {
		return err
	}
	success("report uploaded to %s", f.url)
	return nil
}
