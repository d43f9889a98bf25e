package main

import (
	"runtime/debug"
	"testing"
)

func TestReadBuildInfo(t *testing.T) {
	t.Run("no embedded info keeps link-time values", func(t *testing.T) {
		b := readBuildInfo(func() (*debug.BuildInfo, bool) { return nil, false })
		if b.Version != version || b.Commit != commit || b.Module != "github.com/vango-dev/reactor" {
			t.Errorf("buildInfo = %+v", b)
		}
	})

	t.Run("module version and vcs settings fill defaults", func(t *testing.T) {
		b := readBuildInfo(func() (*debug.BuildInfo, bool) {
			return &debug.BuildInfo{
				Main: debug.Module{Path: "example.com/fork/reactor", Version: "v0.3.1"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abc123"},
					{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
					{Key: "vcs.modified", Value: "true"},
				},
			}, true
		})
		if b.Module != "example.com/fork/reactor" {
			t.Errorf("Module = %q", b.Module)
		}
		if version == "dev" && b.Version != "v0.3.1" {
			t.Errorf("Version = %q, want v0.3.1", b.Version)
		}
		if commit == "none" && b.Commit != "abc123" {
			t.Errorf("Commit = %q, want abc123", b.Commit)
		}
		if date == "unknown" && b.Date != "2026-01-02T03:04:05Z" {
			t.Errorf("Date = %q", b.Date)
		}
		if !b.Modified {
			t.Error("Modified = false, want true")
		}
	})

	t.Run("devel builds keep dev", func(t *testing.T) {
		b := readBuildInfo(func() (*debug.BuildInfo, bool) {
			return &debug.BuildInfo{Main: debug.Module{Path: "github.com/vango-dev/reactor", Version: "(devel)"}}, true
		})
		if version == "dev" && b.Version != "dev" {
			t.Errorf("Version = %q, want dev", b.Version)
		}
	})
}

func TestEnabled(t *testing.T) {
	if got := enabled(false, "reactor"); got != "off" {
		t.Errorf("enabled(false) = %q", got)
	}
	if got := enabled(true, "reactor"); got != "on (reactor)" {
		t.Errorf("enabled(true) = %q", got)
	}
}
