package main

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/internal/config"
	"github.com/vango-dev/reactor/pkg/scheduler"
)

// buildInfo is what the version command reports about the binary.
type buildInfo struct {
	Module   string
	Version  string
	Commit   string
	Date     string
	Modified bool
}

// readBuildInfo starts from the link-time variables and fills the gaps from
// the module and VCS data the Go toolchain embeds.
func readBuildInfo(read func() (*debug.BuildInfo, bool)) buildInfo {
	b := buildInfo{Module: "github.com/vango-dev/reactor", Version: version, Commit: commit, Date: date}
	bi, ok := read()
	if !ok {
		return b
	}
	if bi.Main.Path != "" {
		b.Module = bi.Main.Path
	}
	if b.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		b.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if b.Commit == "none" {
				b.Commit = s.Value
			}
		case "vcs.time":
			if b.Date == "unknown" {
				b.Date = s.Value
			}
		case "vcs.modified":
			b.Modified = s.Value == "true"
		}
	}
	return b
}

func versionCmd(configPath *string) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the reactor build, its module, and the engine settings the
current reactor.toml resolves to.`,
		Run: func(cmd *cobra.Command, args []string) {
			b := readBuildInfo(debug.ReadBuildInfo)
			if short {
				fmt.Println(b.Version)
				return
			}

			commit := b.Commit
			if b.Modified {
				commit += " (modified)"
			}

			printBanner()
			fmt.Println()
			field("Version", b.Version)
			field("Module", b.Module)
			field("Commit", commit)
			field("Built", b.Date)
			field("Go version", runtime.Version())
			field("OS/Arch", runtime.GOOS+"/"+runtime.GOARCH)
			fmt.Println()

			fmt.Println(titleStyle.Render("  Engine"))
			fc, err := loadConfig(*configPath)
			if err != nil {
				warn("config: %v", err)
				fc = config.New()
			}
			field("Recursion", strconv.Itoa(fc.RecursionLimit)+" runs per job (default "+strconv.Itoa(scheduler.DefaultRecursionLimit)+")")
			field("Dev mode", strconv.FormatBool(fc.DevMode))
			field("Metrics", enabled(fc.Metrics.Enabled, fc.Metrics.Namespace))
			field("Tracing", enabled(fc.Tracing.Enabled, fc.Tracing.TracerName))
			fmt.Println()
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")

	return cmd
}

func field(name, value string) {
	fmt.Printf("  %s %s\n", dimStyle.Render(fmt.Sprintf("%-11s", name+":")), value)
}

func enabled(on bool, name string) string {
	if !on {
		return "off"
	}
	return "on (" + name + ")"
}
