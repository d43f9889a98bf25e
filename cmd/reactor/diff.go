package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/internal/report"
	"github.com/vango-dev/reactor/internal/scenario"
	"github.com/vango-dev/reactor/pkg/host/memdom"
)

func diffCmd() *cobra.Command {
	var (
		oldKeys string
		newKeys string
		file    string
		verbose bool
		upload  uploadFlags
	)

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show the host operations of a keyed list change",
		Long: `Render a keyed list, patch it to a second key order and print the
host operations the patch performed.

Scenarios come from flags or from a TOML file of [[case]] tables.

Examples:
  reactor diff --old a,b,c --new c,a,b
  reactor diff --file cases.toml -v
  reactor diff --file cases.toml --upload s3://perf-runs/reactor/diff.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cases []scenario.Scenario
			switch {
			case file != "":
				loaded, err := scenario.Load(file)
				if err != nil {
					return err
				}
				cases = loaded
			case oldKeys != "" || newKeys != "":
				cases = []scenario.Scenario{{
					Name: "flags",
					Old:  scenario.ParseKeys(oldKeys),
					New:  scenario.ParseKeys(newKeys),
				}}
			default:
				return errors.New("X001").
					WithDetail("No scenario given").
					WithSuggestion("Pass --old and --new, or --file")
			}

			results := make([]scenario.Result, 0, len(cases))
			for _, sc := range cases {
				res, err := scenario.Run(sc)
				if err != nil {
					return err
				}
				printDiff(res, verbose)
				results = append(results, res)
			}
			return upload.publish(cmd, report.FromDiffs(results, verbose, version))
		},
	}

	cmd.Flags().StringVar(&oldKeys, "old", "", "Comma separated keys before the patch")
	cmd.Flags().StringVar(&newKeys, "new", "", "Comma separated keys after the patch")
	cmd.Flags().StringVarP(&file, "file", "f", "", "TOML file of [[case]] scenarios")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print every host operation")
	upload.register(cmd)

	return cmd
}

var (
	createdStyle = successStyle
	removedStyle = errorStyle
	movedStyle   = warnStyle
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

func printDiff(res scenario.Result, verbose bool) {
	var b strings.Builder
	b.WriteString(titleStyle.Render(res.Scenario.Name))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n", dimStyle.Render("old"), strings.Join(res.Scenario.Old, " "))
	fmt.Fprintf(&b, "%s %s\n", dimStyle.Render("new"), strings.Join(res.Scenario.New, " "))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  %s  %s  %s",
		createdStyle.Render(fmt.Sprintf("+%d created", res.Created)),
		removedStyle.Render(fmt.Sprintf("-%d removed", res.Removed)),
		movedStyle.Render(fmt.Sprintf("~%d moved", res.Moved)),
		dimStyle.Render(res.Duration.String()),
	)

	if verbose && len(res.Ops) > 0 {
		b.WriteString("\n")
		for _, op := range res.Ops {
			b.WriteString("\n")
			b.WriteString(opStyle(op.Kind).Render(op.String()))
		}
	}

	fmt.Println(boxStyle.Render(b.String()))
}

func opStyle(kind memdom.OpKind) lipgloss.Style {
	switch kind {
	case memdom.OpCreate, memdom.OpInsert:
		return createdStyle
	case memdom.OpRemove:
		return removedStyle
	case memdom.OpMove:
		return movedStyle
	default:
		return dimStyle
	}
}
