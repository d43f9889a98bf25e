package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/internal/report"
	"github.com/vango-dev/reactor/internal/scenario"
)

func benchCmd() *cobra.Command {
	var (
		size   int
		rounds int
		seed   uint64
		upload uploadFlags
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Patch shuffled keyed lists and report op counts",
		Long: `Mount a keyed list and patch it through random permutations. Each
round also swaps about a tenth of the keys for new ones.

Examples:
  reactor bench
  reactor bench --size 5000 --rounds 20 --seed 7
  reactor bench --upload s3://perf-runs/reactor/bench.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if size <= 0 || rounds <= 0 {
				return errors.New("X001").
					WithDetail("--size and --rounds must be positive")
			}
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}

			info("%d items, %d rounds, seed %d", size, rounds, seed)
			res := scenario.Bench(size, rounds, seed)

			fmt.Println()
			fmt.Println(boxStyle.Render(fmt.Sprintf("%s\n\n%s  %s  %s\n%s %s   %s %s",
				titleStyle.Render("bench"),
				createdStyle.Render(fmt.Sprintf("+%d created", res.Created)),
				removedStyle.Render(fmt.Sprintf("-%d removed", res.Removed)),
				movedStyle.Render(fmt.Sprintf("~%d moved", res.Moved)),
				dimStyle.Render("mean"), res.Mean(),
				dimStyle.Render("slowest"), res.Slowest,
			)))
			success("moves per round: %.1f", float64(res.Moved)/float64(res.Rounds))
			return upload.publish(cmd, report.FromBench(res, seed, version))
		},
	}

	cmd.Flags().IntVarP(&size, "size", "n", 1000, "Number of list items")
	cmd.Flags().IntVarP(&rounds, "rounds", "r", 10, "Number of patches")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (default: time based)")
	upload.register(cmd)

	return cmd
}
