package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloudcmds/refit/fix"
	"github.com/cloudcmds/refit/parser"
	"github.com/cloudcmds/refit/synth"
)

// rankingFromMode translates the --ranking flag into a ranking
// configuration.
func rankingFromMode(mode string) (synth.RankingScore, error) {
	switch mode {
	case "specific":
		return synth.SpecificRanking(), nil
	case "general":
		return synth.GeneralRanking(), nil
	default:
		return synth.RankingScore{}, fmt.Errorf("unknown ranking mode %q (want specific or general)", mode)
	}
}

func newLearnCommand() *cobra.Command {
	var (
		mode string
		topK int
	)
	cmd := &cobra.Command{
		Use:   "learn BEFORE AFTER",
		Short: "Learn a transformation from one before/after example pair",
		Long: "Learn a transformation from a before/after example pair and " +
			"report whether the top-ranked program reproduces the after " +
			"program from the before program.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ranking, err := rankingFromMode(mode)
			if err != nil {
				return err
			}
			beforeSrc, err := readSource(args[0])
			if err != nil {
				return err
			}
			afterSrc, err := readSource(args[1])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			before, err := parser.Parse(ctx, beforeSrc, parser.WithFilename(args[0]))
			if err != nil {
				return err
			}
			after, err := parser.Parse(ctx, afterSrc, parser.WithFilename(args[1]))
			if err != nil {
				return err
			}

			learner := synth.NewLearner(
				synth.WithRanking(ranking),
				synth.WithTopK(topK),
				synth.WithLogger(newLogger()),
			)
			programs, err := learner.Learn([]synth.Example{{Before: before, After: after}})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), heading("Learned programs:"))
			for i, p := range programs {
				fmt.Fprintf(cmd.OutOrStdout(), "%3d. [%5d] %s\n", i+1, p.Score, p)
			}

			reproduced := false
			for _, candidate := range programs[0].Apply(before) {
				if fix.SameSource(candidate.String(), after.String()) {
					reproduced = true
					break
				}
			}
			if reproduced {
				fmt.Fprintln(cmd.OutOrStdout(), success("The top program reproduces the after program."))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), failure("The top program does not reproduce the after program."))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "ranking", "specific", "Ranking mode: specific or general")
	cmd.Flags().IntVar(&topK, "top-k", synth.DefaultTopK, "How many ranked programs to keep")
	return cmd
}
