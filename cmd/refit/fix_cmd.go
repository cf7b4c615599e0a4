package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/cloudcmds/refit/corpus"
	"github.com/cloudcmds/refit/fix"
	"github.com/cloudcmds/refit/oracle"
	"github.com/cloudcmds/refit/synth"
)

func newFixCommand() *cobra.Command {
	var (
		corpusPath  string
		mode        string
		interpreter string
		timeout     time.Duration
		parallel    int
		leaveOneOut bool
	)
	cmd := &cobra.Command{
		Use:   "fix BROKEN",
		Short: "Repair a broken submission using programs learned from a corpus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ranking, err := rankingFromMode(mode)
			if err != nil {
				return err
			}
			brokenSrc, err := readSource(args[0])
			if err != nil {
				return err
			}
			file, err := corpus.Load(corpusPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			clusters, err := file.BuildClusters(ctx)
			if err != nil {
				return err
			}

			logger := newLogger()
			learner := synth.NewLearner(
				synth.WithRanking(ranking),
				synth.WithLogger(logger),
			)
			runner := oracle.NewRunner(
				oracle.WithInterpreter(interpreter),
				oracle.WithTimeout(timeout),
				oracle.WithLogger(logger),
			)
			options := []fix.FixerOption{
				fix.WithLearner(learner),
				fix.WithLogger(logger),
				fix.WithParallelism(parallel),
			}
			if leaveOneOut {
				options = append(options, fix.WithLeaveOneOut())
			}
			if file.StaticTests != nil {
				options = append(options, fix.WithStaticTests(*file.StaticTests))
			}
			fixer := fix.NewFixer(runner, options...)
			if err := fixer.Learn(clusters); err != nil {
				logger.Warn().Err(err).Msg("some clusters were skipped")
			}

			fixed, ok, err := fixer.Fix(ctx, brokenSrc, file.Tests)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), failure("no fix found"))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), success("fixed:"))
			fmt.Fprintln(cmd.OutOrStdout(), fixed)

			counts := fixer.UsedPrograms().Counts()
			if len(counts) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), heading("Programs used:"))
				keys := make([]string, 0, len(counts))
				for k := range counts {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					fmt.Fprintf(cmd.OutOrStdout(), "%4d  %s\n", counts[k], k)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&corpusPath, "corpus", "", "Corpus file with clusters, tests, and static tests")
	cmd.Flags().StringVar(&mode, "ranking", "specific", "Ranking mode: specific or general")
	cmd.Flags().StringVar(&interpreter, "interpreter", oracle.DefaultInterpreter[0], "Interpreter used to run tests")
	cmd.Flags().DurationVar(&timeout, "timeout", oracle.DefaultTimeout, "Per-candidate test time budget")
	cmd.Flags().IntVar(&parallel, "parallel", 1, "How many programs to try concurrently")
	cmd.Flags().BoolVar(&leaveOneOut, "leave-one-out", false, "Re-learn without the submission when it is part of a cluster")
	if err := cmd.MarkFlagRequired("corpus"); err != nil {
		panic(err)
	}
	return cmd
}
