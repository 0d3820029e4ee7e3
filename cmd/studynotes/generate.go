package main

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/thywilljoshua/studynotes/internal/study"
)

func generateCmd(a *app) *cobra.Command {
	var out output
	var n int

	cmd := &cobra.Command{
		Use:   "generate <pdf|url>",
		Short: "Generate the summary, MCQs and mixed quiz for a PDF in one go",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.validate(); err != nil {
				return err
			}
			if err := a.checkCount(n); err != nil {
				return err
			}
			name, text, err := a.loadDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			svc := a.service()
			var (
				summary study.Result[study.Summary]
				mcqs    study.Result[study.MCQSet]
				mixed   study.Result[study.MixedQuiz]
			)
			split := study.SplitMixed(n)

			// Contained failures come back inside each Result; only errors that
			// must stop the run (configuration, invalid input) cancel the group.
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() (err error) {
				summary, err = svc.Summarize(ctx, name, text)
				return err
			})
			g.Go(func() (err error) {
				mcqs, err = svc.GenerateMCQs(ctx, text, n)
				return err
			})
			g.Go(func() (err error) {
				mixed, err = svc.GenerateMixedQuiz(ctx, text, split.MCQ, split.TrueFalse, split.ShortAnswer)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			w, errw := cmd.OutOrStdout(), cmd.ErrOrStderr()
			if err := out.emit(w, errw, name, summary.Value, summary.Err); err != nil {
				return err
			}
			if err := out.emit(w, errw, name, mcqs.Value, mcqs.Err); err != nil {
				return err
			}
			return out.emit(w, errw, name, mixed.Value, mixed.Err)
		},
	}
	cmd.Flags().IntVarP(&n, "num", "n", 5, "number of MCQs, and total questions for the mixed quiz")
	cmd.Flags().StringVar(&out.format, "format", "text", "output format: text|json")
	cmd.Flags().StringVarP(&out.outDir, "out", "o", "", "write the three JSON exports into this directory")
	return cmd
}
