package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/studynotes/internal/study"
)

func quizCmd(a *app) *cobra.Command {
	var out output
	var quizType string
	var n int

	cmd := &cobra.Command{
		Use:   "quiz <pdf|url>",
		Short: "Generate multiple-choice or mixed-format questions from a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.validate(); err != nil {
				return err
			}
			if quizType != "mcq" && quizType != "mixed" {
				return fmt.Errorf("unknown quiz type %q (want mcq|mixed)", quizType)
			}
			if err := a.checkCount(n); err != nil {
				return err
			}
			name, text, err := a.loadDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			svc := a.service()
			var req study.Request = study.MCQRequest{Count: n}
			if quizType == "mixed" {
				req = study.SplitMixed(n)
			}
			res, err := svc.Generate(cmd.Context(), req, text)
			if err != nil {
				return err
			}
			return out.emit(cmd.OutOrStdout(), cmd.ErrOrStderr(), name, res.Value, res.Err)
		},
	}
	cmd.Flags().StringVar(&quizType, "type", "mcq", "quiz type: mcq|mixed")
	cmd.Flags().IntVarP(&n, "num", "n", 5, "number of questions (total for mixed)")
	cmd.Flags().StringVar(&out.format, "format", "text", "output format: text|json")
	cmd.Flags().StringVarP(&out.outDir, "out", "o", "", "write <document>_<kind>.json into this directory")
	return cmd
}
