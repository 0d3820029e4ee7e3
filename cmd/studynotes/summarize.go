package main

import (
	"github.com/spf13/cobra"
)

func summarizeCmd(a *app) *cobra.Command {
	var out output

	cmd := &cobra.Command{
		Use:   "summarize <pdf|url>",
		Short: "Generate a structured summary of a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.validate(); err != nil {
				return err
			}
			name, text, err := a.loadDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			res, err := a.service().Summarize(cmd.Context(), name, text)
			if err != nil {
				return err
			}
			return out.emit(cmd.OutOrStdout(), cmd.ErrOrStderr(), name, res.Value, res.Err)
		},
	}
	cmd.Flags().StringVar(&out.format, "format", "text", "output format: text|json")
	cmd.Flags().StringVarP(&out.outDir, "out", "o", "", "write <document>_summary.json into this directory")
	return cmd
}
