package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/studynotes/internal/extract"
)

func extractCmd(a *app) *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "extract <pdf|url>",
		Short: "Print the text extracted from a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, text, err := a.loadDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !full {
				text = extract.Preview(text, a.cfg.Extractor.PreviewChars)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "print the whole text instead of the preview")
	return cmd
}
