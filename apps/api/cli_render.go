package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newRenderCommand() *cobra.Command {
	var asText bool

	cmd := &cobra.Command{
		Use:   "render [submission.json]",
		Short: "Print the email a JSON submission would produce, without sending it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				input = f
			}

			sub, err := decodeJSONSubmission(input)
			if err != nil {
				return err
			}

			body := formatApplicationHTML(sub)
			if asText {
				body = formatApplicationText(sub)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Subject: %s\n\n%s\n", applicationSubject(sub), body)
			return err
		},
	}
	cmd.Flags().BoolVar(&asText, "text", false, "print the plain-text body instead of HTML")
	return cmd
}
