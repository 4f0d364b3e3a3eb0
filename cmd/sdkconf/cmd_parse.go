package main

import (
	"fmt"

	"github.com/dhamidi/sdkconf/format"
	"github.com/spf13/cobra"
)

func newParseCmd(a *app) *cobra.Command {
	var dialectName string
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a snippet and print its options",
		Long: `Parse an SDK bootstrap snippet and print the options it sets.

The snippet is read from the file argument, or from standard input when the
argument is "-" or missing. The dialect is taken from --dialect, then from the
file extension, then from dialect.default in the config.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			p, err := a.parserFor(dialectName, path)
			if err != nil {
				return err
			}
			source, err := readSource(path)
			if err != nil {
				return err
			}

			enc, err := format.NewEncoder(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			res := p.Parse(source)
			if err := enc.Encode(res); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			if !res.Valid {
				return errInvalid
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dialectName, "dialect", "d", "", "dialect name or alias")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (json, line, text)")

	return cmd
}
