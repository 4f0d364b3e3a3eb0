package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dhamidi/sdkconf/parser"
	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	var dialectName string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate [file...]",
		Short: "Check that snippets contain a well-formed bootstrap call",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"-"}
			}

			failed := false
			report := make(map[string]parser.Validation, len(args))
			for _, path := range args {
				p, err := a.parserFor(dialectName, path)
				if err != nil {
					return err
				}
				source, err := readSource(path)
				if err != nil {
					return err
				}
				v := p.Validate(source)
				if !v.Valid {
					failed = true
				}
				if asJSON {
					report[path] = v
					continue
				}
				printValidation(cmd.OutOrStdout(), path, v)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				var out any = report
				if len(args) == 1 {
					out = report[args[0]]
				}
				if err := enc.Encode(out); err != nil {
					return fmt.Errorf("encode: %w", err)
				}
			}
			if failed {
				return errInvalid
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dialectName, "dialect", "d", "", "dialect name or alias")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the validation result as JSON")

	return cmd
}

func printValidation(w io.Writer, path string, v parser.Validation) {
	name := path
	if name == "-" {
		name = "<stdin>"
	}
	if v.Valid {
		fmt.Fprintf(w, "%s: ok\n", name)
		return
	}
	for _, e := range v.Errors {
		if e.Localized() {
			fmt.Fprintf(w, "%s:%s\n", name, e.Error())
		} else {
			fmt.Fprintf(w, "%s: %s\n", name, e.Error())
		}
	}
}
