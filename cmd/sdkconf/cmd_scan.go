package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/dhamidi/sdkconf/format"
	"github.com/dhamidi/sdkconf/project"
	"github.com/spf13/cobra"
)

func newScanCmd(a *app) *cobra.Command {
	var details bool

	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Find and parse every bootstrap snippet below a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			proj, err := project.LoadFrom(cmd.Context(), root)
			if err != nil {
				return err
			}
			return printProject(proj, details)
		},
	}

	cmd.Flags().BoolVarP(&details, "details", "D", false, "print the options of every file")

	return cmd
}

func printProject(proj *project.Project, details bool) error {
	enc := format.NewTextEncoder(os.Stdout)
	for _, f := range proj.Files {
		fmt.Printf("%s\n", proj.Rel(f))
		if details || !f.Result.Valid {
			if err := enc.Encode(f.Result); err != nil {
				return err
			}
		}
	}

	counts := proj.Dialects()
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("\n%d files with a bootstrap call", len(proj.Files))
	for _, name := range names {
		fmt.Printf(", %s: %d", name, counts[name])
	}
	fmt.Println()

	if invalid := proj.Invalid(); len(invalid) > 0 {
		fmt.Printf("%d invalid\n", len(invalid))
		return errInvalid
	}
	return nil
}
