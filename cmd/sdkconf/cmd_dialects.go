package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dhamidi/sdkconf/dialect"
	"github.com/spf13/cobra"
)

func newDialectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List the supported dialects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTITLE\tALIASES\tEXTENSIONS")
			for _, t := range dialect.All() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					t.Name, t.Title,
					orDash(strings.Join(t.Aliases, ",")),
					orDash(strings.Join(t.Extensions, ",")))
			}
			return w.Flush()
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
