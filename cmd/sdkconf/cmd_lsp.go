package main

import (
	"github.com/dhamidi/sdkconf/lsp"
	"github.com/spf13/cobra"
)

func newLSPCmd(a *app) *cobra.Command {
	var tcp string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start a language server that reports bootstrap snippet errors and
warnings as diagnostics while documents are edited. Documents whose language
is not recognized are parsed with dialect.default from the config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := lsp.NewServer(version, a.cfg.Dialect.Default)
			if tcp != "" {
				return server.RunTCP(tcp)
			}
			return server.RunStdio()
		},
	}

	cmd.Flags().StringVar(&tcp, "tcp", "", "listen on this TCP address instead of stdio")

	return cmd
}
