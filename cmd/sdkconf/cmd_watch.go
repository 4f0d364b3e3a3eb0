package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dhamidi/sdkconf/format"
	"github.com/dhamidi/sdkconf/project"
	"github.com/dhamidi/sdkconf/watch"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "watch [path...]",
		Short: "Re-parse snippet files whenever they change",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			enc, err := format.NewEncoder(outputFormat, os.Stdout)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			debounce := time.Duration(a.cfg.Watch.DebounceMs) * time.Millisecond
			w, err := watch.New(debounce)
			if err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}
			for _, path := range args {
				if err := w.Add(path); err != nil {
					return fmt.Errorf("watch %s: %w", path, err)
				}
				info, err := os.Stat(path)
				if err != nil || !info.IsDir() {
					continue
				}
				proj, err := project.LoadFrom(ctx, path)
				if err != nil {
					return err
				}
				if err := printProject(proj, false); err != nil && !errors.Is(err, errInvalid) {
					return err
				}
			}

			go func() {
				for ev := range w.Events() {
					switch {
					case ev.Err != nil:
						fmt.Fprintf(os.Stderr, "%s: %v\n", ev.Path, ev.Err)
					case ev.Removed:
						fmt.Printf("%s: removed\n", ev.Path)
					default:
						fmt.Printf("%s\n", ev.Path)
						if err := enc.Encode(ev.Result); err != nil {
							fmt.Fprintf(os.Stderr, "%s: %v\n", ev.Path, err)
						}
					}
				}
			}()

			fmt.Fprintf(os.Stderr, "watching %d path(s), press Ctrl-C to stop\n", len(args))
			return w.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (json, line, text)")

	return cmd
}
