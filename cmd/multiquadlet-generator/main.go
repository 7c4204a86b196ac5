package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/poly-gun/multiquadlet"
)

func main() {
	var verbose bool

	command := &cobra.Command{
		Use:   "multiquadlet-generator normal-dir [early-dir] [late-dir]",
		Short: "Demultiplex *.multiquadlet documents and install quadlet target symlinks",
		Long: "multiquadlet-generator is a systemd generator wrapper around the podman quadlet generator. It splits composite *.multiquadlet documents\n" +
			"into discrete quadlet unit files, hands them to the quadlet generator, and materializes the [Install] sections of the resulting target\n" +
			"units as dependency symlinks. Scope (system vs. user) is taken from the SYSTEMD_SCOPE environment variable, as with other generators.",
		Args:          cobra.RangeArgs(1, 3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			scope := multiquadlet.ScopeFromEnvironment()
			input, staging, err := scope.Directories()
			if err != nil {
				return err
			}

			if _, err := os.Stat(input); errors.Is(err, fs.ErrNotExist) {
				logger.Warn("input directory does not exist, nothing to do", "path", input)
				return nil
			} else if err != nil {
				return err
			}

			generator := &multiquadlet.Generator{
				Input:   input,
				Staging: staging,
				Output:  args[0],
				Compile: multiquadlet.PodmanCompiler(scope, args[1:]...),
				Logger:  logger,
			}

			return generator.Run()
		},
	}

	command.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	if err := command.Execute(); err != nil {
		slog.Error("generator run failed", "error", err)
		os.Exit(1)
	}
}
