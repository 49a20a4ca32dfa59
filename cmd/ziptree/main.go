package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ziptree/ziptree/internal/archive"
	"github.com/ziptree/ziptree/internal/config"
	"github.com/ziptree/ziptree/internal/event"
	"github.com/ziptree/ziptree/internal/stats"
	"github.com/ziptree/ziptree/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		createFlag  bool
		extractFlag bool
		archivePath string
		verbose     bool
		verifyFlag  bool
		showVersion bool
	)

	rootCmd := &cobra.Command{
		Use:   "ziptree {-cf|-xf} <archive> <directory>",
		Short: "Pack a directory tree into a zip archive, or unpack one",
		Args: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				return nil
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(os.Stdout, "ziptree %s\n", version)
				return nil
			}

			if createFlag == extractFlag {
				return errors.New("exactly one of -c or -x is required")
			}
			if archivePath == "" {
				return errors.New("an archive path is required (-f)")
			}
			dir := args[0]

			// Usage is only helpful for the flag mistakes above; from here
			// on failures are operational.
			cmd.SilenceUsage = true

			// Load optional config file.
			cfg, err := config.Load()
			if err != nil {
				slog.Warn("failed to load config", "error", err)
			}
			applyConfigDefaults(cmd, cfg.Defaults, &verbose, &verifyFlag)

			// Configure logging.
			logLevel := slog.LevelWarn
			if verbose {
				logLevel = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: logLevel,
			}))
			slog.SetDefault(logger)

			if createFlag {
				info, statErr := os.Stat(dir)
				if statErr != nil {
					return fmt.Errorf("create %s: %w", archivePath, statErr)
				}
				if !info.IsDir() {
					return fmt.Errorf("create %s: %s is not a directory", archivePath, dir)
				}
			}

			mode := ui.ModePack
			if extractFlag {
				mode = ui.ModeUnpack
			}

			collector := stats.NewCollector()
			events := make(chan event.Event, 256)

			presenter := ui.NewPresenter(ui.Config{
				Writer:    os.Stdout,
				ErrWriter: os.Stderr,
				Stats:     collector,
				Mode:      mode,
				Root:      dir,
				IsTTY:     ui.IsTTY(os.Stderr.Fd()),
				Verbose:   verbose,
			})

			var presenterErr error
			var presenterWg sync.WaitGroup
			presenterWg.Add(1)
			go func() {
				defer presenterWg.Done()
				presenterErr = presenter.Run(events)
			}()

			var opErr error
			if createFlag {
				slog.Debug("packing", "src", dir, "archive", archivePath, "verify", verifyFlag)
				opErr = archive.Pack(archive.PackConfig{
					SrcRoot:     dir,
					ArchivePath: archivePath,
					Verify:      verifyFlag,
					Events:      events,
					Stats:       collector,
				})
				if opErr != nil {
					opErr = fmt.Errorf("create %s: %w", archivePath, opErr)
				}
			} else {
				slog.Debug("unpacking", "archive", archivePath, "dst", dir)
				opErr = archive.Unpack(archive.UnpackConfig{
					ArchivePath: archivePath,
					DstRoot:     dir,
					Events:      events,
					Stats:       collector,
				})
				if opErr != nil {
					opErr = fmt.Errorf("extract %s: %w", archivePath, opErr)
				}
			}

			close(events)
			presenterWg.Wait()
			if presenterErr != nil {
				fmt.Fprintf(os.Stderr, "presenter: %v\n", presenterErr)
			}

			summary := presenter.Summary()
			if summary != "" {
				fmt.Fprintln(os.Stderr, summary)
			}

			return opErr
		},
	}

	// Version flag handled in RunE, but also register the flag.
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")

	rootCmd.Flags().BoolVarP(&createFlag, "create", "c", false, "pack <directory> into the archive")
	rootCmd.Flags().BoolVarP(&extractFlag, "extract", "x", false, "unpack the archive into <directory>")
	rootCmd.Flags().StringVarP(&archivePath, "file", "f", "", "archive path")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().BoolVar(&verifyFlag, "verify", false, "verify packed entries against the source tree (BLAKE3)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ziptree: %v\n", err)
		return 1
	}

	return 0
}

// applyConfigDefaults applies config file defaults for flags not explicitly set on the CLI.
func applyConfigDefaults(cmd *cobra.Command, defaults config.DefaultsConfig, verbose, verify *bool) {
	if !cmd.Flags().Changed("verbose") && defaults.Verbose != nil {
		*verbose = *defaults.Verbose
	}
	if !cmd.Flags().Changed("verify") && defaults.Verify != nil {
		*verify = *defaults.Verify
	}
}
