package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vadimtrunov/KodiMate/internal/config"
)

func newScanCmd() *cobra.Command {
	var show string
	var directory string
	var clean bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Trigger a library scan",
		Long: "Trigger a Kodi library scan. By default the whole library is\n" +
			"scanned; --show scans only that show's directory, --directory a\n" +
			"specific path. --clean removes entries whose files are gone instead\n" +
			"of scanning.",
		RunE: func(_ *cobra.Command, _ []string) error {
			if show != "" && directory != "" {
				return fmt.Errorf("--show and --directory are mutually exclusive")
			}
			if clean && (show != "" || directory != "") {
				return fmt.Errorf("--clean cannot be combined with --show or --directory")
			}
			return runScan(show, directory, clean)
		},
	}
	cmd.Flags().StringVarP(&show, "show", "s", "", "scan only this TV show's directory")
	cmd.Flags().StringVarP(&directory, "directory", "d", "", "scan only this directory")
	cmd.Flags().BoolVar(&clean, "clean", false, "remove library entries whose files no longer exist")
	return cmd
}

func runScan(show, directory string, clean bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger := config.SetupLogger(cfg.App.LogLevel)
	_, svc, err := initServices(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if clean {
		if err := svc.CleanLibrary(ctx); err != nil {
			return fmt.Errorf("clean library: %w", err)
		}
		fmt.Println(styleSuccess.Render("Library clean started."))
		return nil
	}

	if show != "" {
		dir, err := svc.ScanShow(ctx, show)
		if err != nil {
			return fmt.Errorf("scan show: %w", err)
		}
		fmt.Println(styleSuccess.Render("Scan started for " + dir))
		return nil
	}

	if err := svc.UpdateLibrary(ctx, directory); err != nil {
		return fmt.Errorf("scan library: %w", err)
	}
	if directory != "" {
		fmt.Println(styleSuccess.Render("Scan started for " + directory))
	} else {
		fmt.Println(styleSuccess.Render("Full library scan started. This may take a few minutes."))
	}
	return nil
}
