package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/miturka/FWinPhotoViewer/internal/config"
	"github.com/miturka/FWinPhotoViewer/internal/export"
	"github.com/miturka/FWinPhotoViewer/internal/favorites"
	"github.com/miturka/FWinPhotoViewer/internal/gui"
	"github.com/miturka/FWinPhotoViewer/internal/log"
	"github.com/miturka/FWinPhotoViewer/internal/scan"
	"github.com/miturka/FWinPhotoViewer/internal/viewer"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
)

// Entry point for the application
func main() {
	var debug bool

	rootCmd := &cobra.Command{
		Use:     "fwinphotoviewer [directory]",
		Short:   "A desktop photo browser",
		Long:    `FWinPhotoViewer browses the images of a folder one at a time, remembers your favorites across sessions and exports them without ever overwriting a file.`,
		Version: version,
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				log.SetDebug(true)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			startDir := ""
			if len(args) > 0 {
				startDir = args[0]
			}
			return runGUI(startDir)
		},
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(guiCmd())
	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(favoritesCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// loadConfigOrDefault loads the user configuration, falling back to the
// defaults when no usable file exists.
func loadConfigOrDefault() *config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Warning: Could not load config: %v. Using default settings.\n", err)
		cfg = config.New()
	}
	if cfg.Settings.Debug {
		log.SetDebug(true)
	}
	return cfg
}

func buildCore(cfg *config.Config) (*viewer.Viewer, error) {
	scanner, err := scan.New(cfg.Settings.ExcludePatterns...)
	if err != nil {
		return nil, err
	}
	return viewer.New(scanner, favorites.NewStore()), nil
}

// runGUI launches the GUI directly
func runGUI(startDir string) error {
	cfg := loadConfigOrDefault()
	if startDir != "" {
		abs, err := filepath.Abs(startDir)
		if err != nil {
			return fmt.Errorf("error resolving directory: %w", err)
		}
		cfg.Settings.StartDirectory = abs
	}

	core, err := buildCore(cfg)
	if err != nil {
		return err
	}

	guiApp := gui.NewApp(cfg, core)
	guiApp.Run()
	return nil
}

// guiCmd creates the GUI command for the CLI
func guiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gui [directory]",
		Short: "Open the photo browser window",
		Long:  `Open the photo browser window, optionally starting in the given directory. Running without a subcommand does the same.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			startDir := ""
			if len(args) > 0 {
				startDir = args[0]
			}
			return runGUI(startDir)
		},
	}
}

// scanCmd lists the supported images of a directory
func scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan [directory]",
		Short: "List the images in a directory",
		Long:  `List the supported image files in a directory, in the order the browser shows them.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			cfg := loadConfigOrDefault()

			scanner, err := scan.New(cfg.Settings.ExcludePatterns...)
			if err != nil {
				return err
			}
			files, err := scanner.Images(dir)
			if err != nil {
				return fmt.Errorf("error scanning directory: %w", err)
			}

			if len(files) == 0 {
				fmt.Println("No supported images found.")
				return nil
			}
			for _, f := range files {
				fmt.Println(f)
			}
			fmt.Printf("\n%d images\n", len(files))
			return nil
		},
	}
}

// favoritesCmd lists the persisted favorites
func favoritesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "favorites",
		Short: "List the favorited images",
		Long:  `List every favorited image path in the persisted set, across all folders.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := favorites.NewStore()
			favs := store.All()
			if len(favs) == 0 {
				fmt.Println("No favorites yet.")
				return nil
			}
			for _, f := range favs {
				fmt.Println(f)
			}
			fmt.Printf("\n%d favorites\n", len(favs))
			return nil
		},
	}
}

// exportCmd copies the favorites of one folder into a destination
func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <folder> <destination>",
		Short: "Export the favorites of a folder",
		Long:  `Copy the favorited images that live in the given folder into the destination directory. Existing files are never overwritten; copies get a numeric suffix instead.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("error resolving folder: %w", err)
			}
			destination := args[1]

			store := favorites.NewStore()
			result, err := export.New().Run(store.All(), folder, destination)
			if err != nil {
				return fmt.Errorf("error exporting favorites: %w", err)
			}

			for _, f := range result.Files {
				switch {
				case f.Copied:
					fmt.Printf("  - %s -> %s\n", f.SourcePath, f.DestinationPath)
				case f.Error != nil:
					fmt.Printf("  - %s (error: %v)\n", f.SourcePath, f.Error)
				default:
					fmt.Printf("  - %s (skipped, missing)\n", f.SourcePath)
				}
			}
			fmt.Printf("\nExport complete: %s\n", result.Summary())
			return nil
		},
	}
}
