package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/extracto-dev/extracto/internal/config"
)

func newInitCommand() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize an extracto workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir, year); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized extracto workspace at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "reference year for statement dates (default: current year)")

	return cmd
}

func runInit(dir string, year int) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	cfg := config.Default()
	cfg.ReferenceYear = year
	dataDir := cfg.DataPath(dir)

	// Create directory structure.
	dirs := []string{
		dataDir,
		filepath.Join(dataDir, "logs"),
		filepath.Join(dataDir, "import"),
		filepath.Join(dataDir, "import", "processed"),
		cfg.ExportPath(dir),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	gitignore := "data/\nexports/\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	return nil
}
