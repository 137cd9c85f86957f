package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"riverwalk/internal/config"
	"riverwalk/internal/store"
	"riverwalk/internal/survey"
)

var seedCmd = &cobra.Command{
	Use:   "seed [walk-id]",
	Short: "Store a demo survey for trying out the renderer",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		walk := "walk-123"
		if len(args) == 1 {
			walk = args[0]
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if dir := filepath.Dir(cfg.Store.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Save(cmd.Context(), survey.Demo(walk)); err != nil {
			return err
		}
		fmt.Printf("seeded survey %s\n", walk)
		return nil
	},
}
