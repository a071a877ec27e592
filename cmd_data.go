package main

import (
	"fmt"
	"os"

	"github.com/junaidrashid-git/farmfresh-api/database"
	"github.com/junaidrashid-git/farmfresh-api/seed"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedFile string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)
		zlog.Info("✅ migrations applied")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo farmers and products",
	Long:  "Loads the built-in demo catalog, or --file. Farmers that already exist by name are left alone.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		data := seed.Default()
		if seedFile != "" {
			b, err := os.ReadFile(seedFile)
			if err != nil {
				return fmt.Errorf("read seed file: %w", err)
			}
			data = b
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		res, err := seed.Load(cmd.Context(), db, data, zlog)
		if err != nil {
			return err
		}
		zlog.Info("✅ seed complete",
			zap.Int("farmers_created", res.FarmersCreated),
			zap.Int("farmers_skipped", res.FarmersSkipped),
			zap.Int("products_created", res.ProductsCreated),
		)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "YAML seed file (defaults to the built-in catalog)")
}
