package cmd

import (
	"github.com/spf13/cobra"

	"github.com/frahmantamala/shift-scheduler/internal/seed"
	"github.com/frahmantamala/shift-scheduler/pkg/logger"
)

var (
	seedFile  string
	clearData bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Insert the default accounts, departments and shift templates. Running it twice changes nothing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}
		lg := logger.LoggerWrapper()

		fixture, err := seed.Load(seedFile)
		if err != nil {
			return err
		}

		gdb, sdb, err := initDB(cfg.Database)
		if err != nil {
			return err
		}
		defer sdb.Close()

		seeder := seed.NewSeeder(gdb, cfg.Security.BCryptCost, lg)
		if clearData {
			if err := seeder.Clear(cmd.Context()); err != nil {
				return err
			}
		}
		_, err = seeder.Apply(cmd.Context(), fixture)
		return err
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "YAML fixture; the built-in one is used when empty")
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")
}
