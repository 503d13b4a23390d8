package cli

import (
	"fmt"

	gormdb "github.com/mirola777/payhook/internal/infrastructure/gorm"
	"github.com/mirola777/payhook/internal/infrastructure/gorm/migrations"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.close()

			if !status {
				if err := gormdb.RunMigrations(rt.db, rt.log); err != nil {
					return fmt.Errorf("run migrations: %w", err)
				}
			}

			applied, err := migrations.Applied(rt.db)
			if err != nil {
				return fmt.Errorf("list migrations: %w", err)
			}
			for _, id := range applied {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&status, "status", false, "list applied migrations without applying new ones")
	return cmd
}
