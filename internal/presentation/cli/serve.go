package cli

import (
	"fmt"

	"github.com/mirola777/payhook/internal/application"
	gormdb "github.com/mirola777/payhook/internal/infrastructure/gorm"
	echoserver "github.com/mirola777/payhook/internal/presentation/echo"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var skipMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.close()

			if !skipMigrate {
				if err := gormdb.RunMigrations(rt.db, rt.log); err != nil {
					return fmt.Errorf("run migrations: %w", err)
				}
			}

			container, err := application.NewContainer(rt.db, rt.cfg, rt.log)
			if err != nil {
				return fmt.Errorf("build container: %w", err)
			}

			server := echoserver.NewServer(rt.cfg, container, rt.log)
			for err := range server.Start() {
				if err != nil {
					return fmt.Errorf("server: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "start without applying pending migrations")
	return cmd
}
