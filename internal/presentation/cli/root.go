package cli

import (
	"fmt"

	gormdb "github.com/mirola777/payhook/internal/infrastructure/gorm"
	"github.com/mirola777/payhook/internal/utils/config"
	"github.com/mirola777/payhook/internal/utils/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "payhook",
		Short:         "payhook - payment webhook consistency service",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(serveCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(reconcileCmd())
	return root
}

func Execute(version string) error {
	return NewRootCmd(version).Execute()
}

type runtime struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func bootstrap() (*runtime, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	db, err := gormdb.NewConnection(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return &runtime{cfg: cfg, log: log, db: db}, nil
}

func (r *runtime) close() {
	_ = gormdb.Close(r.db)
	_ = r.log.Sync()
}
