package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/locddhe176242/G174---MMS-sub001/internal/infrastructure/config"
	"github.com/locddhe176242/G174---MMS-sub001/internal/infrastructure/logger"
	"github.com/locddhe176242/G174---MMS-sub001/internal/infrastructure/persistence"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	var (
		driver   string
		dsn      string
		logLevel string
		dryRun   bool
	)

	flag.StringVar(&driver, "driver", "postgres", "Database driver (postgres, sqlite)")
	flag.StringVar(&dsn, "dsn", "", "Connection string (default: built from config)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&dryRun, "dry-run", false, "Print the tables that would be migrated and exit")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	models := persistence.MigrationModels()

	if dryRun {
		for _, m := range models {
			if t, ok := m.(interface{ TableName() string }); ok {
				fmt.Println(t.TableName())
			}
		}
		return
	}

	db, err := open(driver, dsn, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.String("driver", driver), zap.Error(err))
	}

	log.Info("Running schema migration", zap.String("driver", driver), zap.Int("tables", len(models)))
	if err := persistence.Migrate(db); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}
	log.Info("Migration complete")
}

// open connects with the requested driver. The sqlite driver exists for
// local development and smoke tests; production schemas run on postgres.
func open(driver, dsn string, log *zap.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: logger.NewGormLogger(log, gormlogger.Warn),
	}

	switch driver {
	case "postgres":
		if dsn == "" {
			cfg, err := config.Load()
			if err != nil {
				return nil, fmt.Errorf("load config: %w", err)
			}
			dsn = cfg.Database.DSN()
		}
		return gorm.Open(postgres.Open(dsn), gormCfg)
	case "sqlite":
		if dsn == "" {
			dsn = "fulfillment.db"
		}
		return gorm.Open(sqlite.Open(dsn), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}
