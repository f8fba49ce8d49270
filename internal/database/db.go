package database

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/justsurfingit/careerkit/internal/logging"
	"github.com/justsurfingit/careerkit/internal/models"
)

// Connect opens the database named by dsn and migrates the schema. Postgres
// URLs and key=value DSNs go to Postgres; anything else is a sqlite path.
func Connect(dsn string, log *zap.Logger) (*gorm.DB, error) {
	log = logging.OrNop(log)

	db, err := gorm.Open(dialector(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("database connection established", zap.String("driver", db.Dialector.Name()))

	log.Debug("running migrations")
	if err := db.AutoMigrate(&models.Analysis{}, &models.StudentResult{}, &models.IndustryDemand{}, &models.Run{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

func dialector(dsn string) gorm.Dialector {
	if IsPostgres(dsn) {
		return postgres.Open(dsn)
	}
	return sqlite.Open(dsn)
}

// IsPostgres reports whether dsn names a Postgres server.
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}
