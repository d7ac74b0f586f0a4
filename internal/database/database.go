package database

import (
	"fmt"
	"strings"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/intentified/web/internal/config"
	"github.com/intentified/web/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Dialect names the SQL flavour behind a DSN.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
)

// DetectDialect picks the driver for dsn. URL-style and key/value DSNs go to
// Postgres, go-sql-driver DSNs to MySQL.
func DetectDialect(dsn string) (Dialect, error) {
	trimmed := strings.TrimSpace(dsn)
	lower := strings.ToLower(trimmed)
	switch {
	case trimmed == "":
		return "", fmt.Errorf("empty dsn")
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return DialectPostgres, nil
	case strings.Contains(lower, "host=") && !strings.Contains(lower, "@tcp("):
		return DialectPostgres, nil
	}
	if _, err := mysqlDriver.ParseDSN(trimmed); err != nil {
		return "", fmt.Errorf("unrecognized dsn: %w", err)
	}
	return DialectMySQL, nil
}

// Connect opens the hosted store. The schema is owned by the processing
// pipeline, so no migration runs here.
func Connect(cfg *config.AppConfig, log *zap.Logger) (*gorm.DB, error) {
	dialect, err := DetectDialect(cfg.Store.DSN)
	if err != nil {
		return nil, fmt.Errorf("store dsn: %w", err)
	}

	var dialector gorm.Dialector
	switch dialect {
	case DialectPostgres:
		dialector = postgres.New(postgres.Config{
			DSN: cfg.Store.DSN,
			// Pooled connections in front of the hosted store reject
			// server-side prepared statements.
			PreferSimpleProtocol: true,
		})
	case DialectMySQL:
		dialector = mysql.New(mysql.Config{
			DSN:               cfg.Store.DSN,
			DefaultStringSize: 191,
		})
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(resolveLogLevel(cfg)),
	})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	log.Info("store connected", zap.String("dialect", string(dialect)), zap.String("target", Redact(cfg.Store.DSN)))
	return db, nil
}

// Redact returns a printable form of dsn without credentials.
func Redact(dsn string) string {
	dialect, err := DetectDialect(dsn)
	if err != nil {
		return "<invalid>"
	}
	if dialect == DialectMySQL {
		parsed, err := mysqlDriver.ParseDSN(dsn)
		if err != nil {
			return "<invalid>"
		}
		return parsed.Net + "(" + parsed.Addr + ")/" + parsed.DBName
	}
	if at := strings.LastIndex(dsn, "@"); at >= 0 {
		if scheme := strings.Index(dsn, "://"); scheme >= 0 && scheme < at {
			return dsn[:scheme+3] + "***" + dsn[at:]
		}
	}
	return "postgres(" + keyValue(dsn, "host") + ")/" + keyValue(dsn, "dbname")
}

func keyValue(dsn, key string) string {
	for _, field := range strings.Fields(dsn) {
		if k, v, ok := strings.Cut(field, "="); ok && k == key {
			return v
		}
	}
	return ""
}

func resolveLogLevel(cfg *config.AppConfig) logger.LogLevel {
	if cfg.IsDev() {
		return logger.Info
	}
	return logger.Warn
}

// Tables lists the models read by the dashboard, used by test fixtures that
// need a local schema.
func Tables() []interface{} {
	return []interface{}{
		&models.Document{},
		&models.ProcessingTask{},
		&models.DocumentChunk{},
		&models.DocumentEntity{},
	}
}
