package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/transcriptgraph/internal/platform/envutil"
	"github.com/yungbote/transcriptgraph/internal/platform/logger"
)

// PostgresService wraps one relational connection. The pipeline holds two of
// these: the local metadata store (company/event worklist) and the upstream
// transcript source, each built from its own env prefix so the handles stay
// explicit and scoped rather than process-wide singletons.
type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(logg *logger.Logger, envPrefix string) (*PostgresService, error) {
	serviceLog := logg.With("service", "PostgresService", "prefix", envPrefix)

	host := envutil.String(envPrefix+"_HOST", "localhost")
	port := envutil.String(envPrefix+"_PORT", "5432")
	user := envutil.String(envPrefix+"_USER", "postgres")
	password := envutil.String(envPrefix+"_PASSWORD", "")
	name := envutil.String(envPrefix+"_NAME", "ecc_pg_db")

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		user,
		password,
		host,
		port,
		name,
	)

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres (%s): %w", envPrefix, err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) DB() *gorm.DB { return s.db }

func (s *PostgresService) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
