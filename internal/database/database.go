package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/online-store/store-service/internal/config"
	"github.com/online-store/store-service/internal/domain"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// InitDatabase opens a lib/pq connection pool and wraps it with gorm.
func InitDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("database open error: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("database ping error: %w", err)
	}

	db, err := Wrap(sqlDB, cfg)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	log.Printf("Database connection successful: %s", cfg.Name)
	return db, nil
}

// Wrap builds a gorm handle over an existing connection pool.
func Wrap(sqlDB *sql.DB, cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		NamingStrategy: NewTableNamer(cfg.Tables),
		Logger: logger.New(log.New(os.Stdout, "[gorm] ", log.LstdFlags), logger.Config{
			SlowThreshold:             cfg.SlowThreshold,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gorm open error: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the five store tables and their foreign keys.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.Category{},
		&domain.Discount{},
		&domain.Product{},
		&domain.Reservation{},
		&domain.Sale{},
	); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// TableNamer maps entity types to configured table names and falls back to
// gorm's default naming for everything else.
type TableNamer struct {
	schema.NamingStrategy
	tables map[string]string
}

func NewTableNamer(tables config.TableNames) TableNamer {
	return TableNamer{
		tables: map[string]string{
			"Category":    tables.Categories,
			"Product":     tables.Products,
			"Discount":    tables.Discounts,
			"Reservation": tables.Reservations,
			"Sale":        tables.Sales,
		},
	}
}

func (n TableNamer) TableName(str string) string {
	if name := n.tables[str]; name != "" {
		return name
	}
	return n.NamingStrategy.TableName(str)
}
