package config

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenGormDB connects to the shared store described by the storage section.
// The service key is used as the database password when the URL carries none.
func (c *Config) OpenGormDB() (*gorm.DB, error) {
	dsn, err := c.Require(KeyStorageURL)
	if err != nil {
		return nil, err
	}
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	switch strings.ToLower(c.Storage.Driver) {
	case "", "postgres", "postgresql":
		dsn, err = withPassword(dsn, c.Storage.ServiceKey)
		if err != nil {
			return nil, err
		}
		db, err := gorm.Open(postgres.Open(dsn), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return db, nil

	case "mysql":
		mcfg, err := gomysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse mysql dsn: %w", err)
		}
		if mcfg.Passwd == "" {
			mcfg.Passwd = c.Storage.ServiceKey
		}
		mcfg.ParseTime = true
		connector, err := gomysql.NewConnector(mcfg)
		if err != nil {
			return nil, fmt.Errorf("create connector: %w", err)
		}
		sqlDB := sql.OpenDB(connector)
		if err := sqlDB.Ping(); err != nil {
			return nil, fmt.Errorf("ping db: %w", err)
		}
		return gorm.Open(mysql.New(mysql.Config{Conn: sqlDB}), gcfg)

	case "sqlite":
		db, err := gorm.Open(sqlite.Open(dsn), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite handle: %w", err)
		}
		// One connection keeps in-memory databases shared and serializes writers.
		sqlDB.SetMaxOpenConns(1)
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}
}

func withPassword(dsn, password string) (string, error) {
	if password == "" || !strings.Contains(dsn, "://") {
		return dsn, nil
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse storage url: %w", err)
	}
	if u.User == nil {
		u.User = url.UserPassword("postgres", password)
		return u.String(), nil
	}
	if _, ok := u.User.Password(); !ok {
		u.User = url.UserPassword(u.User.Username(), password)
	}
	return u.String(), nil
}
