// database/db.go
package database

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/LilVoxy/chatrelay/config"
	"github.com/LilVoxy/chatrelay/errors"
)

// Open подключается к MySQL и проверяет соединение
func Open(ctx context.Context, cfg config.MySQLConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, errors.WrapFatal(err, errors.KindInit, "database", "Open", "open mysql")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, errors.WrapFatal(err, errors.KindInit, "database", "Open", "ping mysql")
	}

	// Параметры пула соединений
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	slog.Info("✅ Успешное подключение к базе данных", "host", cfg.Host, "db", cfg.DBName)
	return db, nil
}
