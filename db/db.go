package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Mareeswari30/Smart-Banking/config"
	"github.com/Mareeswari30/Smart-Banking/logger"

	_ "github.com/lib/pq"
)

func Connect(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	logger.Log.WithField("connection", cfg.DSN(true)).Info("Attempting to connect to the database")

	db, err := sql.Open("postgres", cfg.DSN(false))
	if err != nil {
		logger.Log.WithError(err).Error("Failed to open database connection")
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		db.Close()
		logger.Log.WithError(err).Error("Failed to ping database")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Log.Info("Database connection established successfully")
	return db, nil
}
