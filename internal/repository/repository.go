// Package repository opens the store backend selected in configuration.
package repository

import (
	"context"
	"fmt"

	"github.com/dtroode/furniture-server/internal/config"
	"github.com/dtroode/furniture-server/internal/model"
	"github.com/dtroode/furniture-server/internal/repository/mongo"
	"github.com/dtroode/furniture-server/internal/repository/postgres"
)

// Stores groups the repositories of one database backend.
type Stores struct {
	Admins   model.AdminStore
	Products model.ProductStore
	Settings model.SettingsStore

	ping  func(ctx context.Context) error
	close func() error
}

// Ping checks that the backend is reachable.
func (s *Stores) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the backend connection.
func (s *Stores) Close() error {
	return s.close()
}

// Open connects to the backend named by cfg.Driver.
// Postgres schema migrations are applied while connecting.
func Open(ctx context.Context, cfg config.Database, mongoCfg config.Mongo) (*Stores, error) {
	switch cfg.Driver {
	case "postgres":
		conn, err := postgres.NewConection(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Admins:   postgres.NewAdminRepository(conn),
			Products: postgres.NewProductRepository(conn),
			Settings: postgres.NewSettingsRepository(conn),
			ping:     conn.Ping,
			close:    conn.Close,
		}, nil
	case "mongo":
		conn, err := mongo.NewConnection(ctx, mongoCfg.URI, mongoCfg.Database)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Admins:   mongo.NewAdminRepository(conn),
			Products: mongo.NewProductRepository(conn),
			Settings: mongo.NewSettingsRepository(conn),
			ping:     conn.Ping,
			close:    conn.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
