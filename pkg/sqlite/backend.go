// Package sqlite is the public entry point for materializing a model as
// SQLite tables. It wraps the internal backend and table generator.
package sqlite

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/supermodel/internal/gen"
	"github.com/mesh-intelligence/supermodel/internal/sqlite"
	"github.com/mesh-intelligence/supermodel/pkg/types"
)

// Result describes one ApplyModel run.
type Result struct {
	// Database is the path of the database file.
	Database string
	// Statements are the DDL statements that were run, in order.
	Statements []string
	// Tables are the tables of the database afterwards, sorted by name.
	Tables []string
}

// ApplyModel rebuilds one table per entity of m in the database selected by
// config. Existing tables of the model are dropped first. The statements run
// in one transaction, so on error the database is unchanged.
//
// Example:
//
//	res, err := sqlite.ApplyModel(ctx, nil, types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".supermodel",
//	}, m)
func ApplyModel(ctx context.Context, logger *zap.SugaredLogger, config types.Config, m *types.Manager) (Result, error) {
	stmts, err := gen.TableStatements(m)
	if err != nil {
		return Result{}, err
	}

	backend := sqlite.NewBackend(logger)
	if err := backend.Attach(config); err != nil {
		return Result{}, fmt.Errorf("open database: %w", err)
	}
	defer backend.Detach()

	if err := backend.Apply(ctx, stmts); err != nil {
		return Result{}, fmt.Errorf("apply tables: %w", err)
	}
	tables, err := backend.Tables(ctx)
	if err != nil {
		return Result{}, err
	}
	return Result{Database: backend.Path(), Statements: stmts, Tables: tables}, nil
}
