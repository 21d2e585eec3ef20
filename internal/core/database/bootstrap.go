package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"
)

//go:embed scripts/initdb.sql
var bootstrapFS embed.FS

// defaultEmbedDim is the vector width initdb.sql declares; gemini
// text-embedding-004 emits 768-wide vectors.
const defaultEmbedDim = 768

// EnsureBootstrapped creates the schema on first run, tracked by a
// version row in ghostwriter_meta.
func EnsureBootstrapped(ctx context.Context, db *sql.DB, embedDim int) error {
	ctxBoot, cancel := context.WithTimeout(ctx, 3*time.Minute)
	defer cancel()

	var exists bool
	err := db.QueryRowContext(ctxBoot, `
		SELECT EXISTS (
		  SELECT 1 FROM information_schema.tables
		  WHERE table_name = 'ghostwriter_meta'
		)`).
		Scan(&exists)
	if err != nil {
		return fmt.Errorf("meta table check failed: %w", err)
	}

	if !exists {
		return runBootstrap(ctxBoot, db, embedDim)
	}

	var hasVersion bool
	if err := db.QueryRowContext(ctxBoot, `SELECT EXISTS (SELECT 1 FROM ghostwriter_meta WHERE version = 1)`).Scan(&hasVersion); err != nil {
		return fmt.Errorf("meta version check failed: %w", err)
	}
	if !hasVersion {
		return runBootstrap(ctxBoot, db, embedDim)
	}

	return nil
}

// initScript returns the bootstrap SQL with the embedding column sized
// for the configured model. Only applied on first bootstrap; changing
// the dimension on an existing database needs a manual migration.
func initScript(embedDim int) (string, error) {
	raw, err := bootstrapFS.ReadFile("scripts/initdb.sql")
	if err != nil {
		return "", fmt.Errorf("read initdb.sql: %w", err)
	}
	script := string(raw)
	if embedDim > 0 && embedDim != defaultEmbedDim {
		script = strings.ReplaceAll(script,
			fmt.Sprintf("vector(%d)", defaultEmbedDim),
			fmt.Sprintf("vector(%d)", embedDim))
	}
	return script, nil
}

func runBootstrap(ctx context.Context, db *sql.DB, embedDim int) error {
	script, err := initScript(embedDim)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, script); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("exec bootstrap: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bootstrap: %w", err)
	}
	return nil
}
