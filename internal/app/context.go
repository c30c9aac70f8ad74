package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hireline/internal/config"
	"hireline/internal/repo"
)

// ResolveClient picks the active client for CLI commands. It prefers the
// override, then the single client in the DB. When the override names a
// client that does not exist yet, it is created on the fly with the step-type
// catalog seeded from config.
func ResolveClient(ctx context.Context, cfg *config.Config, clientOverride string, r repo.Repo) (string, error) {
	clientID := clientOverride
	if clientID == "" {
		c, err := r.SingleClient(ctx)
		if err != nil {
			return "", fmt.Errorf("client not specified; use --client")
		}
		return c.ID, nil
	}
	if _, err := r.GetClient(ctx, clientID); err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			return "", err
		}
		if err := createClient(ctx, r, cfg, clientID); err != nil {
			return "", err
		}
	}
	return clientID, nil
}

// createClient inserts the client plus its seeded step types in one
// transaction.
func createClient(ctx context.Context, r repo.Repo, cfg *config.Config, clientID string) error {
	if uuid.Validate(clientID) != nil {
		return fmt.Errorf("client %s not found; create one with hl client add", clientID)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `INSERT INTO clients(id,name,created_at) VALUES (?,?,?)`,
		clientID, clientID, now); err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	if cfg != nil {
		for _, name := range cfg.Pipeline.DefaultStepTypes {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO interview_step_types(id,client_id,name,created_at) VALUES (?,?,?,?)`,
				uuid.New().String(), clientID, name, now); err != nil {
				return fmt.Errorf("seed step type %s: %w", name, err)
			}
		}
	}
	return tx.Commit()
}
