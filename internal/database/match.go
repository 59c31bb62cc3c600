// internal/database/match.go
//
// Match history storage for the historian. Expected schema:
//
//	CREATE TABLE matches (
//	    id         uuid PRIMARY KEY,
//	    status     text NOT NULL,           -- 'in_progress' | 'finished'
//	    start_time timestamptz NOT NULL,
//	    end_time   timestamptz
//	);
//	CREATE TABLE match_actions (
//	    match_id     uuid NOT NULL REFERENCES matches (id),
//	    action_index int NOT NULL,
//	    actor_id     uuid,
//	    action_type  text NOT NULL,
//	    payload      jsonb,
//	    PRIMARY KEY (match_id, action_index)
//	);
package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"deberts/internal/history"
)

// InsertActionBatch persists a batch of action records in one transaction.
// A match row is upserted as 'in_progress' for every record and finalized
// when a reset record arrives (the engine emits match_reset when a seated
// player disconnects, which is the only way a match ends for good).
func InsertActionBatch(ctx context.Context, records []history.ActionRecord) error {
	return beginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, rec := range records {
			if err := insertActionTx(ctx, tx, rec); err != nil {
				return fmt.Errorf("insertActionTx: %w", err)
			}
		}
		return nil
	})
}

func insertActionTx(ctx context.Context, tx pgx.Tx, rec history.ActionRecord) error {
	upsertQ := `
		INSERT INTO matches (id, status, start_time)
		VALUES ($1, 'in_progress', NOW())
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := tx.Exec(ctx, upsertQ, rec.MatchID); err != nil {
		return err
	}

	payload, err := json.Marshal(rec.Payload)
	if err != nil {
		return err
	}
	insertQ := `
		INSERT INTO match_actions (match_id, action_index, actor_id, action_type, payload)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (match_id, action_index) DO NOTHING
	`
	if _, err := tx.Exec(ctx, insertQ,
		rec.MatchID, rec.ActionIndex, rec.ActorID, rec.ActionType, payload,
	); err != nil {
		return err
	}

	if rec.ActionType == "match_reset" {
		finalizeQ := `
			UPDATE matches
			SET status = 'finished', end_time = NOW()
			WHERE id = $1 AND status = 'in_progress'
		`
		if _, err := tx.Exec(ctx, finalizeQ, rec.MatchID); err != nil {
			return err
		}
	}
	return nil
}

// beginTxFunc runs f inside a transaction, committing on success and
// rolling back on error.
func beginTxFunc(ctx context.Context, pool *pgxpool.Pool, txOptions pgx.TxOptions, f func(tx pgx.Tx) error) error {
	tx, err := pool.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}
	if err := f(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx rollback error: %v; original error: %w", rbErr, err)
		}
		return err
	}
	return tx.Commit(ctx)
}
