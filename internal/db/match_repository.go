package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ParticipantResult is one hero's final line for a finished match.
type ParticipantResult struct {
	AccountLogin  string
	HeroID        string
	Team          int16
	Kills         int32
	Deaths        int32
	OrbsDeposited int32
}

// InsertMatch records a match at start time.
func (d *DB) InsertMatch(ctx context.Context, matchID uuid.UUID, startedAt time.Time) error {
	_, err := d.pool.Exec(ctx,
		`INSERT INTO matches (id, started_at) VALUES ($1, $2)`,
		matchID, startedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting match %s: %w", matchID, err)
	}
	return nil
}

// FinishMatch records the outcome of a match and its participant lines in
// one transaction.
func (d *DB) FinishMatch(ctx context.Context, matchID uuid.UUID, endedAt time.Time, winningTeam int16, teamScores map[int16]int32, participants []ParticipantResult) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE matches SET ended_at = $1, winning_team = $2 WHERE id = $3`,
		endedAt, winningTeam, matchID,
	)
	if err != nil {
		return fmt.Errorf("finishing match %s: %w", matchID, err)
	}

	for team, score := range teamScores {
		_, err = tx.Exec(ctx,
			`INSERT INTO match_team_scores (match_id, team, score) VALUES ($1, $2, $3)`,
			matchID, team, score,
		)
		if err != nil {
			return fmt.Errorf("inserting team score for match %s: %w", matchID, err)
		}
	}

	batch := &pgx.Batch{}
	for _, p := range participants {
		// Lowercased like every account write, or the FK will not match.
		batch.Queue(
			`INSERT INTO match_participants (match_id, account_login, hero_id, team, kills, deaths, orbs_deposited)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			matchID, strings.ToLower(p.AccountLogin), p.HeroID, p.Team, p.Kills, p.Deaths, p.OrbsDeposited,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("inserting participants for match %s: %w", matchID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing match %s: %w", matchID, err)
	}
	return nil
}

// ParticipantHistory returns an account's recent match lines, newest first.
func (d *DB) ParticipantHistory(ctx context.Context, login string, limit int) ([]ParticipantResult, error) {
	rows, err := d.pool.Query(ctx,
		`SELECT p.account_login, p.hero_id, p.team, p.kills, p.deaths, p.orbs_deposited
		 FROM match_participants p
		 JOIN matches m ON m.id = p.match_id
		 WHERE p.account_login = $1 AND m.ended_at IS NOT NULL
		 ORDER BY m.ended_at DESC
		 LIMIT $2`,
		strings.ToLower(login), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying history for %q: %w", login, err)
	}
	defer rows.Close()

	var out []ParticipantResult
	for rows.Next() {
		var p ParticipantResult
		if err := rows.Scan(&p.AccountLogin, &p.HeroID, &p.Team, &p.Kills, &p.Deaths, &p.OrbsDeposited); err != nil {
			return nil, fmt.Errorf("scanning participant row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating participant rows: %w", err)
	}
	return out, nil
}
