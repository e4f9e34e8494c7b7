package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/iamasit07/connect4-rules/internal/contract"
	"github.com/iamasit07/connect4-rules/internal/domain"
)

// Ledger appends accepted transactions to the transactions table and keeps
// the latest game and board snapshots alongside them.
type Ledger struct {
	DB *sql.DB
}

func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{DB: db}
}

func (l *Ledger) Game(ctx context.Context, id string) (domain.Game, error) {
	var body []byte
	err := l.DB.QueryRowContext(ctx, `SELECT body FROM games WHERE id = $1`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Game{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Game{}, fmt.Errorf("failed to get game by ID: %w", err)
	}

	var g domain.Game
	if err := json.Unmarshal(body, &g); err != nil {
		return domain.Game{}, fmt.Errorf("failed to decode game %s: %w", id, err)
	}
	return g, nil
}

func (l *Ledger) BoardForGame(ctx context.Context, gameID string) (domain.BoardState, error) {
	var body []byte
	err := l.DB.QueryRowContext(ctx, `SELECT body FROM boards WHERE game_id = $1`, gameID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.BoardState{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.BoardState{}, fmt.Errorf("failed to get board for game: %w", err)
	}

	var b domain.BoardState
	if err := json.Unmarshal(body, &b); err != nil {
		return domain.BoardState{}, fmt.Errorf("failed to decode board of game %s: %w", gameID, err)
	}
	return b, nil
}

// GamesFor lists the games party plays in, most recently changed first.
func (l *Ledger) GamesFor(ctx context.Context, party domain.Party) ([]domain.Game, error) {
	query := `
	SELECT body
	FROM games
	WHERE initiator = $1 OR participant = $1
	ORDER BY updated_at DESC;
	`
	rows, err := l.DB.QueryContext(ctx, query, string(party))
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	var games []domain.Game
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		var g domain.Game
		if err := json.Unmarshal(body, &g); err != nil {
			return nil, fmt.Errorf("failed to decode game: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

func (l *Ledger) History(ctx context.Context, gameID string) ([]contract.Transaction, error) {
	rows, err := l.DB.QueryContext(ctx, `SELECT body FROM transactions WHERE game_id = $1 ORDER BY seq`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []contract.Transaction
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		var tx contract.Transaction
		if err := json.Unmarshal(body, &tx); err != nil {
			return nil, fmt.Errorf("failed to decode transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, domain.ErrNotFound
	}
	return txs, nil
}

// Record writes tx in one database transaction. Every snapshot write is
// conditioned on the consumed record still being the latest, so a
// concurrent writer makes Record fail with domain.ErrStale.
func (l *Ledger) Record(ctx context.Context, tx contract.Transaction) error {
	gameID := tx.GameID()
	if gameID == "" {
		return fmt.Errorf("transaction without records")
	}
	body, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	dbTx, err := l.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	for i, g := range tx.OutputGames {
		var in *domain.Game
		if i < len(tx.InputGames) {
			in = &tx.InputGames[i]
		}
		if err := writeGame(ctx, dbTx, in, g); err != nil {
			return err
		}
	}
	for i, b := range tx.OutputBoards {
		var in *domain.BoardState
		if i < len(tx.InputBoards) {
			in = &tx.InputBoards[i]
		}
		if err := writeBoard(ctx, dbTx, in, b); err != nil {
			return err
		}
	}

	signers := make([]string, 0, len(tx.Signers))
	for _, s := range tx.Signers {
		signers = append(signers, string(s))
	}
	_, err = dbTx.ExecContext(ctx,
		`INSERT INTO transactions (game_id, commands, signers, body) VALUES ($1, $2, $3, $4)`,
		gameID, pq.Array(tx.CommandNames()), pq.Array(signers), string(body),
	)
	if err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func writeGame(ctx context.Context, dbTx *sql.Tx, in *domain.Game, out domain.Game) error {
	body, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to marshal game: %w", err)
	}

	var res sql.Result
	if in == nil {
		res, err = dbTx.ExecContext(ctx, `
		INSERT INTO games (id, initiator, participant, status, victor, body)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
		ON CONFLICT (id) DO NOTHING;
		`, out.ID, string(out.Initiator), string(out.Participant), string(out.Status), string(out.Victor), string(body))
	} else {
		prev, mErr := json.Marshal(in)
		if mErr != nil {
			return fmt.Errorf("failed to marshal game: %w", mErr)
		}
		res, err = dbTx.ExecContext(ctx, `
		UPDATE games
		SET status = $2, victor = NULLIF($3, ''), body = $4, updated_at = NOW()
		WHERE id = $1 AND body = $5::jsonb;
		`, out.ID, string(out.Status), string(out.Victor), string(body), string(prev))
	}
	if err != nil {
		return fmt.Errorf("failed to write game %s: %w", out.ID, err)
	}
	return expectOneRow(res)
}

func writeBoard(ctx context.Context, dbTx *sql.Tx, in *domain.BoardState, out domain.BoardState) error {
	body, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to marshal board: %w", err)
	}

	var res sql.Result
	if in == nil {
		res, err = dbTx.ExecContext(ctx, `
		INSERT INTO boards (game_id, id, move_number, status, body)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (game_id) DO NOTHING;
		`, out.GameID, out.ID, out.MoveNumber, string(out.Status), string(body))
	} else {
		res, err = dbTx.ExecContext(ctx, `
		UPDATE boards
		SET move_number = $3, status = $4, body = $5, updated_at = NOW()
		WHERE game_id = $1 AND id = $2 AND move_number = $6 AND status = $7;
		`, out.GameID, out.ID, out.MoveNumber, string(out.Status), string(body), in.MoveNumber, string(in.Status))
	}
	if err != nil {
		return fmt.Errorf("failed to write board %s: %w", out.ID, err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n != 1 {
		return domain.ErrStale
	}
	return nil
}
