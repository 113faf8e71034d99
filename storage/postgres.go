package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alimuhammedak/SyncLove/domain"
)

type PostgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRepo(ctx context.Context, connString string) (*PostgresRepo, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	return &PostgresRepo{pool: pool}, nil
}

func (pgr *PostgresRepo) Close() {
	pgr.pool.Close()
}

func (pgr *PostgresRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	user := domain.User{Username: username}

	row := pgr.pool.QueryRow(ctx, "SELECT id, password_hash FROM users WHERE username = $1", username)

	err := row.Scan(&user.Id, &user.PasswordHash)

	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return domain.User{}, domain.ErrUserNotFound
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return domain.User{}, err
		default:
			return domain.User{}, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
		}
	}

	return user, nil
}

func (pgr *PostgresRepo) GetUserById(ctx context.Context, id string) (domain.User, error) {
	user := domain.User{Id: id}

	row := pgr.pool.QueryRow(ctx, "SELECT username, password_hash FROM users WHERE id = $1", id)

	err := row.Scan(&user.Username, &user.PasswordHash)

	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return domain.User{}, domain.ErrUserNotFound
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return domain.User{}, err
		default:
			return domain.User{}, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
		}
	}

	return user, nil
}

func (pgr *PostgresRepo) CreateUser(ctx context.Context, username string, passwordHash string) (string, error) {
	row := pgr.pool.QueryRow(ctx, "INSERT INTO users(username, password_hash) VALUES($1, $2) RETURNING id", username, passwordHash)

	var id string
	err := row.Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			// "23505" is the PostgreSQL error code for unique_violation
			if pgErr.Code == "23505" {
				return "", domain.ErrDuplicateUsername
			}
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}

		return "", fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}

	return id, nil
}

const sessionColumns = "id, game_type, player1_id, player2_id, game_state, status, winner_id, created_at, completed_at"

func scanSession(row pgx.Row) (domain.GameSession, error) {
	var s domain.GameSession
	err := row.Scan(
		&s.Id,
		&s.GameType,
		&s.Player1Id,
		&s.Player2Id,
		&s.GameState,
		&s.Status,
		&s.WinnerId,
		&s.CreatedAt,
		&s.CompletedAt,
	)
	return s, err
}

func (pgr *PostgresRepo) CreateSession(ctx context.Context, gameType, player1Id string) (domain.GameSession, error) {
	row := pgr.pool.QueryRow(ctx,
		"INSERT INTO game_sessions(game_type, player1_id, game_state, status) VALUES($1, $2, '{}', $3) RETURNING "+sessionColumns,
		gameType, player1Id, domain.SessionWaiting,
	)

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return domain.GameSession{}, err
		}
		return domain.GameSession{}, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}

	return session, nil
}

func (pgr *PostgresRepo) GetSessionById(ctx context.Context, id string) (domain.GameSession, error) {
	row := pgr.pool.QueryRow(ctx, "SELECT "+sessionColumns+" FROM game_sessions WHERE id = $1", id)

	session, err := scanSession(row)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return domain.GameSession{}, domain.ErrSessionNotFound
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return domain.GameSession{}, err
		default:
			return domain.GameSession{}, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
		}
	}

	return session, nil
}

func (pgr *PostgresRepo) UpdateSession(ctx context.Context, session domain.GameSession) error {
	tag, err := pgr.pool.Exec(ctx,
		"UPDATE game_sessions SET player2_id = $2, game_state = $3, status = $4, winner_id = $5, completed_at = $6 WHERE id = $1",
		session.Id, session.Player2Id, session.GameState, session.Status, session.WinnerId, session.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}

	return nil
}

func (pgr *PostgresRepo) ListActiveSessions(ctx context.Context, userId string, limit int) ([]domain.GameSession, error) {
	rows, err := pgr.pool.Query(ctx,
		"SELECT "+sessionColumns+" FROM game_sessions WHERE (player1_id = $1 OR player2_id = $1) AND status IN ($2, $3) ORDER BY created_at DESC LIMIT $4",
		userId, domain.SessionWaiting, domain.SessionInProgress, limit,
	)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	defer rows.Close()

	sessions := make([]domain.GameSession, 0, limit)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}

	return sessions, nil
}
