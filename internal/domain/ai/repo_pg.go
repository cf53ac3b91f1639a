package ai

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type logRepoPG struct{ pool *pgxpool.Pool }

func NewLogRepoPG(pool *pgxpool.Pool) LogRepository { return &logRepoPG{pool: pool} }

const logCols = `id, session_id, process_type, input_text, output, processing_time_ms,
	status, error_message, created_at`

func scanLog(row pgx.Row) (*ProcessingLog, error) {
	var l ProcessingLog
	err := row.Scan(&l.ID, &l.SessionID, &l.ProcessType, &l.InputText, &l.Output,
		&l.ProcessingTimeMs, &l.Status, &l.ErrorMessage, &l.CreatedAt)
	return &l, err
}

func (r *logRepoPG) Create(ctx context.Context, l *ProcessingLog) error {
	l.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO ai_processing_log (id, session_id, process_type, input_text, output,
			processing_time_ms, status, error_message)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		l.ID, l.SessionID, l.ProcessType, l.InputText, l.Output,
		l.ProcessingTimeMs, l.Status, l.ErrorMessage)
	return err
}

func (r *logRepoPG) ListBySession(ctx context.Context, sessionID uuid.UUID, limit, offset int) ([]*ProcessingLog, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM ai_processing_log WHERE session_id = $1`, sessionID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+logCols+` FROM ai_processing_log WHERE session_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		sessionID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var logs []*ProcessingLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, 0, err
		}
		logs = append(logs, l)
	}
	return logs, total, rows.Err()
}
