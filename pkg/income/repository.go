package income

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/payplan/payplan/internal/dates"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	CreateSource(ctx context.Context, src Source) (Source, error)
	GetSource(ctx context.Context, sourceId int) (Source, error)
	ListSourcesForUser(ctx context.Context, userId int) ([]Source, error)
	ListActiveForUser(ctx context.Context, userId int) ([]Source, error)
	UpdateSource(ctx context.Context, src Source) (Source, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) CreateSource(ctx context.Context, src Source) (Source, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO income_source (user_id, name, amount, frequency, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		src.UserId, src.Name, src.Amount, string(src.Frequency), src.StartDate, src.EndDate, src.IsActive).
		Scan(&src.Id)
	if err != nil {
		log.Errorf("Error creating income source: %v", err)
		return Source{}, err
	}
	return src, nil
}

func (r *RepositoryImpl) GetSource(ctx context.Context, sourceId int) (Source, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, user_id, name, amount, frequency, start_date, end_date, is_active
		FROM income_source
		WHERE id = $1`, sourceId)
	src, err := scanSource(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Source{}, ErrSourceNotFound
		}
		log.Errorf("Error fetching income source %d: %v", sourceId, err)
		return Source{}, err
	}
	return src, nil
}

func (r *RepositoryImpl) ListSourcesForUser(ctx context.Context, userId int) ([]Source, error) {
	return r.listForUser(ctx, userId, false)
}

func (r *RepositoryImpl) ListActiveForUser(ctx context.Context, userId int) ([]Source, error) {
	return r.listForUser(ctx, userId, true)
}

func (r *RepositoryImpl) listForUser(ctx context.Context, userId int, activeOnly bool) ([]Source, error) {
	query := `
		SELECT id, user_id, name, amount, frequency, start_date, end_date, is_active
		FROM income_source
		WHERE user_id = $1`
	if activeOnly {
		query += " AND is_active = TRUE"
	}
	query += " ORDER BY id"

	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		log.Errorf("Error fetching income sources for user %d: %v", userId, err)
		return nil, err
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

func (r *RepositoryImpl) UpdateSource(ctx context.Context, src Source) (Source, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE income_source
		SET name = $1, amount = $2, frequency = $3, start_date = $4, end_date = $5, is_active = $6
		WHERE id = $7`,
		src.Name, src.Amount, string(src.Frequency), src.StartDate, src.EndDate, src.IsActive, src.Id)
	if err != nil {
		log.Errorf("Error updating income source %d: %v", src.Id, err)
		return Source{}, err
	}
	if tag.RowsAffected() == 0 {
		return Source{}, ErrSourceNotFound
	}
	return src, nil
}

func scanSource(row pgx.Row) (Source, error) {
	var (
		src       Source
		frequency string
		startDate time.Time
		endDate   *time.Time
	)
	err := row.Scan(&src.Id, &src.UserId, &src.Name, &src.Amount, &frequency, &startDate, &endDate, &src.IsActive)
	if err != nil {
		return Source{}, err
	}
	src.Frequency = dates.Frequency(frequency)
	// DATE columns come back at midnight in the session timezone; renormalize
	// to the calendar day in UTC so date math stays drift-free.
	src.StartDate = dates.Date(startDate.Year(), startDate.Month(), startDate.Day())
	if endDate != nil {
		end := dates.Date(endDate.Year(), endDate.Month(), endDate.Day())
		src.EndDate = &end
	}
	return src, nil
}
