package warning

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	CreateDismissal(ctx context.Context, d Dismissal) error
	ListDismissals(ctx context.Context, accountId int, userId int) ([]Dismissal, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

// CreateDismissal records one dismissal. A violation of the unique
// (account, user, type, key) constraint becomes ErrDuplicateDismissal.
func (r *RepositoryImpl) CreateDismissal(ctx context.Context, d Dismissal) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO dismissed_warning (account_id, user_id, warning_type, warning_key)
		VALUES ($1, $2, $3, $4)`,
		d.AccountId, d.UserId, string(d.Type), d.Key)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateDismissal
		}
		log.Errorf("Error creating warning dismissal: %v", err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) ListDismissals(ctx context.Context, accountId int, userId int) ([]Dismissal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT account_id, user_id, warning_type, warning_key
		FROM dismissed_warning
		WHERE account_id = $1 AND user_id = $2`,
		accountId, userId)
	if err != nil {
		log.Errorf("Error fetching warning dismissals for user %d: %v", userId, err)
		return nil, err
	}
	defer rows.Close()

	var dismissals []Dismissal
	for rows.Next() {
		var (
			d           Dismissal
			warningType string
		)
		if err := rows.Scan(&d.AccountId, &d.UserId, &warningType, &d.Key); err != nil {
			return nil, err
		}
		d.Type = Type(warningType)
		dismissals = append(dismissals, d)
	}
	return dismissals, rows.Err()
}
