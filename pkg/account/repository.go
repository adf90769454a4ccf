package account

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	CreateAccount(ctx context.Context, name string, creatorUserId int) (BudgetAccount, error)
	GetAccount(ctx context.Context, accountId int) (BudgetAccount, error)
	ListAccountsForUser(ctx context.Context, userId int) ([]BudgetAccount, error)
	AddMember(ctx context.Context, accountId int, userId int) error
	IsMember(ctx context.Context, accountId int, userId int) (bool, error)
	ListMembers(ctx context.Context, accountId int) ([]Member, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

// CreateAccount inserts the account and its creator's membership in one
// transaction so an account can never exist without at least one member.
func (r *RepositoryImpl) CreateAccount(ctx context.Context, name string, creatorUserId int) (BudgetAccount, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return BudgetAccount{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var acc BudgetAccount
	acc.Name = name
	err = tx.QueryRow(ctx,
		"INSERT INTO budget_account (name) VALUES ($1) RETURNING id", name).
		Scan(&acc.Id)
	if err != nil {
		log.Errorf("Error creating budget account: %v", err)
		return BudgetAccount{}, err
	}

	_, err = tx.Exec(ctx,
		"INSERT INTO budget_account_member (account_id, user_id, role) VALUES ($1, $2, $3)",
		acc.Id, creatorUserId, RoleOwner)
	if err != nil {
		log.Errorf("Error adding creator to budget account %d: %v", acc.Id, err)
		return BudgetAccount{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return BudgetAccount{}, err
	}
	return acc, nil
}

func (r *RepositoryImpl) GetAccount(ctx context.Context, accountId int) (BudgetAccount, error) {
	var acc BudgetAccount
	err := r.db.QueryRow(ctx,
		"SELECT id, name FROM budget_account WHERE id = $1", accountId).
		Scan(&acc.Id, &acc.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BudgetAccount{}, ErrAccountNotFound
		}
		log.Errorf("Error fetching budget account %d: %v", accountId, err)
		return BudgetAccount{}, err
	}
	return acc, nil
}

func (r *RepositoryImpl) ListAccountsForUser(ctx context.Context, userId int) ([]BudgetAccount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT a.id, a.name
		FROM budget_account a
		JOIN budget_account_member m ON m.account_id = a.id
		WHERE m.user_id = $1
		ORDER BY a.id`, userId)
	if err != nil {
		log.Errorf("Error fetching budget accounts for user %d: %v", userId, err)
		return nil, err
	}
	defer rows.Close()

	var accounts []BudgetAccount
	for rows.Next() {
		var acc BudgetAccount
		if err := rows.Scan(&acc.Id, &acc.Name); err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

func (r *RepositoryImpl) AddMember(ctx context.Context, accountId int, userId int) error {
	_, err := r.db.Exec(ctx,
		"INSERT INTO budget_account_member (account_id, user_id, role) VALUES ($1, $2, $3)",
		accountId, userId, RoleMember)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyMember
		}
		log.Errorf("Error adding member %d to budget account %d: %v", userId, accountId, err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) IsMember(ctx context.Context, accountId int, userId int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM budget_account_member WHERE account_id = $1 AND user_id = $2)",
		accountId, userId).
		Scan(&exists)
	if err != nil {
		log.Errorf("Error checking membership of user %d in account %d: %v", userId, accountId, err)
		return false, err
	}
	return exists, nil
}

func (r *RepositoryImpl) ListMembers(ctx context.Context, accountId int) ([]Member, error) {
	rows, err := r.db.Query(ctx, `
		SELECT m.account_id, m.user_id, m.role, u.username, u.display_name
		FROM budget_account_member m
		JOIN users u ON u.id = m.user_id
		WHERE m.account_id = $1
		ORDER BY m.user_id`, accountId)
	if err != nil {
		log.Errorf("Error fetching members of budget account %d: %v", accountId, err)
		return nil, err
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.AccountId, &m.UserId, &m.Role, &m.Username, &m.DisplayName); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
