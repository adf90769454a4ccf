package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	CreateUser(ctx context.Context, u User) (User, error)
	GetUser(ctx context.Context, id int) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	UpdateUser(ctx context.Context, u User) (User, error)
	GetAllUsers(ctx context.Context) ([]User, error)
}

type RepoImpl struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) CreateUser(ctx context.Context, u User) (User, error) {
	row := r.db.QueryRow(ctx,
		"INSERT INTO users (uid, username, display_name) VALUES ($1, $2, $3) RETURNING id",
		u.Uid, u.Username, u.DisplayName)
	if err := row.Scan(&u.Id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrUsernameTaken
		}
		log.Errorf("Error creating user: %v", err)
		return User{}, err
	}
	return u, nil
}

func (r *RepoImpl) GetUser(ctx context.Context, id int) (User, error) {
	var u User
	err := r.db.QueryRow(ctx,
		"SELECT id, uid, username, display_name FROM users WHERE id = $1", id).
		Scan(&u.Id, &u.Uid, &u.Username, &u.DisplayName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		log.Errorf("Error fetching user %d: %v", id, err)
		return User{}, err
	}
	return u, nil
}

func (r *RepoImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	var u User
	err := r.db.QueryRow(ctx,
		"SELECT id, uid, username, display_name FROM users WHERE uid = $1", uid).
		Scan(&u.Id, &u.Uid, &u.Username, &u.DisplayName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		log.Errorf("Error fetching user by uid: %v", err)
		return User{}, err
	}
	return u, nil
}

func (r *RepoImpl) UpdateUser(ctx context.Context, u User) (User, error) {
	tag, err := r.db.Exec(ctx,
		"UPDATE users SET username = $1, display_name = $2 WHERE id = $3",
		u.Username, u.DisplayName, u.Id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrUsernameTaken
		}
		log.Errorf("Error updating user %d: %v", u.Id, err)
		return User{}, err
	}
	if tag.RowsAffected() == 0 {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (r *RepoImpl) GetAllUsers(ctx context.Context) ([]User, error) {
	rows, err := r.db.Query(ctx,
		"SELECT id, uid, username, display_name FROM users ORDER BY id")
	if err != nil {
		log.Errorf("Error fetching users: %v", err)
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.Id, &u.Uid, &u.Username, &u.DisplayName); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
