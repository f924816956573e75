package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/onlineimmigrant/eduplan/core"
	"github.com/onlineimmigrant/eduplan/core/learner"
)

type learnerRepository struct {
	db core.DBExecutor
}

var _ learner.Repository = (*learnerRepository)(nil) // interface compliance check

func NewLearnerRepository(db core.DBExecutor) learner.Repository {
	return &learnerRepository{db: db}
}

type learnerRow struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Username     string         `db:"username"`
	Email        string         `db:"email"`
	IsActive     bool           `db:"is_active"`
	Roles        pq.StringArray `db:"roles"`
	PasswordHash []byte         `db:"password_hash"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	LastLogin    null.Time      `db:"last_login"`
}

func (r learnerRow) learner() learner.Learner {
	return learner.Learner{
		ID:           r.ID,
		Name:         r.Name,
		Username:     r.Username,
		Email:        r.Email,
		IsActive:     r.IsActive,
		Roles:        r.Roles,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		LastLogin:    r.LastLogin.Time,
	}
}

func (repo *learnerRepository) CheckUsernameUniqueness(ctx context.Context, username, email string, excluded ...learner.Learner) error {
	exclIDs := make([]string, 0, len(excluded))
	for _, l := range excluded {
		exclIDs = append(exclIDs, l.ID)
	}

	var rows []struct {
		Username string `db:"username"`
		Email    string `db:"email"`
	}
	query := `SELECT username, email FROM learner WHERE (username = $1 OR email = $2) AND NOT (id = ANY($3))`
	if err := repo.db.SelectContext(ctx, &rows, query, username, email, pq.Array(exclIDs)); err != nil {
		return errors.Wrap(err, "checking learner uniqueness")
	}

	for _, row := range rows {
		if username != "" && row.Username == username {
			return learner.ErrUsernameExists
		}
		if row.Email == email {
			return learner.ErrEmailExists
		}
	}
	return nil
}

func (repo *learnerRepository) CreateLearner(ctx context.Context, l learner.Learner) (learner.Learner, error) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}

	query := `
INSERT INTO learner (id, name, username, email, is_active, roles, password_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := repo.db.ExecContext(ctx, query,
		l.ID, l.Name, l.Username, l.Email, l.IsActive, pq.Array(l.Roles), l.PasswordHash, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return learner.Learner{}, errors.Wrap(err, "creating learner")
	}
	return l, nil
}

func (repo *learnerRepository) GetLearnerByID(ctx context.Context, id string) (learner.Learner, error) {
	var row learnerRow
	query := `SELECT * FROM learner WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, query, id); err != nil {
		return learner.Learner{}, trapNoRowsErr(errors.Wrap(err, "getting learner"), learner.ErrNotFound)
	}
	return row.learner(), nil
}

func (repo *learnerRepository) GetLearnerByUsernameOrEmail(ctx context.Context, username string) (learner.Learner, error) {
	var row learnerRow
	query := `SELECT * FROM learner WHERE username = $1 OR email = $1`
	if err := repo.db.GetContext(ctx, &row, query, username); err != nil {
		return learner.Learner{}, trapNoRowsErr(errors.Wrap(err, "getting learner"), learner.ErrNotFound)
	}
	return row.learner(), nil
}

func (repo *learnerRepository) UpdateLearner(ctx context.Context, l learner.Learner) (learner.Learner, error) {
	var lastLogin null.Time
	if !l.LastLogin.IsZero() {
		lastLogin = null.TimeFrom(l.LastLogin)
	}

	query := `
UPDATE learner
SET name = $2, username = $3, email = $4, is_active = $5, roles = $6, password_hash = $7,
    updated_at = $8, last_login = $9
WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query,
		l.ID, l.Name, l.Username, l.Email, l.IsActive, pq.Array(l.Roles), l.PasswordHash, l.UpdatedAt, lastLogin)
	if err != nil {
		return learner.Learner{}, errors.Wrap(err, "updating learner")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return learner.Learner{}, learner.ErrNotFound
	}
	return l, nil
}
