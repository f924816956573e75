package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/onlineimmigrant/eduplan/core/learner"
)

type learnerRepository struct {
	db *learnerTable
}

var _ learner.Repository = (*learnerRepository)(nil) // interface compliance check

func NewLearnerRepository(db *DB) learner.Repository {
	return &learnerRepository{db: db.learner}
}

func (repo *learnerRepository) query() []learner.Learner {
	learners := make([]learner.Learner, 0, len(repo.db.table))
	for _, l := range repo.db.table {
		learners = append(learners, *l)
	}
	return learners
}

func (repo *learnerRepository) CheckUsernameUniqueness(ctx context.Context, username, email string, excluded ...learner.Learner) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	exclIDs := make(map[string]struct{}, len(excluded))
	for _, l := range excluded {
		exclIDs[l.ID] = struct{}{}
	}

	for _, l := range repo.query() {
		if _, ok := exclIDs[l.ID]; ok {
			continue
		}
		if username != "" && l.Username == username {
			return learner.ErrUsernameExists
		}
		if l.Email == email {
			return learner.ErrEmailExists
		}
	}
	return nil
}

func (repo *learnerRepository) CreateLearner(ctx context.Context, l learner.Learner) (learner.Learner, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	repo.db.table[l.ID] = &l
	return l, nil
}

func (repo *learnerRepository) GetLearnerByID(ctx context.Context, id string) (learner.Learner, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if l, ok := repo.db.table[id]; ok {
		return *l, nil
	}
	return learner.Learner{}, learner.ErrNotFound
}

func (repo *learnerRepository) GetLearnerByUsernameOrEmail(ctx context.Context, username string) (learner.Learner, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, l := range repo.query() {
		if (l.Username == username) || (l.Email == username) {
			return l, nil
		}
	}
	return learner.Learner{}, learner.ErrNotFound
}

func (repo *learnerRepository) UpdateLearner(ctx context.Context, l learner.Learner) (learner.Learner, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[l.ID]
	if !ok {
		return learner.Learner{}, learner.ErrNotFound
	}
	// only save set fields
	if l.Roles != nil {
		orig.Roles = l.Roles
	}
	if l.PasswordHash != nil {
		orig.PasswordHash = l.PasswordHash
	}
	if !l.LastLogin.IsZero() {
		orig.LastLogin = l.LastLogin
	}
	orig.Name = l.Name
	orig.Username = l.Username
	orig.Email = l.Email
	orig.IsActive = l.IsActive
	orig.UpdatedAt = l.UpdatedAt

	repo.db.table[l.ID] = orig
	return *orig, nil
}
