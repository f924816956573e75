package dummydb

import (
	"context"

	"github.com/onlineimmigrant/eduplan/core/enrollment"
)

type enrollmentRepository struct {
	db *enrollmentTable
}

var _ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(db *DB) enrollment.Repository {
	return &enrollmentRepository{db: db.enrollment}
}

func (repo *enrollmentRepository) QueryActiveEntitlements(ctx context.Context, learnerID string) ([]enrollment.Entitlement, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var ents []enrollment.Entitlement
	for _, ent := range repo.db.table {
		if ent.LearnerID == learnerID && ent.IsActive {
			ents = append(ents, *ent)
		}
	}
	return ents, nil
}
