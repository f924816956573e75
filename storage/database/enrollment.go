package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/onlineimmigrant/eduplan/core"
	"github.com/onlineimmigrant/eduplan/core/enrollment"
)

type enrollmentRepository struct {
	db core.DBExecutor
}

var _ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(db core.DBExecutor) enrollment.Repository {
	return &enrollmentRepository{db: db}
}

type entitlementRow struct {
	ID        string    `db:"id"`
	LearnerID string    `db:"learner_id"`
	CourseID  int       `db:"course_id"`
	IsActive  bool      `db:"is_active"`
	StartDate time.Time `db:"start_date"`
	EndDate   null.Time `db:"end_date"`
}

func (repo *enrollmentRepository) QueryActiveEntitlements(ctx context.Context, learnerID string) ([]enrollment.Entitlement, error) {
	var rows []entitlementRow
	query := `SELECT * FROM entitlement WHERE learner_id = $1 AND is_active ORDER BY start_date`
	if err := repo.db.SelectContext(ctx, &rows, query, learnerID); err != nil {
		return nil, errors.Wrap(err, "querying entitlements")
	}

	ents := make([]enrollment.Entitlement, 0, len(rows))
	for _, r := range rows {
		ents = append(ents, enrollment.Entitlement{
			ID:        r.ID,
			LearnerID: r.LearnerID,
			CourseID:  r.CourseID,
			IsActive:  r.IsActive,
			StartDate: r.StartDate,
			EndDate:   r.EndDate,
		})
	}
	return ents, nil
}
