package database

import (
	"context"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/onlineimmigrant/eduplan/core"
	"github.com/onlineimmigrant/eduplan/core/studyplan"
)

type studyPlanRepository struct {
	db core.DBExecutor
}

var _ studyplan.Repository = (*studyPlanRepository)(nil) // interface compliance check

func NewStudyPlanRepository(db core.DBExecutor) studyplan.Repository {
	return &studyPlanRepository{db: db}
}

type preferenceRow struct {
	ID        int       `db:"id"`
	LearnerID string    `db:"learner_id"`
	CourseID  int       `db:"course_id"`
	Style     string    `db:"style"`
	StartDate null.Time `db:"start_date"`
	EndDate   null.Time `db:"end_date"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r preferenceRow) preference() studyplan.Preference {
	return studyplan.Preference{
		ID:        r.ID,
		LearnerID: r.LearnerID,
		CourseID:  r.CourseID,
		Style:     studyplan.Style(r.Style),
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type lessonProgressRow struct {
	ID                    int       `db:"id"`
	LearnerID             string    `db:"learner_id"`
	LessonID              int       `db:"lesson_id"`
	Completed             bool      `db:"completed"`
	CompletionDate        null.Time `db:"completion_date"`
	PlannedCompletionDate null.Time `db:"planned_completion_date"`
}

func (r lessonProgressRow) progress() studyplan.LessonProgress {
	return studyplan.LessonProgress{
		ID:                    r.ID,
		LearnerID:             r.LearnerID,
		LessonID:              r.LessonID,
		Completed:             r.Completed,
		CompletionDate:        r.CompletionDate,
		PlannedCompletionDate: r.PlannedCompletionDate,
	}
}

func (repo *studyPlanRepository) GetPreference(ctx context.Context, learnerID string, courseID int) (studyplan.Preference, error) {
	var row preferenceRow
	query := `SELECT * FROM study_plan_preference WHERE learner_id = $1 AND course_id = $2`
	if err := repo.db.GetContext(ctx, &row, query, learnerID, courseID); err != nil {
		return studyplan.Preference{}, trapNoRowsErr(errors.Wrap(err, "getting plan preference"), studyplan.ErrPreferenceNotFound)
	}
	return row.preference(), nil
}

func (repo *studyPlanRepository) UpsertPreference(ctx context.Context, pref studyplan.Preference) (studyplan.Preference, error) {
	var row preferenceRow
	// one row per (learner, course); an update never clears stored dates unless
	// new ones are supplied
	query := `
INSERT INTO study_plan_preference (learner_id, course_id, style, start_date, end_date, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
ON CONFLICT (learner_id, course_id) DO UPDATE
SET style      = EXCLUDED.style,
    start_date = COALESCE(EXCLUDED.start_date, study_plan_preference.start_date),
    end_date   = COALESCE(EXCLUDED.end_date, study_plan_preference.end_date),
    updated_at = now()
RETURNING *`
	err := repo.db.GetContext(ctx, &row, query,
		pref.LearnerID, pref.CourseID, string(pref.Style), pref.StartDate, pref.EndDate)
	if err != nil {
		return studyplan.Preference{}, errors.Wrap(err, "upserting plan preference")
	}
	return row.preference(), nil
}

func (repo *studyPlanRepository) QueryLessonProgress(ctx context.Context, learnerID string, lessonIDs []int) ([]studyplan.LessonProgress, error) {
	if len(lessonIDs) == 0 {
		return nil, nil
	}

	var rows []lessonProgressRow
	query := `SELECT * FROM lesson_progress WHERE learner_id = $1 AND lesson_id = ANY($2) ORDER BY lesson_id`
	if err := repo.db.SelectContext(ctx, &rows, query, learnerID, pq.Array(lessonIDs)); err != nil {
		return nil, errors.Wrap(err, "querying lesson progress")
	}

	progress := make([]studyplan.LessonProgress, 0, len(rows))
	for _, r := range rows {
		progress = append(progress, r.progress())
	}
	return progress, nil
}

func (repo *studyPlanRepository) UpsertPlannedDate(ctx context.Context, learnerID string, lessonID int, planned time.Time) (studyplan.LessonProgress, error) {
	var row lessonProgressRow
	query := `
INSERT INTO lesson_progress (learner_id, lesson_id, planned_completion_date)
VALUES ($1, $2, $3)
ON CONFLICT (learner_id, lesson_id) DO UPDATE
SET planned_completion_date = EXCLUDED.planned_completion_date
RETURNING *`
	if err := repo.db.GetContext(ctx, &row, query, learnerID, lessonID, planned); err != nil {
		return studyplan.LessonProgress{}, errors.Wrap(err, "upserting planned date")
	}
	return row.progress(), nil
}

func (repo *studyPlanRepository) UpsertCompletion(ctx context.Context, learnerID string, lessonID int, completed bool, completionDate null.Time) (studyplan.LessonProgress, error) {
	var row lessonProgressRow
	query := `
INSERT INTO lesson_progress (learner_id, lesson_id, completed, completion_date)
VALUES ($1, $2, $3, $4)
ON CONFLICT (learner_id, lesson_id) DO UPDATE
SET completed = EXCLUDED.completed, completion_date = EXCLUDED.completion_date
RETURNING *`
	if err := repo.db.GetContext(ctx, &row, query, learnerID, lessonID, completed, completionDate); err != nil {
		return studyplan.LessonProgress{}, errors.Wrap(err, "upserting lesson completion")
	}
	return row.progress(), nil
}
