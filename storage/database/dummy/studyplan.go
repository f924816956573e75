package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/onlineimmigrant/eduplan/core/studyplan"
)

var (
	prefPKCount     int
	progressPKCount int
)

type studyPlanRepository struct {
	db *studyPlanTable
}

var _ studyplan.Repository = (*studyPlanRepository)(nil) // interface compliance check

func NewStudyPlanRepository(db *DB) studyplan.Repository {
	return &studyPlanRepository{db: db.studyPlan}
}

func (repo *studyPlanRepository) getPreference(learnerID string, courseID int) (*studyplan.Preference, bool) {
	for _, p := range repo.db.preferences {
		if p.LearnerID == learnerID && p.CourseID == courseID {
			return p, true
		}
	}
	return nil, false
}

func (repo *studyPlanRepository) GetPreference(ctx context.Context, learnerID string, courseID int) (studyplan.Preference, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if p, ok := repo.getPreference(learnerID, courseID); ok {
		return *p, nil
	}
	return studyplan.Preference{}, studyplan.ErrPreferenceNotFound
}

func (repo *studyPlanRepository) UpsertPreference(ctx context.Context, pref studyplan.Preference) (studyplan.Preference, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	now := time.Now().UTC()
	if orig, ok := repo.getPreference(pref.LearnerID, pref.CourseID); ok {
		orig.Style = pref.Style
		// stored dates survive a style-only update
		if pref.StartDate.Valid {
			orig.StartDate = pref.StartDate
		}
		if pref.EndDate.Valid {
			orig.EndDate = pref.EndDate
		}
		orig.UpdatedAt = now
		return *orig, nil
	}

	prefPKCount++
	pref.ID = prefPKCount
	pref.CreatedAt = now
	pref.UpdatedAt = now
	repo.db.preferences[pref.ID] = &pref
	return pref, nil
}

func (repo *studyPlanRepository) getProgress(learnerID string, lessonID int) (*studyplan.LessonProgress, bool) {
	for _, row := range repo.db.progress {
		if row.LearnerID == learnerID && row.LessonID == lessonID {
			return row, true
		}
	}
	return nil, false
}

func (repo *studyPlanRepository) QueryLessonProgress(ctx context.Context, learnerID string, lessonIDs []int) ([]studyplan.LessonProgress, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	wanted := make(map[int]struct{}, len(lessonIDs))
	for _, id := range lessonIDs {
		wanted[id] = struct{}{}
	}

	var rows []studyplan.LessonProgress
	for _, row := range repo.db.progress {
		if _, ok := wanted[row.LessonID]; ok && row.LearnerID == learnerID {
			rows = append(rows, *row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].LessonID < rows[j].LessonID })
	return rows, nil
}

func (repo *studyPlanRepository) UpsertPlannedDate(ctx context.Context, learnerID string, lessonID int, planned time.Time) (studyplan.LessonProgress, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if row, ok := repo.getProgress(learnerID, lessonID); ok {
		row.PlannedCompletionDate = null.TimeFrom(planned)
		return *row, nil
	}

	progressPKCount++
	row := &studyplan.LessonProgress{
		ID:                    progressPKCount,
		LearnerID:             learnerID,
		LessonID:              lessonID,
		PlannedCompletionDate: null.TimeFrom(planned),
	}
	repo.db.progress[row.ID] = row
	return *row, nil
}

func (repo *studyPlanRepository) UpsertCompletion(ctx context.Context, learnerID string, lessonID int, completed bool, completionDate null.Time) (studyplan.LessonProgress, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if row, ok := repo.getProgress(learnerID, lessonID); ok {
		row.Completed = completed
		row.CompletionDate = completionDate
		return *row, nil
	}

	progressPKCount++
	row := &studyplan.LessonProgress{
		ID:             progressPKCount,
		LearnerID:      learnerID,
		LessonID:       lessonID,
		Completed:      completed,
		CompletionDate: completionDate,
	}
	repo.db.progress[row.ID] = row
	return *row, nil
}
