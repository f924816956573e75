package studyplan

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/onlineimmigrant/eduplan/core"
	"github.com/onlineimmigrant/eduplan/core/course"
	"github.com/onlineimmigrant/eduplan/core/enrollment"
	"github.com/onlineimmigrant/eduplan/core/quiz"
)

var (
	// errors
	ErrPreferenceNotFound = errors.New("study plan preference not found")

	errStyleNotFlexible  = "lesson dates can only be edited in flexible style"
	errEndBeforeStart    = "end date must be after the start date"
	errStartBeforeGrant  = "start date cannot be before the entitlement start date"
	errEndAfterGrant     = "end date cannot be after the entitlement end date"
	errDateOutsideWindow = "date falls outside the entitlement window"
	errUnknownLesson     = "lesson does not belong to this course"
)

type (
	Repository interface {
		// GetPreference returns the single preference row keyed by
		// (learner, course), or ErrPreferenceNotFound.
		GetPreference(ctx context.Context, learnerID string, courseID int) (Preference, error)
		UpsertPreference(ctx context.Context, pref Preference) (Preference, error)
		QueryLessonProgress(ctx context.Context, learnerID string, lessonIDs []int) ([]LessonProgress, error)
		// UpsertPlannedDate sets only planned_completion_date on the row keyed
		// by (learner, lesson), preserving completion fields.
		UpsertPlannedDate(ctx context.Context, learnerID string, lessonID int, planned time.Time) (LessonProgress, error)
		// UpsertCompletion sets only completed/completion_date, preserving any
		// planned date override.
		UpsertCompletion(ctx context.Context, learnerID string, lessonID int, completed bool, completionDate null.Time) (LessonProgress, error)
	}

	Service struct {
		repo       Repository
		courses    *course.Service
		enrollment *enrollment.Service
		quizzes    *quiz.Service
	}
)

func NewService(repo Repository, courses *course.Service, enrollSvc *enrollment.Service, quizzes *quiz.Service) *Service {
	return &Service{
		repo:       repo,
		courses:    courses,
		enrollment: enrollSvc,
		quizzes:    quizzes,
	}
}

// GetPlan runs the whole pipeline for a page load: load content, check the
// entitlement, resolve preferences, generate the schedule and aggregate
// progress. Read-only.
func (svc *Service) GetPlan(ctx context.Context, learnerID, courseSlug string) (CourseProgress, error) {
	content, ent, err := svc.loadCourse(ctx, learnerID, courseSlug)
	if err != nil {
		return CourseProgress{}, err
	}
	pref, err := svc.findPreference(ctx, learnerID, content.Course.ID)
	if err != nil {
		return CourseProgress{}, err
	}
	return svc.buildPlan(ctx, learnerID, content, ent, pref, nil, nil)
}

// UpdateSettings persists a style and/or window change, then rebuilds the plan
// over the entire lesson set. The freshly saved window/style is fed back in as
// the top resolver tier so the rebuild never races the write. Window problems
// are rejected before anything is written.
func (svc *Service) UpdateSettings(ctx context.Context, learnerID, courseSlug string, in PlanSettings) (CourseProgress, error) {
	content, ent, err := svc.loadCourse(ctx, learnerID, courseSlug)
	if err != nil {
		return CourseProgress{}, err
	}

	style := Style(in.Style)
	explicitWin, err := svc.validateWindow(in, ent)
	if err != nil {
		return CourseProgress{}, err
	}

	pref, err := svc.findPreference(ctx, learnerID, content.Course.ID)
	if err != nil {
		return CourseProgress{}, err
	}

	now := time.Now().UTC()
	newPref := Preference{
		LearnerID: learnerID,
		CourseID:  content.Course.ID,
		Style:     style,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if pref != nil { // update, not insert
		newPref.ID = pref.ID
		newPref.CreatedAt = pref.CreatedAt
		newPref.StartDate = pref.StartDate
		newPref.EndDate = pref.EndDate
	}
	if explicitWin != nil {
		newPref.StartDate = null.TimeFrom(explicitWin.Start)
		newPref.EndDate = null.TimeFrom(explicitWin.End)
	}

	saved, err := svc.repo.UpsertPreference(ctx, newPref)
	if err != nil {
		return CourseProgress{}, pkgerrors.Wrap(err, "saving study plan preference")
	}

	return svc.buildPlan(ctx, learnerID, content, ent, &saved, &style, explicitWin)
}

// UpdateLessonDates applies a bulk per-lesson planned date edit (flexible style
// only). All rows are validated against the entitlement window before any
// write; persistence is then best-effort per row and never aborts the batch —
// the per-row results tell the caller exactly which lessons failed.
func (svc *Service) UpdateLessonDates(ctx context.Context, learnerID, courseSlug string, entries []LessonDate) ([]LessonDateResult, error) {
	content, ent, err := svc.loadCourse(ctx, learnerID, courseSlug)
	if err != nil {
		return nil, err
	}

	pref, err := svc.findPreference(ctx, learnerID, content.Course.ID)
	if err != nil {
		return nil, err
	}
	if pref == nil || pref.Style != StyleFlexible {
		return nil, core.NewValidationError(errors.New(errStyleNotFlexible))
	}

	grantWin := entitlementWindowOf(ent)

	// reject the whole batch before any write
	dates := make(map[int]time.Time, len(entries))
	for _, entry := range entries {
		if !content.HasLesson(entry.LessonID) {
			return nil, core.NewValidationError(nil, core.FieldError{
				Field: fmt.Sprintf("dates[%d].lesson_id", entry.LessonID),
				Error: errUnknownLesson,
			})
		}
		date, err := core.ParseDate(entry.Date)
		if err != nil {
			return nil, core.NewValidationError(pkgerrors.Wrap(err, "parsing date"))
		}
		if !grantWin.Contains(date) {
			return nil, core.NewValidationError(nil, core.FieldError{
				Field: fmt.Sprintf("dates[%d].date", entry.LessonID),
				Error: errDateOutsideWindow,
			})
		}
		dates[entry.LessonID] = date
	}

	// best-effort per row; a failed upsert leaves the previous row intact
	results := make([]LessonDateResult, 0, len(entries))
	for _, entry := range entries {
		res := LessonDateResult{LessonID: entry.LessonID}
		if _, err := svc.repo.UpsertPlannedDate(ctx, learnerID, entry.LessonID, dates[entry.LessonID]); err != nil {
			res.Error = err.Error()
		}
		results = append(results, res)
	}
	return results, nil
}

// SetLessonCompletion toggles a lesson's completion, setting or clearing the
// completion date while preserving any planned date override.
func (svc *Service) SetLessonCompletion(ctx context.Context, learnerID, courseSlug string, lessonID int, completed bool) (LessonProgress, error) {
	content, _, err := svc.loadCourse(ctx, learnerID, courseSlug)
	if err != nil {
		return LessonProgress{}, err
	}
	if !content.HasLesson(lessonID) {
		return LessonProgress{}, course.ErrLessonNotFound
	}

	var completionDate null.Time
	if completed {
		completionDate = null.TimeFrom(core.Today())
	}
	lp, err := svc.repo.UpsertCompletion(ctx, learnerID, lessonID, completed, completionDate)
	if err != nil {
		return LessonProgress{}, pkgerrors.Wrap(err, "saving lesson completion")
	}
	return lp, nil
}

func (svc *Service) loadCourse(ctx context.Context, learnerID, courseSlug string) (course.Content, enrollment.Entitlement, error) {
	content, err := svc.courses.GetContent(ctx, courseSlug)
	if err != nil {
		return course.Content{}, enrollment.Entitlement{}, err
	}
	ent, err := svc.enrollment.ActiveEntitlement(ctx, learnerID, content.Course.ID)
	if err != nil {
		return course.Content{}, enrollment.Entitlement{}, err
	}
	return content, ent, nil
}

func (svc *Service) findPreference(ctx context.Context, learnerID string, courseID int) (*Preference, error) {
	pref, err := svc.repo.GetPreference(ctx, learnerID, courseID)
	if err != nil {
		if pkgerrors.Cause(err) == ErrPreferenceNotFound {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(err, "finding study plan preference")
	}
	return &pref, nil
}

// validateWindow checks a caller-supplied window against the entitlement.
// Returns nil when no window was supplied (style-only edit).
func (svc *Service) validateWindow(in PlanSettings, ent enrollment.Entitlement) (*Window, error) {
	if in.StartDate == "" && in.EndDate == "" {
		return nil, nil
	}

	start, err := core.ParseDate(in.StartDate)
	if err != nil {
		return nil, core.NewValidationError(pkgerrors.Wrap(err, "parsing start date"))
	}
	end, err := core.ParseDate(in.EndDate)
	if err != nil {
		return nil, core.NewValidationError(pkgerrors.Wrap(err, "parsing end date"))
	}

	if !end.After(start) {
		return nil, core.NewValidationError(nil, core.FieldError{Field: "end_date", Error: errEndBeforeStart})
	}
	if start.Before(ent.StartDate) {
		return nil, core.NewValidationError(nil, core.FieldError{Field: "start_date", Error: errStartBeforeGrant})
	}
	if ent.EndDate.Valid && end.After(ent.EndDate.Time) {
		return nil, core.NewValidationError(nil, core.FieldError{Field: "end_date", Error: errEndAfterGrant})
	}
	return &Window{Start: start, End: end}, nil
}

// buildPlan is the read path shared by every operation: resolve style and
// window, generate the schedule and aggregate progress.
func (svc *Service) buildPlan(
	ctx context.Context,
	learnerID string,
	content course.Content,
	ent enrollment.Entitlement,
	pref *Preference,
	explicitStyle *Style,
	explicitWin *Window,
) (CourseProgress, error) {
	q, err := svc.quizzes.CourseQuiz(ctx, content.Course.ID)
	if err != nil {
		return CourseProgress{}, err
	}
	examStats, err := svc.quizzes.ExamStatistics(ctx, learnerID, q.ID)
	if err != nil {
		return CourseProgress{}, pkgerrors.Wrap(err, "loading exam statistics")
	}

	topicIDs := make([]int, 0, len(content.Topics))
	for _, t := range content.Topics {
		topicIDs = append(topicIDs, t.ID)
	}
	topicStats, err := svc.quizzes.TopicStatistics(ctx, learnerID, topicIDs)
	if err != nil {
		return CourseProgress{}, pkgerrors.Wrap(err, "loading quiz topic statistics")
	}

	rows, err := svc.repo.QueryLessonProgress(ctx, learnerID, content.LessonIDs())
	if err != nil {
		return CourseProgress{}, pkgerrors.Wrap(err, "loading lesson progress")
	}
	rowsByLesson := make(map[int]LessonProgress, len(rows))
	overrides := make(map[int]time.Time)
	for _, row := range rows {
		rowsByLesson[row.LessonID] = row
		if row.PlannedCompletionDate.Valid {
			overrides[row.LessonID] = row.PlannedCompletionDate.Time
		}
	}

	style := ResolveStyle(explicitStyle, pref)
	win := ResolveWindow(explicitWin, pref, ent)

	schedule := Generate(content.Lessons, win, style, overrides)
	topicsProgress := BuildTopicsProgress(content, schedule, rowsByLesson, topicStats)
	return BuildCourseProgress(content, q, examStats, topicsProgress, style, win), nil
}

func entitlementWindowOf(ent enrollment.Entitlement) Window {
	win, _ := entitlementWindow(ent)()
	return win
}
