package studyplan_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/onlineimmigrant/eduplan/core"
	"github.com/onlineimmigrant/eduplan/core/course"
	"github.com/onlineimmigrant/eduplan/core/enrollment"
	"github.com/onlineimmigrant/eduplan/core/quiz"
	"github.com/onlineimmigrant/eduplan/core/studyplan"
	dummydb "github.com/onlineimmigrant/eduplan/storage/database/dummy"
	testutil "github.com/onlineimmigrant/eduplan/tests"
)

type fixture struct {
	db        *dummydb.DB
	repo      studyplan.Repository
	svc       *studyplan.Service
	learnerID string
	crs       course.Course
	topics    []course.Topic
	lessons   []course.Lesson
	ent       enrollment.Entitlement
	quiz      quiz.Quiz
}

// setup seeds a 2-topic, 5-lesson course with an entitlement running from
// today to today+9d.
func setup(t *testing.T) *fixture {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}

	f := &fixture{
		db:        db,
		repo:      dummydb.NewStudyPlanRepository(db),
		learnerID: "0d0e8b57-52f2-42b5-ba92-ca6b3e384c1b",
	}
	f.svc = studyplan.NewService(
		f.repo,
		course.NewService(dummydb.NewCourseRepository(db)),
		enrollment.NewService(dummydb.NewEnrollmentRepository(db)),
		quiz.NewService(dummydb.NewQuizRepository(db)),
	)

	f.crs = testutil.CreateCourse(t, db, "go-basics", "Go Basics")
	t1 := testutil.CreateTopic(t, db, f.crs.ID, "syntax", "Syntax", 1)
	t2 := testutil.CreateTopic(t, db, f.crs.ID, "types", "Types", 2)
	f.topics = []course.Topic{t1, t2}
	f.lessons = []course.Lesson{
		testutil.CreateLesson(t, db, t1.ID, "Variables", 1),
		testutil.CreateLesson(t, db, t1.ID, "Loops", 2),
		testutil.CreateLesson(t, db, t1.ID, "Functions", 3),
		testutil.CreateLesson(t, db, t2.ID, "Structs", 1),
		testutil.CreateLesson(t, db, t2.ID, "Interfaces", 2),
	}

	start := core.Today()
	f.ent = testutil.CreateEntitlement(t, db, f.learnerID, f.crs.ID, start, start.AddDate(0, 0, 9))
	f.quiz = testutil.CreateQuiz(t, db, f.crs.ID, "go-basics-quiz")
	return f
}

func newValidate() *validator.Validate {
	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	return validate
}

func TestServiceGetPlan(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	testutil.CreateExamStatistic(t, f.db, f.learnerID, f.quiz.ID, 8, 10)
	testutil.CreateExamStatistic(t, f.db, f.learnerID, f.quiz.ID, 1, 10)
	testutil.CreateTopicStatistic(t, f.db, f.learnerID, f.topics[0].ID, 3, 4)

	plan, err := f.svc.GetPlan(ctx, f.learnerID, f.crs.Slug)
	if err != nil {
		t.Fatalf("GetPlan() failed: %v", err)
	}

	assert.Equal(t, f.crs, plan.Course)
	assert.Equal(t, f.quiz, plan.Quiz)
	assert.Equal(t, studyplan.StyleLinear, plan.Style)
	assert.Equal(t, core.Today(), plan.StartDate.Time)
	assert.Equal(t, core.Today().AddDate(0, 0, 9), plan.EndDate.Time)
	assert.Equal(t, 2, plan.TotalTopics)
	assert.Equal(t, 0, plan.CompletedTopics)

	// exam attempts are summed across runs
	if assert.NotNil(t, plan.QuizStatistic) {
		assert.Equal(t, 9, plan.QuizStatistic.QuestionsCorrect)
		assert.Equal(t, 20, plan.QuizStatistic.QuestionsAttempted)
		assert.Equal(t, float64(45), plan.QuizStatistic.PercentCorrect)
	}

	if assert.Len(t, plan.TopicsProgress, 2) {
		syntax := plan.TopicsProgress[0]
		assert.Equal(t, f.topics[0].ID, syntax.QuizTopicID)
		assert.Len(t, syntax.LessonsProgress, 3)
		if assert.NotNil(t, syntax.QuizTopicStats) {
			assert.Equal(t, float64(75), syntax.QuizTopicStats.PercentCorrect)
		}
		assert.Nil(t, plan.TopicsProgress[1].QuizTopicStats)

		// 9-day window / 5 lessons: offsets 0, 1, 3, 5, 7
		wantOffsets := []int{0, 1, 3, 5, 7}
		var i int
		for _, tp := range plan.TopicsProgress {
			for _, sl := range tp.LessonsProgress {
				want := core.Today().AddDate(0, 0, wantOffsets[i])
				assert.Equal(t, want, sl.PlannedCompletionDate.Time, "lesson %d", sl.Lesson.ID)
				i++
			}
		}
	}
}

func TestServiceGetPlanNoEntitlement(t *testing.T) {
	f := setup(t)

	_, err := f.svc.GetPlan(context.Background(), "b5a53ba9-0000-4000-8000-000000000000", f.crs.Slug)
	assert.Equal(t, enrollment.ErrNoEntitlement, err)

	_, err = f.svc.GetPlan(context.Background(), f.learnerID, "nope")
	assert.Equal(t, course.ErrNotFound, err)
}

func TestServiceUpdateSettings(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	validate := newValidate()

	// style-only change persists and reshapes the plan
	in := studyplan.PlanSettings{Style: "intensive"}
	if err := in.Validate(validate); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	plan, err := f.svc.UpdateSettings(ctx, f.learnerID, f.crs.Slug, in)
	if err != nil {
		t.Fatalf("UpdateSettings() failed: %v", err)
	}
	assert.Equal(t, studyplan.StyleIntensive, plan.Style)

	pref, err := f.repo.GetPreference(ctx, f.learnerID, f.crs.ID)
	if err != nil {
		t.Fatalf("GetPreference() failed: %v", err)
	}
	assert.Equal(t, studyplan.StyleIntensive, pref.Style)
	assert.False(t, pref.StartDate.Valid)

	// an explicit window within the entitlement is stored and takes effect
	start := core.Today().AddDate(0, 0, 1)
	end := core.Today().AddDate(0, 0, 6)
	in = studyplan.PlanSettings{
		Style:     "linear",
		StartDate: core.FormatDate(start),
		EndDate:   core.FormatDate(end),
	}
	plan, err = f.svc.UpdateSettings(ctx, f.learnerID, f.crs.Slug, in)
	if err != nil {
		t.Fatalf("UpdateSettings() failed: %v", err)
	}
	assert.Equal(t, start, plan.StartDate.Time)
	assert.Equal(t, end, plan.EndDate.Time)

	pref, _ = f.repo.GetPreference(ctx, f.learnerID, f.crs.ID)
	assert.Equal(t, start, pref.StartDate.Time)

	// a style-only update afterwards keeps the stored window
	plan, err = f.svc.UpdateSettings(ctx, f.learnerID, f.crs.Slug, studyplan.PlanSettings{Style: "intensive"})
	if err != nil {
		t.Fatalf("UpdateSettings() failed: %v", err)
	}
	assert.Equal(t, start, plan.StartDate.Time)
	assert.Equal(t, end, plan.EndDate.Time)
}

func TestServiceUpdateSettingsRejectsBadWindows(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{name: "end before start", start: core.Today().AddDate(0, 0, 5), end: core.Today().AddDate(0, 0, 2)},
		{name: "end equals start", start: core.Today().AddDate(0, 0, 5), end: core.Today().AddDate(0, 0, 5)},
		{name: "start before entitlement", start: core.Today().AddDate(0, 0, -1), end: core.Today().AddDate(0, 0, 5)},
		{name: "end after entitlement", start: core.Today(), end: core.Today().AddDate(0, 0, 30)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := studyplan.PlanSettings{
				Style:     "linear",
				StartDate: core.FormatDate(tt.start),
				EndDate:   core.FormatDate(tt.end),
			}
			_, err := f.svc.UpdateSettings(ctx, f.learnerID, f.crs.Slug, in)
			assert.IsType(t, &core.ValidationError{}, err)

			// nothing was written
			_, err = f.repo.GetPreference(ctx, f.learnerID, f.crs.ID)
			assert.Equal(t, studyplan.ErrPreferenceNotFound, err)
		})
	}
}

func TestServiceUpdateLessonDates(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	entries := []studyplan.LessonDate{
		{LessonID: f.lessons[0].ID, Date: core.FormatDate(core.Today().AddDate(0, 0, 2))},
	}

	// only flexible plans accept per-lesson dates
	_, err := f.svc.UpdateLessonDates(ctx, f.learnerID, f.crs.Slug, entries)
	assert.IsType(t, &core.ValidationError{}, err)

	if _, err = f.svc.UpdateSettings(ctx, f.learnerID, f.crs.Slug, studyplan.PlanSettings{Style: "flexible"}); err != nil {
		t.Fatalf("UpdateSettings() failed: %v", err)
	}

	results, err := f.svc.UpdateLessonDates(ctx, f.learnerID, f.crs.Slug, entries)
	if err != nil {
		t.Fatalf("UpdateLessonDates() failed: %v", err)
	}
	if assert.Len(t, results, 1) {
		assert.Equal(t, f.lessons[0].ID, results[0].LessonID)
		assert.Empty(t, results[0].Error)
	}

	// the override survives regeneration
	plan, err := f.svc.GetPlan(ctx, f.learnerID, f.crs.Slug)
	if err != nil {
		t.Fatalf("GetPlan() failed: %v", err)
	}
	got := plan.TopicsProgress[0].LessonsProgress[0].PlannedCompletionDate.Time
	assert.Equal(t, core.Today().AddDate(0, 0, 2), got)
}

func TestServiceUpdateLessonDatesRejectsBadEntries(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	if _, err := f.svc.UpdateSettings(ctx, f.learnerID, f.crs.Slug, studyplan.PlanSettings{Style: "flexible"}); err != nil {
		t.Fatalf("UpdateSettings() failed: %v", err)
	}

	tests := []struct {
		name    string
		entries []studyplan.LessonDate
	}{
		{
			name:    "unknown lesson",
			entries: []studyplan.LessonDate{{LessonID: 424242, Date: core.FormatDate(core.Today())}},
		},
		{
			name:    "unparseable date",
			entries: []studyplan.LessonDate{{LessonID: f.lessons[0].ID, Date: "not-a-date"}},
		},
		{
			name:    "date outside entitlement window",
			entries: []studyplan.LessonDate{{LessonID: f.lessons[0].ID, Date: core.FormatDate(core.Today().AddDate(0, 1, 0))}},
		},
		{
			name: "one bad entry rejects the batch",
			entries: []studyplan.LessonDate{
				{LessonID: f.lessons[0].ID, Date: core.FormatDate(core.Today())},
				{LessonID: 424242, Date: core.FormatDate(core.Today())},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.UpdateLessonDates(ctx, f.learnerID, f.crs.Slug, tt.entries)
			assert.IsType(t, &core.ValidationError{}, err)

			rows, err := f.repo.QueryLessonProgress(ctx, f.learnerID, []int{f.lessons[0].ID})
			if err != nil {
				t.Fatalf("QueryLessonProgress() failed: %v", err)
			}
			assert.Empty(t, rows)
		})
	}
}

func TestServiceSetLessonCompletion(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	row, err := f.svc.SetLessonCompletion(ctx, f.learnerID, f.crs.Slug, f.lessons[0].ID, true)
	if err != nil {
		t.Fatalf("SetLessonCompletion() failed: %v", err)
	}
	assert.True(t, row.Completed)
	assert.Equal(t, core.Today(), row.CompletionDate.Time)

	plan, err := f.svc.GetPlan(ctx, f.learnerID, f.crs.Slug)
	if err != nil {
		t.Fatalf("GetPlan() failed: %v", err)
	}
	assert.Equal(t, 1, plan.TopicsProgress[0].CompletedLessonsCount)

	// toggling back off clears the completion date
	row, err = f.svc.SetLessonCompletion(ctx, f.learnerID, f.crs.Slug, f.lessons[0].ID, false)
	if err != nil {
		t.Fatalf("SetLessonCompletion() failed: %v", err)
	}
	assert.False(t, row.Completed)
	assert.False(t, row.CompletionDate.Valid)

	// unknown lesson
	_, err = f.svc.SetLessonCompletion(ctx, f.learnerID, f.crs.Slug, 424242, true)
	assert.Equal(t, course.ErrLessonNotFound, err)
}
