package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	echoapi "github.com/onlineimmigrant/eduplan/apps/api/echo"
	"github.com/onlineimmigrant/eduplan/core"
	"github.com/onlineimmigrant/eduplan/core/course"
	"github.com/onlineimmigrant/eduplan/core/learner"
	"github.com/onlineimmigrant/eduplan/core/studyplan"
	testutil "github.com/onlineimmigrant/eduplan/tests"
)

type planFixture struct {
	student learner.Learner
	crs     course.Course
	topics  []course.Topic
	lessons []course.Lesson
}

// seedPlanCourse seeds a 2-topic, 5-lesson course with a 9-day entitlement for
// a fresh student.
func seedPlanCourse(t *testing.T) planFixture {
	t.Helper()

	f := planFixture{
		student: testutil.CreateLearner(t, lrnRepo, "Hero", "hero01", "hero@test.cd", "LolC@t123", []string{learner.RoleStudent}, true),
	}
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
	testutil.CreateEntitlement(t, db, f.student.ID, f.crs.ID, start, start.AddDate(0, 0, 9))
	testutil.CreateQuiz(t, db, f.crs.ID, "go-basics-quiz")
	return f
}

func planPath(slug string) string {
	return "/v1/courses/" + slug + "/study-plan"
}

func Test_studyPlanApi_retrieve(t *testing.T) {
	app := setup(t)
	f := seedPlanCourse(t)

	noRoles := testutil.CreateLearner(t, lrnRepo, "Guest", "guest01", "guest@test.cd", "LolC@t123", nil, true)
	outsider := testutil.CreateLearner(t, lrnRepo, "Out Sider", "outsider", "out@test.cd", "LolC@t123", []string{learner.RoleStudent}, true)

	tests := []httpTest{
		{name: "Auth required", path: planPath(f.crs.Slug), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Student required", path: planPath(f.crs.Slug), token: getToken(t, noRoles), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "unknown course", path: planPath("lol"), token: getToken(t, f.student), wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "course not found"}),
		},
		{
			name: "no entitlement", path: planPath(f.crs.Slug), token: getToken(t, outsider), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "no active entitlement for this course"}),
		},
		{name: "plan retrieved", path: planPath(f.crs.Slug), token: getToken(t, f.student), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var plan studyplan.CourseProgress
				if err := json.Unmarshal(rec.Body.Bytes(), &plan); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				assert.Equal(t, f.crs, plan.Course)
				assert.Equal(t, studyplan.StyleLinear, plan.Style)
				assert.Equal(t, core.Today(), plan.StartDate.Time)
				assert.Equal(t, core.Today().AddDate(0, 0, 9), plan.EndDate.Time)
				assert.Equal(t, 2, plan.TotalTopics)
				assert.Equal(t, 0, plan.CompletedTopics)
				if assert.Len(t, plan.TopicsProgress, 2) {
					assert.Equal(t, f.topics[0], plan.TopicsProgress[0].Topic)
					assert.Len(t, plan.TopicsProgress[0].LessonsProgress, 3)
					assert.Len(t, plan.TopicsProgress[1].LessonsProgress, 2)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_studyPlanApi_updateSettings(t *testing.T) {
	app := setup(t)
	f := seedPlanCourse(t)
	token := getToken(t, f.student)

	start := core.FormatDate(core.Today())
	end := core.FormatDate(core.Today().AddDate(0, 0, 7))
	farEnd := core.FormatDate(core.Today().AddDate(0, 0, 30))

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "required fields", token: token, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"style": "this field is required"}),
		},
		{
			name: "empty style", token: token, wantCode: http.StatusBadRequest,
			body:     marchallObj(t, studyplan.PlanSettings{Style: ""}),
			wantData: marchallObj(t, map[string]string{"style": "this field is required"}),
		},
		{
			name: "invalid style", token: token, wantCode: http.StatusBadRequest,
			body:     marchallObj(t, studyplan.PlanSettings{Style: "lol"}),
			wantData: marchallObj(t, map[string]string{"style": "must be one of: linear, intensive or flexible"}),
		},
		{
			name: "start date without end date", token: token, wantCode: http.StatusBadRequest,
			body:     marchallObj(t, studyplan.PlanSettings{Style: "linear", StartDate: start}),
			wantData: marchallObj(t, map[string]string{"end_date": "this field is required"}),
		},
		{
			name: "end date before start date", token: token, wantCode: http.StatusBadRequest,
			body:     marchallObj(t, studyplan.PlanSettings{Style: "linear", StartDate: end, EndDate: start}),
			wantData: marchallObj(t, map[string]string{"end_date": "end date must be after the start date"}),
		},
		{
			name: "end date outside entitlement", token: token, wantCode: http.StatusBadRequest,
			body:     marchallObj(t, studyplan.PlanSettings{Style: "linear", StartDate: start, EndDate: farEnd}),
			wantData: marchallObj(t, map[string]string{"end_date": "end date cannot be after the entitlement end date"}),
		},
		{
			name: "style changed", token: token, wantCode: http.StatusOK,
			body:  marchallObj(t, studyplan.PlanSettings{Style: "intensive"}),
			extra: studyplan.StyleIntensive,
		},
		{
			name: "window changed", token: token, wantCode: http.StatusOK,
			body:  marchallObj(t, studyplan.PlanSettings{Style: "intensive", StartDate: start, EndDate: end}),
			extra: studyplan.StyleIntensive,
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPut
		tt.path = planPath(f.crs.Slug) + "/settings"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var plan studyplan.CourseProgress
				if err := json.Unmarshal(rec.Body.Bytes(), &plan); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				assert.Equal(t, tt.extra.(studyplan.Style), plan.Style)
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}

	// the stored window survives the style-only rebuild
	req, rec := newAuthRequest(http.MethodGet, planPath(f.crs.Slug), token)
	app.ServeHTTP(rec, req)
	var plan studyplan.CourseProgress
	if err := json.Unmarshal(rec.Body.Bytes(), &plan); err != nil {
		t.Fatalf("json.Unmarshal() failed! err %v", err)
	}
	assert.Equal(t, core.Today().AddDate(0, 0, 7), plan.EndDate.Time)
}

func Test_studyPlanApi_updateLessonDates(t *testing.T) {
	app := setup(t)
	f := seedPlanCourse(t)
	token := getToken(t, f.student)

	date := core.FormatDate(core.Today().AddDate(0, 0, 3))
	body := func(entries ...studyplan.LessonDate) []byte {
		return marchallObj(t, studyplan.LessonDatesUpdate{Dates: entries})
	}

	setStyle := func(style string) {
		req, rec := newAuthRequest(http.MethodPut, planPath(f.crs.Slug)+"/settings", token,
			marchallObj(t, studyplan.PlanSettings{Style: style}))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("settings update failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
	}

	// per-lesson dates are rejected until the style is flexible
	setStyle("linear")
	req, rec := newAuthRequest(http.MethodPut, planPath(f.crs.Slug)+"/lesson-dates", token,
		body(studyplan.LessonDate{LessonID: f.lessons[1].ID, Date: date}))
	app.ServeHTTP(rec, req)
	tt := httpTest{
		wantCode: http.StatusBadRequest,
		wantData: marchallObj(t, httpErr{Error: "lesson dates can only be edited in flexible style"}),
	}
	checkCodeAndData(t, tt, rec)

	setStyle("flexible")

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "empty batch", token: token, body: marchallObj(t, studyplan.LessonDatesUpdate{}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"dates": "this field is required"}),
		},
		{
			name: "unknown lesson", token: token, body: body(studyplan.LessonDate{LessonID: 999, Date: date}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"dates[999].lesson_id": "lesson does not belong to this course"}),
		},
		{
			name: "invalid date", token: token, body: body(studyplan.LessonDate{LessonID: f.lessons[1].ID, Date: "lol"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"date": "must be a calendar date in YYYY-MM-DD format"}),
		},
		{
			name: "date outside entitlement", token: token,
			body:     body(studyplan.LessonDate{LessonID: f.lessons[1].ID, Date: core.FormatDate(core.Today().AddDate(0, 0, 30))}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{fmt.Sprintf("dates[%d].date", f.lessons[1].ID): "date falls outside the entitlement window"}),
		},
		{
			name: "dates updated", token: token,
			body: body(
				studyplan.LessonDate{LessonID: f.lessons[1].ID, Date: date},
				studyplan.LessonDate{LessonID: f.lessons[3].ID, Date: date},
			),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, echoapi.LessonDatesResponse{Results: []studyplan.LessonDateResult{
				{LessonID: f.lessons[1].ID},
				{LessonID: f.lessons[3].ID},
			}}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPut
		tt.path = planPath(f.crs.Slug) + "/lesson-dates"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// the override must show up in the generated schedule
	req, rec = newAuthRequest(http.MethodGet, planPath(f.crs.Slug), token)
	app.ServeHTTP(rec, req)
	var plan studyplan.CourseProgress
	if err := json.Unmarshal(rec.Body.Bytes(), &plan); err != nil {
		t.Fatalf("json.Unmarshal() failed! err %v", err)
	}
	if assert.Len(t, plan.TopicsProgress[0].LessonsProgress, 3) {
		assert.Equal(t, core.Today().AddDate(0, 0, 3), plan.TopicsProgress[0].LessonsProgress[1].PlannedCompletionDate.Time)
	}
}

func Test_studyPlanApi_setLessonCompletion(t *testing.T) {
	app := setup(t)
	f := seedPlanCourse(t)
	token := getToken(t, f.student)

	completionPath := func(id interface{}) string {
		return fmt.Sprintf("%s/lessons/%v/completion", planPath(f.crs.Slug), id)
	}

	type extraTest struct {
		completed bool
	}
	tests := []httpTest{
		{name: "Auth required", path: completionPath(f.lessons[0].ID), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "non-numeric lesson id", path: completionPath("lol"), token: token,
			body: marchallObj(t, echoapi.CompletionRequest{Completed: true}), wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "unknown lesson", path: completionPath(999), token: token,
			body: marchallObj(t, echoapi.CompletionRequest{Completed: true}), wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "lesson not found"}),
		},
		{
			name: "lesson completed", path: completionPath(f.lessons[0].ID), token: token,
			body: marchallObj(t, echoapi.CompletionRequest{Completed: true}), wantCode: http.StatusOK,
			extra: extraTest{completed: true},
		},
		{
			name: "completion cleared", path: completionPath(f.lessons[0].ID), token: token,
			body: marchallObj(t, echoapi.CompletionRequest{Completed: false}), wantCode: http.StatusOK,
			extra: extraTest{completed: false},
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPut

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var row studyplan.LessonProgress
				if err := json.Unmarshal(rec.Body.Bytes(), &row); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				extra := tt.extra.(extraTest)
				assert.Equal(t, f.lessons[0].ID, row.LessonID)
				assert.Equal(t, extra.completed, row.Completed)
				assert.Equal(t, extra.completed, row.CompletionDate.Valid)
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}
