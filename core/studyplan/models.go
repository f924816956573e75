package studyplan

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/onlineimmigrant/eduplan/core"
	"github.com/onlineimmigrant/eduplan/core/course"
	"github.com/onlineimmigrant/eduplan/core/quiz"
)

// Style is the pacing algorithm used to spread lessons across the scheduling
// window. Closed set; the Schedule Generator switches exhaustively on it.
type Style string

const (
	StyleLinear    Style = "linear"
	StyleIntensive Style = "intensive"
	StyleFlexible  Style = "flexible"

	DefaultStyle = StyleLinear

	// default plan horizon (months) when the entitlement has no end date
	defaultPlanMonths = 6
)

func (s Style) Valid() bool {
	switch s {
	case StyleLinear, StyleIntensive, StyleFlexible:
		return true
	}
	return false
}

// Window is the effective scheduling period after precedence resolution.
type Window struct {
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

// TotalDays returns the window length in real-valued days.
func (w Window) TotalDays() float64 {
	return w.End.Sub(w.Start).Hours() / 24
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Preference is a learner's stored study plan settings for one course.
// Created on first save, updated thereafter, never hard-deleted.
type Preference struct {
	ID        int       `json:"id"`
	LearnerID string    `json:"learner_id"`
	CourseID  int       `json:"course_id"`
	Style     Style     `json:"style"`
	StartDate null.Time `json:"start_date"`
	EndDate   null.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// Window returns the preference's explicit window when both dates are set.
func (p Preference) Window() (Window, bool) {
	if p.StartDate.Valid && p.EndDate.Valid {
		return Window{Start: p.StartDate.Time, End: p.EndDate.Time}, true
	}
	return Window{}, false
}

// LessonProgress is the persisted per-(learner, lesson) record. At most one row
// per pair; created lazily on first write.
type LessonProgress struct {
	ID                    int       `json:"-"`
	LearnerID             string    `json:"-"`
	LessonID              int       `json:"lesson_id"`
	Completed             bool      `json:"completed"`
	CompletionDate        null.Time `json:"completion_date"`
	PlannedCompletionDate null.Time `json:"planned_completion_date"`
}

// Date is a calendar date that marshals as YYYY-MM-DD on the wire.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + core.FormatDate(d.Time) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}
	t, err := core.ParseDate(strings.Trim(s, `"`))
	if err != nil {
		return err
	}
	*d = NewDate(t)
	return nil
}

// Derived aggregates. Computed on every read; no independent lifecycle.

type ScheduledLesson struct {
	Lesson                course.Lesson `json:"lesson"`
	Completed             bool          `json:"completed"`
	CompletionDate        null.Time     `json:"completion_date"`
	PlannedCompletionDate Date          `json:"planned_completion_date"`
}

type TopicQuizStats struct {
	CorrectAnswers int     `json:"correct_answers"`
	TotalQuestions int     `json:"total_questions"`
	PercentCorrect float64 `json:"percent_correct"`
}

type OverallQuizStats struct {
	QuestionsCorrect   int     `json:"questions_correct"`
	QuestionsAttempted int     `json:"questions_attempted"`
	PercentCorrect     float64 `json:"percent_correct"`
}

type TopicProgress struct {
	Topic                 course.Topic      `json:"topic"`
	QuizTopicID           int               `json:"quiz_topic_id"`
	LessonsProgress       []ScheduledLesson `json:"lessons_progress"`
	CompletedLessonsCount int               `json:"completed_lessons_count"`
	ProgressPercentage    float64           `json:"progress_percentage"`
	QuizTopicStats        *TopicQuizStats   `json:"quiz_topic_stats"`
}

type CourseProgress struct {
	Course                    course.Course     `json:"course"`
	Quiz                      quiz.Quiz         `json:"quiz"`
	QuizStatistic             *OverallQuizStats `json:"quiz_statistic"`
	Style                     Style             `json:"style"`
	StartDate                 Date              `json:"start_date"`
	EndDate                   Date              `json:"end_date"`
	TotalTopics               int               `json:"total_topics"`
	CompletedTopics           int               `json:"completed_topics"`
	CompletedTopicsPercentage float64           `json:"completed_topics_percentage"`
	TopicsProgress            []TopicProgress   `json:"topics_progress"`
}

// Inputs

// PlanSettings is the learner's style and/or window change. Dates come as
// calendar dates and must be supplied together.
type PlanSettings struct {
	Style     string `json:"style" validate:"required,pacingstyle"`
	StartDate string `json:"start_date" validate:"omitempty,date,required_with=EndDate"`
	EndDate   string `json:"end_date" validate:"omitempty,date,required_with=StartDate"`
}

func (ps *PlanSettings) Validate(validate *validator.Validate) error {
	ps.Style = core.CleanString(ps.Style, true /* lower */)
	ps.StartDate = core.CleanString(ps.StartDate)
	ps.EndDate = core.CleanString(ps.EndDate)
	return validate.Struct(ps)
}

// LessonDate is one per-lesson planned date override (flexible style only).
type LessonDate struct {
	LessonID int    `json:"lesson_id" validate:"required"`
	Date     string `json:"date" validate:"required,date"`
}

type LessonDatesUpdate struct {
	Dates []LessonDate `json:"dates" validate:"required,min=1,dive"`
}

func (ld *LessonDatesUpdate) Validate(validate *validator.Validate) error {
	for i := range ld.Dates {
		ld.Dates[i].Date = core.CleanString(ld.Dates[i].Date)
	}
	return validate.Struct(ld)
}

// LessonDateResult reports the outcome of one row of a bulk date update; rows
// are processed best-effort and independently.
type LessonDateResult struct {
	LessonID int    `json:"lesson_id"`
	Error    string `json:"error,omitempty"`
}
