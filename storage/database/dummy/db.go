package dummydb

import (
	"sync"

	"github.com/onlineimmigrant/eduplan/core/course"
	"github.com/onlineimmigrant/eduplan/core/enrollment"
	"github.com/onlineimmigrant/eduplan/core/learner"
	"github.com/onlineimmigrant/eduplan/core/quiz"
	"github.com/onlineimmigrant/eduplan/core/studyplan"
)

type (
	DB struct {
		learner    *learnerTable
		course     *courseTable
		enrollment *enrollmentTable
		quiz       *quizTable
		studyPlan  *studyPlanTable
	}

	learnerTable struct {
		sync.RWMutex
		table map[string]*learner.Learner
	}

	courseTable struct {
		sync.RWMutex
		courses map[int]*course.Course
		topics  map[int]*course.Topic
		// course ID -> ordered topic IDs
		courseTopics map[int][]int
		lessons      map[int]*course.Lesson
	}

	enrollmentTable struct {
		sync.RWMutex
		table map[string]*enrollment.Entitlement
	}

	quizTable struct {
		sync.RWMutex
		quizzes    map[int]*quiz.Quiz
		statistics map[int]*quiz.Statistic
		// keyed (learnerID, quizTopicID)
		topicStatistics map[topicStatKey]*quiz.TopicStatistic
	}

	topicStatKey struct {
		learnerID   string
		quizTopicID int
	}

	studyPlanTable struct {
		sync.RWMutex
		preferences map[int]*studyplan.Preference
		progress    map[int]*studyplan.LessonProgress
	}
)

func Open() (*DB, error) {
	db := &DB{
		learner: &learnerTable{table: make(map[string]*learner.Learner)},
		course: &courseTable{
			courses:      make(map[int]*course.Course),
			topics:       make(map[int]*course.Topic),
			courseTopics: make(map[int][]int),
			lessons:      make(map[int]*course.Lesson),
		},
		enrollment: &enrollmentTable{table: make(map[string]*enrollment.Entitlement)},
		quiz: &quizTable{
			quizzes:         make(map[int]*quiz.Quiz),
			statistics:      make(map[int]*quiz.Statistic),
			topicStatistics: make(map[topicStatKey]*quiz.TopicStatistic),
		},
		studyPlan: &studyPlanTable{
			preferences: make(map[int]*studyplan.Preference),
			progress:    make(map[int]*studyplan.LessonProgress),
		},
	}
	return db, nil
}
