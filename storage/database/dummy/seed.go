package dummydb

import (
	"github.com/google/uuid"

	"github.com/onlineimmigrant/eduplan/core/course"
	"github.com/onlineimmigrant/eduplan/core/enrollment"
	"github.com/onlineimmigrant/eduplan/core/quiz"
)

// Catalog and enrollment tables have no write operations in the repository
// interfaces (they are owned by other systems); the seeders below let tests
// and local bootstrapping fill them directly.

var (
	coursePKCount   int
	topicPKCount    int
	lessonPKCount   int
	quizPKCount     int
	quizStatPKCount int
)

func (db *DB) SeedCourse(c course.Course) course.Course {
	db.course.Lock()
	defer db.course.Unlock()

	if c.ID == 0 {
		coursePKCount++
		c.ID = coursePKCount
	}
	db.course.courses[c.ID] = &c
	return c
}

func (db *DB) SeedTopic(courseID int, t course.Topic) course.Topic {
	db.course.Lock()
	defer db.course.Unlock()

	if t.ID == 0 {
		topicPKCount++
		t.ID = topicPKCount
	}
	db.course.topics[t.ID] = &t
	db.course.courseTopics[courseID] = append(db.course.courseTopics[courseID], t.ID)
	return t
}

func (db *DB) SeedLesson(l course.Lesson) course.Lesson {
	db.course.Lock()
	defer db.course.Unlock()

	if l.ID == 0 {
		lessonPKCount++
		l.ID = lessonPKCount
	}
	db.course.lessons[l.ID] = &l
	return l
}

func (db *DB) SeedEntitlement(ent enrollment.Entitlement) enrollment.Entitlement {
	db.enrollment.Lock()
	defer db.enrollment.Unlock()

	if ent.ID == "" {
		ent.ID = uuid.New().String()
	}
	db.enrollment.table[ent.ID] = &ent
	return ent
}

func (db *DB) SeedQuiz(q quiz.Quiz) quiz.Quiz {
	db.quiz.Lock()
	defer db.quiz.Unlock()

	if q.ID == 0 {
		quizPKCount++
		q.ID = quizPKCount
	}
	db.quiz.quizzes[q.ID] = &q
	return q
}

func (db *DB) SeedExamStatistic(s quiz.Statistic) quiz.Statistic {
	db.quiz.Lock()
	defer db.quiz.Unlock()

	if s.ID == 0 {
		quizStatPKCount++
		s.ID = quizStatPKCount
	}
	db.quiz.statistics[s.ID] = &s
	return s
}

func (db *DB) SeedTopicStatistic(ts quiz.TopicStatistic) quiz.TopicStatistic {
	db.quiz.Lock()
	defer db.quiz.Unlock()

	db.quiz.topicStatistics[topicStatKey{learnerID: ts.LearnerID, quizTopicID: ts.QuizTopicID}] = &ts
	return ts
}
