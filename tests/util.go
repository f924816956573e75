package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/onlineimmigrant/eduplan/core/course"
	"github.com/onlineimmigrant/eduplan/core/enrollment"
	"github.com/onlineimmigrant/eduplan/core/learner"
	"github.com/onlineimmigrant/eduplan/core/quiz"
	dummydb "github.com/onlineimmigrant/eduplan/storage/database/dummy"
)

func CreateLearner(
	t *testing.T,
	repo learner.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
) learner.Learner {
	tstamp := time.Now().UTC()
	lrn := learner.Learner{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := lrn.SetPassword(pwd); err != nil {
			t.Fatalf("CreateLearner() failed: %v", err)
		}
	}
	lrn, err := repo.CreateLearner(context.Background(), lrn)
	if err != nil {
		t.Fatalf("CreateLearner() failed: %v", err)
	}
	return lrn
}

func CreateCourse(t *testing.T, db *dummydb.DB, slug, title string) course.Course {
	t.Helper()
	return db.SeedCourse(course.Course{Slug: slug, Title: title})
}

func CreateTopic(t *testing.T, db *dummydb.DB, courseID int, slug, title string, order int) course.Topic {
	t.Helper()
	return db.SeedTopic(courseID, course.Topic{Slug: slug, Title: title, Order: order})
}

func CreateLesson(t *testing.T, db *dummydb.DB, topicID int, title string, order int) course.Lesson {
	t.Helper()
	return db.SeedLesson(course.Lesson{TopicID: topicID, Title: title, Order: order})
}

func CreateEntitlement(t *testing.T, db *dummydb.DB, learnerID string, courseID int, start time.Time, end ...time.Time) enrollment.Entitlement {
	t.Helper()
	ent := enrollment.Entitlement{
		LearnerID: learnerID,
		CourseID:  courseID,
		IsActive:  true,
		StartDate: start,
	}
	if len(end) > 0 {
		ent.EndDate = null.TimeFrom(end[0])
	}
	return db.SeedEntitlement(ent)
}

func CreateQuiz(t *testing.T, db *dummydb.DB, courseID int, slug string) quiz.Quiz {
	t.Helper()
	return db.SeedQuiz(quiz.Quiz{CourseID: courseID, Slug: slug})
}

func CreateExamStatistic(t *testing.T, db *dummydb.DB, learnerID string, quizID, correct, attempted int) quiz.Statistic {
	t.Helper()
	return db.SeedExamStatistic(quiz.Statistic{
		LearnerID:          learnerID,
		QuizID:             quizID,
		ExamMode:           true,
		QuestionsCorrect:   correct,
		QuestionsAttempted: attempted,
	})
}

func CreateTopicStatistic(t *testing.T, db *dummydb.DB, learnerID string, quizTopicID, correct, total int) quiz.TopicStatistic {
	t.Helper()
	return db.SeedTopicStatistic(quiz.TopicStatistic{
		LearnerID:      learnerID,
		QuizTopicID:    quizTopicID,
		CorrectAnswers: correct,
		TotalQuestions: total,
	})
}
