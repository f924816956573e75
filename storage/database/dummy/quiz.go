package dummydb

import (
	"context"
	"sort"

	"github.com/onlineimmigrant/eduplan/core/quiz"
)

type quizRepository struct {
	db *quizTable
}

var _ quiz.Repository = (*quizRepository)(nil) // interface compliance check

func NewQuizRepository(db *DB) quiz.Repository {
	return &quizRepository{db: db.quiz}
}

func (repo *quizRepository) GetCourseQuiz(ctx context.Context, courseID int) (quiz.Quiz, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, q := range repo.db.quizzes {
		if q.CourseID == courseID {
			return *q, nil
		}
	}
	return quiz.Quiz{}, quiz.ErrNotFound
}

func (repo *quizRepository) QueryExamStatistics(ctx context.Context, learnerID string, quizID int) ([]quiz.Statistic, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var stats []quiz.Statistic
	for _, s := range repo.db.statistics {
		if s.LearnerID == learnerID && s.QuizID == quizID && s.ExamMode {
			stats = append(stats, *s)
		}
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].ID < stats[j].ID })
	return stats, nil
}

func (repo *quizRepository) QueryTopicStatistics(ctx context.Context, learnerID string, quizTopicIDs []int) ([]quiz.TopicStatistic, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var stats []quiz.TopicStatistic
	for _, id := range quizTopicIDs {
		if ts, ok := repo.db.topicStatistics[topicStatKey{learnerID: learnerID, quizTopicID: id}]; ok {
			stats = append(stats, *ts)
		}
	}
	return stats, nil
}
