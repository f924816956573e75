package quiz

import (
	"context"
	"errors"
)

var (
	// errors
	ErrNotFound = errors.New("quiz not found")
)

type (
	Repository interface {
		GetCourseQuiz(ctx context.Context, courseID int) (Quiz, error)
		// QueryExamStatistics returns the learner's attempt aggregates for the
		// quiz with exam_mode = true.
		QueryExamStatistics(ctx context.Context, learnerID string, quizID int) ([]Statistic, error)
		QueryTopicStatistics(ctx context.Context, learnerID string, quizTopicIDs []int) ([]TopicStatistic, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CourseQuiz(ctx context.Context, courseID int) (Quiz, error) {
	return svc.repo.GetCourseQuiz(ctx, courseID)
}

func (svc *Service) ExamStatistics(ctx context.Context, learnerID string, quizID int) ([]Statistic, error) {
	return svc.repo.QueryExamStatistics(ctx, learnerID, quizID)
}

func (svc *Service) TopicStatistics(ctx context.Context, learnerID string, quizTopicIDs []int) ([]TopicStatistic, error) {
	return svc.repo.QueryTopicStatistics(ctx, learnerID, quizTopicIDs)
}
