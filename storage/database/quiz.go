package database

import (
	"context"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/onlineimmigrant/eduplan/core"
	"github.com/onlineimmigrant/eduplan/core/quiz"
)

type quizRepository struct {
	db core.DBExecutor
}

var _ quiz.Repository = (*quizRepository)(nil) // interface compliance check

func NewQuizRepository(db core.DBExecutor) quiz.Repository {
	return &quizRepository{db: db}
}

type quizRow struct {
	ID       int    `db:"id"`
	CourseID int    `db:"course_id"`
	Slug     string `db:"slug"`
}

type quizStatisticRow struct {
	ID                 int    `db:"id"`
	LearnerID          string `db:"learner_id"`
	QuizID             int    `db:"quiz_id"`
	ExamMode           bool   `db:"exam_mode"`
	QuestionsCorrect   int    `db:"questions_correct"`
	QuestionsAttempted int    `db:"questions_attempted"`
}

type topicStatisticRow struct {
	LearnerID      string `db:"learner_id"`
	QuizTopicID    int    `db:"quiz_topic_id"`
	CorrectAnswers int    `db:"correct_answers"`
	TotalQuestions int    `db:"total_questions"`
}

func (repo *quizRepository) GetCourseQuiz(ctx context.Context, courseID int) (quiz.Quiz, error) {
	var row quizRow
	query := `SELECT * FROM quiz WHERE course_id = $1`
	if err := repo.db.GetContext(ctx, &row, query, courseID); err != nil {
		return quiz.Quiz{}, trapNoRowsErr(errors.Wrap(err, "getting course quiz"), quiz.ErrNotFound)
	}
	return quiz.Quiz{ID: row.ID, CourseID: row.CourseID, Slug: row.Slug}, nil
}

func (repo *quizRepository) QueryExamStatistics(ctx context.Context, learnerID string, quizID int) ([]quiz.Statistic, error) {
	var rows []quizStatisticRow
	query := `SELECT * FROM quiz_statistic WHERE learner_id = $1 AND quiz_id = $2 AND exam_mode ORDER BY id`
	if err := repo.db.SelectContext(ctx, &rows, query, learnerID, quizID); err != nil {
		return nil, errors.Wrap(err, "querying exam statistics")
	}

	stats := make([]quiz.Statistic, 0, len(rows))
	for _, r := range rows {
		stats = append(stats, quiz.Statistic{
			ID:                 r.ID,
			LearnerID:          r.LearnerID,
			QuizID:             r.QuizID,
			ExamMode:           r.ExamMode,
			QuestionsCorrect:   r.QuestionsCorrect,
			QuestionsAttempted: r.QuestionsAttempted,
		})
	}
	return stats, nil
}

func (repo *quizRepository) QueryTopicStatistics(ctx context.Context, learnerID string, quizTopicIDs []int) ([]quiz.TopicStatistic, error) {
	if len(quizTopicIDs) == 0 {
		return nil, nil
	}

	var rows []topicStatisticRow
	query := `
SELECT learner_id, quiz_topic_id, correct_answers, total_questions
FROM quiz_topic_statistic
WHERE learner_id = $1 AND quiz_topic_id = ANY($2)
ORDER BY quiz_topic_id`
	if err := repo.db.SelectContext(ctx, &rows, query, learnerID, pq.Array(quizTopicIDs)); err != nil {
		return nil, errors.Wrap(err, "querying topic statistics")
	}

	stats := make([]quiz.TopicStatistic, 0, len(rows))
	for _, r := range rows {
		stats = append(stats, quiz.TopicStatistic{
			LearnerID:      r.LearnerID,
			QuizTopicID:    r.QuizTopicID,
			CorrectAnswers: r.CorrectAnswers,
			TotalQuestions: r.TotalQuestions,
		})
	}
	return stats, nil
}
