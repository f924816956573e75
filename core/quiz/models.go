package quiz

// Quiz is the exam attached to a course.
type Quiz struct {
	ID       int    `json:"id"`
	CourseID int    `json:"-"`
	Slug     string `json:"slug"`
}

// Statistic is one recorded quiz attempt aggregate. Owned by the quiz
// subsystem; read-only here.
type Statistic struct {
	ID                 int    `json:"-"`
	LearnerID          string `json:"-"`
	QuizID             int    `json:"-"`
	ExamMode           bool   `json:"-"`
	QuestionsCorrect   int    `json:"questions_correct"`
	QuestionsAttempted int    `json:"questions_attempted"`
}

// TopicStatistic is the per-topic answer aggregate for a learner.
type TopicStatistic struct {
	LearnerID      string `json:"-"`
	QuizTopicID    int    `json:"quiz_topic_id"`
	CorrectAnswers int    `json:"correct_answers"`
	TotalQuestions int    `json:"total_questions"`
}

func (s TopicStatistic) PercentCorrect() float64 {
	if s.TotalQuestions == 0 {
		return 0
	}
	return float64(s.CorrectAnswers) / float64(s.TotalQuestions) * 100
}
