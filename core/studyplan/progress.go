package studyplan

import (
	"time"

	"github.com/onlineimmigrant/eduplan/core/course"
	"github.com/onlineimmigrant/eduplan/core/quiz"
)

// The aggregators below are pure functions of their inputs: identical inputs
// always yield identical output, and nothing is persisted.

// BuildTopicsProgress merges the generated schedule, the learner's persisted
// lesson progress rows and the per-topic quiz statistics into one TopicProgress
// per topic. Lessons without a persisted row default to not completed.
func BuildTopicsProgress(
	content course.Content,
	schedule map[int]time.Time,
	rows map[int]LessonProgress,
	topicStats []quiz.TopicStatistic,
) []TopicProgress {
	statsByTopic := make(map[int]quiz.TopicStatistic, len(topicStats))
	for _, ts := range topicStats {
		statsByTopic[ts.QuizTopicID] = ts
	}

	topicsProgress := make([]TopicProgress, 0, len(content.Topics))
	for _, topic := range content.Topics {
		lessons := content.LessonsForTopic(topic.ID)

		scheduled := make([]ScheduledLesson, 0, len(lessons))
		var completedCount int
		for _, lesson := range lessons {
			row := rows[lesson.ID] // zero value: not completed, no dates
			if row.Completed {
				completedCount++
			}
			scheduled = append(scheduled, ScheduledLesson{
				Lesson:                lesson,
				Completed:             row.Completed,
				CompletionDate:        row.CompletionDate,
				PlannedCompletionDate: NewDate(schedule[lesson.ID]),
			})
		}

		var pct float64
		if len(lessons) > 0 {
			pct = float64(completedCount) / float64(len(lessons)) * 100
		}

		var quizStats *TopicQuizStats
		if ts, ok := statsByTopic[topic.ID]; ok {
			quizStats = &TopicQuizStats{
				CorrectAnswers: ts.CorrectAnswers,
				TotalQuestions: ts.TotalQuestions,
				PercentCorrect: ts.PercentCorrect(),
			}
		}

		topicsProgress = append(topicsProgress, TopicProgress{
			Topic:                 topic,
			QuizTopicID:           topic.ID,
			LessonsProgress:       scheduled,
			CompletedLessonsCount: completedCount,
			ProgressPercentage:    pct,
			QuizTopicStats:        quizStats,
		})
	}
	return topicsProgress
}

// SummarizeExamStatistics sums correct/attempted counts across all exam-mode
// attempts (summation, not averaging) and derives the percentage from the
// summed totals. Returns nil when there are no attempts.
func SummarizeExamStatistics(stats []quiz.Statistic) *OverallQuizStats {
	if len(stats) == 0 {
		return nil
	}
	var correct, attempted int
	for _, s := range stats {
		correct += s.QuestionsCorrect
		attempted += s.QuestionsAttempted
	}
	var pct float64
	if attempted > 0 {
		pct = float64(correct) / float64(attempted) * 100
	}
	return &OverallQuizStats{
		QuestionsCorrect:   correct,
		QuestionsAttempted: attempted,
		PercentCorrect:     pct,
	}
}

// BuildCourseProgress rolls topics up to the course level. A topic counts as
// completed only when its progress percentage is exactly 100.
func BuildCourseProgress(
	content course.Content,
	q quiz.Quiz,
	examStats []quiz.Statistic,
	topicsProgress []TopicProgress,
	style Style,
	win Window,
) CourseProgress {
	var completedTopics int
	for _, tp := range topicsProgress {
		if tp.ProgressPercentage == 100 {
			completedTopics++
		}
	}
	var completedPct float64
	if len(topicsProgress) > 0 {
		completedPct = float64(completedTopics) / float64(len(topicsProgress)) * 100
	}

	return CourseProgress{
		Course:                    content.Course,
		Quiz:                      q,
		QuizStatistic:             SummarizeExamStatistics(examStats),
		Style:                     style,
		StartDate:                 NewDate(win.Start),
		EndDate:                   NewDate(win.End),
		TotalTopics:               len(topicsProgress),
		CompletedTopics:           completedTopics,
		CompletedTopicsPercentage: completedPct,
		TopicsProgress:            topicsProgress,
	}
}
