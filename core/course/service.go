package course

import (
	"context"
	"errors"
	"sort"

	"github.com/onlineimmigrant/eduplan/core"
)

var (
	// errors
	ErrNotFound       = errors.New("course not found")
	ErrLessonNotFound = errors.New("lesson not found")
)

type (
	Repository interface {
		GetCourseBySlug(ctx context.Context, slug string) (Course, error)
		// QueryCourseTopics returns the topics linked to a course, ordered by
		// the course-topic order (ties broken by topic id).
		QueryCourseTopics(ctx context.Context, courseID int) ([]Topic, error)
		// QueryLessonsByTopicIDs returns the lessons of the given topics,
		// ordered by lesson order within each topic.
		QueryLessonsByTopicIDs(ctx context.Context, topicIDs []int) ([]Lesson, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetContent resolves a course by slug together with its ordered topics and the
// global lesson sequence. Read-only.
func (svc *Service) GetContent(ctx context.Context, slug string) (Content, error) {
	crs, err := svc.repo.GetCourseBySlug(ctx, core.CleanString(slug, true /* lower */))
	if err != nil {
		return Content{}, err
	}

	topics, err := svc.repo.QueryCourseTopics(ctx, crs.ID)
	if err != nil {
		return Content{}, err
	}
	if len(topics) == 0 {
		return Content{Course: crs, Topics: []Topic{}, Lessons: []Lesson{}}, nil
	}

	topicIDs := make([]int, 0, len(topics))
	topicOrder := make(map[int]int, len(topics))
	for _, t := range topics {
		topicIDs = append(topicIDs, t.ID)
		topicOrder[t.ID] = t.Order
	}

	lessons, err := svc.repo.QueryLessonsByTopicIDs(ctx, topicIDs)
	if err != nil {
		return Content{}, err
	}
	for _, l := range lessons {
		if _, ok := topicOrder[l.TopicID]; !ok {
			return Content{}, ErrNotFound
		}
	}

	// global sequence: stable sort on (topic order, lesson order), ties by id
	sort.SliceStable(lessons, func(i, j int) bool {
		li, lj := lessons[i], lessons[j]
		if topicOrder[li.TopicID] != topicOrder[lj.TopicID] {
			return topicOrder[li.TopicID] < topicOrder[lj.TopicID]
		}
		if li.Order != lj.Order {
			return li.Order < lj.Order
		}
		return li.ID < lj.ID
	})

	return Content{Course: crs, Topics: topics, Lessons: lessons}, nil
}
