package dummydb

import (
	"context"

	"github.com/onlineimmigrant/eduplan/core/course"
)

type courseRepository struct {
	db *courseTable
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db.course}
}

func (repo *courseRepository) GetCourseBySlug(ctx context.Context, slug string) (course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, c := range repo.db.courses {
		if c.Slug == slug {
			return *c, nil
		}
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) QueryCourseTopics(ctx context.Context, courseID int) ([]course.Topic, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	topicIDs := repo.db.courseTopics[courseID]
	topics := make([]course.Topic, 0, len(topicIDs))
	for _, id := range topicIDs {
		if t, ok := repo.db.topics[id]; ok {
			topics = append(topics, *t)
		}
	}
	return topics, nil
}

func (repo *courseRepository) QueryLessonsByTopicIDs(ctx context.Context, topicIDs []int) ([]course.Lesson, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	wanted := make(map[int]struct{}, len(topicIDs))
	for _, id := range topicIDs {
		wanted[id] = struct{}{}
	}

	var lessons []course.Lesson
	for _, l := range repo.db.lessons {
		if _, ok := wanted[l.TopicID]; ok {
			lessons = append(lessons, *l)
		}
	}
	return lessons, nil
}
