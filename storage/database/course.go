package database

import (
	"context"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/onlineimmigrant/eduplan/core"
	"github.com/onlineimmigrant/eduplan/core/course"
)

type courseRepository struct {
	db core.DBExecutor
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db core.DBExecutor) course.Repository {
	return &courseRepository{db: db}
}

type courseRow struct {
	ID    int         `db:"id"`
	Slug  string      `db:"slug"`
	Title string      `db:"title"`
	Image null.String `db:"image"`
}

type topicRow struct {
	ID          int         `db:"id"`
	Slug        string      `db:"slug"`
	Title       string      `db:"title"`
	Description null.String `db:"description"`
	Order       int         `db:"ord"`
}

type lessonRow struct {
	ID      int    `db:"id"`
	TopicID int    `db:"topic_id"`
	Title   string `db:"title"`
	Order   int    `db:"ord"`
}

func (repo *courseRepository) GetCourseBySlug(ctx context.Context, slug string) (course.Course, error) {
	var row courseRow
	query := `SELECT * FROM course WHERE slug = $1`
	if err := repo.db.GetContext(ctx, &row, query, slug); err != nil {
		return course.Course{}, trapNoRowsErr(errors.Wrap(err, "getting course"), course.ErrNotFound)
	}
	return course.Course{ID: row.ID, Slug: row.Slug, Title: row.Title, Image: row.Image}, nil
}

func (repo *courseRepository) QueryCourseTopics(ctx context.Context, courseID int) ([]course.Topic, error) {
	var rows []topicRow
	query := `
SELECT t.id, t.slug, t.title, t.description, ct.ord
FROM topic t
JOIN course_topic ct ON ct.topic_id = t.id
WHERE ct.course_id = $1
ORDER BY ct.ord, t.id`
	if err := repo.db.SelectContext(ctx, &rows, query, courseID); err != nil {
		return nil, errors.Wrap(err, "querying course topics")
	}

	topics := make([]course.Topic, 0, len(rows))
	for _, r := range rows {
		topics = append(topics, course.Topic{
			ID:          r.ID,
			Slug:        r.Slug,
			Title:       r.Title,
			Description: r.Description,
			Order:       r.Order,
		})
	}
	return topics, nil
}

func (repo *courseRepository) QueryLessonsByTopicIDs(ctx context.Context, topicIDs []int) ([]course.Lesson, error) {
	if len(topicIDs) == 0 {
		return nil, nil
	}

	var rows []lessonRow
	query := `SELECT id, topic_id, title, ord FROM lesson WHERE topic_id = ANY($1) ORDER BY topic_id, ord, id`
	if err := repo.db.SelectContext(ctx, &rows, query, pq.Array(topicIDs)); err != nil {
		return nil, errors.Wrap(err, "querying lessons")
	}

	lessons := make([]course.Lesson, 0, len(rows))
	for _, r := range rows {
		lessons = append(lessons, course.Lesson{ID: r.ID, TopicID: r.TopicID, Title: r.Title, Order: r.Order})
	}
	return lessons, nil
}
