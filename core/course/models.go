package course

import (
	"github.com/volatiletech/null/v8"
)

type Course struct {
	ID    int         `json:"id"`
	Slug  string      `json:"slug"`
	Title string      `json:"title"`
	Image null.String `json:"image"`
}

// Topic belongs to a Course through a join relation that carries the topic's
// order within that course.
type Topic struct {
	ID          int         `json:"id"`
	Slug        string      `json:"slug"`
	Title       string      `json:"title"`
	Description null.String `json:"description,omitempty"`
	Order       int         `json:"order"`
}

type Lesson struct {
	ID      int    `json:"id"`
	TopicID int    `json:"topic_id"`
	Title   string `json:"title"`
	Order   int    `json:"order"`
}

// Content is a fully resolved course: its topics ordered by course-topic order
// and its lessons in the global scheduling sequence (topic order, lesson order).
type Content struct {
	Course  Course
	Topics  []Topic
	Lessons []Lesson
}

func (c Content) LessonsForTopic(topicID int) []Lesson {
	lessons := make([]Lesson, 0)
	for _, l := range c.Lessons {
		if l.TopicID == topicID {
			lessons = append(lessons, l)
		}
	}
	return lessons
}

func (c Content) LessonIDs() []int {
	ids := make([]int, 0, len(c.Lessons))
	for _, l := range c.Lessons {
		ids = append(ids, l.ID)
	}
	return ids
}

func (c Content) HasLesson(lessonID int) bool {
	for _, l := range c.Lessons {
		if l.ID == lessonID {
			return true
		}
	}
	return false
}
