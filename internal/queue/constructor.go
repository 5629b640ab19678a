package queue

import (
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/service"
)

type Queue struct {
	pr repository.PostRepository
	ts service.TitlesService
	gn service.ContentGenerator
	is service.ImageSearcher
}

func NewQueue(
	pr repository.PostRepository,
	ts service.TitlesService,
	gn service.ContentGenerator,
	is service.ImageSearcher) *Queue {
	return &Queue{
		pr: pr,
		ts: ts,
		gn: gn,
		is: is,
	}
}

const TaskTypeGenerateContent = "titles:generate"

type GenerateContentPayload struct {
	UserID    int64  `json:"user_id"`
	TitleID   int64  `json:"title_id"`
	TitleText string `json:"title_text"`
}
