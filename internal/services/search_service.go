package services

import (
	"context"

	"golang.org/x/text/language"

	"task-manager/internal/domain"
)

var defaultLanguage = language.English

// searchServiceImpl implements the SearchService interface
type searchServiceImpl struct {
	taskService TaskService
	sorter      *domain.Sorter
}

// NewSearchService creates a new SearchService instance
func NewSearchService(taskService TaskService, sorter *domain.Sorter) SearchService {
	if sorter == nil {
		sorter = domain.NewSorter(defaultLanguage)
	}
	return &searchServiceImpl{
		taskService: taskService,
		sorter:      sorter,
	}
}

// View loads the collection and applies opts to it
func (s *searchServiceImpl) View(ctx context.Context, opts ViewOptions) ([]domain.Task, error) {
	tasks, err := s.taskService.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	return s.ApplyView(tasks, opts), nil
}

// ApplyView filters first and sorts the survivors
func (s *searchServiceImpl) ApplyView(tasks []domain.Task, opts ViewOptions) []domain.Task {
	filtered := domain.FilterTasks(tasks, opts.Statuses, opts.SearchTerm)
	return s.sorter.Sort(filtered, opts.SortBy, opts.Ascending)
}
