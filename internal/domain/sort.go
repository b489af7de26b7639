package domain

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortCriteria is the field a task list is ordered by.
type SortCriteria string

const (
	SortByDueDate   SortCriteria = "dueDate"
	SortByPriority  SortCriteria = "priority"
	SortByCreatedAt SortCriteria = "createdAt"
	SortByTitle     SortCriteria = "title"
)

// SortCriteriaValues lists the supported criteria
var SortCriteriaValues = []SortCriteria{SortByDueDate, SortByPriority, SortByCreatedAt, SortByTitle}

// ParseSortCriteria accepts camelCase, kebab-case and snake_case spellings.
func ParseSortCriteria(s string) (SortCriteria, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "duedate", "due-date", "due_date", "due":
		return SortByDueDate, nil
	case "priority":
		return SortByPriority, nil
	case "createdat", "created-at", "created_at", "created":
		return SortByCreatedAt, nil
	case "title":
		return SortByTitle, nil
	}
	return "", fmt.Errorf("unknown sort criteria %q (want dueDate, priority, createdAt or title)", s)
}

// Sorter orders task collections, comparing titles with the collation rules of a language.
type Sorter struct {
	tag language.Tag
}

// NewSorter returns a Sorter using tag for title collation
func NewSorter(tag language.Tag) *Sorter {
	return &Sorter{tag: tag}
}

// Sort returns a stably sorted copy of tasks. The input slice is not modified.
//
// Tasks without a due date always come last when sorting by due date, in
// either direction. Unknown criteria leave the order unchanged.
func (s *Sorter) Sort(tasks []Task, criteria SortCriteria, ascending bool) []Task {
	sorted := make([]Task, len(tasks))
	copy(sorted, tasks)

	var cmp func(a, b Task) int
	switch criteria {
	case SortByPriority:
		cmp = comparePriority
	case SortByDueDate:
		return sortByDueDate(sorted, ascending)
	case SortByCreatedAt:
		cmp = compareCreatedAt
	case SortByTitle:
		// Collators are not safe for concurrent use, so each call gets its own.
		collator := collate.New(s.tag)
		cmp = func(a, b Task) int {
			return collator.CompareString(a.Title, b.Title)
		}
	default:
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		c := cmp(sorted[i], sorted[j])
		if !ascending {
			c = -c
		}
		return c < 0
	})
	return sorted
}

func sortByDueDate(sorted []Task, ascending bool) []Task {
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].DueDate, sorted[j].DueDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		case ascending:
			return a.Before(*b)
		default:
			return b.Before(*a)
		}
	})
	return sorted
}

func comparePriority(a, b Task) int {
	return a.Priority.Rank() - b.Priority.Rank()
}

func compareCreatedAt(a, b Task) int {
	return a.CreatedAt.Compare(b.CreatedAt)
}

var defaultSorter = NewSorter(language.English)

// SortTasks sorts with English title collation. See Sorter.Sort.
func SortTasks(tasks []Task, criteria SortCriteria, ascending bool) []Task {
	return defaultSorter.Sort(tasks, criteria, ascending)
}
