package domain

import (
	"strings"
)

// FilterTasks returns, in their original order, the tasks whose status is in
// statuses and whose title or description contains searchTerm.
// An empty status set and a blank search term both match everything. Any other
// term is matched as given, surrounding spaces included.
// The input slice is not modified.
func FilterTasks(tasks []Task, statuses []Status, searchTerm string) []Task {
	term := ""
	if strings.TrimSpace(searchTerm) != "" {
		term = strings.ToLower(searchTerm)
	}

	filtered := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		if !matchesStatus(task, statuses) {
			continue
		}
		if !matchesSearch(task, term) {
			continue
		}
		filtered = append(filtered, task)
	}
	return filtered
}

func matchesStatus(task Task, statuses []Status) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if task.Status == s {
			return true
		}
	}
	return false
}

// matchesSearch expects term to be lowercased already
func matchesSearch(task Task, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(task.Title), term) ||
		strings.Contains(strings.ToLower(task.Description), term)
}
