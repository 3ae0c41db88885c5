package service

import (
	"fmt"
	"time"

	"sprintdeck/internal/model"
)

// Sprint status only ever advances TO_DO → IN_PROGRESS → DONE. Staying put is
// always allowed; every backward edge is rejected. The "all tasks DONE"
// requirement for completing a sprint is checked at the call site, since it
// needs the task store.
func ValidateSprintTransition(current, next string) error {
	if current == next {
		return nil
	}
	switch next {
	case model.StatusToDo:
		return fmt.Errorf("%w: sprint cannot move back to TO_DO from %s", ErrInvalidTransition, current)
	case model.StatusInProgress:
		if current != model.StatusToDo {
			return fmt.Errorf("%w: sprint can only be set to IN_PROGRESS from TO_DO", ErrInvalidTransition)
		}
	case model.StatusDone:
		// reachable from TO_DO and IN_PROGRESS
	default:
		return fmt.Errorf("%w: unknown sprint status %q", ErrInvalidTransition, next)
	}
	return nil
}

// ValidateSprintWindow checks the sprint's date range is ordered.
func ValidateSprintWindow(startDate, endDate time.Time) error {
	if endDate.Before(startDate) {
		return fmt.Errorf("%w: sprint end date is before its start date", ErrInvalidDateRange)
	}
	return nil
}

// ValidateTaskDates checks startDate ≤ dueDate and, when the task is linked
// to a sprint, that both dates fall inside the sprint window.
func ValidateTaskDates(task *model.Task, sprint *model.Sprint) error {
	if task.DueDate.Before(task.StartDate) {
		return fmt.Errorf("%w: task due date is before its start date", ErrInvalidDateRange)
	}
	if sprint != nil {
		if task.StartDate.Before(sprint.StartDate) || task.DueDate.After(sprint.EndDate) {
			return fmt.Errorf("%w: task dates must fall within the sprint window", ErrInvalidDateRange)
		}
	}
	return nil
}
