// Package listing reconciles list pages after a successful remote mutation
// without refetching them.
package listing

import (
	"github.com/google/uuid"
	"github.com/justsurfingit/talent-portal/internal/models"
)

// State is what a list page renders from.
type State struct {
	Job          *models.Job
	Jobs         []models.Job
	Applications []models.Application
}

type Event interface {
	apply(State) State
}

// ItemDeleted removes the job or application with ID.
type ItemDeleted struct {
	ID uuid.UUID
}

// StatusChanged sets the status of the application with ID.
type StatusChanged struct {
	ID     uuid.UUID
	Status models.ApplicationStatus
}

// Reduce returns the state after e. s is never modified.
func Reduce(s State, e Event) State {
	if e == nil {
		return s
	}
	return e.apply(s)
}

func (e ItemDeleted) apply(s State) State {
	out := State{Job: s.Job}
	if s.Jobs != nil {
		out.Jobs = make([]models.Job, 0, len(s.Jobs))
		for _, j := range s.Jobs {
			if j.ID != e.ID {
				out.Jobs = append(out.Jobs, j)
			}
		}
	}
	if s.Applications != nil {
		out.Applications = make([]models.Application, 0, len(s.Applications))
		for _, a := range s.Applications {
			if a.ID != e.ID {
				out.Applications = append(out.Applications, a)
			}
		}
	}
	return out
}

func (e StatusChanged) apply(s State) State {
	out := State{Job: s.Job, Jobs: s.Jobs}
	if s.Applications != nil {
		out.Applications = make([]models.Application, len(s.Applications))
		copy(out.Applications, s.Applications)
		for i := range out.Applications {
			if out.Applications[i].ID == e.ID {
				out.Applications[i].Status = e.Status
			}
		}
	}
	return out
}
