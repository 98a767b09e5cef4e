package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/gaborage/todo-bricks/database/statement"
)

// Columns shared by projects and tasks.
const (
	ColNotes       = "notes"
	ColStartDate   = "start_date"
	ColStartTime   = "start_time"
	ColDeadline    = "deadline"
	ColCompletedOn = "completed_on"
	ColLoggedOn    = "logged_on"
	ColTrashedOn   = "trashed_on"
)

// Schedule is the planning state shared by projects and tasks.
type Schedule struct {
	Notes       *string    `json:"notes"`
	StartDate   *time.Time `json:"startDate"`
	StartTime   *string    `json:"startTime"`
	Deadline    *time.Time `json:"deadline"`
	CompletedOn *time.Time `json:"completedOn"`
	LoggedOn    *time.Time `json:"loggedOn"`
	TrashedOn   *time.Time `json:"trashedOn"`
	AreaID      *uuid.UUID `json:"areaId"`
}

func (s *Schedule) targets(into map[string]any) map[string]any {
	into[ColNotes] = &s.Notes
	into[ColStartDate] = &s.StartDate
	into[ColStartTime] = &s.StartTime
	into[ColDeadline] = &s.Deadline
	into[ColCompletedOn] = &s.CompletedOn
	into[ColLoggedOn] = &s.LoggedOn
	into[ColTrashedOn] = &s.TrashedOn
	into[ColAreaID] = &s.AreaID
	return into
}

// CreateItem holds the create fields shared by projects and tasks. Dates use
// the 2006-01-02 layout and start times 15:04.
type CreateItem struct {
	Notes     *string     `json:"notes,omitempty"`
	StartDate *string     `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StartTime *string     `json:"startTime,omitempty" validate:"omitempty,datetime=15:04"`
	Deadline  *string     `json:"deadline,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AreaID    *uuid.UUID  `json:"areaId,omitempty"`
	Tags      []uuid.UUID `json:"tagIds,omitempty"`
}

func (r CreateItem) fields() []statement.Field {
	return []statement.Field{
		statement.InsertField(ColNotes, r.Notes),
		statement.InsertField(ColStartDate, r.StartDate),
		statement.InsertField(ColStartTime, r.StartTime),
		statement.InsertField(ColDeadline, r.Deadline),
		statement.InsertField(ColAreaID, r.AreaID),
	}
}

// TagIDs returns the tags linked on creation.
func (r CreateItem) TagIDs() []uuid.UUID {
	return r.Tags
}

// UpdateItem holds the update fields shared by projects and tasks. The
// completed, logged and trashed flags stamp the update timestamp when true
// and clear the column when false.
type UpdateItem struct {
	Notes     statement.Patch[string]    `json:"notes,omitzero"`
	StartDate statement.Patch[string]    `json:"startDate,omitzero" validate:"omitempty,datetime=2006-01-02"`
	StartTime statement.Patch[string]    `json:"startTime,omitzero" validate:"omitempty,datetime=15:04"`
	Deadline  statement.Patch[string]    `json:"deadline,omitzero" validate:"omitempty,datetime=2006-01-02"`
	Completed *bool                      `json:"completed,omitempty"`
	Logged    *bool                      `json:"logged,omitempty"`
	Trashed   *bool                      `json:"trashed,omitempty"`
	AreaID    statement.Patch[uuid.UUID] `json:"areaId,omitzero"`
}

func (r UpdateItem) fields() []statement.Field {
	return []statement.Field{
		statement.UpdateField(ColNotes, r.Notes),
		statement.UpdateField(ColStartDate, r.StartDate),
		statement.UpdateField(ColStartTime, r.StartTime),
		statement.UpdateField(ColDeadline, r.Deadline),
		statement.StampField(ColCompletedOn, r.Completed, ColUpdatedOn),
		statement.StampField(ColLoggedOn, r.Logged, ColUpdatedOn),
		statement.StampField(ColTrashedOn, r.Trashed, ColUpdatedOn),
		statement.UpdateField(ColAreaID, r.AreaID),
	}
}

// QueryItem holds the query fields shared by projects and tasks. A non-empty
// Tags list matches items linked to every listed tag.
type QueryItem struct {
	Notes     *statement.Filter[string]    `json:"notes,omitempty"`
	StartDate *statement.Filter[string]    `json:"startDate,omitempty"`
	StartTime *statement.Filter[string]    `json:"startTime,omitempty"`
	Deadline  *statement.Filter[string]    `json:"deadline,omitempty"`
	Completed *bool                        `json:"completed,omitempty"`
	Logged    *bool                        `json:"logged,omitempty"`
	Trashed   *bool                        `json:"trashed,omitempty"`
	AreaID    *statement.Filter[uuid.UUID] `json:"areaId,omitempty"`
	Tags      []uuid.UUID                  `json:"tagIds,omitempty"`
	FilterOptions
}

func (r QueryItem) fields() []statement.Field {
	return []statement.Field{
		statement.WhereField(ColNotes, r.Notes, statement.ILike),
		statement.WhereField(ColStartDate, r.StartDate, statement.Equal),
		statement.WhereField(ColStartTime, r.StartTime, statement.Equal),
		statement.WhereField(ColDeadline, r.Deadline, statement.Equal),
		statement.FlagField(ColCompletedOn, r.Completed),
		statement.FlagField(ColLoggedOn, r.Logged),
		statement.FlagField(ColTrashedOn, r.Trashed),
		statement.WhereField(ColAreaID, r.AreaID, statement.Equal),
	}
}

// TagIDs returns the tags every result must carry.
func (r QueryItem) TagIDs() []uuid.UUID {
	return r.Tags
}
