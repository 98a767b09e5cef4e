// Package todo implements the user-scoped CRUD and query operations for
// areas, tags, projects, tasks and users on top of the statement builder.
package todo

import (
	"time"

	"github.com/gaborage/todo-bricks/config"
	"github.com/gaborage/todo-bricks/database"
	"github.com/gaborage/todo-bricks/logger"
	"github.com/gaborage/todo-bricks/todo/model"
	"github.com/gaborage/todo-bricks/validation"
)

const (
	defaultPageSize = 25
	maxPageSize     = 100
)

type (
	AreaStore    = Store[model.Area, *model.Area, model.CreateArea, model.UpdateArea, model.QueryArea]
	TagStore     = Store[model.Tag, *model.Tag, model.CreateTag, model.UpdateTag, model.QueryTag]
	ProjectStore = TaggedStore[model.Project, *model.Project, model.CreateProject, model.UpdateProject, model.QueryProject]
	TaskStore    = TaggedStore[model.Task, *model.Task, model.CreateTask, model.UpdateTask, model.QueryTask]
)

// Service groups the stores of every entity over one database handle.
type Service struct {
	Areas    *AreaStore
	Tags     *TagStore
	Projects *ProjectStore
	Tasks    *TaskStore
	Users    *Users
}

// Option configures a Service.
type Option func(*base)

// WithPagination sets the default and maximum page size of queries.
func WithPagination(cfg config.PaginationConfig) Option {
	return func(b *base) {
		if cfg.Default > 0 {
			b.pagination.Default = cfg.Default
		}
		if cfg.Max > 0 {
			b.pagination.Max = cfg.Max
		}
	}
}

// WithClock replaces the source of updated_on timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *base) {
		b.now = now
	}
}

// WithValidator replaces the request validator.
func WithValidator(v *validation.Validator) Option {
	return func(b *base) {
		b.validator = v
	}
}

// NewService creates the stores for every entity.
func NewService(db database.Interface, log logger.Logger, opts ...Option) *Service {
	b := &base{
		db:         db,
		log:        log,
		validator:  validation.New(),
		pagination: config.PaginationConfig{Default: defaultPageSize, Max: maxPageSize},
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(b)
	}

	return &Service{
		Areas:    newStore[model.Area, *model.Area, model.CreateArea, model.UpdateArea, model.QueryArea](b, model.Areas, "area"),
		Tags:     newStore[model.Tag, *model.Tag, model.CreateTag, model.UpdateTag, model.QueryTag](b, model.Tags, "tag"),
		Projects: newTaggedStore[model.Project, *model.Project, model.CreateProject, model.UpdateProject, model.QueryProject](b, model.Projects, model.ProjectTags, "project"),
		Tasks:    newTaggedStore[model.Task, *model.Task, model.CreateTask, model.UpdateTask, model.QueryTask](b, model.Tasks, model.TaskTags, "task"),
		Users:    &Users{base: b},
	}
}

// base holds the dependencies shared by every store.
type base struct {
	db         database.Interface
	log        logger.Logger
	validator  *validation.Validator
	pagination config.PaginationConfig
	now        func() time.Time
}

func (b *base) validate(req any) error {
	if b.validator == nil {
		return nil
	}
	return b.validator.Validate(req)
}
