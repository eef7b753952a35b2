package models

import (
	"time"
)

type ProjectStatus string

const (
	ProjectStatusNotStarted ProjectStatus = "not_started"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusNotStarted, ProjectStatusInProgress, ProjectStatusCompleted:
		return true
	}
	return false
}

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityLow    TaskPriority = "low"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityHigh, TaskPriorityMedium, TaskPriorityLow:
		return true
	}
	return false
}

type Project struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	Title       string        `json:"title" gorm:"not null"`
	Description string        `json:"description"`
	Status      ProjectStatus `json:"status" gorm:"default:'not_started'"`
	CreatedByID uint          `json:"created_by_id" gorm:"not null"`
	StartDate   time.Time     `json:"start_date"`
	EndDate     time.Time     `json:"end_date"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	CreatedBy   *User         `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID;constraint:OnDelete:RESTRICT"`
	Tasks       []Task        `json:"tasks,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

type Task struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	ProjectID   uint         `json:"project_id" gorm:"not null"`
	Title       string       `json:"title" gorm:"not null"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status" gorm:"default:'todo'"`
	Priority    TaskPriority `json:"priority" gorm:"default:'low'"`
	CreatedByID uint         `json:"created_by_id" gorm:"not null"`
	StartDate   *time.Time   `json:"start_date,omitempty"`
	EndDate     *time.Time   `json:"end_date,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Project     *Project     `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	CreatedBy   *User        `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID;constraint:OnDelete:RESTRICT"`
	Assignees   []User       `json:"assignees,omitempty" gorm:"many2many:task_assignees;constraint:OnDelete:CASCADE"`
	Labels      []Label      `json:"labels,omitempty" gorm:"many2many:task_labels;constraint:OnDelete:CASCADE"`
	Comments    []Comment    `json:"comments,omitempty" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}

type Label struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null;uniqueIndex:idx_labels_name_creator"`
	Color       string `json:"color"`
	CreatedByID uint   `json:"created_by_id" gorm:"not null;uniqueIndex:idx_labels_name_creator"`
	CreatedBy   *User  `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID;constraint:OnDelete:RESTRICT"`
	Tasks       []Task `json:"tasks,omitempty" gorm:"many2many:task_labels;constraint:OnDelete:CASCADE"`
}

type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null"`
	TaskID    uint      `json:"task_id" gorm:"not null"`
	Content   string    `json:"content" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	Task      *Task     `json:"task,omitempty" gorm:"foreignKey:TaskID"`
}
