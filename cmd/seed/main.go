// Seeds a development database with a few verified users, a project with
// tasks, labels and comments. Not intended for production.
package main

import (
	"log"
	"time"

	"github.com/taskstack/task-management/internal/database"
	"github.com/taskstack/task-management/internal/models"
	"github.com/taskstack/task-management/pkg/auth"
	"github.com/taskstack/task-management/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.New(cfg.Database.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	hash, err := auth.HashPassword("Password123!")
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	uow := database.NewUnitOfWork(db)

	count, err := uow.Users.Count()
	if err != nil {
		log.Fatalf("Failed to inspect database: %v", err)
	}
	if count > 0 {
		log.Println("Database already has users; nothing to do")
		return
	}

	alice := &models.User{
		Email:        "alice@example.com",
		PasswordHash: hash,
		FirstName:    "Alice",
		LastName:     "Brown",
		Role:         models.UserRoleAdmin,
		Status:       models.UserStatusActive,
	}
	bob := &models.User{
		Email:        "bob@example.com",
		PasswordHash: hash,
		FirstName:    "Bob",
		LastName:     "Wilson",
		Role:         models.UserRoleUser,
		Status:       models.UserStatusActive,
	}

	uow.Users.Add(alice)
	uow.Users.Add(bob)
	if save := uow.SaveChanges(); !save.IsSuccessful {
		log.Fatalf("Failed to seed users: %v", save.Errors)
	}

	uow = database.NewUnitOfWork(db)

	project := &models.Project{
		Title:       "Website Redesign",
		Description: "Rebuild the marketing site on the new design system",
		Status:      models.ProjectStatusInProgress,
		CreatedByID: alice.ID,
		StartDate:   time.Now(),
		EndDate:     time.Now().Add(30 * 24 * time.Hour),
	}
	uow.Projects.Add(project)
	if save := uow.SaveChanges(); !save.IsSuccessful {
		log.Fatalf("Failed to seed project: %v", save.Errors)
	}

	uow = database.NewUnitOfWork(db)

	frontend := &models.Label{Name: "Frontend", Color: "#3b82f6", CreatedByID: alice.ID}
	backend := &models.Label{Name: "Backend", Color: "#10b981", CreatedByID: alice.ID}
	bug := &models.Label{Name: "Bug", Color: "#ef4444", CreatedByID: alice.ID}
	uow.Labels.Add(frontend)
	uow.Labels.Add(backend)
	uow.Labels.Add(bug)

	due := time.Now().Add(7 * 24 * time.Hour)
	tasks := []*models.Task{
		{
			ProjectID:   project.ID,
			Title:       "Design landing page",
			Description: "New hero section and pricing table",
			Status:      models.TaskStatusInProgress,
			Priority:    models.TaskPriorityHigh,
			CreatedByID: alice.ID,
			EndDate:     &due,
		},
		{
			ProjectID:   project.ID,
			Title:       "Migrate contact form API",
			Status:      models.TaskStatusTodo,
			Priority:    models.TaskPriorityMedium,
			CreatedByID: alice.ID,
		},
		{
			ProjectID:   project.ID,
			Title:       "Fix broken footer links",
			Status:      models.TaskStatusDone,
			Priority:    models.TaskPriorityLow,
			CreatedByID: bob.ID,
		},
	}
	for _, task := range tasks {
		uow.Tasks.Add(task)
	}
	if save := uow.SaveChanges(); !save.IsSuccessful {
		log.Fatalf("Failed to seed labels and tasks: %v", save.Errors)
	}

	uow = database.NewUnitOfWork(db)

	uow.Tasks.AppendLabel(tasks[0], frontend)
	uow.Tasks.AppendLabel(tasks[1], backend)
	uow.Tasks.AppendLabel(tasks[2], bug)
	uow.Tasks.AppendAssignee(tasks[0], bob)
	uow.Tasks.AppendAssignee(tasks[1], bob)

	uow.Comments.Add(&models.Comment{
		TaskID:  tasks[0].ID,
		UserID:  bob.ID,
		Content: "First draft is up for review.",
	})
	uow.Comments.Add(&models.Comment{
		TaskID:  tasks[0].ID,
		UserID:  alice.ID,
		Content: "Looks good, tighten the spacing on mobile.",
	})
	if save := uow.SaveChanges(); !save.IsSuccessful {
		log.Fatalf("Failed to seed associations: %v", save.Errors)
	}

	log.Println("Sample data added successfully!")
}
