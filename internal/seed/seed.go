// Package seed holds the demo dataset shown by a fresh dashboard.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/ldi/taskdeck/internal/store"
	"github.com/ldi/taskdeck/pkg/models"
)

// Members returns fresh copies of the demo team.
func Members() []*models.Member {
	return []*models.Member{
		{ID: "1", Name: "Ana Silva", Email: "ana@empresa.com", Avatar: "/placeholder.svg", Role: models.RoleAdmin},
		{ID: "2", Name: "João Santos", Email: "joao@empresa.com", Avatar: "/placeholder.svg", Role: models.RoleManager},
		{ID: "3", Name: "Maria Costa", Email: "maria@empresa.com", Avatar: "/placeholder.svg", Role: models.RoleMember},
		{ID: "4", Name: "Pedro Lima", Email: "pedro@empresa.com", Avatar: "/placeholder.svg", Role: models.RoleMember},
	}
}

func Projects() []*models.Project {
	return []*models.Project{
		{
			ID:          "1",
			Title:       "Sistema de E-commerce",
			Description: "Desenvolvimento de uma plataforma completa de e-commerce com integração de pagamentos e gestão de estoque.",
			StartDate:   models.MustDate("2024-01-15"),
			EndDate:     models.MustDate("2024-06-30"),
			Status:      models.ProjectStatusInProgress,
			Progress:    65,
			Priority:    models.PriorityHigh,
			CreatedAt:   timestamp("2024-01-15T10:00:00Z"),
			MemberIDs:   []string{"1", "2", "3"},
		},
		{
			ID:          "2",
			Title:       "App Mobile de Delivery",
			Description: "Aplicativo mobile para delivery de comida com geolocalização e pagamento integrado.",
			StartDate:   models.MustDate("2024-02-01"),
			EndDate:     models.MustDate("2024-05-15"),
			Status:      models.ProjectStatusInProgress,
			Progress:    40,
			Priority:    models.PriorityHigh,
			CreatedAt:   timestamp("2024-02-01T09:00:00Z"),
			MemberIDs:   []string{"2", "4"},
		},
		{
			ID:          "3",
			Title:       "Dashboard Analytics",
			Description: "Painel de controle para análise de dados e relatórios empresariais.",
			StartDate:   models.MustDate("2024-03-01"),
			EndDate:     models.MustDate("2024-04-30"),
			Status:      models.ProjectStatusCompleted,
			Progress:    100,
			Priority:    models.PriorityMedium,
			CreatedAt:   timestamp("2024-03-01T14:00:00Z"),
			MemberIDs:   []string{"1", "3"},
		},
		{
			ID:          "4",
			Title:       "Sistema de CRM",
			Description: "Implementação de um sistema de gestão de relacionamento com clientes.",
			StartDate:   models.MustDate("2024-04-01"),
			EndDate:     models.MustDate("2024-08-30"),
			Status:      models.ProjectStatusPlanning,
			Progress:    10,
			Priority:    models.PriorityMedium,
			CreatedAt:   timestamp("2024-04-01T11:00:00Z"),
			MemberIDs:   []string{"2", "3", "4"},
		},
	}
}

func Tasks() []*models.Task {
	return []*models.Task{
		{
			ID:          "1",
			Title:       "Configurar ambiente de desenvolvimento",
			Description: "Configurar Docker, banco de dados e ferramentas de desenvolvimento",
			Status:      models.TaskStatusCompleted,
			Priority:    models.PriorityHigh,
			AssigneeID:  "1",
			DueDate:     models.MustDate("2024-01-20"),
			ProjectID:   "1",
			CreatedAt:   timestamp("2024-01-15T10:00:00Z"),
		},
		{
			ID:          "2",
			Title:       "Implementar autenticação de usuários",
			Description: "Sistema de login e registro com JWT",
			Status:      models.TaskStatusInProgress,
			Priority:    models.PriorityHigh,
			AssigneeID:  "2",
			DueDate:     models.MustDate("2024-02-15"),
			ProjectID:   "1",
			CreatedAt:   timestamp("2024-01-20T14:00:00Z"),
		},
		{
			ID:          "3",
			Title:       "Criar catálogo de produtos",
			Description: "Interface para exibição e busca de produtos",
			Status:      models.TaskStatusTodo,
			Priority:    models.PriorityMedium,
			AssigneeID:  "3",
			DueDate:     models.MustDate("2024-03-01"),
			ProjectID:   "1",
			CreatedAt:   timestamp("2024-01-25T09:00:00Z"),
		},
		{
			ID:          "4",
			Title:       "Integração com gateway de pagamento",
			Description: "Implementar Stripe/PayPal para processamento de pagamentos",
			Status:      models.TaskStatusTodo,
			Priority:    models.PriorityHigh,
			AssigneeID:  "1",
			DueDate:     models.MustDate("2024-03-15"),
			ProjectID:   "1",
			CreatedAt:   timestamp("2024-02-01T11:00:00Z"),
		},
		{
			ID:          "5",
			Title:       "Design da interface mobile",
			Description: "Criar protótipos e layouts para o app mobile",
			Status:      models.TaskStatusInProgress,
			Priority:    models.PriorityMedium,
			AssigneeID:  "4",
			DueDate:     models.MustDate("2024-02-20"),
			ProjectID:   "2",
			CreatedAt:   timestamp("2024-02-01T10:00:00Z"),
		},
	}
}

// Load upserts the demo dataset into st as one batch.
func Load(ctx context.Context, st *store.Store) error {
	items := &store.StagedItems{
		Members:  Members(),
		Projects: Projects(),
		Tasks:    Tasks(),
	}
	if err := st.ApplyBatch(ctx, items); err != nil {
		return fmt.Errorf("failed to load seed data: %w", err)
	}
	return nil
}

// Snapshot returns the demo dataset as a fixed snapshot without a store.
func Snapshot() *store.Snapshot {
	return store.NewSnapshot(Members(), Projects(), Tasks())
}

func timestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}
