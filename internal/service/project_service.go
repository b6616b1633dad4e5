package service

import (
	"context"
	"fmt"

	"go-quote-pricing/internal/model"
	"go-quote-pricing/internal/ws"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProjectService interface {
	CreateProject(ctx context.Context, req *model.Project, actor Actor) error
	GetProject(ctx context.Context, id uuid.UUID) (*model.Project, error)
	ListProjects(ctx context.Context) ([]model.Project, error)
	DeleteProject(ctx context.Context, id uuid.UUID, actor Actor) error
}

type projectService struct {
	db     *gorm.DB
	stores PricingStores
	wsHub  *ws.Hub
	log    *zap.Logger
}

func NewProjectService(db *gorm.DB, stores PricingStores, hub *ws.Hub, log *zap.Logger) ProjectService {
	return &projectService{
		db:     db,
		stores: stores,
		wsHub:  hub,
		log:    log.Named("project"),
	}
}

func (s *projectService) CreateProject(ctx context.Context, req *model.Project, actor Actor) error {
	if err := validateInput(req); err != nil {
		return err
	}

	req.ID = uuid.Nil
	req.DraftVersion = 0
	req.CreatedBy = actor.ID
	req.UpdatedBy = actor.ID

	if err := s.stores.Projects.Create(ctx, req); err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	s.log.Info("project created", zap.String("project_id", req.ID.String()), zap.String("user_id", actor.ID))
	return nil
}

func (s *projectService) GetProject(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	return findProject(ctx, s.stores.Projects, id)
}

func (s *projectService) ListProjects(ctx context.Context) ([]model.Project, error) {
	return s.stores.Projects.FindAll(ctx)
}

// DeleteProject removes the project together with its draft and committed overlay rows.
func (s *projectService) DeleteProject(ctx context.Context, id uuid.UUID, actor Actor) error {
	var drafts, prices, groups int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		projects := s.stores.Projects.WithTx(tx)
		if err := requireProject(ctx, projects, id); err != nil {
			return err
		}

		var err error
		if drafts, err = s.stores.Drafts.WithTx(tx).DeleteByProject(ctx, id); err != nil {
			return fmt.Errorf("delete drafts: %w", err)
		}
		if prices, err = s.stores.Prices.WithTx(tx).DeleteByProject(ctx, id); err != nil {
			return fmt.Errorf("delete committed prices: %w", err)
		}
		if groups, err = s.stores.Groups.WithTx(tx).DeleteByProject(ctx, id); err != nil {
			return fmt.Errorf("delete committed group options: %w", err)
		}
		return projects.Delete(ctx, id, actor.ID)
	})
	if err != nil {
		return err
	}

	s.log.Info("project deleted",
		zap.String("project_id", id.String()),
		zap.Int64("drafts", drafts),
		zap.Int64("committed_prices", prices),
		zap.Int64("committed_group_options", groups),
		zap.String("user_id", actor.ID),
	)
	s.wsHub.Publish(ws.Event{
		Type:      "project_update",
		Action:    "project_deleted",
		ProjectID: id.String(),
		UserID:    actor.ID,
		UserName:  actor.Name,
		Message:   fmt.Sprintf("%s deleted the project", actorName(actor)),
	})
	return nil
}
