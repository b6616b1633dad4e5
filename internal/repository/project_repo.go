package repository

import (
	"context"
	"errors"

	"go-quote-pricing/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrVersionMismatch is returned by BumpVersion when the caller's expected version is stale.
var ErrVersionMismatch = errors.New("draft version mismatch")

type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	FindAll(ctx context.Context) ([]model.Project, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	BumpVersion(ctx context.Context, id uuid.UUID, expected *int64) (int64, error)
	Delete(ctx context.Context, id uuid.UUID, deletedBy string) error
	WithTx(tx *gorm.DB) ProjectRepository
}

type projectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) ProjectRepository {
	return &projectRepo{db}
}

func (r *projectRepo) WithTx(tx *gorm.DB) ProjectRepository {
	return &projectRepo{tx}
}

func (r *projectRepo) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepo) FindAll(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&projects).Error
	return projects, err
}

func (r *projectRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Project{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// BumpVersion increments DraftVersion and returns the new value. With a non-nil expected
// version the increment only happens if the stored version still matches.
func (r *projectRepo) BumpVersion(ctx context.Context, id uuid.UUID, expected *int64) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Project{}).Where("id = ?", id)
	if expected != nil {
		q = q.Where("draft_version = ?", *expected)
	}
	res := q.UpdateColumn("draft_version", gorm.Expr("draft_version + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrVersionMismatch
	}

	var project model.Project
	if err := r.db.WithContext(ctx).Select("draft_version").First(&project, "id = ?", id).Error; err != nil {
		return 0, err
	}
	return project.DraftVersion, nil
}

// Delete soft deletes the project row. Overlay rows are removed by the caller in the same transaction.
func (r *projectRepo) Delete(ctx context.Context, id uuid.UUID, deletedBy string) error {
	db := r.db.WithContext(ctx)
	if err := db.Model(&model.Project{}).Where("id = ?", id).UpdateColumn("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return db.Delete(&model.Project{}, "id = ?", id).Error
}
