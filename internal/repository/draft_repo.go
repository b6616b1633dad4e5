package repository

import (
	"context"
	"time"

	"go-quote-pricing/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var overlayKey = []clause.Column{{Name: "project_id"}, {Name: "product_id"}, {Name: "category"}}

// DraftRepository stores the uncommitted edit buffer. The two write paths have different
// merge semantics: Replace overwrites every column, PatchGroupOption touches one.
type DraftRepository interface {
	FindByProjectCategory(ctx context.Context, projectID uuid.UUID, category model.Category) ([]model.DraftRow, error)
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]model.DraftRow, error)
	Replace(ctx context.Context, rows []model.DraftRow) (int64, error)
	PatchGroupOption(ctx context.Context, projectID uuid.UUID, category model.Category, productIDs []uuid.UUID, option model.GroupOption) (int64, error)
	DeleteByProject(ctx context.Context, projectID uuid.UUID) (int64, error)
	DeleteByProjectCategory(ctx context.Context, projectID uuid.UUID, category model.Category) (int64, error)
	WithTx(tx *gorm.DB) DraftRepository
}

type draftRepo struct {
	db *gorm.DB
}

func NewDraftRepo(db *gorm.DB) DraftRepository {
	return &draftRepo{db}
}

func (r *draftRepo) WithTx(tx *gorm.DB) DraftRepository {
	return &draftRepo{tx}
}

func (r *draftRepo) FindByProjectCategory(ctx context.Context, projectID uuid.UUID, category model.Category) ([]model.DraftRow, error) {
	var rows []model.DraftRow
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND category = ?", projectID, category).
		Order("product_id").
		Find(&rows).Error
	return rows, err
}

func (r *draftRepo) FindByProject(ctx context.Context, projectID uuid.UUID) ([]model.DraftRow, error) {
	var rows []model.DraftRow
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("category, product_id").
		Find(&rows).Error
	return rows, err
}

// Replace upserts each row and rewrites all non-key columns, so fields left nil become NULL.
func (r *draftRepo) Replace(ctx context.Context, rows []model.DraftRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	now := time.Now()
	for i := range rows {
		rows[i].UpdatedAt = now
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   overlayKey,
			DoUpdates: clause.AssignmentColumns(model.DraftReplaceColumns),
		}).
		Create(&rows).Error
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

// PatchGroupOption creates missing rows with only group_option set and updates only that
// column on existing ones.
func (r *draftRepo) PatchGroupOption(ctx context.Context, projectID uuid.UUID, category model.Category, productIDs []uuid.UUID, option model.GroupOption) (int64, error) {
	if len(productIDs) == 0 {
		return 0, nil
	}
	now := time.Now()
	rows := make([]model.DraftRow, len(productIDs))
	for i, id := range productIDs {
		opt := option
		rows[i] = model.DraftRow{
			ProjectID:   projectID,
			ProductID:   id,
			Category:    category,
			GroupOption: &opt,
			UpdatedAt:   now,
		}
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   overlayKey,
			DoUpdates: clause.AssignmentColumns([]string{"group_option", "updated_at"}),
		}).
		Create(&rows).Error
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (r *draftRepo) DeleteByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&model.DraftRow{})
	return res.RowsAffected, res.Error
}

func (r *draftRepo) DeleteByProjectCategory(ctx context.Context, projectID uuid.UUID, category model.Category) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("project_id = ? AND category = ?", projectID, category).
		Delete(&model.DraftRow{})
	return res.RowsAffected, res.Error
}
