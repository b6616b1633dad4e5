package repository

import (
	"context"
	"time"

	"go-quote-pricing/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommittedPriceRepository holds saved price/quantity overrides. Only the commit path writes here.
type CommittedPriceRepository interface {
	FindByProjectCategory(ctx context.Context, projectID uuid.UUID, category model.Category) ([]model.CommittedPrice, error)
	MergeFromDraft(ctx context.Context, draft *model.DraftRow) (bool, error)
	DeleteByProject(ctx context.Context, projectID uuid.UUID) (int64, error)
	WithTx(tx *gorm.DB) CommittedPriceRepository
}

type committedPriceRepo struct {
	db *gorm.DB
}

func NewCommittedPriceRepo(db *gorm.DB) CommittedPriceRepository {
	return &committedPriceRepo{db}
}

func (r *committedPriceRepo) WithTx(tx *gorm.DB) CommittedPriceRepository {
	return &committedPriceRepo{tx}
}

func (r *committedPriceRepo) FindByProjectCategory(ctx context.Context, projectID uuid.UUID, category model.Category) ([]model.CommittedPrice, error) {
	var rows []model.CommittedPrice
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND category = ?", projectID, category).
		Order("product_id").
		Find(&rows).Error
	return rows, err
}

// MergeFromDraft upserts the committed row, overwriting only the columns the draft set.
// It reports false without touching the store when the draft carries no price fields.
func (r *committedPriceRepo) MergeFromDraft(ctx context.Context, draft *model.DraftRow) (bool, error) {
	row, cols := model.CommittedPriceFromDraft(draft, time.Now())
	if len(cols) == 0 {
		return false, nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   overlayKey,
			DoUpdates: clause.AssignmentColumns(cols),
		}).
		Create(&row).Error
	return err == nil, err
}

func (r *committedPriceRepo) DeleteByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&model.CommittedPrice{})
	return res.RowsAffected, res.Error
}

// CommittedGroupOptionRepository holds saved group tags, independent of the price fields.
type CommittedGroupOptionRepository interface {
	FindByProjectCategory(ctx context.Context, projectID uuid.UUID, category model.Category) ([]model.CommittedGroupOption, error)
	Upsert(ctx context.Context, projectID, productID uuid.UUID, category model.Category, option model.GroupOption) error
	DeleteByProject(ctx context.Context, projectID uuid.UUID) (int64, error)
	WithTx(tx *gorm.DB) CommittedGroupOptionRepository
}

type committedGroupOptionRepo struct {
	db *gorm.DB
}

func NewCommittedGroupOptionRepo(db *gorm.DB) CommittedGroupOptionRepository {
	return &committedGroupOptionRepo{db}
}

func (r *committedGroupOptionRepo) WithTx(tx *gorm.DB) CommittedGroupOptionRepository {
	return &committedGroupOptionRepo{tx}
}

func (r *committedGroupOptionRepo) FindByProjectCategory(ctx context.Context, projectID uuid.UUID, category model.Category) ([]model.CommittedGroupOption, error) {
	var rows []model.CommittedGroupOption
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND category = ?", projectID, category).
		Order("product_id").
		Find(&rows).Error
	return rows, err
}

func (r *committedGroupOptionRepo) Upsert(ctx context.Context, projectID, productID uuid.UUID, category model.Category, option model.GroupOption) error {
	row := model.CommittedGroupOption{
		ProjectID:   projectID,
		ProductID:   productID,
		Category:    category,
		GroupOption: option,
		UpdatedAt:   time.Now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   overlayKey,
			DoUpdates: clause.AssignmentColumns([]string{"group_option", "updated_at"}),
		}).
		Create(&row).Error
}

func (r *committedGroupOptionRepo) DeleteByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&model.CommittedGroupOption{})
	return res.RowsAffected, res.Error
}
