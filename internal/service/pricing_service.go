package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go-quote-pricing/internal/model"
	"go-quote-pricing/internal/repository"
	"go-quote-pricing/internal/ws"
	"go-quote-pricing/pkg/metrics"
	"go-quote-pricing/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PricingService interface {
	GetComparison(ctx context.Context, projectID uuid.UUID, category model.Category) ([]model.ComparisonEntry, error)
	ReplaceDraftRows(ctx context.Context, req *ReplaceDraftRowsInput) (*DraftWriteResult, error)
	PatchGroupOption(ctx context.Context, req *PatchGroupOptionInput) (*DraftWriteResult, error)
	DiscardDrafts(ctx context.Context, req *DiscardDraftsInput) (*DraftWriteResult, error)
	CommitProject(ctx context.Context, req *CommitProjectInput) (*CommitResult, error)
	GetOffer(ctx context.Context, projectID uuid.UUID, category model.Category) (*Offer, error)
}

// Actor identifies who issued a write; it only feeds logs and websocket events.
type Actor struct {
	ID   string `json:"-"`
	Name string `json:"-"`
}

// DraftRowInput is the complete state the caller asserts for one product. A field left out
// is stored as NULL, even if an earlier call had set it.
type DraftRowInput struct {
	ProductID         uuid.UUID                `json:"product_id" validate:"uuid_required"`
	Quantity          *decimal.Decimal         `json:"quantity"`
	RetailPrice       *decimal.Decimal         `json:"retail_price"`
	PurchasePrice     *decimal.Decimal         `json:"purchase_price"`
	SellingPrice      *decimal.Decimal         `json:"selling_price"`
	MarginPercent     *decimal.Decimal         `json:"margin_percent"`
	DiscountPercent   *decimal.Decimal         `json:"discount_percent"`
	GroupOption       *model.GroupOption       `json:"group_option" validate:"omitempty,group_option"`
	PriceChangeSource *model.PriceChangeSource `json:"price_change_source" validate:"omitempty,price_change_source"`
}

type ReplaceDraftRowsInput struct {
	ProjectID               uuid.UUID        `json:"-" validate:"uuid_required"`
	Category                model.Category   `json:"-"`
	CategoryMarginPercent   *decimal.Decimal `json:"category_margin_percent"`
	CategoryDiscountPercent *decimal.Decimal `json:"category_discount_percent"`
	Rows                    []DraftRowInput  `json:"rows" validate:"dive"`
	ExpectedVersion         *int64           `json:"expected_version"`
	Actor                   Actor            `json:"-"`
}

type PatchGroupOptionInput struct {
	ProjectID       uuid.UUID         `json:"-" validate:"uuid_required"`
	Category        model.Category    `json:"-"`
	ProductIDs      []uuid.UUID       `json:"product_ids" validate:"dive,uuid_required"`
	GroupOption     model.GroupOption `json:"group_option" validate:"required,group_option"`
	ExpectedVersion *int64            `json:"expected_version"`
	Actor           Actor             `json:"-"`
}

// DiscardDraftsInput clears drafts of one category, or of the whole project when Category is empty.
type DiscardDraftsInput struct {
	ProjectID       uuid.UUID `validate:"uuid_required"`
	Category        model.Category
	ExpectedVersion *int64
	Actor           Actor
}

type CommitProjectInput struct {
	ProjectID       uuid.UUID `json:"-" validate:"uuid_required"`
	ExpectedVersion *int64    `json:"expected_version"`
	Actor           Actor     `json:"-"`
}

type DraftWriteResult struct {
	RowsAffected int64 `json:"rows_affected"`
	Version      int64 `json:"version"`
}

type CommitResult struct {
	PromotedPrices       int              `json:"promoted_prices"`
	PromotedGroupOptions int              `json:"promoted_group_options"`
	ClearedDrafts        int64            `json:"cleared_drafts"`
	Categories           []model.Category `json:"categories"`
	Version              int64            `json:"version"`
}

// PricingStores groups the repositories the overlay reads and writes.
type PricingStores struct {
	Projects repository.ProjectRepository
	Catalog  repository.CatalogRepository
	Drafts   repository.DraftRepository
	Prices   repository.CommittedPriceRepository
	Groups   repository.CommittedGroupOptionRepository
}

type PricingOptions struct {
	// ReadIsolation is applied to the comparison read transaction. sql.LevelDefault leaves
	// the driver default in place.
	ReadIsolation sql.IsolationLevel
}

type pricingService struct {
	db      *gorm.DB
	stores  PricingStores
	wsHub   *ws.Hub
	metrics *metrics.Pricing
	log     *zap.Logger
	opts    PricingOptions
}

func NewPricingService(db *gorm.DB, stores PricingStores, hub *ws.Hub, m *metrics.Pricing, log *zap.Logger, opts PricingOptions) PricingService {
	return &pricingService{
		db:      db,
		stores:  stores,
		wsHub:   hub,
		metrics: m,
		log:     log.Named("pricing"),
		opts:    opts,
	}
}

func (s *pricingService) readTxOptions() []*sql.TxOptions {
	if s.opts.ReadIsolation == sql.LevelDefault {
		return nil
	}
	return []*sql.TxOptions{{Isolation: s.opts.ReadIsolation, ReadOnly: true}}
}

// GetComparison reads the three layers inside one transaction and merges them.
// The load order is fixed: drafts, committed prices, committed group options, catalog.
func (s *pricingService) GetComparison(ctx context.Context, projectID uuid.UUID, category model.Category) ([]model.ComparisonEntry, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: category %q", ErrNotFound, category)
	}

	var entries []model.ComparisonEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireProject(ctx, s.stores.Projects.WithTx(tx), projectID); err != nil {
			return err
		}

		drafts, err := s.stores.Drafts.WithTx(tx).FindByProjectCategory(ctx, projectID, category)
		if err != nil {
			return fmt.Errorf("load drafts: %w", err)
		}
		prices, err := s.stores.Prices.WithTx(tx).FindByProjectCategory(ctx, projectID, category)
		if err != nil {
			return fmt.Errorf("load committed prices: %w", err)
		}
		groups, err := s.stores.Groups.WithTx(tx).FindByProjectCategory(ctx, projectID, category)
		if err != nil {
			return fmt.Errorf("load committed group options: %w", err)
		}
		catalog, err := s.stores.Catalog.WithTx(tx).FindByCategory(ctx, category)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}

		entries = BuildComparison(catalog, drafts, prices, groups)
		return nil
	}, s.readTxOptions()...)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *pricingService) ReplaceDraftRows(ctx context.Context, req *ReplaceDraftRowsInput) (*DraftWriteResult, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}
	if !req.Category.Valid() {
		return nil, fmt.Errorf("%w: category %q", ErrNotFound, req.Category)
	}
	if req.CategoryMarginPercent != nil && req.CategoryDiscountPercent != nil {
		return nil, fmt.Errorf("%w: category margin and discount are mutually exclusive", ErrInvalidArgument)
	}
	if err := checkPercent("category_margin_percent", req.CategoryMarginPercent); err != nil {
		return nil, err
	}
	if err := checkPercent("category_discount_percent", req.CategoryDiscountPercent); err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{}, len(req.Rows))
	for _, row := range req.Rows {
		if _, dup := seen[row.ProductID]; dup {
			return nil, fmt.Errorf("%w: product %s listed more than once", ErrInvalidArgument, row.ProductID)
		}
		seen[row.ProductID] = struct{}{}
		if err := checkDraftRow(row); err != nil {
			return nil, err
		}
	}

	source := derivePriceChangeSource(req.CategoryMarginPercent, req.CategoryDiscountPercent)
	result := &DraftWriteResult{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		projects := s.stores.Projects.WithTx(tx)
		project, err := findProject(ctx, projects, req.ProjectID)
		if err != nil {
			return err
		}
		if len(req.Rows) == 0 {
			result.Version = project.DraftVersion
			return nil
		}

		if err := requireCatalogMembership(ctx, s.stores.Catalog.WithTx(tx), req.Category, seen); err != nil {
			return err
		}

		version, err := bumpVersion(ctx, projects, req.ProjectID, req.ExpectedVersion)
		if err != nil {
			return err
		}

		rows := make([]model.DraftRow, len(req.Rows))
		for i, in := range req.Rows {
			rowSource := in.PriceChangeSource
			if rowSource == nil {
				derived := source
				rowSource = &derived
			}
			rows[i] = model.DraftRow{
				ProjectID:               req.ProjectID,
				ProductID:               in.ProductID,
				Category:                req.Category,
				Quantity:                in.Quantity,
				RetailPrice:             in.RetailPrice,
				PurchasePrice:           in.PurchasePrice,
				SellingPrice:            in.SellingPrice,
				MarginPercent:           in.MarginPercent,
				DiscountPercent:         in.DiscountPercent,
				CategoryMarginPercent:   req.CategoryMarginPercent,
				CategoryDiscountPercent: req.CategoryDiscountPercent,
				GroupOption:             in.GroupOption,
				PriceChangeSource:       rowSource,
			}
		}

		n, err := s.stores.Drafts.WithTx(tx).Replace(ctx, rows)
		if err != nil {
			return fmt.Errorf("replace draft rows: %w", err)
		}
		result.RowsAffected = n
		result.Version = version
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.RowsAffected > 0 {
		s.metrics.DraftRowsWritten("replace", result.RowsAffected)
		s.log.Info("draft rows replaced",
			zap.String("project_id", req.ProjectID.String()),
			zap.String("category", string(req.Category)),
			zap.Int64("rows", result.RowsAffected),
			zap.String("source", string(source)),
			zap.Int64("version", result.Version),
			zap.String("user_id", req.Actor.ID),
		)
		s.wsHub.Publish(ws.Event{
			Type:      "pricing_update",
			Action:    "drafts_replaced",
			ProjectID: req.ProjectID.String(),
			Category:  string(req.Category),
			Rows:      result.RowsAffected,
			Version:   result.Version,
			UserID:    req.Actor.ID,
			UserName:  req.Actor.Name,
			Message:   fmt.Sprintf("%s updated %d draft prices in %s", actorName(req.Actor), result.RowsAffected, req.Category),
		})
	}
	return result, nil
}

func (s *pricingService) PatchGroupOption(ctx context.Context, req *PatchGroupOptionInput) (*DraftWriteResult, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}
	if !req.Category.Valid() {
		return nil, fmt.Errorf("%w: category %q", ErrNotFound, req.Category)
	}

	ids := make([]uuid.UUID, 0, len(req.ProductIDs))
	seen := make(map[uuid.UUID]struct{}, len(req.ProductIDs))
	for _, id := range req.ProductIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	result := &DraftWriteResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		projects := s.stores.Projects.WithTx(tx)
		project, err := findProject(ctx, projects, req.ProjectID)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			result.Version = project.DraftVersion
			return nil
		}

		if err := requireCatalogMembership(ctx, s.stores.Catalog.WithTx(tx), req.Category, seen); err != nil {
			return err
		}

		version, err := bumpVersion(ctx, projects, req.ProjectID, req.ExpectedVersion)
		if err != nil {
			return err
		}

		n, err := s.stores.Drafts.WithTx(tx).PatchGroupOption(ctx, req.ProjectID, req.Category, ids, req.GroupOption)
		if err != nil {
			return fmt.Errorf("patch group option: %w", err)
		}
		result.RowsAffected = n
		result.Version = version
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.RowsAffected > 0 {
		s.metrics.DraftRowsWritten("patch_group_option", result.RowsAffected)
		s.log.Info("draft group option patched",
			zap.String("project_id", req.ProjectID.String()),
			zap.String("category", string(req.Category)),
			zap.String("group_option", string(req.GroupOption)),
			zap.Int64("rows", result.RowsAffected),
			zap.Int64("version", result.Version),
			zap.String("user_id", req.Actor.ID),
		)
		s.wsHub.Publish(ws.Event{
			Type:      "pricing_update",
			Action:    "group_option_patched",
			ProjectID: req.ProjectID.String(),
			Category:  string(req.Category),
			Rows:      result.RowsAffected,
			Version:   result.Version,
			UserID:    req.Actor.ID,
			UserName:  req.Actor.Name,
			Message:   fmt.Sprintf("%s marked %d products as %s", actorName(req.Actor), result.RowsAffected, req.GroupOption),
		})
	}
	return result, nil
}

func (s *pricingService) DiscardDrafts(ctx context.Context, req *DiscardDraftsInput) (*DraftWriteResult, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}
	if req.Category != "" && !req.Category.Valid() {
		return nil, fmt.Errorf("%w: category %q", ErrNotFound, req.Category)
	}

	result := &DraftWriteResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		projects := s.stores.Projects.WithTx(tx)
		project, err := findProject(ctx, projects, req.ProjectID)
		if err != nil {
			return err
		}

		drafts := s.stores.Drafts.WithTx(tx)
		var n int64
		if req.Category == "" {
			n, err = drafts.DeleteByProject(ctx, req.ProjectID)
		} else {
			n, err = drafts.DeleteByProjectCategory(ctx, req.ProjectID, req.Category)
		}
		if err != nil {
			return fmt.Errorf("discard drafts: %w", err)
		}
		if n == 0 {
			if req.ExpectedVersion != nil && *req.ExpectedVersion != project.DraftVersion {
				return fmt.Errorf("%w: expected version %d, current %d", ErrVersionConflict, *req.ExpectedVersion, project.DraftVersion)
			}
			result.Version = project.DraftVersion
			return nil
		}

		version, err := bumpVersion(ctx, projects, req.ProjectID, req.ExpectedVersion)
		if err != nil {
			return err
		}
		result.RowsAffected = n
		result.Version = version
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result.RowsAffected == 0 {
		return result, nil
	}

	s.metrics.DraftRowsWritten("discard", result.RowsAffected)
	s.log.Info("drafts discarded",
		zap.String("project_id", req.ProjectID.String()),
		zap.String("category", string(req.Category)),
		zap.Int64("rows", result.RowsAffected),
		zap.String("user_id", req.Actor.ID),
	)
	s.wsHub.Publish(ws.Event{
		Type:      "pricing_update",
		Action:    "drafts_discarded",
		ProjectID: req.ProjectID.String(),
		Category:  string(req.Category),
		Rows:      result.RowsAffected,
		Version:   result.Version,
		UserID:    req.Actor.ID,
		UserName:  req.Actor.Name,
		Message:   fmt.Sprintf("%s discarded %d draft rows", actorName(req.Actor), result.RowsAffected),
	})
	return result, nil
}

// CommitProject promotes every draft row of the project, in all categories, and clears the
// draft layer. Promotion and deletion share one transaction.
func (s *pricingService) CommitProject(ctx context.Context, req *CommitProjectInput) (*CommitResult, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}

	start := time.Now()
	result := &CommitResult{Categories: []model.Category{}}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		projects := s.stores.Projects.WithTx(tx)
		project, err := findProject(ctx, projects, req.ProjectID)
		if err != nil {
			return err
		}

		drafts, err := s.stores.Drafts.WithTx(tx).FindByProject(ctx, req.ProjectID)
		if err != nil {
			return fmt.Errorf("load drafts: %w", err)
		}
		if len(drafts) == 0 {
			if req.ExpectedVersion != nil && *req.ExpectedVersion != project.DraftVersion {
				return fmt.Errorf("%w: expected version %d, current %d", ErrVersionConflict, *req.ExpectedVersion, project.DraftVersion)
			}
			result.Version = project.DraftVersion
			return nil
		}

		version, err := bumpVersion(ctx, projects, req.ProjectID, req.ExpectedVersion)
		if err != nil {
			return err
		}

		prices := s.stores.Prices.WithTx(tx)
		groups := s.stores.Groups.WithTx(tx)
		seenCategory := make(map[model.Category]bool)
		for i := range drafts {
			d := &drafts[i]
			if !seenCategory[d.Category] {
				seenCategory[d.Category] = true
				result.Categories = append(result.Categories, d.Category)
			}

			promoted, err := prices.MergeFromDraft(ctx, d)
			if err != nil {
				return fmt.Errorf("promote price of product %s: %w", d.ProductID, err)
			}
			if promoted {
				result.PromotedPrices++
			}

			if d.GroupOption != nil {
				if err := groups.Upsert(ctx, d.ProjectID, d.ProductID, d.Category, *d.GroupOption); err != nil {
					return fmt.Errorf("promote group option of product %s: %w", d.ProductID, err)
				}
				result.PromotedGroupOptions++
			}
		}

		cleared, err := s.stores.Drafts.WithTx(tx).DeleteByProject(ctx, req.ProjectID)
		if err != nil {
			return fmt.Errorf("clear drafts: %w", err)
		}
		result.ClearedDrafts = cleared
		result.Version = version
		return nil
	})
	took := time.Since(start)

	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrVersionConflict) {
			s.metrics.Commit("rejected", 0, 0, took)
			return nil, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			s.metrics.Commit("cancelled", 0, 0, took)
			s.log.Warn("commit cancelled",
				zap.String("project_id", req.ProjectID.String()),
				zap.Error(err),
			)
			return nil, fmt.Errorf("%w: %w", ctxErr, err)
		}
		s.metrics.Commit("failed", 0, 0, took)
		s.log.Error("commit aborted",
			zap.String("project_id", req.ProjectID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrCommitConflict, err)
	}

	s.metrics.Commit("ok", result.PromotedPrices, result.PromotedGroupOptions, took)
	if result.ClearedDrafts == 0 {
		return result, nil
	}

	s.log.Info("project committed",
		zap.String("project_id", req.ProjectID.String()),
		zap.Int("promoted_prices", result.PromotedPrices),
		zap.Int("promoted_group_options", result.PromotedGroupOptions),
		zap.Int64("cleared_drafts", result.ClearedDrafts),
		zap.Int64("version", result.Version),
		zap.Duration("took", took),
		zap.String("user_id", req.Actor.ID),
	)
	s.wsHub.Publish(ws.Event{
		Type:      "pricing_update",
		Action:    "project_committed",
		ProjectID: req.ProjectID.String(),
		Rows:      result.ClearedDrafts,
		Version:   result.Version,
		UserID:    req.Actor.ID,
		UserName:  req.Actor.Name,
		Message:   fmt.Sprintf("%s saved %d draft rows", actorName(req.Actor), result.ClearedDrafts),
	})
	return result, nil
}

func validateInput(req interface{}) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrInvalidArgument, firstErr.FailedField, firstErr.Tag)
	}
	return nil
}

func findProject(ctx context.Context, projects repository.ProjectRepository, id uuid.UUID) (*model.Project, error) {
	project, err := projects.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	return project, nil
}

func requireProject(ctx context.Context, projects repository.ProjectRepository, id uuid.UUID) error {
	ok, err := projects.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check project: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: project %s", ErrNotFound, id)
	}
	return nil
}

func bumpVersion(ctx context.Context, projects repository.ProjectRepository, id uuid.UUID, expected *int64) (int64, error) {
	version, err := projects.BumpVersion(ctx, id, expected)
	if errors.Is(err, repository.ErrVersionMismatch) {
		if expected == nil {
			return 0, fmt.Errorf("%w: project %s", ErrNotFound, id)
		}
		return 0, fmt.Errorf("%w: expected version %d", ErrVersionConflict, *expected)
	}
	if err != nil {
		return 0, fmt.Errorf("bump draft version: %w", err)
	}
	return version, nil
}

// requireCatalogMembership fails with ErrInvalidArgument unless every id is a catalog product of category.
func requireCatalogMembership(ctx context.Context, catalog repository.CatalogRepository, category model.Category, ids map[uuid.UUID]struct{}) error {
	products, err := catalog.FindByCategory(ctx, category)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	known := make(map[uuid.UUID]struct{}, len(products))
	for _, p := range products {
		known[p.ID] = struct{}{}
	}
	for id := range ids {
		if _, ok := known[id]; !ok {
			return fmt.Errorf("%w: product %s is not in category %s", ErrInvalidArgument, id, category)
		}
	}
	return nil
}

func derivePriceChangeSource(margin, discount *decimal.Decimal) model.PriceChangeSource {
	switch {
	case margin != nil:
		return model.PriceChangeMargin
	case discount != nil:
		return model.PriceChangeDiscount
	default:
		return model.PriceChangeRecalculate
	}
}

// checkDraftRow rejects negative amounts and values that overflow their column.
func checkDraftRow(row DraftRowInput) error {
	amounts := []struct {
		name  string
		value *decimal.Decimal
	}{
		{"quantity", row.Quantity},
		{"retail_price", row.RetailPrice},
		{"purchase_price", row.PurchasePrice},
		{"selling_price", row.SellingPrice},
	}
	for _, f := range amounts {
		if f.value == nil {
			continue
		}
		if f.value.IsNegative() {
			return fmt.Errorf("%w: %s of product %s is negative", ErrInvalidArgument, f.name, row.ProductID)
		}
		if !model.AmountFits(*f.value) {
			return fmt.Errorf("%w: %s of product %s is out of range", ErrInvalidArgument, f.name, row.ProductID)
		}
	}
	if err := checkPercent("margin_percent", row.MarginPercent); err != nil {
		return fmt.Errorf("%w (product %s)", err, row.ProductID)
	}
	if err := checkPercent("discount_percent", row.DiscountPercent); err != nil {
		return fmt.Errorf("%w (product %s)", err, row.ProductID)
	}
	return nil
}

func checkPercent(name string, v *decimal.Decimal) error {
	if v != nil && !model.PercentFits(*v) {
		return fmt.Errorf("%w: %s is out of range", ErrInvalidArgument, name)
	}
	return nil
}

func actorName(a Actor) string {
	if a.Name == "" {
		return "Someone"
	}
	return a.Name
}
