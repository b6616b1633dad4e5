package service

import (
	"context"
	"testing"

	"go-quote-pricing/internal/model"
	"go-quote-pricing/internal/repository"
	"go-quote-pricing/internal/testutil"
	"go-quote-pricing/pkg/metrics"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	db      *gorm.DB
	stores  PricingStores
	pricing PricingService
	project *model.Project
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	stores := PricingStores{
		Projects: repository.NewProjectRepo(db),
		Catalog:  repository.NewCatalogRepo(db),
		Drafts:   repository.NewDraftRepo(db),
		Prices:   repository.NewCommittedPriceRepo(db),
		Groups:   repository.NewCommittedGroupOptionRepo(db),
	}
	return &testEnv{
		db:      db,
		stores:  stores,
		pricing: NewPricingService(db, stores, nil, metrics.NewPricing(prometheus.NewRegistry()), zap.NewNop(), PricingOptions{}),
		project: testutil.SeedProject(t, db, "Villa Nord"),
	}
}

func (e *testEnv) replace(t *testing.T, category model.Category, margin, discount string, rows ...DraftRowInput) *DraftWriteResult {
	t.Helper()
	req := &ReplaceDraftRowsInput{
		ProjectID: e.project.ID,
		Category:  category,
		Rows:      rows,
	}
	if margin != "" {
		req.CategoryMarginPercent = testutil.Dec(margin)
	}
	if discount != "" {
		req.CategoryDiscountPercent = testutil.Dec(discount)
	}
	res, err := e.pricing.ReplaceDraftRows(context.Background(), req)
	if err != nil {
		t.Fatalf("replace draft rows: %v", err)
	}
	return res
}

func (e *testEnv) patch(t *testing.T, category model.Category, option model.GroupOption, ids ...uuid.UUID) *DraftWriteResult {
	t.Helper()
	res, err := e.pricing.PatchGroupOption(context.Background(), &PatchGroupOptionInput{
		ProjectID:   e.project.ID,
		Category:    category,
		ProductIDs:  ids,
		GroupOption: option,
	})
	if err != nil {
		t.Fatalf("patch group option: %v", err)
	}
	return res
}

func (e *testEnv) commit(t *testing.T) *CommitResult {
	t.Helper()
	res, err := e.pricing.CommitProject(context.Background(), &CommitProjectInput{ProjectID: e.project.ID})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	return res
}

func (e *testEnv) entry(t *testing.T, category model.Category, productID uuid.UUID) model.ComparisonEntry {
	t.Helper()
	entries, err := e.pricing.GetComparison(context.Background(), e.project.ID, category)
	if err != nil {
		t.Fatalf("get comparison: %v", err)
	}
	for _, en := range entries {
		if en.ProductID == productID {
			return en
		}
	}
	t.Fatalf("product %s missing from comparison", productID)
	return model.ComparisonEntry{}
}

func (e *testEnv) draftCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(&model.DraftRow{}).Where("project_id = ?", e.project.ID).Count(&n).Error; err != nil {
		t.Fatalf("count drafts: %v", err)
	}
	return n
}

func (e *testEnv) version(t *testing.T) int64 {
	t.Helper()
	var p model.Project
	if err := e.db.First(&p, "id = ?", e.project.ID).Error; err != nil {
		t.Fatalf("load project: %v", err)
	}
	return p.DraftVersion
}

func groupPtr(g model.GroupOption) *model.GroupOption { return &g }

func sourcePtr(s model.PriceChangeSource) *model.PriceChangeSource { return &s }
