package service

import (
	"context"
	"errors"
	"testing"

	"go-quote-pricing/internal/model"
	"go-quote-pricing/internal/repository"
	"go-quote-pricing/internal/testutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestCommitMergesIntoCommittedAndClearsDrafts(t *testing.T) {
	env := newTestEnv(t)
	p := testutil.SeedProduct(t, env.db, model.CategoryTiles, "Tegal", "Monier", "10", "12")

	env.replace(t, model.CategoryTiles, "", "", DraftRowInput{
		ProductID:     p.ID,
		Quantity:      dec("10"),
		RetailPrice:   dec("11"),
		PurchasePrice: dec("6"),
		SellingPrice:  dec("100"),
	})
	res := env.commit(t)
	if res.PromotedPrices != 1 || res.ClearedDrafts != 1 {
		t.Fatalf("unexpected commit result: %+v", res)
	}

	env.replace(t, model.CategoryTiles, "", "", DraftRowInput{ProductID: p.ID, SellingPrice: dec("120")})
	env.commit(t)

	got := env.entry(t, model.CategoryTiles, p.ID)
	if got.HasDraft() {
		t.Fatalf("draft fields visible after commit: %+v", got)
	}
	if !testutil.EqualDec(got.SavedSellingPrice, dec("120")) {
		t.Fatalf("saved selling = %s, want 120", testutil.FmtDec(got.SavedSellingPrice))
	}
	if !testutil.EqualDec(got.SavedQuantity, dec("10")) {
		t.Fatalf("saved quantity = %s, want 10 (untouched by last draft)", testutil.FmtDec(got.SavedQuantity))
	}
	if !testutil.EqualDec(got.SavedRetailPrice, dec("11")) || !testutil.EqualDec(got.SavedPurchasePrice, dec("6")) {
		t.Fatalf("saved retail/purchase changed: %s / %s", testutil.FmtDec(got.SavedRetailPrice), testutil.FmtDec(got.SavedPurchasePrice))
	}
	if env.draftCount(t) != 0 {
		t.Fatalf("drafts left after commit: %d", env.draftCount(t))
	}
}

func TestCommitGroupOptionOnlyDraftKeepsCommittedPrices(t *testing.T) {
	env := newTestEnv(t)
	p := testutil.SeedProduct(t, env.db, model.CategoryTiles, "Tegal", "Monier", "10", "12")

	env.replace(t, model.CategoryTiles, "", "", DraftRowInput{ProductID: p.ID, Quantity: dec("8"), SellingPrice: dec("15")})
	env.commit(t)

	env.patch(t, model.CategoryTiles, model.GroupOptionOptional, p.ID)
	res := env.commit(t)
	if res.PromotedPrices != 0 || res.PromotedGroupOptions != 1 {
		t.Fatalf("unexpected commit result: %+v", res)
	}

	got := env.entry(t, model.CategoryTiles, p.ID)
	if !testutil.EqualDec(got.SavedQuantity, dec("8")) || !testutil.EqualDec(got.SavedSellingPrice, dec("15")) {
		t.Fatalf("group-only commit touched prices: qty=%s selling=%s", testutil.FmtDec(got.SavedQuantity), testutil.FmtDec(got.SavedSellingPrice))
	}
	if got.SavedGroupOption == nil || *got.SavedGroupOption != model.GroupOptionOptional {
		t.Fatalf("saved group option = %v, want OPTIONAL", got.SavedGroupOption)
	}
	if got.EffectiveGroupOption != model.GroupOptionOptional {
		t.Fatalf("effective group option = %s, want OPTIONAL", got.EffectiveGroupOption)
	}
}

func TestCommitTwiceIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	a := testutil.SeedProduct(t, env.db, model.CategoryTiles, "Tegal", "Monier", "10", "12")
	b := testutil.SeedProduct(t, env.db, model.CategoryTiles, "Betong", "Benders", "9", "11")

	env.replace(t, model.CategoryTiles, "12", "",
		DraftRowInput{ProductID: a.ID, Quantity: dec("30"), SellingPrice: dec("13.44")},
		DraftRowInput{ProductID: b.ID, Quantity: dec("5"), GroupOption: groupPtr(model.GroupOptionMain)},
	)
	first := env.commit(t)
	before, err := env.pricing.GetComparison(context.Background(), env.project.ID, model.CategoryTiles)
	if err != nil {
		t.Fatalf("comparison: %v", err)
	}

	second := env.commit(t)
	if second.PromotedPrices != 0 || second.PromotedGroupOptions != 0 || second.ClearedDrafts != 0 {
		t.Fatalf("second commit was not a no-op: %+v", second)
	}
	if second.Version != first.Version {
		t.Fatalf("second commit bumped version %d -> %d", first.Version, second.Version)
	}

	after, err := env.pricing.GetComparison(context.Background(), env.project.ID, model.CategoryTiles)
	if err != nil {
		t.Fatalf("comparison: %v", err)
	}
	if len(before) != len(after) {
		t.Fatalf("entry count changed %d -> %d", len(before), len(after))
	}
	for i := range before {
		x, y := before[i], after[i]
		if x.ProductID != y.ProductID ||
			!testutil.EqualDec(x.SavedQuantity, y.SavedQuantity) ||
			!testutil.EqualDec(x.SavedSellingPrice, y.SavedSellingPrice) ||
			x.EffectiveGroupOption != y.EffectiveGroupOption {
			t.Fatalf("entry %d changed after second commit:\n%+v\n%+v", i, x, y)
		}
	}
}

func TestCommitPromotesAllCategories(t *testing.T) {
	env := newTestEnv(t)
	tile := testutil.SeedProduct(t, env.db, model.CategoryTiles, "Tegal", "Monier", "10", "12")
	gutter := testutil.SeedProduct(t, env.db, model.CategoryGutters, "Ränna", "Lindab", "50", "60")

	env.replace(t, model.CategoryTiles, "", "", DraftRowInput{ProductID: tile.ID, Quantity: dec("100")})
	env.replace(t, model.CategoryGutters, "", "", DraftRowInput{ProductID: gutter.ID, Quantity: dec("12")})

	res := env.commit(t)
	if len(res.Categories) != 2 || res.ClearedDrafts != 2 {
		t.Fatalf("unexpected commit result: %+v", res)
	}

	if got := env.entry(t, model.CategoryTiles, tile.ID); !testutil.EqualDec(got.SavedQuantity, dec("100")) || got.DraftQuantity != nil {
		t.Fatalf("tiles not committed: saved=%s draft=%s", testutil.FmtDec(got.SavedQuantity), testutil.FmtDec(got.DraftQuantity))
	}
	if got := env.entry(t, model.CategoryGutters, gutter.ID); !testutil.EqualDec(got.SavedQuantity, dec("12")) || got.DraftQuantity != nil {
		t.Fatalf("gutters not committed: saved=%s draft=%s", testutil.FmtDec(got.SavedQuantity), testutil.FmtDec(got.DraftQuantity))
	}
}

func TestCommitLeavesOtherProjectsAlone(t *testing.T) {
	env := newTestEnv(t)
	p := testutil.SeedProduct(t, env.db, model.CategoryTiles, "Tegal", "Monier", "10", "12")
	other := testutil.SeedProject(t, env.db, "Sommarhus")

	env.replace(t, model.CategoryTiles, "", "", DraftRowInput{ProductID: p.ID, Quantity: dec("3")})
	if _, err := env.pricing.ReplaceDraftRows(context.Background(), &ReplaceDraftRowsInput{
		ProjectID: other.ID,
		Category:  model.CategoryTiles,
		Rows:      []DraftRowInput{{ProductID: p.ID, Quantity: dec("4")}},
	}); err != nil {
		t.Fatalf("replace other project: %v", err)
	}

	env.commit(t)

	var n int64
	env.db.Model(&model.DraftRow{}).Where("project_id = ?", other.ID).Count(&n)
	if n != 1 {
		t.Fatalf("other project's drafts = %d, want 1", n)
	}
}

func TestCommitUnknownProject(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.pricing.CommitProject(context.Background(), &CommitProjectInput{ProjectID: uuid.New()}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// failingGroups breaks the group-option store half way through a commit.
type failingGroups struct {
	repository.CommittedGroupOptionRepository
}

func (f failingGroups) WithTx(tx *gorm.DB) repository.CommittedGroupOptionRepository {
	return failingGroups{f.CommittedGroupOptionRepository.WithTx(tx)}
}

var errDiskFull = errors.New("disk full")

func (failingGroups) Upsert(context.Context, uuid.UUID, uuid.UUID, model.Category, model.GroupOption) error {
	return errDiskFull
}

func TestCommitRollsBackOnStoreFailure(t *testing.T) {
	env := newTestEnv(t)
	p := testutil.SeedProduct(t, env.db, model.CategoryTiles, "Tegal", "Monier", "10", "12")

	env.replace(t, model.CategoryTiles, "", "", DraftRowInput{
		ProductID:    p.ID,
		Quantity:     dec("9"),
		SellingPrice: dec("14"),
		GroupOption:  groupPtr(model.GroupOptionMain),
	})

	stores := env.stores
	stores.Groups = failingGroups{env.stores.Groups}
	broken := NewPricingService(env.db, stores, nil, nil, zap.NewNop(), PricingOptions{})

	_, err := broken.CommitProject(context.Background(), &CommitProjectInput{ProjectID: env.project.ID})
	if !errors.Is(err, ErrCommitConflict) {
		t.Fatalf("expected ErrCommitConflict, got %v", err)
	}

	got := env.entry(t, model.CategoryTiles, p.ID)
	if got.SavedQuantity != nil || got.SavedSellingPrice != nil {
		t.Fatalf("partial promotion visible: saved qty=%s selling=%s", testutil.FmtDec(got.SavedQuantity), testutil.FmtDec(got.SavedSellingPrice))
	}
	if !testutil.EqualDec(got.DraftQuantity, dec("9")) || got.DraftGroupOption == nil {
		t.Fatal("draft layer not intact after failed commit")
	}

	res := env.commit(t)
	if res.PromotedPrices != 1 || res.PromotedGroupOptions != 1 {
		t.Fatalf("retry did not promote: %+v", res)
	}
}

func TestCommitCancelledContextIsNotAConflict(t *testing.T) {
	env := newTestEnv(t)
	p := testutil.SeedProduct(t, env.db, model.CategoryTiles, "Tegal", "Monier", "10", "12")
	env.replace(t, model.CategoryTiles, "", "", DraftRowInput{ProductID: p.ID, Quantity: dec("2")})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := env.pricing.CommitProject(ctx, &CommitProjectInput{ProjectID: env.project.ID})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if errors.Is(err, ErrCommitConflict) {
		t.Fatalf("cancelled commit reported as conflict: %v", err)
	}
	if env.draftCount(t) != 1 {
		t.Fatal("cancelled commit touched the draft layer")
	}
}

func TestCommitStoreFailureKeepsCause(t *testing.T) {
	env := newTestEnv(t)
	p := testutil.SeedProduct(t, env.db, model.CategoryTiles, "Tegal", "Monier", "10", "12")
	env.replace(t, model.CategoryTiles, "", "", DraftRowInput{ProductID: p.ID, GroupOption: groupPtr(model.GroupOptionMain)})

	stores := env.stores
	stores.Groups = failingGroups{env.stores.Groups}
	broken := NewPricingService(env.db, stores, nil, nil, zap.NewNop(), PricingOptions{})

	_, err := broken.CommitProject(context.Background(), &CommitProjectInput{ProjectID: env.project.ID})
	if !errors.Is(err, ErrCommitConflict) || !errors.Is(err, errDiskFull) {
		t.Fatalf("expected ErrCommitConflict wrapping the store error, got %v", err)
	}
}
