package service

import (
	"context"
	"errors"
	"testing"

	"go-quote-pricing/internal/model"
	"go-quote-pricing/internal/testutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestCreateProjectValidates(t *testing.T) {
	env := newTestEnv(t)
	svc := NewProjectService(env.db, env.stores, nil, zap.NewNop())

	if err := svc.CreateProject(context.Background(), &model.Project{}, Actor{ID: "u1"}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}

	p := &model.Project{Name: "Lagerhall", DraftVersion: 42}
	if err := svc.CreateProject(context.Background(), p, Actor{ID: "u1"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == uuid.Nil || p.DraftVersion != 0 || p.CreatedBy != "u1" {
		t.Fatalf("unexpected project: %+v", p)
	}

	got, err := svc.GetProject(context.Background(), p.ID)
	if err != nil || got.Name != "Lagerhall" {
		t.Fatalf("get: %v %+v", err, got)
	}
}

func TestDeleteProjectCascadesOverlay(t *testing.T) {
	env := newTestEnv(t)
	svc := NewProjectService(env.db, env.stores, nil, zap.NewNop())
	p := testutil.SeedProduct(t, env.db, model.CategoryTiles, "Tegal", "Monier", "10", "12")

	env.replace(t, model.CategoryTiles, "", "", DraftRowInput{ProductID: p.ID, Quantity: dec("1"), GroupOption: groupPtr(model.GroupOptionMain)})
	env.commit(t)
	env.replace(t, model.CategoryTiles, "", "", DraftRowInput{ProductID: p.ID, Quantity: dec("2")})

	if err := svc.DeleteProject(context.Background(), env.project.ID, Actor{ID: "u1"}); err != nil {
		t.Fatalf("delete: %v", err)
	}

	for _, table := range []interface{}{&model.DraftRow{}, &model.CommittedPrice{}, &model.CommittedGroupOption{}} {
		var n int64
		if err := env.db.Model(table).Where("project_id = ?", env.project.ID).Count(&n).Error; err != nil {
			t.Fatalf("count: %v", err)
		}
		if n != 0 {
			t.Fatalf("%T rows left after delete: %d", table, n)
		}
	}

	if _, err := svc.GetProject(context.Background(), env.project.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := env.pricing.GetComparison(context.Background(), env.project.ID, model.CategoryTiles); !errors.Is(err, ErrNotFound) {
		t.Fatalf("comparison on deleted project: expected ErrNotFound, got %v", err)
	}
	if err := svc.DeleteProject(context.Background(), env.project.ID, Actor{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}
