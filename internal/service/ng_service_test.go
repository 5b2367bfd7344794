package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/dto"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/model"
)

func TestNGAddAndRemove(t *testing.T) {
	tr := newTestRepos()
	svc := NewNGService(tr.aggregate(), zap.NewNop())
	ctx := context.Background()

	if err := svc.Add(ctx, &dto.NGRequest{CastID: "c1", ShopID: "s1", Note: "トラブル"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	blocked, err := svc.IsBlocked(ctx, "c1", "s1")
	if err != nil || !blocked {
		t.Fatalf("IsBlocked() = %v, %v, want true", blocked, err)
	}

	// 重複登録は拒否
	if err := svc.Add(ctx, &dto.NGRequest{CastID: "c1", ShopID: "s1"}); !errors.Is(err, ErrNGExists) {
		t.Fatalf("err = %v, want ErrNGExists", err)
	}

	if err := svc.Remove(ctx, "c1", "s1"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	blocked, _ = svc.IsBlocked(ctx, "c1", "s1")
	if blocked {
		t.Error("解除後も NG のまま")
	}

	// 存在しないペアの解除
	if err := svc.Remove(ctx, "c1", "s1"); !errors.Is(err, ErrNGNotFound) {
		t.Fatalf("err = %v, want ErrNGNotFound", err)
	}
}

func TestNGPairIsDirectional(t *testing.T) {
	tr := newTestRepos()
	tr.ng.rows = []model.CastShopNG{{CastID: "c1", ShopID: "s1"}}
	svc := NewNGService(tr.aggregate(), zap.NewNop())
	ctx := context.Background()

	// 別店舗・別キャストはブロックされない
	if blocked, _ := svc.IsBlocked(ctx, "c1", "s2"); blocked {
		t.Error("別店舗がブロックされた")
	}
	if blocked, _ := svc.IsBlocked(ctx, "c2", "s1"); blocked {
		t.Error("別キャストがブロックされた")
	}
}
