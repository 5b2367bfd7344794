package service

import (
	"context"
	"errors"
	"testing"

	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/board"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/dto"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/model"
)

// stageAndSelect 店舗を選択してキャストを仮置きする共通準備
func stageAndSelect(t *testing.T, svc TodayService, shopID string, castIDs ...string) {
	t.Helper()
	ctx := context.Background()

	svc.SelectShop(ctx, &dto.SelectShopRequest{ShopID: shopID})
	for _, id := range castIDs {
		if _, err := svc.Stage(ctx, &dto.StageRequest{ShopID: shopID, CastID: id}); err != nil {
			t.Fatalf("Stage(%s) error = %v", id, err)
		}
	}
}

// ────────────────────── 仮置き ──────────────────────

func TestStageBlockedByNG(t *testing.T) {
	tr := newTestRepos()
	tr.ng.rows = []model.CastShopNG{{CastID: "c1", ShopID: "s1"}}
	svc, b := newTestToday(testConfig(), tr)

	_, err := svc.Stage(context.Background(), &dto.StageRequest{ShopID: "s1", CastID: "c1"})
	if !errors.Is(err, ErrNGBlocked) {
		t.Fatalf("err = %v, want ErrNGBlocked", err)
	}
	if len(b.OrdersFor("s1")) != 0 {
		t.Error("NG キャストの仮置きでオーダーが作られた")
	}
}

// ────────────────────── 確定 ──────────────────────

func TestConfirmCreatesRemoteOrder(t *testing.T) {
	tr := newTestRepos()
	svc, b := newTestToday(testConfig(), tr)
	stageAndSelect(t, svc, "s1", "c1", "c2")

	res, err := svc.Confirm(context.Background(), &dto.ConfirmRequest{ShopID: "s1", AllowCreate: true})
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}

	// リクエストレコードとオーダーが 1 件ずつ作成される
	if tr.request.createCalls != 1 {
		t.Errorf("リクエスト作成回数 = %d, want 1", tr.request.createCalls)
	}
	if tr.order.createCalls != 1 {
		t.Errorf("オーダー作成回数 = %d, want 1", tr.order.createCalls)
	}

	// 割当は全置換 1 回、仮置き順で priority が振られる
	if tr.order.replaceCalls != 1 {
		t.Fatalf("全置換回数 = %d, want 1", tr.order.replaceCalls)
	}
	assigned := tr.order.replaced[res.RemoteOrderID]
	if len(assigned) != 2 {
		t.Fatalf("割当件数 = %d, want 2", len(assigned))
	}
	if assigned[0].CastID != "c1" || assigned[0].Priority != 1 {
		t.Errorf("先頭割当 = %+v", assigned[0])
	}
	if assigned[1].CastID != "c2" || assigned[1].Priority != 2 {
		t.Errorf("2 番目の割当 = %+v", assigned[1])
	}

	// オーダーは confirmed、ローカルも confirmed で後始末される
	if tr.order.orderStatuses[res.RemoteOrderID] != model.OrderConfirmed {
		t.Errorf("オーダーステータス = %q", tr.order.orderStatuses[res.RemoteOrderID])
	}
	if b.Status("s1") != model.ContactConfirmed {
		t.Errorf("ローカルステータス = %q", b.Status("s1"))
	}
	if len(b.OrdersFor("s1")) != 0 {
		t.Error("確定後も仮置きが残っている")
	}

	// 連絡ステータスがリクエストへ書き戻される
	if len(tr.request.reqs) != 1 {
		t.Fatalf("リクエスト件数 = %d", len(tr.request.reqs))
	}
	if tr.request.statuses[tr.request.reqs[0].RequestID] != model.ContactConfirmed {
		t.Errorf("書き戻しステータス = %q", tr.request.statuses[tr.request.reqs[0].RequestID])
	}
}

func TestConfirmAdoptsSingleRemoteOrder(t *testing.T) {
	tr := newTestRepos()
	tr.order.orders = []model.CastOrder{
		{OrderID: "r1", ShopID: "s1", BusinessDate: testDate, SequenceNo: 1},
	}
	svc, _ := newTestToday(testConfig(), tr)
	stageAndSelect(t, svc, "s1", "c1")

	// 既存が 1 件だけなら同意なしで採用される
	res, err := svc.Confirm(context.Background(), &dto.ConfirmRequest{ShopID: "s1"})
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if res.RemoteOrderID != "r1" {
		t.Errorf("RemoteOrderID = %q, want r1", res.RemoteOrderID)
	}
	if tr.order.createCalls != 0 {
		t.Errorf("既存採用なのに新規作成された: %d 回", tr.order.createCalls)
	}
}

func TestConfirmRequiresActiveShop(t *testing.T) {
	tr := newTestRepos()
	svc, _ := newTestToday(testConfig(), tr)

	_, err := svc.Confirm(context.Background(), &dto.ConfirmRequest{ShopID: "s1"})
	if !errors.Is(err, ErrShopNotActive) {
		t.Fatalf("err = %v, want ErrShopNotActive", err)
	}
	if tr.order.replaceCalls != 0 || tr.order.createCalls != 0 {
		t.Error("前提条件エラーなのにリモートへ書き込んだ")
	}
}

func TestConfirmRequiresStagedCasts(t *testing.T) {
	tr := newTestRepos()
	svc, _ := newTestToday(testConfig(), tr)

	ctx := context.Background()
	svc.SelectShop(ctx, &dto.SelectShopRequest{ShopID: "s1"})

	// オーダーなし
	if _, err := svc.Confirm(ctx, &dto.ConfirmRequest{ShopID: "s1"}); !errors.Is(err, ErrNothingStaged) {
		t.Fatalf("err = %v, want ErrNothingStaged", err)
	}

	// オーダーはあるが仮置きが空
	svc.AddOrder(&dto.AddOrderRequest{ShopID: "s1"})
	if _, err := svc.Confirm(ctx, &dto.ConfirmRequest{ShopID: "s1"}); !errors.Is(err, ErrNothingStaged) {
		t.Fatalf("err = %v, want ErrNothingStaged", err)
	}

	if tr.order.replaceCalls != 0 || tr.order.createCalls != 0 {
		t.Error("前提条件エラーなのにリモートへ書き込んだ")
	}
}

func TestConfirmRechecksNG(t *testing.T) {
	tr := newTestRepos()
	svc, b := newTestToday(testConfig(), tr)
	stageAndSelect(t, svc, "s1", "c1")

	// 仮置きの後から NG が登録されたケース
	tr.ng.rows = []model.CastShopNG{{CastID: "c1", ShopID: "s1"}}

	_, err := svc.Confirm(context.Background(), &dto.ConfirmRequest{ShopID: "s1", AllowCreate: true})
	if !errors.Is(err, ErrNGBlocked) {
		t.Fatalf("err = %v, want ErrNGBlocked", err)
	}
	if tr.order.replaceCalls != 0 {
		t.Error("NG なのに割当を書き込んだ")
	}
	if len(b.OrdersFor("s1")) != 1 {
		t.Error("失敗した確定で仮置きが消えた")
	}
}

func TestConfirmWithoutConsentFailsWhenNoRemote(t *testing.T) {
	tr := newTestRepos()
	svc, b := newTestToday(testConfig(), tr)
	stageAndSelect(t, svc, "s1", "c1")

	_, err := svc.Confirm(context.Background(), &dto.ConfirmRequest{ShopID: "s1"})
	if !errors.Is(err, ErrOrderMissing) {
		t.Fatalf("err = %v, want ErrOrderMissing", err)
	}
	if tr.order.createCalls != 0 {
		t.Error("同意なしに自動作成された")
	}
	if len(b.OrdersFor("s1")) != 1 {
		t.Error("失敗した確定で仮置きが消えた")
	}
}

func TestConfirmAutoCreatedOrderNeedsDetailsWhenInheritDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Feature.AutoOrderInheritDefaults = false

	tr := newTestRepos()
	svc, _ := newTestToday(cfg, tr)
	stageAndSelect(t, svc, "s1", "c1") // 仮置きでオーダーが自動作成される

	_, err := svc.Confirm(context.Background(), &dto.ConfirmRequest{ShopID: "s1", AllowCreate: true})
	if !errors.Is(err, ErrOrderDetailsRequired) {
		t.Fatalf("err = %v, want ErrOrderDetailsRequired", err)
	}
	if tr.order.createCalls != 0 {
		t.Error("明示入力が必要なのに作成へ進んだ")
	}
}

func TestConfirmAmbiguousOrdersRequireChoice(t *testing.T) {
	tr := newTestRepos()
	svc, _ := newTestToday(testConfig(), tr)

	ctx := context.Background()
	svc.SelectShop(ctx, &dto.SelectShopRequest{ShopID: "s1"})
	o1 := svc.AddOrder(&dto.AddOrderRequest{ShopID: "s1", Headcount: 2, StartTime: "20:00"})
	svc.AddOrder(&dto.AddOrderRequest{ShopID: "s1", Headcount: 1, StartTime: "22:00"})

	if _, err := svc.Stage(ctx, &dto.StageRequest{ShopID: "s1", CastID: "c1", OrderLocalID: o1.LocalID}); err != nil {
		t.Fatal(err)
	}

	// 対象を指定しない確定は曖昧
	_, err := svc.Confirm(ctx, &dto.ConfirmRequest{ShopID: "s1", AllowCreate: true})
	if !errors.Is(err, board.ErrOrderChoiceRequired) {
		t.Fatalf("err = %v, want ErrOrderChoiceRequired", err)
	}

	// 明示指定すれば確定できる
	res, err := svc.Confirm(ctx, &dto.ConfirmRequest{ShopID: "s1", OrderLocalID: o1.LocalID, AllowCreate: true})
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if len(tr.order.replaced[res.RemoteOrderID]) != 1 {
		t.Errorf("割当件数 = %d, want 1", len(tr.order.replaced[res.RemoteOrderID]))
	}
}

func TestConfirmRemoteWriteFailureKeepsStaging(t *testing.T) {
	tr := newTestRepos()
	tr.order.replaceErr = errors.New("connection reset")
	svc, b := newTestToday(testConfig(), tr)
	stageAndSelect(t, svc, "s1", "c1")

	_, err := svc.Confirm(context.Background(), &dto.ConfirmRequest{ShopID: "s1", AllowCreate: true})
	if !errors.Is(err, ErrRemoteWrite) {
		t.Fatalf("err = %v, want ErrRemoteWrite", err)
	}

	// 仮置きは保持され、ステータスも confirmed にならない
	orders := b.OrdersFor("s1")
	if len(orders) != 1 || len(orders[0].Staged) != 1 {
		t.Error("書き込み失敗で仮置きが消えた")
	}
	if b.Status("s1") == model.ContactConfirmed {
		t.Error("書き込み失敗なのに confirmed になった")
	}
}

func TestConfirmRetryReusesRemoteID(t *testing.T) {
	tr := newTestRepos()
	tr.order.updateStatusErr = errors.New("timeout")
	svc, b := newTestToday(testConfig(), tr)
	stageAndSelect(t, svc, "s1", "c1")

	ctx := context.Background()

	// 1 回目: オーダー作成までは成功、ステータス更新で失敗
	_, err := svc.Confirm(ctx, &dto.ConfirmRequest{ShopID: "s1", AllowCreate: true})
	if !errors.Is(err, ErrRemoteWrite) {
		t.Fatalf("err = %v, want ErrRemoteWrite", err)
	}
	if tr.order.createCalls != 1 {
		t.Fatalf("作成回数 = %d, want 1", tr.order.createCalls)
	}

	// 2 回目: リモート ID はメモ化済みなので再作成しない
	tr.order.updateStatusErr = nil
	res, err := svc.Confirm(ctx, &dto.ConfirmRequest{ShopID: "s1", AllowCreate: true})
	if err != nil {
		t.Fatalf("再実行の Confirm() error = %v", err)
	}
	if tr.order.createCalls != 1 {
		t.Errorf("再実行で二重作成された: %d 回", tr.order.createCalls)
	}
	if res.RemoteOrderID != "remote-1" {
		t.Errorf("RemoteOrderID = %q, want remote-1", res.RemoteOrderID)
	}
	if len(b.OrdersFor("s1")) != 0 {
		t.Error("成功した確定後も仮置きが残っている")
	}
}

func TestConfirmAssignedFromUsesStartTime(t *testing.T) {
	tr := newTestRepos()
	svc, _ := newTestToday(testConfig(), tr)

	ctx := context.Background()
	svc.SelectShop(ctx, &dto.SelectShopRequest{ShopID: "s1"})
	o := svc.AddOrder(&dto.AddOrderRequest{ShopID: "s1", Headcount: 1, StartTime: "20:30"})
	if _, err := svc.Stage(ctx, &dto.StageRequest{ShopID: "s1", CastID: "c1", OrderLocalID: o.LocalID}); err != nil {
		t.Fatal(err)
	}

	res, err := svc.Confirm(ctx, &dto.ConfirmRequest{ShopID: "s1", AllowCreate: true})
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}

	assigned := tr.order.replaced[res.RemoteOrderID]
	if len(assigned) != 1 {
		t.Fatalf("割当件数 = %d", len(assigned))
	}
	from := assigned[0].AssignedFrom
	if from.Hour() != 20 || from.Minute() != 30 {
		t.Errorf("AssignedFrom = %v, want 20:30", from)
	}
	if from.Format("2006-01-02") != testDate {
		t.Errorf("AssignedFrom 日付 = %v, want %s", from, testDate)
	}
}

// ────────────────────── 見送り ──────────────────────

func TestRejectCancelsMatchedRemoteOrder(t *testing.T) {
	tr := newTestRepos()
	tr.order.orders = []model.CastOrder{
		{OrderID: "r1", ShopID: "s1", BusinessDate: testDate, SequenceNo: 1},
	}
	tr.request.reqs = []model.ShopRequest{
		{RequestID: "req-1", ShopID: "s1", BusinessDate: testDate},
	}
	svc, b := newTestToday(testConfig(), tr)
	stageAndSelect(t, svc, "s1", "c1")

	res, err := svc.Reject(context.Background(), &dto.RejectRequest{ShopID: "s1"})
	if err != nil {
		t.Fatalf("Reject() error = %v", err)
	}
	if res.RemoteOrderID != "r1" {
		t.Errorf("RemoteOrderID = %q, want r1", res.RemoteOrderID)
	}

	// 割当は空集合に置換され、オーダーは取消になる
	if got := tr.order.replaced["r1"]; len(got) != 0 {
		t.Errorf("割当が残っている: %v", got)
	}
	if tr.order.orderStatuses["r1"] != model.OrderCanceled {
		t.Errorf("オーダーステータス = %q", tr.order.orderStatuses["r1"])
	}

	if b.Status("s1") != model.ContactRejected {
		t.Errorf("ローカルステータス = %q", b.Status("s1"))
	}
	if tr.request.statuses["req-1"] != model.ContactRejected {
		t.Errorf("書き戻しステータス = %q", tr.request.statuses["req-1"])
	}
	if len(b.OrdersFor("s1")) != 0 {
		t.Error("見送り後も仮置きが残っている")
	}
}

func TestRejectWithoutRemoteOrderStillRejects(t *testing.T) {
	tr := newTestRepos()
	svc, b := newTestToday(testConfig(), tr)
	stageAndSelect(t, svc, "s1", "c1")

	// リモートに対応オーダーが無い（照合不能）→ ローカルの後始末だけ行う
	res, err := svc.Reject(context.Background(), &dto.RejectRequest{ShopID: "s1"})
	if err != nil {
		t.Fatalf("Reject() error = %v", err)
	}
	if res.RemoteOrderID != "" {
		t.Errorf("RemoteOrderID = %q, want 空", res.RemoteOrderID)
	}
	if tr.order.replaceCalls != 0 {
		t.Error("照合できないのにリモートへ書き込んだ")
	}
	if b.Status("s1") != model.ContactRejected {
		t.Errorf("ローカルステータス = %q", b.Status("s1"))
	}
}

func TestRejectWithNoOrdersAtAll(t *testing.T) {
	tr := newTestRepos()
	svc, b := newTestToday(testConfig(), tr)

	ctx := context.Background()
	svc.SelectShop(ctx, &dto.SelectShopRequest{ShopID: "s1"})

	// オーダーも仮置きも無い店舗をそのまま見送りにできる
	res, err := svc.Reject(ctx, &dto.RejectRequest{ShopID: "s1"})
	if err != nil {
		t.Fatalf("Reject() error = %v", err)
	}
	if res.RemoteOrderID != "" {
		t.Errorf("RemoteOrderID = %q, want 空", res.RemoteOrderID)
	}
	if b.Status("s1") != model.ContactRejected {
		t.Errorf("ローカルステータス = %q", b.Status("s1"))
	}
}

func TestRejectRequiresActiveShop(t *testing.T) {
	tr := newTestRepos()
	svc, _ := newTestToday(testConfig(), tr)

	_, err := svc.Reject(context.Background(), &dto.RejectRequest{ShopID: "s1"})
	if !errors.Is(err, ErrShopNotActive) {
		t.Fatalf("err = %v, want ErrShopNotActive", err)
	}
}

// ────────────────────── 当日店舗一覧 ──────────────────────

func TestTodayShopsOverlaysLocalStatus(t *testing.T) {
	tr := newTestRepos()
	tr.request.reqs = []model.ShopRequest{
		{RequestID: "req-1", ShopID: "s1", BusinessDate: testDate, Headcount: 2,
			ContactStatus: model.ContactNone,
			Shop:          &model.Shop{ShopID: "s1", Code: "S001", Name: "店舗A"}},
		{RequestID: "req-2", ShopID: "s2", BusinessDate: testDate, Headcount: 1,
			ContactStatus: model.ContactConfirmed,
			Shop:          &model.Shop{ShopID: "s2", Code: "S002", Name: "店舗B"}},
	}
	svc, _ := newTestToday(testConfig(), tr)

	ctx := context.Background()
	svc.SelectShop(ctx, &dto.SelectShopRequest{ShopID: "s1"})

	shops, err := svc.TodayShops(ctx)
	if err != nil {
		t.Fatalf("TodayShops() error = %v", err)
	}
	if len(shops) != 2 {
		t.Fatalf("件数 = %d, want 2", len(shops))
	}

	// 選択中の s1 はローカルの editing が優先される
	if shops[0].ShopID != "s1" || shops[0].ContactStatus != model.ContactEditing {
		t.Errorf("s1 = %+v", shops[0])
	}
	// 触っていない s2 はリモートの値のまま
	if shops[1].ContactStatus != model.ContactConfirmed {
		t.Errorf("s2 のステータス = %q", shops[1].ContactStatus)
	}
	// 店舗情報が正規化されている
	if shops[0].Name != "店舗A" || shops[0].Code != "S001" {
		t.Errorf("店舗情報 = %+v", shops[0])
	}
}
