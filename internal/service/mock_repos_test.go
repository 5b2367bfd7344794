package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/config"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/board"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/model"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/repository"
)

// テスト用のインメモリ Repository 群。
// 呼び出し回数を記録し、任意のエラーを注入できる。

const testDate = "2026-08-28"

// ── Cast ──

type mockCastRepo struct {
	casts    []model.Cast
	todayIDs []string
	listErr  error
}

func (m *mockCastRepo) GetByID(_ context.Context, id string) (*model.Cast, error) {
	for i := range m.casts {
		if m.casts[i].CastID == id {
			c := m.casts[i]
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCastRepo) List(_ context.Context) ([]model.Cast, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]model.Cast(nil), m.casts...), nil
}

func (m *mockCastRepo) ListTodayIDs(_ context.Context, _ string) ([]string, error) {
	return append([]string(nil), m.todayIDs...), nil
}

// ── Shop ──

type mockShopRepo struct {
	shops []model.Shop
}

func (m *mockShopRepo) GetByID(_ context.Context, id string) (*model.Shop, error) {
	for i := range m.shops {
		if m.shops[i].ShopID == id {
			s := m.shops[i]
			return &s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShopRepo) List(_ context.Context) ([]model.Shop, error) {
	return append([]model.Shop(nil), m.shops...), nil
}

// ── NG ──

type mockNGRepo struct {
	rows      []model.CastShopNG
	existsErr error
}

func (m *mockNGRepo) ListAll(_ context.Context) ([]model.CastShopNG, error) {
	return append([]model.CastShopNG(nil), m.rows...), nil
}

func (m *mockNGRepo) ListByCast(_ context.Context, castID string) ([]model.CastShopNG, error) {
	var out []model.CastShopNG
	for _, r := range m.rows {
		if r.CastID == castID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockNGRepo) Create(_ context.Context, ng *model.CastShopNG) error {
	m.rows = append(m.rows, *ng)
	return nil
}

func (m *mockNGRepo) Delete(_ context.Context, castID, shopID string) error {
	for i, r := range m.rows {
		if r.CastID == castID && r.ShopID == shopID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockNGRepo) Exists(_ context.Context, castID, shopID string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	for _, r := range m.rows {
		if r.CastID == castID && r.ShopID == shopID {
			return true, nil
		}
	}
	return false, nil
}

// ── Request ──

type mockRequestRepo struct {
	reqs        []model.ShopRequest
	createCalls int
	statuses    map[string]model.ContactStatus // requestID → 最後に書かれたステータス
	listErr     error
	findErr     error
	updateErr   error
}

func (m *mockRequestRepo) ListByDate(_ context.Context, _ string) ([]model.ShopRequest, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]model.ShopRequest(nil), m.reqs...), nil
}

func (m *mockRequestRepo) FindByShopAndDate(_ context.Context, shopID, date string) (*model.ShopRequest, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for i := range m.reqs {
		if m.reqs[i].ShopID == shopID && m.reqs[i].BusinessDate == date {
			r := m.reqs[i]
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRequestRepo) Create(_ context.Context, req *model.ShopRequest) error {
	m.createCalls++
	if req.RequestID == "" {
		req.RequestID = fmt.Sprintf("req-%d", m.createCalls)
	}
	m.reqs = append(m.reqs, *req)
	return nil
}

func (m *mockRequestRepo) UpdateContactStatus(_ context.Context, requestID string, status model.ContactStatus) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if m.statuses == nil {
		m.statuses = make(map[string]model.ContactStatus)
	}
	m.statuses[requestID] = status
	return nil
}

// ── Order ──

type mockOrderRepo struct {
	orders []model.CastOrder

	listErr   error
	createErr error

	createCalls  int
	replaceCalls int
	replaced     map[string][]model.OrderAssignment // orderID → 最後に置換された割当集合
	replaceErr   error

	orderStatuses   map[string]model.OrderStatus
	updateStatusErr error
}

func (m *mockOrderRepo) ListByShopAndDate(_ context.Context, shopID, date string) ([]model.CastOrder, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []model.CastOrder
	for _, o := range m.orders {
		if o.ShopID == shopID && o.BusinessDate == date {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) Create(_ context.Context, order *model.CastOrder) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	if order.OrderID == "" {
		order.OrderID = fmt.Sprintf("remote-%d", m.createCalls)
	}
	m.orders = append(m.orders, *order)
	return nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, orderID string, status model.OrderStatus) error {
	if m.updateStatusErr != nil {
		return m.updateStatusErr
	}
	if m.orderStatuses == nil {
		m.orderStatuses = make(map[string]model.OrderStatus)
	}
	m.orderStatuses[orderID] = status
	return nil
}

func (m *mockOrderRepo) ReplaceAssignments(_ context.Context, orderID string, assignments []model.OrderAssignment) error {
	m.replaceCalls++
	if m.replaceErr != nil {
		return m.replaceErr
	}
	if m.replaced == nil {
		m.replaced = make(map[string][]model.OrderAssignment)
	}
	m.replaced[orderID] = append([]model.OrderAssignment(nil), assignments...)
	return nil
}

// ── 組み立てヘルパ ──

type testRepos struct {
	cast    *mockCastRepo
	shop    *mockShopRepo
	ng      *mockNGRepo
	request *mockRequestRepo
	order   *mockOrderRepo
}

func newTestRepos() *testRepos {
	return &testRepos{
		cast:    &mockCastRepo{},
		shop:    &mockShopRepo{},
		ng:      &mockNGRepo{},
		request: &mockRequestRepo{},
		order:   &mockOrderRepo{},
	}
}

func (tr *testRepos) aggregate() *repository.Repository {
	return &repository.Repository{
		Cast:    tr.cast,
		Shop:    tr.shop,
		NG:      tr.ng,
		Request: tr.request,
		Order:   tr.order,
	}
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Database.Timezone = "Asia/Tokyo"
	cfg.Today.PollInterval = 30 * time.Second
	cfg.Today.DefaultHeadcount = 1
	cfg.Today.DefaultStartTime = "21:00"
	cfg.Feature.AutoOrderInheritDefaults = true
	return cfg
}

// newTestToday TodayService とその土台一式を組み立てる
func newTestToday(cfg *config.Config, tr *testRepos) (TodayService, *board.Board) {
	b := board.New(testDate, board.Defaults{
		Headcount: cfg.Today.DefaultHeadcount,
		StartTime: cfg.Today.DefaultStartTime,
	})
	repo := tr.aggregate()
	poller := NewShopPoller(cfg, repo, nil, b, zap.NewNop())
	return NewTodayService(cfg, repo, b, poller, zap.NewNop()), b
}
