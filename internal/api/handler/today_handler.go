package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/board"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/dto"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/service"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/pkg/response"
)

// TodayHandler 当日オペレーションの HTTP ハンドラ
type TodayHandler struct {
	todaySvc service.TodayService
}

// NewTodayHandler TodayHandler を作る
func NewTodayHandler(todaySvc service.TodayService) *TodayHandler {
	return &TodayHandler{todaySvc: todaySvc}
}

// ListShops 当日の依頼店舗一覧を返す
// GET /api/v1/today/shops
func (h *TodayHandler) ListShops(c *gin.Context) {
	shops, err := h.todaySvc.TodayShops(c.Request.Context())
	if err != nil {
		response.BadGateway(c, 22001, "当日店舗一覧の取得に失敗しました")
		return
	}
	response.OK(c, shops)
}

// SelectShop 店舗を選択中にする
// POST /api/v1/today/select
func (h *TodayHandler) SelectShop(c *gin.Context) {
	var req dto.SelectShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 22002, "パラメータが不正です")
		return
	}

	h.todaySvc.SelectShop(c.Request.Context(), &req)
	response.OK(c, h.todaySvc.BoardView())
}

// Board ボードのスナップショットを返す
// GET /api/v1/today/board
func (h *TodayHandler) Board(c *gin.Context) {
	response.OK(c, h.todaySvc.BoardView())
}

// SetDefaults オーダー自動作成の既定値を変更する
// PUT /api/v1/today/defaults
func (h *TodayHandler) SetDefaults(c *gin.Context) {
	var req dto.DefaultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 22002, "パラメータが不正です")
		return
	}

	h.todaySvc.SetDefaults(&req)
	response.OK(c, nil)
}

// AddOrder ローカルオーダーを追加する
// POST /api/v1/today/orders
func (h *TodayHandler) AddOrder(c *gin.Context) {
	var req dto.AddOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 22002, "パラメータが不正です")
		return
	}

	response.Created(c, h.todaySvc.AddOrder(&req))
}

// Stage キャストをオーダーへ仮置きする
// POST /api/v1/today/stage
func (h *TodayHandler) Stage(c *gin.Context) {
	var req dto.StageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 22002, "パラメータが不正です")
		return
	}

	order, err := h.todaySvc.Stage(c.Request.Context(), &req)
	if err != nil {
		h.handleTodayError(c, req.ShopID, err)
		return
	}
	response.OK(c, order)
}

// Unstage 仮置きを取り消す
// DELETE /api/v1/today/stage
func (h *TodayHandler) Unstage(c *gin.Context) {
	var req dto.UnstageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 22002, "パラメータが不正です")
		return
	}

	h.todaySvc.Unstage(&req)
	response.OK(c, nil)
}

// Confirm 選択中店舗のオーダーを確定する
// POST /api/v1/today/confirm
func (h *TodayHandler) Confirm(c *gin.Context) {
	var req dto.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 22002, "パラメータが不正です")
		return
	}

	res, err := h.todaySvc.Confirm(c.Request.Context(), &req)
	if err != nil {
		h.handleTodayError(c, req.ShopID, err)
		return
	}
	response.OK(c, res)
}

// Reject 選択中店舗を見送りにする
// POST /api/v1/today/reject
func (h *TodayHandler) Reject(c *gin.Context) {
	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 22002, "パラメータが不正です")
		return
	}

	res, err := h.todaySvc.Reject(c.Request.Context(), &req)
	if err != nil {
		h.handleTodayError(c, req.ShopID, err)
		return
	}
	response.OK(c, res)
}

// handleTodayError 当日オペレーションの業務エラーを HTTP へ写す。
// 曖昧系（オーダー選択・自動作成同意）は 409 に選択材料を添えて返し、
// クライアントに追加入力での再試行を促す。
func (h *TodayHandler) handleTodayError(c *gin.Context, shopID string, err error) {
	switch {
	case errors.Is(err, service.ErrShopNotActive):
		response.BadRequest(c, 22010, "店舗を選択してから操作してください")
	case errors.Is(err, service.ErrNothingStaged):
		response.BadRequest(c, 22011, "仮置きされたキャストがいません")
	case errors.Is(err, service.ErrNGBlocked):
		response.Conflict(c, 22012, "NG 登録のあるキャストは割り当てできません")
	case errors.Is(err, service.ErrOrderDetailsRequired):
		response.BadRequest(c, 22013, "オーダー内容を入力してから確定してください")
	case errors.Is(err, board.ErrOrderNotFound):
		response.NotFound(c, 22014, "指定されたオーダーが存在しません")
	case errors.Is(err, board.ErrOrderChoiceRequired):
		choices := dto.NewOrderChoices(h.todaySvc.BoardView().Orders[shopID])
		response.ErrorWithData(c, http.StatusConflict, 22015, "対象オーダーを指定してください", gin.H{"choices": choices})
	case errors.Is(err, service.ErrOrderMissing):
		response.ErrorWithData(c, http.StatusConflict, 22016, "対応するリモートオーダーが見つかりません", gin.H{"allow_create": true})
	case errors.Is(err, service.ErrRemoteWrite):
		response.BadGateway(c, 22017, "リモートストアへの書き込みに失敗しました。仮置きは保持されています")
	default:
		response.InternalError(c)
	}
}
