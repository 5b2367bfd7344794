package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/dto"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/service"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/pkg/response"
)

// RosterHandler キャスト一覧の HTTP ハンドラ
type RosterHandler struct {
	rosterSvc service.RosterService
}

// NewRosterHandler RosterHandler を作る
func NewRosterHandler(rosterSvc service.RosterService) *RosterHandler {
	return &RosterHandler{rosterSvc: rosterSvc}
}

// ListCasts キャスト一覧を射影して返す
// GET /api/v1/casts
func (h *RosterHandler) ListCasts(c *gin.Context) {
	var req dto.CastListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 21001, "パラメータが不正です")
		return
	}

	list, page, err := h.rosterSvc.List(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrShopNotFound) {
			response.NotFound(c, 21002, "店舗が存在しません")
			return
		}
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, int64(page.Total), page.PageIndex, page.PageSize)
}
