package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/dto"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/service"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/pkg/response"
)

// NGHandler NG 登録の HTTP ハンドラ
type NGHandler struct {
	ngSvc service.NGService
}

// NewNGHandler NGHandler を作る
func NewNGHandler(ngSvc service.NGService) *NGHandler {
	return &NGHandler{ngSvc: ngSvc}
}

// AddNG NG ペアを登録する
// POST /api/v1/ng
func (h *NGHandler) AddNG(c *gin.Context) {
	var req dto.NGRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 23001, "パラメータが不正です")
		return
	}

	if err := h.ngSvc.Add(c.Request.Context(), &req); err != nil {
		if errors.Is(err, service.ErrNGExists) {
			response.Conflict(c, 23002, "既に NG 登録されています")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, nil)
}

// RemoveNG NG ペアを解除する
// DELETE /api/v1/ng
func (h *NGHandler) RemoveNG(c *gin.Context) {
	var req dto.NGRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 23001, "パラメータが不正です")
		return
	}

	if err := h.ngSvc.Remove(c.Request.Context(), req.CastID, req.ShopID); err != nil {
		if errors.Is(err, service.ErrNGNotFound) {
			response.NotFound(c, 23003, "NG 登録が存在しません")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}
