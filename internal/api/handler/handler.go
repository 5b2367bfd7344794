package handler

import "github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/service"

// Handler 全 Handler の集約エントリ
type Handler struct {
	Roster *RosterHandler
	Today  *TodayHandler
	NG     *NGHandler
}

// NewHandler Handler 集約を作る
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Roster: NewRosterHandler(svc.Roster),
		Today:  NewTodayHandler(svc.Today),
		NG:     NewNGHandler(svc.NG),
	}
}
