package service

import (
	"go.uber.org/zap"

	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/config"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/board"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/repository"
)

// Service 全 Service の集約エントリ
type Service struct {
	NG     NGService
	Roster RosterService
	Today  TodayService
}

// NewService Service 集約を作る
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	b *board.Board,
	poller *ShopPoller,
	logger *zap.Logger,
) *Service {
	return &Service{
		NG:     NewNGService(repo, logger),
		Roster: NewRosterService(repo, b, logger),
		Today:  NewTodayService(cfg, repo, b, poller, logger),
	}
}
