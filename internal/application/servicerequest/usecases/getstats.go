package usecases

import (
	"context"
	"time"

	"srdashboard/internal/application/servicerequest/dto"
	"srdashboard/internal/domain/servicerequest"
	vo "srdashboard/internal/domain/servicerequest/valueobjects"
	"srdashboard/internal/shared/biztime"
	"srdashboard/internal/shared/logger"
)

// RecentWindow is how far back a request counts as recent.
const RecentWindow = 30 * 24 * time.Hour

type GetStatsUseCase struct {
	repo   servicerequest.Repository
	logger logger.Interface
	now    func() time.Time
}

func NewGetStatsUseCase(repo servicerequest.Repository, logger logger.Interface) *GetStatsUseCase {
	return &GetStatsUseCase{
		repo:   repo,
		logger: logger,
		now:    biztime.NowUTC,
	}
}

// Execute counts requests on every call; nothing is cached.
func (uc *GetStatsUseCase) Execute(ctx context.Context) (*dto.StatsDTO, error) {
	stats := &dto.StatsDTO{}
	since := uc.now().Add(-RecentWindow)

	counters := []struct {
		target    *int64
		predicate servicerequest.CountPredicate
	}{
		{&stats.Total, servicerequest.CountPredicate{}},
		{&stats.Open, statusPredicate(vo.StatusOpen)},
		{&stats.InProgress, statusPredicate(vo.StatusInProgress)},
		{&stats.Closed, statusPredicate(vo.StatusClosed)},
		{&stats.RecentRequests, servicerequest.CountPredicate{CreatedSince: &since}},
	}

	for _, c := range counters {
		n, err := uc.repo.Count(ctx, c.predicate)
		if err != nil {
			uc.logger.Errorw("failed to count service requests", "error", err)
			return nil, err
		}
		*c.target = n
	}

	return stats, nil
}

func statusPredicate(s vo.Status) servicerequest.CountPredicate {
	return servicerequest.CountPredicate{Status: &s}
}
