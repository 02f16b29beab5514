package stats

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/geohndz/BibJournal/internal/db"
	"github.com/geohndz/BibJournal/internal/gpx"

	"github.com/redis/go-redis/v9"
)

const cacheTTL = 10 * time.Minute

type Service struct {
	db    db.Querier
	redis *redis.Client
}

func NewService(querier db.Querier, redisClient *redis.Client) *Service {
	return &Service{db: querier, redis: redisClient}
}

// Aggregate returns the user's cross-entry summary, served from the redis
// cache when present and recomputed from entry projections otherwise.
func (s *Service) Aggregate(ctx context.Context, userID string) (AggregateStats, error) {
	if cached, ok := s.fromCache(ctx, userID); ok {
		return cached, nil
	}

	entries, err := s.entryProjections(ctx, userID)
	if err != nil {
		return AggregateStats{}, err
	}

	agg := ComputeAggregate(entries)
	s.toCache(ctx, userID, agg)
	return agg, nil
}

// Invalidate drops the cached aggregate; entry mutations call this so the
// next read recomputes.
func (s *Service) Invalidate(ctx context.Context, userID string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, cacheKey(userID)).Err(); err != nil {
		log.Printf("stats cache invalidate error: %v", err)
	}
}

func (s *Service) entryProjections(ctx context.Context, userID string) ([]EntryStats, error) {
	rows, err := s.db.Query(ctx, `
		SELECT COALESCE(distance_label,''), COALESCE(finish_time,''), route_data->'statistics'
		FROM entries WHERE user_id=$1
		ORDER BY race_date
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []EntryStats
	for rows.Next() {
		var e EntryStats
		var routeStats []byte
		if err := rows.Scan(&e.DistanceLabel, &e.FinishTimeText, &routeStats); err != nil {
			return nil, err
		}
		if len(routeStats) > 0 {
			var rs gpx.RouteStatistics
			if err := json.Unmarshal(routeStats, &rs); err == nil {
				e.Route = &rs
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Service) fromCache(ctx context.Context, userID string) (AggregateStats, bool) {
	if s.redis == nil {
		return AggregateStats{}, false
	}
	payload, err := s.redis.Get(ctx, cacheKey(userID)).Bytes()
	if err != nil {
		return AggregateStats{}, false
	}
	var agg AggregateStats
	if err := json.Unmarshal(payload, &agg); err != nil {
		return AggregateStats{}, false
	}
	return agg, true
}

func (s *Service) toCache(ctx context.Context, userID string, agg AggregateStats) {
	if s.redis == nil {
		return
	}
	payload, err := json.Marshal(agg)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, cacheKey(userID), payload, cacheTTL).Err(); err != nil {
		log.Printf("stats cache set error: %v", err)
	}
}

func cacheKey(userID string) string {
	return "stats:" + userID + ":aggregate"
}
