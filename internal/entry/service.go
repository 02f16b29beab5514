package entry

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/geohndz/BibJournal/internal/db"
	"github.com/geohndz/BibJournal/internal/gpx"
	"github.com/geohndz/BibJournal/internal/stats"
	"github.com/geohndz/BibJournal/internal/stream"

	"github.com/google/uuid"
)

var photoKinds = map[string]bool{"bib": true, "medal": true, "finisher": true}

// ErrNoRoute is returned when an entry has no GPX attachment.
var ErrNoRoute = errors.New("no route attached")

type Service struct {
	db    db.Querier
	hub   *stream.Hub
	stats *stats.Service
}

func NewService(querier db.Querier, hub *stream.Hub, statsService *stats.Service) *Service {
	return &Service{db: querier, hub: hub, stats: statsService}
}

func (s *Service) CreateEntry(ctx context.Context, input Entry) (Entry, error) {
	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO entries (id, user_id, race_name, location, race_date, distance_label, finish_time, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at
	`, input.ID, input.UserID, input.RaceName, input.Location, timePtr(input.RaceDate), input.DistanceLabel, input.FinishTime, input.Notes)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Entry{}, err
	}

	s.notify(ctx, input.UserID, input.ID, "created")
	return input, nil
}

func (s *Service) UpdateEntry(ctx context.Context, id string, patch Entry) (Entry, error) {
	e, err := s.GetEntry(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if patch.RaceName != "" {
		e.RaceName = patch.RaceName
	}
	if patch.Location != "" {
		e.Location = patch.Location
	}
	if !patch.RaceDate.IsZero() {
		e.RaceDate = patch.RaceDate
	}
	if patch.DistanceLabel != "" {
		e.DistanceLabel = patch.DistanceLabel
	}
	if patch.FinishTime != "" {
		e.FinishTime = patch.FinishTime
	}
	if patch.Notes != "" {
		e.Notes = patch.Notes
	}

	_, err = s.db.Exec(ctx, `
		UPDATE entries
		SET race_name=$2, location=$3, race_date=$4, distance_label=$5, finish_time=$6, notes=$7
		WHERE id=$1
	`, e.ID, e.RaceName, e.Location, timePtr(e.RaceDate), e.DistanceLabel, e.FinishTime, e.Notes)
	if err != nil {
		return Entry{}, err
	}

	s.notify(ctx, e.UserID, e.ID, "updated")
	return e, nil
}

func (s *Service) GetEntry(ctx context.Context, id string) (Entry, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, race_name, location, race_date, distance_label, finish_time, notes,
		       route_data IS NOT NULL, created_at
		FROM entries WHERE id=$1
	`, id)
	var e Entry
	if err := row.Scan(&e.ID, &e.UserID, &e.RaceName, &e.Location, &e.RaceDate, &e.DistanceLabel, &e.FinishTime, &e.Notes, &e.HasRoute, &e.CreatedAt); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (s *Service) ListEntries(ctx context.Context, userID string) ([]Entry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, race_name, location, race_date, distance_label, finish_time, notes,
		       route_data IS NOT NULL, created_at
		FROM entries WHERE user_id=$1
		ORDER BY race_date DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.RaceName, &e.Location, &e.RaceDate, &e.DistanceLabel, &e.FinishTime, &e.Notes, &e.HasRoute, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *Service) DeleteEntry(ctx context.Context, id, userID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM entries WHERE id=$1`, id)
	if err != nil {
		return err
	}
	s.notify(ctx, userID, id, "deleted")
	return nil
}

// AttachRoute parses raw GPX content and stores the resulting route
// document on the entry. A parse failure propagates to the caller without
// touching the entry row.
func (s *Service) AttachRoute(ctx context.Context, id, userID string, raw []byte) (gpx.RouteData, error) {
	route, err := gpx.Parse(raw)
	if err != nil {
		return gpx.RouteData{}, err
	}

	payload, err := json.Marshal(route)
	if err != nil {
		return gpx.RouteData{}, err
	}
	if _, err := s.db.Exec(ctx, `UPDATE entries SET route_data=$2 WHERE id=$1`, id, payload); err != nil {
		return gpx.RouteData{}, err
	}

	s.notify(ctx, userID, id, "route_attached")
	return route, nil
}

func (s *Service) Route(ctx context.Context, id string) (gpx.RouteData, error) {
	var payload []byte
	if err := s.db.QueryRow(ctx, `SELECT route_data FROM entries WHERE id=$1`, id).Scan(&payload); err != nil {
		return gpx.RouteData{}, err
	}
	if len(payload) == 0 {
		return gpx.RouteData{}, ErrNoRoute
	}

	var route gpx.RouteData
	if err := json.Unmarshal(payload, &route); err != nil {
		return gpx.RouteData{}, err
	}
	return route, nil
}

func (s *Service) AddPhoto(ctx context.Context, entryID, kind, url, caption string) (Photo, error) {
	if !photoKinds[kind] {
		return Photo{}, errors.New("kind must be bib, medal or finisher")
	}

	photo := Photo{
		ID:      uuid.NewString(),
		EntryID: entryID,
		Kind:    kind,
		URL:     url,
		Caption: caption,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO entry_photos (id, entry_id, kind, url, caption)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, photo.ID, photo.EntryID, photo.Kind, photo.URL, photo.Caption)
	if err := row.Scan(&photo.CreatedAt); err != nil {
		return Photo{}, err
	}
	return photo, nil
}

func (s *Service) Photos(ctx context.Context, entryID string) ([]Photo, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, entry_id, kind, url, caption, created_at
		FROM entry_photos WHERE entry_id=$1
		ORDER BY created_at DESC
	`, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []Photo
	for rows.Next() {
		var p Photo
		if err := rows.Scan(&p.ID, &p.EntryID, &p.Kind, &p.URL, &p.Caption, &p.CreatedAt); err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, nil
}

func (s *Service) notify(ctx context.Context, userID, entryID, action string) {
	if s.stats != nil {
		s.stats.Invalidate(ctx, userID)
	}
	if s.hub != nil && userID != "" {
		payload, _ := json.Marshal(map[string]string{"entry_id": entryID, "action": action})
		s.hub.Broadcast(userID, payload)
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
