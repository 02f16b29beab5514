package entry

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/geohndz/BibJournal/internal/gpx"

	"github.com/pashagolub/pgxmock/v3"
)

func TestCreateAndGetEntry(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	createdAt := time.Now()

	mock.ExpectQuery(`INSERT INTO entries`).
		WithArgs(pgxmock.AnyArg(), "user-1", "City Half", "Chicago", pgxmock.AnyArg(), "Half Marathon", "1:45:00", "great race").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	svc := NewService(mock, nil, nil)
	e, err := svc.CreateEntry(context.Background(), Entry{
		UserID:        "user-1",
		RaceName:      "City Half",
		Location:      "Chicago",
		RaceDate:      time.Now(),
		DistanceLabel: "Half Marathon",
		FinishTime:    "1:45:00",
		Notes:         "great race",
	})
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}

	mock.ExpectQuery(`SELECT id, user_id, race_name, location, race_date, distance_label, finish_time, notes`).
		WithArgs(e.ID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "race_name", "location", "race_date", "distance_label", "finish_time", "notes", "has_route", "created_at"}).
			AddRow(e.ID, e.UserID, e.RaceName, e.Location, e.RaceDate, e.DistanceLabel, e.FinishTime, e.Notes, false, e.CreatedAt))

	loaded, err := svc.GetEntry(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("get entry: %v", err)
	}
	if loaded.ID != e.ID || loaded.RaceName != e.RaceName || loaded.HasRoute {
		t.Fatalf("unexpected entry loaded: %+v", loaded)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateDeleteListEntries(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	svc := NewService(mock, nil, nil)

	mock.ExpectQuery(`SELECT id, user_id, race_name, location, race_date, distance_label, finish_time, notes`).
		WithArgs("entry-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "race_name", "location", "race_date", "distance_label", "finish_time", "notes", "has_route", "created_at"}).
			AddRow("entry-1", "user-1", "City Half", "Chicago", time.Now(), "Half Marathon", "", "", false, time.Now()))

	mock.ExpectExec(`UPDATE entries`).
		WithArgs("entry-1", "Spring 10K", "Chicago", pgxmock.AnyArg(), "10K", "50:00", "").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	updated, err := svc.UpdateEntry(context.Background(), "entry-1", Entry{RaceName: "Spring 10K", DistanceLabel: "10K", FinishTime: "50:00"})
	if err != nil {
		t.Fatalf("update entry: %v", err)
	}
	if updated.RaceName != "Spring 10K" || updated.DistanceLabel != "10K" {
		t.Fatalf("unexpected update: %+v", updated)
	}

	mock.ExpectExec(`DELETE FROM entries`).WithArgs("entry-1").WillReturnResult(pgxmock.NewResult("DELETE", 1))
	if err := svc.DeleteEntry(context.Background(), "entry-1", "user-1"); err != nil {
		t.Fatalf("delete entry: %v", err)
	}

	mock.ExpectQuery(`SELECT id, user_id, race_name, location, race_date, distance_label, finish_time, notes`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "race_name", "location", "race_date", "distance_label", "finish_time", "notes", "has_route", "created_at"}).
			AddRow("entry-2", "user-1", "Trail 5K", "Denver", time.Now(), "5K", "", "", true, time.Now()))
	entries, err := svc.ListEntries(context.Background(), "user-1")
	if err != nil || len(entries) != 1 || !entries[0].HasRoute {
		t.Fatalf("list entries: %v %+v", err, entries)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

const attachGPX = `<gpx><trk><trkseg>
	<trkpt lat="0" lon="0"><time>2024-03-10T08:00:00Z</time></trkpt>
	<trkpt lat="0" lon="0.01"><time>2024-03-10T08:01:00Z</time></trkpt>
</trkseg></trk></gpx>`

func TestAttachRoute(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`UPDATE entries SET route_data`).
		WithArgs("entry-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	svc := NewService(mock, nil, nil)
	route, err := svc.AttachRoute(context.Background(), "entry-1", "user-1", []byte(attachGPX))
	if err != nil {
		t.Fatalf("attach route: %v", err)
	}
	if route.Statistics.PointCount != 2 || !route.Statistics.HasTimeData {
		t.Fatalf("unexpected route: %+v", route.Statistics)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAttachRouteParseFailureLeavesEntryAlone(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	svc := NewService(mock, nil, nil)
	_, err = svc.AttachRoute(context.Background(), "entry-1", "user-1", []byte("<gpx><trk>"))
	var perr *gpx.ParseError
	if !errors.As(err, &perr) || perr.Code != gpx.InvalidFormat {
		t.Fatalf("expected InvalidFormat, got %v", err)
	}

	// No database expectations were set: the entry row is untouched.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRoute(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	stored, _ := json.Marshal(gpx.RouteData{
		Samples:    []gpx.GeoSample{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}},
		Statistics: gpx.RouteStatistics{DistanceKm: 111.19, PointCount: 2},
		Bounds:     &gpx.BoundingBox{MaxLon: 1},
	})
	mock.ExpectQuery(`SELECT route_data FROM entries`).
		WithArgs("entry-1").
		WillReturnRows(pgxmock.NewRows([]string{"route_data"}).AddRow(stored))

	svc := NewService(mock, nil, nil)
	route, err := svc.Route(context.Background(), "entry-1")
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if route.Statistics.PointCount != 2 || route.Bounds == nil {
		t.Fatalf("unexpected route: %+v", route)
	}
}

func TestRouteMissing(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT route_data FROM entries`).
		WithArgs("entry-1").
		WillReturnRows(pgxmock.NewRows([]string{"route_data"}).AddRow(nil))

	svc := NewService(mock, nil, nil)
	if _, err := svc.Route(context.Background(), "entry-1"); !errors.Is(err, ErrNoRoute) {
		t.Fatalf("expected ErrNoRoute, got %v", err)
	}
}

func TestAddPhoto(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO entry_photos`).
		WithArgs(pgxmock.AnyArg(), "entry-1", "medal", "https://storage.example/medal.jpg", "").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	svc := NewService(mock, nil, nil)
	photo, err := svc.AddPhoto(context.Background(), "entry-1", "medal", "https://storage.example/medal.jpg", "")
	if err != nil || photo.Kind != "medal" {
		t.Fatalf("add photo: %v", err)
	}

	if _, err := svc.AddPhoto(context.Background(), "entry-1", "selfie", "url", ""); err == nil {
		t.Fatalf("expected invalid kind error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
