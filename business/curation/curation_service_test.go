package curation

import (
	"context"
	"errors"
	"testing"

	"stayRank/domain"
)

type fakeResultRepo struct {
	ranked  []domain.RankedLocation
	shown   map[uint]bool
	labels  map[uint]int
	missing bool
}

func newFakeResultRepo(ranked []domain.RankedLocation) *fakeResultRepo {
	return &fakeResultRepo{
		ranked: ranked,
		shown:  make(map[uint]bool),
		labels: make(map[uint]int),
	}
}

func (f *fakeResultRepo) RankedByTask(ctx context.Context, taskID string, limit int) ([]domain.RankedLocation, error) {
	if limit > len(f.ranked) {
		limit = len(f.ranked)
	}
	return f.ranked[:limit], nil
}

func (f *fakeResultRepo) MarkShown(ctx context.Context, taskID string, locationIDs []uint) error {
	for _, id := range locationIDs {
		f.shown[id] = true
	}
	return nil
}

func (f *fakeResultRepo) SetLabel(ctx context.Context, taskID string, locationID uint) (domain.Result, error) {
	if f.missing {
		return domain.Result{}, domain.ErrResultNotFound
	}
	f.labels[locationID] = 1
	return domain.Result{ID: 7, TaskID: taskID, LocationID: locationID, Label: 1}, nil
}

func (f *fakeResultRepo) FindByID(ctx context.Context, id uint) (domain.Result, error) {
	return domain.Result{}, domain.ErrResultNotFound
}

func (f *fakeResultRepo) FindByTask(ctx context.Context, taskID string) ([]domain.Result, error) {
	return nil, nil
}

type fakeLocationRepo struct{}

func (fakeLocationRepo) FindByID(ctx context.Context, id uint) (domain.Location, error) {
	return domain.Location{ID: id}, nil
}
func (fakeLocationRepo) FindAll(ctx context.Context) ([]domain.Location, error) { return nil, nil }
func (fakeLocationRepo) Count(ctx context.Context) (int64, error)               { return 3, nil }

type fakeUserRepo struct{}

func (fakeUserRepo) FindByID(ctx context.Context, id uint) (domain.User, error) {
	return domain.User{ID: id}, nil
}
func (fakeUserRepo) FindAll(ctx context.Context) ([]domain.User, error) { return nil, nil }
func (fakeUserRepo) Count(ctx context.Context) (int64, error)           { return 5, nil }

type fakeEvents struct {
	events []string
}

func (f *fakeEvents) Record(ctx context.Context, event string, detail map[string]any) error {
	f.events = append(f.events, event)
	return nil
}

func TestRankedResultsMarksShown(t *testing.T) {
	repo := newFakeResultRepo([]domain.RankedLocation{
		{LocationID: 3, Score: 0.9},
		{LocationID: 1, Score: 0.7},
		{LocationID: 2, Score: 0.4},
	})
	svc := NewCurationService(repo, fakeLocationRepo{}, fakeUserRepo{}, &fakeEvents{})

	rows, err := svc.RankedResults(context.Background(), "task", 2)
	if err != nil {
		t.Fatalf("ranked results: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("want 2 rows, got %d", len(rows))
	}
	if !repo.shown[3] || !repo.shown[1] {
		t.Error("surfaced locations were not marked shown")
	}
	if repo.shown[2] {
		t.Error("location beyond the limit must not be marked shown")
	}

	// surfacing again is idempotent
	if _, err := svc.RankedResults(context.Background(), "task", 2); err != nil {
		t.Fatalf("second call: %v", err)
	}
}

func TestRecordFeedbackSetsLabel(t *testing.T) {
	repo := newFakeResultRepo(nil)
	events := &fakeEvents{}
	svc := NewCurationService(repo, fakeLocationRepo{}, fakeUserRepo{}, events)

	if err := svc.RecordFeedback(context.Background(), "task", 4); err != nil {
		t.Fatalf("record feedback: %v", err)
	}

	if repo.labels[4] != 1 {
		t.Error("selection did not set the label")
	}
	if len(events.events) != 1 || events.events[0] != "feedback_selected" {
		t.Errorf("want feedback_selected event, got %v", events.events)
	}

	// repeating the selection is a no-op on an already-set label
	if err := svc.RecordFeedback(context.Background(), "task", 4); err != nil {
		t.Fatalf("repeat feedback: %v", err)
	}
	if repo.labels[4] != 1 {
		t.Error("label must stay at 1")
	}
}

func TestRecordFeedbackSentinelIsAuditOnly(t *testing.T) {
	repo := newFakeResultRepo(nil)
	events := &fakeEvents{}
	svc := NewCurationService(repo, fakeLocationRepo{}, fakeUserRepo{}, events)

	if err := svc.RecordFeedback(context.Background(), "task", domain.FeedbackNone); err != nil {
		t.Fatalf("sentinel feedback: %v", err)
	}

	if len(repo.labels) != 0 {
		t.Error("sentinel feedback must not touch any label")
	}
	if len(events.events) != 1 || events.events[0] != "feedback_none" {
		t.Errorf("want feedback_none event, got %v", events.events)
	}
}

func TestRecordFeedbackUnknownResult(t *testing.T) {
	repo := newFakeResultRepo(nil)
	repo.missing = true
	svc := NewCurationService(repo, fakeLocationRepo{}, fakeUserRepo{}, &fakeEvents{})

	err := svc.RecordFeedback(context.Background(), "task", 99)
	if !errors.Is(err, domain.ErrResultNotFound) {
		t.Fatalf("want ErrResultNotFound, got %v", err)
	}
}

func TestInfoCounts(t *testing.T) {
	svc := NewCurationService(newFakeResultRepo(nil), fakeLocationRepo{}, fakeUserRepo{}, &fakeEvents{})

	info, err := svc.Info(context.Background())
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if info.Users != 5 || info.Locations != 3 {
		t.Errorf("unexpected counts: %+v", info)
	}
}
