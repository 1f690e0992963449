package training

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"stayRank/business/model"
	"stayRank/domain"
)

type fakeRegistry struct {
	models   map[string]*domain.Model
	active   string
	promoted string
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{models: make(map[string]*domain.Model)}
}

func (f *fakeRegistry) ActiveModel(ctx context.Context) (domain.Model, error) {
	m, ok := f.models[f.active]
	if !ok {
		return domain.Model{}, domain.ErrNoActiveModel
	}
	return *m, nil
}

func (f *fakeRegistry) Register(ctx context.Context, m *domain.Model) error {
	f.models[m.TaskID] = m
	return nil
}

func (f *fakeRegistry) Get(ctx context.Context, taskID string) (domain.Model, error) {
	m, ok := f.models[taskID]
	if !ok {
		return domain.Model{}, domain.ErrModelNotFound
	}
	return *m, nil
}

func (f *fakeRegistry) Update(ctx context.Context, taskID string, fields map[string]any) error {
	m, ok := f.models[taskID]
	if !ok {
		return domain.ErrModelNotFound
	}
	if status, ok := fields["status"].(string); ok {
		m.Status = status
	}
	if w, ok := fields["usage_weight"].(float64); ok {
		m.UsageWeight = w
	}
	if auc, ok := fields["test_auc"].(float64); ok {
		m.TestAUC = auc
	}
	return nil
}

func (f *fakeRegistry) Promote(ctx context.Context, taskID string) error {
	for id, m := range f.models {
		if id == taskID {
			m.UsageWeight = 1.0
		} else {
			m.UsageWeight = 0.0
		}
	}
	f.promoted = taskID
	return nil
}

type fakeCurated struct {
	rows []domain.CuratedResult
}

func (f *fakeCurated) PullCurated(ctx context.Context, limit int) ([]domain.CuratedResult, error) {
	if limit > len(f.rows) {
		limit = len(f.rows)
	}
	return f.rows[:limit], nil
}

type fakeDataset struct {
	appended map[string][]uint
}

func (f *fakeDataset) Append(ctx context.Context, taskID string, resultIDs []uint) error {
	if f.appended == nil {
		f.appended = make(map[string][]uint)
	}
	f.appended[taskID] = append(f.appended[taskID], resultIDs...)
	return nil
}

type fakeQueue struct {
	submitted []string
}

func (f *fakeQueue) SubmitTraining(ctx context.Context, taskID string, params Params) error {
	f.submitted = append(f.submitted, taskID)
	return nil
}

type fakeEvents struct {
	events []string
}

func (f *fakeEvents) Record(ctx context.Context, event string, detail map[string]any) error {
	f.events = append(f.events, event)
	return nil
}

var testFeatures = []string{"budget", "price", "user_score"}

// trainChampion fits a champion whose every feature is constant, so its
// scores tie on any input and its held-out AUC lands exactly on 0.5.
func trainFlatChampion(t *testing.T, dir string) {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create champion dir: %v", err)
	}

	n := 16
	X := make([][]float64, n)
	y := make([]int, n)
	for i := range X {
		X[i] = []float64{1, 1, 1}
		y[i] = i % 2
	}

	if _, err := model.Train(X, y, testFeatures, dir, model.TrainOptions{
		Epochs: 1, BatchSize: 4, KBest: 2, Seed: 42,
	}); err != nil {
		t.Fatalf("train champion: %v", err)
	}
}

// curatedRows builds rows whose label follows the budget column, so a
// challenger can actually learn a ranking.
func curatedRows(n int) []domain.CuratedResult {
	rows := make([]domain.CuratedResult, n)
	for i := range rows {
		label := i % 2
		rows[i] = domain.CuratedResult{
			ResultID: uint(i + 1),
			Label:    label,
			User:     domain.User{Budget: float64(label*100 + i%3)},
			Location: domain.Location{Price: float64(i % 5), UserScore: float64(label)},
		}
	}
	return rows
}

func newTestService(reg *fakeRegistry, curated *fakeCurated, dataset *fakeDataset, queue *fakeQueue, root string) *TrainingService {
	return NewTrainingService(reg, curated, dataset, queue, &fakeEvents{}, Defaults{
		ArtifactRoot:     root,
		Epochs:           100,
		BatchSize:        4,
		PositiveFraction: 0.5,
		KBest:            2,
		HeldOutSize:      8,
		Seed:             42,
	})
}

func TestStartRegistersAndEnqueues(t *testing.T) {
	reg := newFakeRegistry()
	queue := &fakeQueue{}
	svc := newTestService(reg, &fakeCurated{}, &fakeDataset{}, queue, t.TempDir())

	taskID, err := svc.Start(context.Background(), Params{})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	m, ok := reg.models[taskID]
	if !ok {
		t.Fatal("model row not registered")
	}
	if m.Status != domain.ModelStatusSetup {
		t.Errorf("want status setup, got %q", m.Status)
	}
	if m.UsageWeight != 0 {
		t.Errorf("fresh challenger must not serve traffic, usage=%v", m.UsageWeight)
	}
	if len(queue.submitted) != 1 || queue.submitted[0] != taskID {
		t.Errorf("training task not enqueued: %v", queue.submitted)
	}
}

func TestRunPromotesWinningChallenger(t *testing.T) {
	root := t.TempDir()
	championDir := filepath.Join(root, "original")
	trainFlatChampion(t, championDir)

	reg := newFakeRegistry()
	reg.models["champ"] = &domain.Model{
		TaskID: "champ", Status: domain.ModelStatusSucceeded,
		Path: championDir, UsageWeight: 1.0,
	}
	reg.active = "champ"

	curated := &fakeCurated{rows: curatedRows(64)}
	dataset := &fakeDataset{}
	queue := &fakeQueue{}
	svc := newTestService(reg, curated, dataset, queue, root)

	taskID, err := svc.Start(context.Background(), Params{})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := svc.Run(context.Background(), taskID, Params{}); err != nil {
		t.Fatalf("run: %v", err)
	}

	challenger := reg.models[taskID]
	if challenger.Status != domain.ModelStatusSucceeded {
		t.Fatalf("want status succeeded, got %q", challenger.Status)
	}
	// flat champion scores 0.5 AUC; a challenger trained on separable data
	// must strictly beat it and take over
	if reg.promoted != taskID {
		t.Errorf("challenger (auc=%v) should have been promoted", challenger.TestAUC)
	}
	if challenger.UsageWeight != 1.0 {
		t.Errorf("promoted challenger usage weight: want 1.0, got %v", challenger.UsageWeight)
	}
	if reg.models["champ"].UsageWeight != 0.0 {
		t.Errorf("old champion must be benched, usage=%v", reg.models["champ"].UsageWeight)
	}

	if len(dataset.appended[taskID]) == 0 {
		t.Error("training run did not record its dataset")
	}
}

func TestRunBenchesChallengerWithoutStrictWin(t *testing.T) {
	root := t.TempDir()
	championDir := filepath.Join(root, "original")
	trainFlatChampion(t, championDir)

	reg := newFakeRegistry()
	reg.models["champ"] = &domain.Model{
		TaskID: "champ", Status: domain.ModelStatusSucceeded,
		Path: championDir, UsageWeight: 1.0,
	}
	reg.active = "champ"

	// the champion saw 16 records, so the run pulls 16+8 rows and holds out
	// the trailing 8; making those single-class pins both models' held-out
	// AUC at 0.5, and the tie goes to the champion
	rows := curatedRows(24)
	for i := 16; i < 24; i++ {
		rows[i].Label = 0
		rows[i].Location.UserScore = 0
	}

	svc := newTestService(reg, &fakeCurated{rows: rows}, &fakeDataset{}, &fakeQueue{}, root)

	taskID, err := svc.Start(context.Background(), Params{})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := svc.Run(context.Background(), taskID, Params{}); err != nil {
		t.Fatalf("run: %v", err)
	}

	challenger := reg.models[taskID]
	if challenger.Status != domain.ModelStatusSucceeded {
		t.Fatalf("want status succeeded, got %q", challenger.Status)
	}
	if reg.promoted != "" {
		t.Error("tied challenger must not be promoted")
	}
	if challenger.UsageWeight != 0.0 {
		t.Errorf("benched challenger usage weight: want 0.0, got %v", challenger.UsageWeight)
	}
	if reg.models["champ"].UsageWeight != 1.0 {
		t.Errorf("champion must keep serving, usage=%v", reg.models["champ"].UsageWeight)
	}
}

func TestRunFailsOnSmallDataset(t *testing.T) {
	root := t.TempDir()
	championDir := filepath.Join(root, "original")
	trainFlatChampion(t, championDir)

	reg := newFakeRegistry()
	reg.models["champ"] = &domain.Model{
		TaskID: "champ", Status: domain.ModelStatusSucceeded,
		Path: championDir, UsageWeight: 1.0,
	}
	reg.active = "champ"

	// fewer rows than held-out + one batch
	svc := newTestService(reg, &fakeCurated{rows: curatedRows(6)}, &fakeDataset{}, &fakeQueue{}, root)

	taskID, err := svc.Start(context.Background(), Params{})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	err = svc.Run(context.Background(), taskID, Params{})
	if !errors.Is(err, model.ErrDatasetTooSmall) {
		t.Fatalf("want ErrDatasetTooSmall, got %v", err)
	}

	m := reg.models[taskID]
	if m.Status != domain.ModelStatusFailed {
		t.Errorf("failed run must mark the model failed, got %q", m.Status)
	}
	if m.UsageWeight != 0 {
		t.Errorf("failed run must never serve traffic, usage=%v", m.UsageWeight)
	}
}

func TestRunFailsWithoutActiveModel(t *testing.T) {
	reg := newFakeRegistry()
	svc := newTestService(reg, &fakeCurated{rows: curatedRows(64)}, &fakeDataset{}, &fakeQueue{}, t.TempDir())

	taskID, err := svc.Start(context.Background(), Params{})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	err = svc.Run(context.Background(), taskID, Params{})
	if !errors.Is(err, domain.ErrNoActiveModel) {
		t.Fatalf("want ErrNoActiveModel, got %v", err)
	}
	if reg.models[taskID].Status != domain.ModelStatusFailed {
		t.Errorf("run without champion must fail the model row")
	}
}
