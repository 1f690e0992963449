package inference

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"stayRank/business/model"
	"stayRank/domain"
)

type fakeUserRepo struct {
	users  map[uint]domain.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]domain.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uint) (domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

type fakeLocationRepo struct {
	locs []domain.Location
}

func (f *fakeLocationRepo) FindAll(ctx context.Context) ([]domain.Location, error) {
	return f.locs, nil
}

type fakeJobRepo struct {
	jobs    map[string]*domain.InferenceJob
	polled  int
	updates []string
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[string]*domain.InferenceJob)}
}

func (f *fakeJobRepo) Create(ctx context.Context, job *domain.InferenceJob) error {
	f.jobs[job.TaskID] = job
	return nil
}

func (f *fakeJobRepo) FindByTaskID(ctx context.Context, taskID string) (domain.InferenceJob, error) {
	job, ok := f.jobs[taskID]
	if !ok {
		return domain.InferenceJob{}, domain.ErrJobNotFound
	}
	return *job, nil
}

func (f *fakeJobRepo) UpdateStatus(ctx context.Context, taskID, status string) error {
	job, ok := f.jobs[taskID]
	if !ok {
		return domain.ErrJobNotFound
	}
	job.Status = status
	f.updates = append(f.updates, status)
	return nil
}

func (f *fakeJobRepo) TouchPolled(ctx context.Context, taskID string) error {
	f.polled++
	return nil
}

type fakeResultRepo struct {
	completed map[string][]domain.Result
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{completed: make(map[string][]domain.Result)}
}

func (f *fakeResultRepo) CompleteJob(ctx context.Context, taskID string, results []domain.Result) error {
	f.completed[taskID] = results
	return nil
}

type fakeModels struct {
	model domain.Model
	err   error
}

func (f *fakeModels) ActiveModel(ctx context.Context) (domain.Model, error) {
	if f.err != nil {
		return domain.Model{}, f.err
	}
	return f.model, nil
}

type fakeStatuses struct {
	statuses map[string]string
}

func newFakeStatuses() *fakeStatuses {
	return &fakeStatuses{statuses: make(map[string]string)}
}

func (f *fakeStatuses) SetStatus(ctx context.Context, taskID, status string) error {
	f.statuses[taskID] = status
	return nil
}

func (f *fakeStatuses) GetStatus(ctx context.Context, taskID string) (string, error) {
	return f.statuses[taskID], nil
}

type fakeQueue struct {
	submitted []string
	err       error
}

func (f *fakeQueue) SubmitInference(ctx context.Context, taskID string) error {
	if f.err != nil {
		return f.err
	}
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

type deps struct {
	users    *fakeUserRepo
	locs     *fakeLocationRepo
	jobs     *fakeJobRepo
	results  *fakeResultRepo
	models   *fakeModels
	statuses *fakeStatuses
	queue    *fakeQueue
	events   *fakeEvents
}

func newService(d *deps) *InferenceService {
	return NewInferenceService(
		d.users, d.locs, d.jobs, d.results,
		d.models, model.NewCache(), d.statuses, d.queue, d.events,
	)
}

func defaultDeps() *deps {
	return &deps{
		users:    newFakeUserRepo(),
		locs:     &fakeLocationRepo{},
		jobs:     newFakeJobRepo(),
		results:  newFakeResultRepo(),
		models:   &fakeModels{err: domain.ErrNoActiveModel},
		statuses: newFakeStatuses(),
		queue:    &fakeQueue{},
		events:   &fakeEvents{},
	}
}

func submitInput() SubmitInput {
	return SubmitInput{
		Name:        "family trip",
		PeopleAges:  []int{10, 20, 30},
		ChildrenNum: 1,
		Budget:      1500,
		Nights:      4,
		TimeArrival: time.Now(),
		Pool:        true,
	}
}

func TestSubmitSnapshotsUserAndEnqueues(t *testing.T) {
	d := defaultDeps()
	svc := newService(d)

	taskID, err := svc.Submit(context.Background(), submitInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	job, ok := d.jobs.jobs[taskID]
	if !ok {
		t.Fatal("job row not created")
	}
	if job.Status != domain.JobStatusQueued {
		t.Errorf("want status queued, got %q", job.Status)
	}

	user := d.users.users[job.UserID]
	if user.PeopleNum != 3 {
		t.Errorf("want people_num 3, got %d", user.PeopleNum)
	}
	if user.AgeAvg != 20 || user.AgeMin != 10 || user.AgeMax != 30 {
		t.Errorf("wrong age stats: avg=%v min=%v max=%v", user.AgeAvg, user.AgeMin, user.AgeMax)
	}
	wantStd := math.Sqrt(200.0 / 3.0)
	if math.Abs(user.AgeStd-wantStd) > 1e-9 {
		t.Errorf("want age_std %v, got %v", wantStd, user.AgeStd)
	}

	if len(d.queue.submitted) != 1 || d.queue.submitted[0] != taskID {
		t.Errorf("task not enqueued: %v", d.queue.submitted)
	}
}

func TestSubmitRejectsEmptyAges(t *testing.T) {
	svc := newService(defaultDeps())

	in := submitInput()
	in.PeopleAges = nil

	if _, err := svc.Submit(context.Background(), in); err == nil {
		t.Fatal("expected error for empty ages")
	}
}

func TestSubmitFailsJobWhenEnqueueFails(t *testing.T) {
	d := defaultDeps()
	d.queue.err = errors.New("broker down")
	svc := newService(d)

	_, err := svc.Submit(context.Background(), submitInput())
	if err == nil {
		t.Fatal("expected enqueue error to surface")
	}

	for _, job := range d.jobs.jobs {
		if job.Status != domain.JobStatusFailed {
			t.Errorf("unqueued job must be failed, got %q", job.Status)
		}
	}
}

func trainChampion(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	n := 32
	X := make([][]float64, n)
	y := make([]int, n)
	for i := range X {
		label := i % 2
		X[i] = []float64{float64(label*1000 + i), float64(i % 7), float64(label)}
		y[i] = label
	}

	if _, err := model.Train(X, y, []string{"budget", "price", "user_score"}, dir, model.TrainOptions{
		Epochs: 5, BatchSize: 8, KBest: 2, Seed: 42,
	}); err != nil {
		t.Fatalf("train champion: %v", err)
	}

	return dir
}

func TestRunScoresEveryLocation(t *testing.T) {
	d := defaultDeps()
	d.models = &fakeModels{model: domain.Model{TaskID: "champ", Path: trainChampion(t), UsageWeight: 1.0}}
	d.locs = &fakeLocationRepo{locs: []domain.Location{
		{ID: 1, Price: 50, UserScore: 3},
		{ID: 2, Price: 80, UserScore: 9},
		{ID: 3, Price: 20, UserScore: 5},
	}}
	svc := newService(d)

	taskID, err := svc.Submit(context.Background(), submitInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := svc.Run(context.Background(), taskID); err != nil {
		t.Fatalf("run: %v", err)
	}

	results := d.results.completed[taskID]
	if len(results) != 3 {
		t.Fatalf("want one result per location, got %d", len(results))
	}
	for _, r := range results {
		if r.TaskID != taskID {
			t.Errorf("result carries wrong task id %q", r.TaskID)
		}
		if r.Score < 0 || r.Score > 1 {
			t.Errorf("score out of [0,1]: %v", r.Score)
		}
		if r.Label != 0 || r.Shown {
			t.Errorf("fresh result must be unlabelled and unshown: %+v", r)
		}
	}

	if d.statuses.statuses[taskID] != domain.JobStatusSucceeded {
		t.Errorf("terminal status not mirrored: %q", d.statuses.statuses[taskID])
	}
}

func TestRunFailsWithoutActiveModel(t *testing.T) {
	d := defaultDeps()
	d.locs = &fakeLocationRepo{locs: []domain.Location{{ID: 1}}}
	svc := newService(d)

	taskID, err := svc.Submit(context.Background(), submitInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	err = svc.Run(context.Background(), taskID)
	if !errors.Is(err, domain.ErrNoActiveModel) {
		t.Fatalf("want ErrNoActiveModel, got %v", err)
	}

	if d.jobs.jobs[taskID].Status != domain.JobStatusFailed {
		t.Errorf("failed run must mark the job failed, got %q", d.jobs.jobs[taskID].Status)
	}
	if d.statuses.statuses[taskID] != domain.JobStatusFailed {
		t.Errorf("failure not mirrored: %q", d.statuses.statuses[taskID])
	}
}

func TestStatusPrefersMirror(t *testing.T) {
	d := defaultDeps()
	d.statuses.statuses["abc"] = domain.JobStatusSucceeded
	svc := newService(d)

	status, err := svc.Status(context.Background(), "abc")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status != domain.JobStatusSucceeded {
		t.Errorf("want mirrored status, got %q", status)
	}
	if d.jobs.polled != 0 {
		t.Error("mirror hit must not touch the database")
	}
}

func TestStatusFallsBackToDatabase(t *testing.T) {
	d := defaultDeps()
	d.jobs.jobs["abc"] = &domain.InferenceJob{TaskID: "abc", Status: domain.JobStatusRunning}
	svc := newService(d)

	status, err := svc.Status(context.Background(), "abc")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status != domain.JobStatusRunning {
		t.Errorf("want running, got %q", status)
	}
	if d.jobs.polled != 1 {
		t.Error("database fallback must stamp polled_at")
	}
}

func TestStatusUnknownJob(t *testing.T) {
	svc := newService(defaultDeps())

	_, err := svc.Status(context.Background(), "nope")
	if !errors.Is(err, domain.ErrJobNotFound) {
		t.Fatalf("want ErrJobNotFound, got %v", err)
	}
}
