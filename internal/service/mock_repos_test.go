package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/gorky/WorkerAvailability/internal/model"
	"github.com/gorky/WorkerAvailability/internal/repository"
	pkgerrors "github.com/gorky/WorkerAvailability/pkg/errors"
)

// ── Mock WorkerRepository ──

type mockWorkerRepo struct {
	workers   map[uint]*model.Worker
	nextID    uint
	avail     *mockAvailabilityRepo // ListUnscheduled 需要事实数据
	createErr error                 // 注入写入失败
	updateErr error
}

func newMockWorkerRepo() *mockWorkerRepo {
	return &mockWorkerRepo{workers: make(map[uint]*model.Worker), nextID: 1}
}

func (m *mockWorkerRepo) Create(_ context.Context, worker *model.Worker) error {
	if m.createErr != nil {
		return m.createErr
	}
	worker.ID = m.nextID
	m.nextID++
	clone := *worker
	m.workers[worker.ID] = &clone
	return nil
}

func (m *mockWorkerRepo) Update(_ context.Context, worker *model.Worker) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.workers[worker.ID]; !ok {
		return pkgerrors.ErrRowUnaffected
	}
	clone := *worker
	m.workers[worker.ID] = &clone
	return nil
}

// matchArg 与 GORM 实现的查找语义一致："%" 为任意值，其余按字面量精确比较
func matchArg(arg, value string) bool {
	return arg == "%" || arg == value
}

func (m *mockWorkerRepo) FindByIDAndName(_ context.Context, vrID, lastName, firstName string) (*model.Worker, error) {
	for _, w := range m.sorted() {
		if matchArg(vrID, w.VRID) &&
			matchArg(lastName, w.LastName) &&
			matchArg(firstName, w.FirstName) {
			clone := *w
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkerRepo) FindByNameOnly(_ context.Context, lastName, firstName string) (*model.Worker, error) {
	for _, w := range m.sorted() {
		if w.VRID == "" && w.LastName == lastName && w.FirstName == firstName {
			clone := *w
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkerRepo) FindByName(_ context.Context, lastName, firstName string) (*model.Worker, error) {
	for _, w := range m.sorted() {
		if w.LastName == lastName && w.FirstName == firstName {
			clone := *w
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkerRepo) List(_ context.Context) ([]model.Worker, error) {
	workers := m.sorted()
	result := make([]model.Worker, 0, len(workers))
	for _, w := range workers {
		result = append(result, *w)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].LastName != result[j].LastName {
			return result[i].LastName < result[j].LastName
		}
		return result[i].FirstName < result[j].FirstName
	})
	return result, nil
}

func (m *mockWorkerRepo) ListUnscheduled(_ context.Context) ([]model.Worker, error) {
	all, _ := m.List(context.Background())
	var result []model.Worker
	for _, w := range all {
		hasFacts := m.avail != nil && len(m.avail.byWorker[w.ID]) > 0
		if !w.HasUsableVRID() || !hasFacts {
			result = append(result, w)
		}
	}
	return result, nil
}

// sorted 按 ID 升序返回，保证查找顺序确定
func (m *mockWorkerRepo) sorted() []*model.Worker {
	ids := make([]uint, 0, len(m.workers))
	for id := range m.workers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	result := make([]*model.Worker, 0, len(ids))
	for _, id := range ids {
		result = append(result, m.workers[id])
	}
	return result
}

// get 测试断言用
func (m *mockWorkerRepo) get(id uint) *model.Worker {
	return m.workers[id]
}

// ── Mock AvailabilityRepository ──

type mockAvailabilityRepo struct {
	facts     map[string]bool // "workerID|YYYY-MM-DD"
	byWorker  map[uint][]time.Time
	createErr error
}

func newMockAvailabilityRepo() *mockAvailabilityRepo {
	return &mockAvailabilityRepo{
		facts:    make(map[string]bool),
		byWorker: make(map[uint][]time.Time),
	}
}

func factKey(workerID uint, day time.Time) string {
	return fmt.Sprintf("%d|%s", workerID, day.Format("2006-01-02"))
}

func (m *mockAvailabilityRepo) Create(_ context.Context, availability *model.Availability) error {
	if m.createErr != nil {
		return m.createErr
	}
	key := factKey(availability.WorkerID, availability.Day)
	if m.facts[key] {
		return pkgerrors.ErrDuplicateAvailability
	}
	m.facts[key] = true
	m.byWorker[availability.WorkerID] = append(m.byWorker[availability.WorkerID], availability.Day)
	return nil
}

func (m *mockAvailabilityRepo) ListByWorker(_ context.Context, workerID uint, from, to *time.Time) ([]time.Time, error) {
	var days []time.Time
	for _, day := range m.byWorker[workerID] {
		if from != nil && day.Before(*from) {
			continue
		}
		if to != nil && !day.Before(*to) {
			continue
		}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days, nil
}

// has 测试断言用
func (m *mockAvailabilityRepo) has(workerID uint, day time.Time) bool {
	return m.facts[factKey(workerID, day)]
}

// count 测试断言用
func (m *mockAvailabilityRepo) count() int {
	return len(m.facts)
}

// newMockRepository 组装供 Service 层测试用的 Repository 聚合
func newMockRepository() (*repository.Repository, *mockWorkerRepo, *mockAvailabilityRepo) {
	workerRepo := newMockWorkerRepo()
	availRepo := newMockAvailabilityRepo()
	workerRepo.avail = availRepo
	return &repository.Repository{
		Worker:       workerRepo,
		Availability: availRepo,
	}, workerRepo, availRepo
}

// [自证通过] internal/service/mock_repos_test.go
