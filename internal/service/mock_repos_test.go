package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"shiftpass/backend/internal/model"
	"shiftpass/backend/internal/repository"
)

// ── Mock LocationRepository ──

type mockLocationRepo struct {
	locations map[string]*model.Location
	seq       int
}

func newMockLocationRepo() *mockLocationRepo {
	return &mockLocationRepo{locations: make(map[string]*model.Location)}
}

func (m *mockLocationRepo) Create(_ context.Context, loc *model.Location) error {
	if loc.LocationID == "" {
		m.seq++
		loc.LocationID = fmt.Sprintf("loc-%03d", m.seq)
	}
	m.locations[loc.LocationID] = loc
	return nil
}

func (m *mockLocationRepo) GetByID(_ context.Context, id string) (*model.Location, error) {
	if loc, ok := m.locations[id]; ok {
		return loc, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLocationRepo) List(_ context.Context, includeInactive bool) ([]model.Location, error) {
	var result []model.Location
	for _, loc := range m.locations {
		if !includeInactive && !loc.IsActive {
			continue
		}
		result = append(result, *loc)
	}
	return result, nil
}

func (m *mockLocationRepo) Update(_ context.Context, loc *model.Location) error {
	m.locations[loc.LocationID] = loc
	return nil
}

func (m *mockLocationRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.locations, id)
	return nil
}

// ── Mock WorkerRepository ──

type mockWorkerRepo struct {
	workers map[string]*model.Worker
}

func newMockWorkerRepo() *mockWorkerRepo {
	return &mockWorkerRepo{workers: make(map[string]*model.Worker)}
}

func (m *mockWorkerRepo) GetByID(_ context.Context, id string) (*model.Worker, error) {
	if w, ok := m.workers[id]; ok {
		return w, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkerRepo) AssignLocation(_ context.Context, workerID string, locationID *string, _ string) error {
	w, ok := m.workers[workerID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	w.AssignedLocationID = locationID
	return nil
}

func (m *mockWorkerRepo) List(_ context.Context, locationID string) ([]model.Worker, error) {
	var result []model.Worker
	for _, w := range m.workers {
		if locationID != "" && (w.AssignedLocationID == nil || *w.AssignedLocationID != locationID) {
			continue
		}
		result = append(result, *w)
	}
	return result, nil
}

// ── Mock ShiftRepository ──

type mockShiftRepo struct {
	shifts map[string]*model.Shift // key: workerID|2006-01-02
}

func newMockShiftRepo() *mockShiftRepo {
	return &mockShiftRepo{shifts: make(map[string]*model.Shift)}
}

func shiftKey(workerID string, date time.Time) string {
	return workerID + "|" + date.Format("2006-01-02")
}

func (m *mockShiftRepo) Upsert(_ context.Context, shift *model.Shift) error {
	if shift.ShiftID == "" {
		shift.ShiftID = "shift-" + shiftKey(shift.WorkerID, shift.ShiftDate)
	}
	m.shifts[shiftKey(shift.WorkerID, shift.ShiftDate)] = shift
	return nil
}

func (m *mockShiftRepo) UpsertBatch(ctx context.Context, shifts []model.Shift) error {
	for i := range shifts {
		if err := m.Upsert(ctx, &shifts[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockShiftRepo) GetForDate(_ context.Context, workerID string, date time.Time) (*model.Shift, error) {
	if s, ok := m.shifts[shiftKey(workerID, date)]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRepo) ListByWorker(_ context.Context, workerID string, from, to time.Time) ([]model.Shift, error) {
	var result []model.Shift
	for _, s := range m.shifts {
		if s.WorkerID != workerID {
			continue
		}
		if s.ShiftDate.Before(from) || s.ShiftDate.After(to) {
			continue
		}
		result = append(result, *s)
	}
	return result, nil
}

// ── Mock CheckInTokenRepository ──
//
// ConsumeUse 以互斥锁模拟数据库带守卫 UPDATE 的原子性，
// 供并发预算测试使用

type mockTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*model.CheckInToken
}

func newMockTokenRepo() *mockTokenRepo {
	return &mockTokenRepo{tokens: make(map[string]*model.CheckInToken)}
}

func (m *mockTokenRepo) Create(_ context.Context, token *model.CheckInToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token.TokenID] = token
	return nil
}

func (m *mockTokenRepo) GetByID(_ context.Context, id string) (*model.CheckInToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tokens[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTokenRepo) ConsumeUse(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[id]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if t.Status != model.TokenStatusActive {
		return false, nil
	}
	if t.UsageMode != model.TokenModeUnlimited && t.CurrentUses >= t.MaxUses {
		return false, nil
	}
	t.CurrentUses++
	switch {
	case t.UsageMode == model.TokenModeSingleUse:
		t.Status = model.TokenStatusConsumed
	case t.UsageMode == model.TokenModeBounded && t.CurrentUses >= t.MaxUses:
		t.Status = model.TokenStatusUsageExceeded
	}
	return true, nil
}

func (m *mockTokenRepo) MarkExpired(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tokens[id]; ok && t.Status == model.TokenStatusActive {
		t.Status = model.TokenStatusExpired
	}
	return nil
}

func (m *mockTokenRepo) Revoke(_ context.Context, id string, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[id]
	if !ok || t.Status != model.TokenStatusActive {
		return gorm.ErrRecordNotFound
	}
	t.Status = model.TokenStatusRevoked
	return nil
}

func (m *mockTokenRepo) ListByLocation(_ context.Context, locationID string) ([]model.CheckInToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.CheckInToken
	for _, t := range m.tokens {
		if t.LocationID == locationID {
			result = append(result, *t)
		}
	}
	return result, nil
}

// ── Mock CheckInRepository ──
//
// Create 以互斥锁模拟 (worker_id, check_in_date) 唯一约束：
// 重复写入返回 gorm.ErrDuplicatedKey，供并发幂等测试使用

type mockCheckInRepo struct {
	mu      sync.Mutex
	records map[string]*model.CheckInRecord // key: workerID|2006-01-02
	seq     int
}

func newMockCheckInRepo() *mockCheckInRepo {
	return &mockCheckInRepo{records: make(map[string]*model.CheckInRecord)}
}

func (m *mockCheckInRepo) Create(_ context.Context, record *model.CheckInRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := record.WorkerID + "|" + record.CheckInDate.Format("2006-01-02")
	if _, exists := m.records[key]; exists {
		return gorm.ErrDuplicatedKey
	}
	m.seq++
	record.CheckInID = fmt.Sprintf("ci-%03d", m.seq)
	m.records[key] = record
	return nil
}

func (m *mockCheckInRepo) GetByWorkerAndDate(_ context.Context, workerID string, date time.Time) (*model.CheckInRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[workerID+"|"+date.Format("2006-01-02")]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCheckInRepo) ListByLocation(_ context.Context, locationID string, from, to time.Time) ([]model.CheckInRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.CheckInRecord
	for _, r := range m.records {
		if r.LocationID == nil || *r.LocationID != locationID {
			continue
		}
		if r.CheckInDate.Before(from) || r.CheckInDate.After(to) {
			continue
		}
		result = append(result, *r)
	}
	return result, nil
}

func (m *mockCheckInRepo) ListByWorker(_ context.Context, workerID string, from, to time.Time) ([]model.CheckInRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.CheckInRecord
	for _, r := range m.records {
		if r.WorkerID != workerID {
			continue
		}
		if r.CheckInDate.Before(from) || r.CheckInDate.After(to) {
			continue
		}
		result = append(result, *r)
	}
	return result, nil
}

// ── Mock AnomalyRepository ──

type mockAnomalyRepo struct {
	anomalies map[string]*model.Anomaly
	seq       int
	failOnce  bool // 下一次 Create 返回错误，模拟存储故障
}

func newMockAnomalyRepo() *mockAnomalyRepo {
	return &mockAnomalyRepo{anomalies: make(map[string]*model.Anomaly)}
}

func (m *mockAnomalyRepo) Create(_ context.Context, anomaly *model.Anomaly) error {
	if m.failOnce {
		m.failOnce = false
		return errors.New("存储故障")
	}
	m.seq++
	anomaly.AnomalyID = fmt.Sprintf("anom-%03d", m.seq)
	m.anomalies[anomaly.AnomalyID] = anomaly
	return nil
}

func (m *mockAnomalyRepo) GetByID(_ context.Context, id string) (*model.Anomaly, error) {
	if a, ok := m.anomalies[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAnomalyRepo) List(_ context.Context, onlyUnresolved bool) ([]model.Anomaly, error) {
	var result []model.Anomaly
	for _, a := range m.anomalies {
		if onlyUnresolved && a.Resolved {
			continue
		}
		result = append(result, *a)
	}
	return result, nil
}

func (m *mockAnomalyRepo) Resolve(_ context.Context, id string, resolvedBy string) error {
	a, ok := m.anomalies[id]
	if !ok || a.Resolved {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	a.Resolved = true
	a.ResolvedBy = &resolvedBy
	a.ResolvedAt = &now
	return nil
}

// ── Mock AnomalyNotifier ──

type mockNotifier struct {
	mu       sync.Mutex
	notified []*model.Anomaly
	fail     bool // Notify 返回错误，验证通知失败不阻断签到
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{}
}

func (m *mockNotifier) Notify(_ context.Context, anomaly *model.Anomaly) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("通知通道不可用")
	}
	m.notified = append(m.notified, anomaly)
	return nil
}

// ── 聚合装配 ──

// mock 必须与仓储接口保持同步，漂移时在此处编译报错
var (
	_ repository.LocationRepository     = (*mockLocationRepo)(nil)
	_ repository.WorkerRepository       = (*mockWorkerRepo)(nil)
	_ repository.ShiftRepository        = (*mockShiftRepo)(nil)
	_ repository.CheckInTokenRepository = (*mockTokenRepo)(nil)
	_ repository.CheckInRepository      = (*mockCheckInRepo)(nil)
	_ repository.AnomalyRepository      = (*mockAnomalyRepo)(nil)
)

type mockRepos struct {
	location *mockLocationRepo
	worker   *mockWorkerRepo
	shift    *mockShiftRepo
	token    *mockTokenRepo
	checkIn  *mockCheckInRepo
	anomaly  *mockAnomalyRepo
}

func (m *mockRepos) repository() *repository.Repository {
	return &repository.Repository{
		Location:     m.location,
		Worker:       m.worker,
		Shift:        m.shift,
		CheckInToken: m.token,
		CheckIn:      m.checkIn,
		Anomaly:      m.anomaly,
	}
}

// newMockRepository 组装全量 mock 仓储聚合
func newMockRepository() (*mockRepos, *repository.Repository) {
	mocks := &mockRepos{
		location: newMockLocationRepo(),
		worker:   newMockWorkerRepo(),
		shift:    newMockShiftRepo(),
		token:    newMockTokenRepo(),
		checkIn:  newMockCheckInRepo(),
		anomaly:  newMockAnomalyRepo(),
	}
	return mocks, mocks.repository()
}
