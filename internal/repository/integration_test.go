//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shiftpass/backend/internal/model"
	"shiftpass/backend/internal/repository"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=shiftpass password=shiftpass_password dbname=shiftpass_test sslmode=disable TimeZone=Asia/Shanghai"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 自动迁移测试表结构
	err = testDB.AutoMigrate(
		&model.Location{},
		&model.Worker{},
		&model.Shift{},
		&model.CheckInToken{},
		&model.CheckInRecord{},
		&model.Anomaly{},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate 失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

// setupTestData 创建基础测试数据并返回清理函数
func setupTestData(t *testing.T) (loc *model.Location, worker *model.Worker, cleanup func()) {
	t.Helper()
	ctx := context.Background()

	lat, lng := 31.2304, 121.4737
	loc = &model.Location{
		Name:            fmt.Sprintf("测试门店-%d", time.Now().UnixNano()),
		Latitude:        &lat,
		Longitude:       &lng,
		AllowedRadiusM:  100,
		GeofenceEnabled: true,
		EarlyWindowMin:  30,
		IsActive:        true,
	}
	if err := testDB.WithContext(ctx).Create(loc).Error; err != nil {
		t.Fatalf("创建门店失败: %v", err)
	}

	worker = &model.Worker{
		Name:               "测试员工",
		AssignedLocationID: &loc.LocationID,
		IsActive:           true,
	}
	if err := testDB.WithContext(ctx).Create(worker).Error; err != nil {
		t.Fatalf("创建员工失败: %v", err)
	}

	cleanup = func() {
		testDB.Unscoped().Where("worker_id = ?", worker.WorkerID).Delete(&model.CheckInRecord{})
		testDB.Unscoped().Where("location_id = ?", loc.LocationID).Delete(&model.CheckInToken{})
		testDB.Unscoped().Where("worker_id = ?", worker.WorkerID).Delete(&model.Worker{})
		testDB.Unscoped().Where("location_id = ?", loc.LocationID).Delete(&model.Location{})
	}
	return
}

// ═══════════════════════════════════════════════════════════
// Test: 签到幂等写入（唯一约束）
// ═══════════════════════════════════════════════════════════

func TestCheckInRepo_DuplicateKey(t *testing.T) {
	loc, worker, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	today := time.Now()

	first := &model.CheckInRecord{
		WorkerID:         worker.WorkerID,
		CheckInDate:      today,
		CheckInTime:      today,
		Method:           model.CheckInMethodGeo,
		LocationID:       &loc.LocationID,
		TimelinessStatus: model.TimelinessUnscheduled,
	}
	if err := repo.CheckIn.Create(ctx, first); err != nil {
		t.Fatalf("首次签到应成功: %v", err)
	}

	second := &model.CheckInRecord{
		WorkerID:         worker.WorkerID,
		CheckInDate:      today,
		CheckInTime:      today,
		Method:           model.CheckInMethodGeo,
		LocationID:       &loc.LocationID,
		TimelinessStatus: model.TimelinessUnscheduled,
	}
	err := repo.CheckIn.Create(ctx, second)
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("期望 gorm.ErrDuplicatedKey，实际: %v", err)
	}
}

func TestCheckInRepo_ConcurrentCreate_ExactlyOne(t *testing.T) {
	loc, worker, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	today := time.Now()

	const attempts = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes, duplicates := 0, 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := &model.CheckInRecord{
				WorkerID:         worker.WorkerID,
				CheckInDate:      today,
				CheckInTime:      today,
				Method:           model.CheckInMethodGeo,
				LocationID:       &loc.LocationID,
				TimelinessStatus: model.TimelinessUnscheduled,
			}
			err := repo.CheckIn.Create(context.Background(), rec)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, gorm.ErrDuplicatedKey):
				duplicates++
			default:
				t.Errorf("意外错误: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("期望恰好 1 次写入成功，实际 %d", successes)
	}
	if duplicates != attempts-1 {
		t.Errorf("期望 %d 次重复冲突，实际 %d", attempts-1, duplicates)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Token 用量原子消费
// ═══════════════════════════════════════════════════════════

func TestTokenRepo_ConsumeUse_SingleUseRace(t *testing.T) {
	loc, _, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	tok := &model.CheckInToken{
		LocationID: loc.LocationID,
		UsageMode:  model.TokenModeSingleUse,
		MaxUses:    1,
		Status:     model.TokenStatusActive,
		IssuedAt:   time.Now(),
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	if err := repo.CheckInToken.Create(ctx, tok); err != nil {
		t.Fatalf("创建 Token 失败: %v", err)
	}

	const attempts = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	consumed := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.CheckInToken.ConsumeUse(context.Background(), tok.TokenID)
			if err != nil {
				t.Errorf("ConsumeUse 失败: %v", err)
				return
			}
			if ok {
				mu.Lock()
				consumed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if consumed != 1 {
		t.Errorf("单次 Token 期望恰好消费 1 次，实际 %d", consumed)
	}

	after, err := repo.CheckInToken.GetByID(ctx, tok.TokenID)
	if err != nil {
		t.Fatalf("回查 Token 失败: %v", err)
	}
	if after.CurrentUses != 1 {
		t.Errorf("期望 current_uses=1，实际 %d", after.CurrentUses)
	}
	if after.Status != model.TokenStatusConsumed {
		t.Errorf("期望状态 consumed，实际 %s", after.Status)
	}
}

func TestTokenRepo_ConsumeUse_BoundedBudget(t *testing.T) {
	loc, _, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	const maxUses = 3
	tok := &model.CheckInToken{
		LocationID: loc.LocationID,
		UsageMode:  model.TokenModeBounded,
		MaxUses:    maxUses,
		Status:     model.TokenStatusActive,
		IssuedAt:   time.Now(),
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	if err := repo.CheckInToken.Create(ctx, tok); err != nil {
		t.Fatalf("创建 Token 失败: %v", err)
	}

	const attempts = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	consumed := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.CheckInToken.ConsumeUse(context.Background(), tok.TokenID)
			if err != nil {
				t.Errorf("ConsumeUse 失败: %v", err)
				return
			}
			if ok {
				mu.Lock()
				consumed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if consumed != maxUses {
		t.Errorf("有限 Token 期望恰好消费 %d 次，实际 %d", maxUses, consumed)
	}

	after, err := repo.CheckInToken.GetByID(ctx, tok.TokenID)
	if err != nil {
		t.Fatalf("回查 Token 失败: %v", err)
	}
	if after.CurrentUses > maxUses {
		t.Errorf("current_uses 超出预算: %d > %d", after.CurrentUses, maxUses)
	}
	if after.Status != model.TokenStatusUsageExceeded {
		t.Errorf("期望状态 usage_exceeded，实际 %s", after.Status)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: 排班 Upsert
// ═══════════════════════════════════════════════════════════

func TestShiftRepo_Upsert_SameDayOverwrites(t *testing.T) {
	_, worker, cleanup := setupTestData(t)
	defer func() {
		testDB.Unscoped().Where("worker_id = ?", worker.WorkerID).Delete(&model.Shift{})
		cleanup()
	}()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	first := &model.Shift{
		WorkerID:  worker.WorkerID,
		ShiftDate: date,
		StartTime: time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 9, 7, 18, 0, 0, 0, time.UTC),
		Source:    model.ShiftSourceManual,
	}
	if err := repo.Shift.Upsert(ctx, first); err != nil {
		t.Fatalf("首次 Upsert 失败: %v", err)
	}

	second := &model.Shift{
		WorkerID:  worker.WorkerID,
		ShiftDate: date,
		StartTime: time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 9, 7, 19, 0, 0, 0, time.UTC),
		Source:    model.ShiftSourceICS,
	}
	if err := repo.Shift.Upsert(ctx, second); err != nil {
		t.Fatalf("同日重复 Upsert 应覆盖而非报错: %v", err)
	}

	got, err := repo.Shift.GetForDate(ctx, worker.WorkerID, date)
	if err != nil {
		t.Fatalf("GetForDate 失败: %v", err)
	}
	if !got.StartTime.Equal(second.StartTime) {
		t.Errorf("期望覆盖后的开始时间 %v，实际 %v", second.StartTime, got.StartTime)
	}
}
