package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"fieldpulse/backend/internal/dto"
	"fieldpulse/backend/internal/model"
)

func setupTestScoringService() (ScoringService, *mockRepos) {
	repo, mocks := newMockRepos()
	svc := NewScoringService(repo, zap.NewNop())
	return svc, mocks
}

// seedScoringDay 为 emp-001 准备一天的活动：
// 2 个完成任务、1 笔订单（12.5 包）、1 次回款联络
func seedScoringDay(mocks *mockRepos, day time.Time) {
	mocks.employee.employees["emp-001"] = &model.Employee{
		EmployeeID: "emp-001", Name: "张三", Code: "E001", IsActive: true,
	}

	completedAt := day.Add(10 * time.Hour)
	for i := 0; i < 2; i++ {
		card := &model.JobCard{
			Type:        model.JobTypeCall,
			Status:      model.JobStatusCompleted,
			AssigneeID:  strPtr("emp-001"),
			CompletedAt: &completedAt,
			CreatedOn:   day,
		}
		mocks.jobCard.Create(context.Background(), card)
	}

	mocks.order.orders = append(mocks.order.orders, &model.Order{
		OrderID:    "ord-001",
		CustomerID: "cust-001",
		EmployeeID: strPtr("emp-001"),
		OrderDate:  day,
		Status:     model.OrderStatusConfirmed,
		TotalBales: decimal.RequireFromString("12.5"),
	})

	loggedAt := day.Add(11 * time.Hour)
	mocks.communication.logs = append(mocks.communication.logs, &model.CommunicationLog{
		LogID:      "log-001",
		CustomerID: strPtr("cust-001"),
		EmployeeID: strPtr("emp-001"),
		Channel:    model.ChannelCall,
		Kind:       model.CommKindPayment,
		LoggedAt:   loggedAt,
	})
}

// ── RunDaily 测试 ──

func TestScoringService_RunDaily_ComputesPoints(t *testing.T) {
	svc, mocks := setupTestScoringService()
	day := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	seedScoringDay(mocks, day)

	result, err := svc.RunDaily(context.Background(), day)
	if err != nil {
		t.Fatalf("RunDaily 应成功: %v", err)
	}
	if result.Processed != 1 || result.Failed != 0 {
		t.Errorf("期望 processed=1 failed=0，实际 %+v", result)
	}

	score, err := mocks.score.GetByEmployeeAndDate(context.Background(), "emp-001", day)
	if err != nil {
		t.Fatalf("应写入计分行: %v", err)
	}
	// points = 2*1 + 1*1 + 12.5*0.2 + 1*1 = 6.50
	if score.Points.StringFixed(2) != "6.50" {
		t.Errorf("期望 points=6.50，实际=%s", score.Points.StringFixed(2))
	}
	if score.JobsCompleted != 2 || score.OrdersCount != 1 || score.PaymentsCount != 1 {
		t.Errorf("计分输入不正确: %+v", score)
	}
}

func TestScoringService_RunDaily_Idempotent(t *testing.T) {
	svc, mocks := setupTestScoringService()
	day := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	seedScoringDay(mocks, day)

	if _, err := svc.RunDaily(context.Background(), day); err != nil {
		t.Fatalf("首次 RunDaily 应成功: %v", err)
	}
	first, _ := mocks.score.GetByEmployeeAndDate(context.Background(), "emp-001", day)

	// 同一天重跑，结果恒等且不累加
	if _, err := svc.RunDaily(context.Background(), day); err != nil {
		t.Fatalf("重跑 RunDaily 应成功: %v", err)
	}
	second, _ := mocks.score.GetByEmployeeAndDate(context.Background(), "emp-001", day)

	if !first.Points.Equal(second.Points) {
		t.Errorf("重跑结果应恒等，首次=%s 重跑=%s", first.Points, second.Points)
	}
	if len(mocks.score.scores) != 1 {
		t.Errorf("同 (员工,日期) 应只有一行，实际 %d 行", len(mocks.score.scores))
	}
}

func TestScoringService_RunDaily_ZeroActivityRow(t *testing.T) {
	svc, mocks := setupTestScoringService()
	day := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	// 仅有员工，没有任何活动
	mocks.employee.employees["emp-idle"] = &model.Employee{
		EmployeeID: "emp-idle", Name: "李四", Code: "E002", IsActive: true,
	}

	if _, err := svc.RunDaily(context.Background(), day); err != nil {
		t.Fatalf("RunDaily 应成功: %v", err)
	}

	score, err := mocks.score.GetByEmployeeAndDate(context.Background(), "emp-idle", day)
	if err != nil {
		t.Fatalf("零活动员工也应有计分行: %v", err)
	}
	if !score.Points.IsZero() {
		t.Errorf("期望零分，实际=%s", score.Points)
	}
}

func TestScoringService_RunDaily_SkipsInactiveEmployee(t *testing.T) {
	svc, mocks := setupTestScoringService()
	day := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	mocks.employee.employees["emp-gone"] = &model.Employee{
		EmployeeID: "emp-gone", Name: "王五", Code: "E003", IsActive: false,
	}

	result, err := svc.RunDaily(context.Background(), day)
	if err != nil {
		t.Fatalf("RunDaily 应成功: %v", err)
	}
	if result.Processed != 0 {
		t.Errorf("停用员工不参与计分，期望 processed=0，实际=%d", result.Processed)
	}
}

// ── Leaderboard 测试 ──

func TestScoringService_Leaderboard_OrderedByPoints(t *testing.T) {
	svc, mocks := setupTestScoringService()
	day := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	mocks.score.scores["emp-a|2026-08-31"] = &model.DailyScore{
		EmployeeID: "emp-a", ScoreDate: day,
		Points: decimal.RequireFromString("3.00"),
	}
	mocks.score.scores["emp-b|2026-08-31"] = &model.DailyScore{
		EmployeeID: "emp-b", ScoreDate: day,
		Points: decimal.RequireFromString("7.50"),
	}

	entries, err := svc.Leaderboard(context.Background(), &dto.LeaderboardRequest{Date: "2026-08-31"})
	if err != nil {
		t.Fatalf("Leaderboard 应成功: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("期望 2 条，实际 %d 条", len(entries))
	}
	if entries[0].EmployeeID != "emp-b" || entries[0].Rank != 1 {
		t.Errorf("期望 emp-b 第一名，实际: %+v", entries[0])
	}
	if entries[1].Points != "3.00" {
		t.Errorf("期望第二名 points=3.00，实际=%s", entries[1].Points)
	}
}
