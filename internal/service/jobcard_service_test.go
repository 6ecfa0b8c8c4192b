package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"fieldpulse/backend/internal/dto"
	"fieldpulse/backend/internal/model"
)

func setupTestJobCardService() (JobCardService, *mockRepos) {
	repo, mocks := newMockRepos()
	svc := NewJobCardService(repo, zap.NewNop())
	return svc, mocks
}

// ── Create 测试 ──

func TestJobCardService_Create_Success(t *testing.T) {
	svc, mocks := setupTestJobCardService()
	mocks.employee.employees["emp-001"] = &model.Employee{
		EmployeeID: "emp-001", Name: "张三", Code: "E001", IsActive: true,
	}

	card, err := svc.Create(context.Background(), &dto.CreateJobCardRequest{
		Type:       model.JobTypeVisit,
		AssigneeID: "emp-001",
		Reason:     "重点客户回访",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if card.Status != model.JobStatusPending {
		t.Errorf("新建任务应为 PENDING，实际=%s", card.Status)
	}
	if card.Priority != model.JobPriorityMedium {
		t.Errorf("缺省优先级应为 MEDIUM，实际=%s", card.Priority)
	}
	if card.AutoGenerated {
		t.Error("人工创建的卡不应标记 auto_generated")
	}
}

func TestJobCardService_Create_AssigneeNotFound(t *testing.T) {
	svc, _ := setupTestJobCardService()

	_, err := svc.Create(context.Background(), &dto.CreateJobCardRequest{
		Type:       model.JobTypeCall,
		AssigneeID: "nonexistent",
	})
	if !errors.Is(err, ErrEmployeeNotFound) {
		t.Errorf("期望 ErrEmployeeNotFound，实际: %v", err)
	}
}

// ── UpdateStatus 测试 ──

func createPendingCard(t *testing.T, svc JobCardService) string {
	t.Helper()
	card, err := svc.Create(context.Background(), &dto.CreateJobCardRequest{Type: model.JobTypeCall})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	return card.JobCardID
}

func TestJobCardService_UpdateStatus_ForwardFlow(t *testing.T) {
	svc, _ := setupTestJobCardService()
	id := createPendingCard(t, svc)

	card, err := svc.UpdateStatus(context.Background(), id, &dto.UpdateJobCardStatusRequest{
		Status: model.JobStatusInProgress,
	})
	if err != nil {
		t.Fatalf("PENDING→IN_PROGRESS 应成功: %v", err)
	}
	if card.Status != model.JobStatusInProgress {
		t.Errorf("期望 IN_PROGRESS，实际=%s", card.Status)
	}

	card, err = svc.UpdateStatus(context.Background(), id, &dto.UpdateJobCardStatusRequest{
		Status: model.JobStatusCompleted,
	})
	if err != nil {
		t.Fatalf("IN_PROGRESS→COMPLETED 应成功: %v", err)
	}
	if card.CompletedAt == "" {
		t.Error("完成时应写入 completed_at")
	}
}

func TestJobCardService_UpdateStatus_NoBackward(t *testing.T) {
	svc, _ := setupTestJobCardService()
	id := createPendingCard(t, svc)

	if _, err := svc.UpdateStatus(context.Background(), id, &dto.UpdateJobCardStatusRequest{
		Status: model.JobStatusCompleted,
	}); err != nil {
		t.Fatalf("PENDING→COMPLETED 应成功: %v", err)
	}

	// 完成后不可回退
	_, err := svc.UpdateStatus(context.Background(), id, &dto.UpdateJobCardStatusRequest{
		Status: model.JobStatusInProgress,
	})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("状态不可回退，期望 ErrInvalidTransition，实际: %v", err)
	}
}

func TestJobCardService_UpdateStatus_CancelTerminal(t *testing.T) {
	svc, _ := setupTestJobCardService()
	id := createPendingCard(t, svc)

	if _, err := svc.UpdateStatus(context.Background(), id, &dto.UpdateJobCardStatusRequest{
		Status: model.JobStatusCancelled,
	}); err != nil {
		t.Fatalf("PENDING→CANCELLED 应成功: %v", err)
	}

	// CANCELLED 为终态
	_, err := svc.UpdateStatus(context.Background(), id, &dto.UpdateJobCardStatusRequest{
		Status: model.JobStatusInProgress,
	})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("CANCELLED 应为终态，实际: %v", err)
	}
}

func TestJobCardService_UpdateStatus_CompletedCannotCancel(t *testing.T) {
	svc, _ := setupTestJobCardService()
	id := createPendingCard(t, svc)

	if _, err := svc.UpdateStatus(context.Background(), id, &dto.UpdateJobCardStatusRequest{
		Status: model.JobStatusCompleted,
	}); err != nil {
		t.Fatalf("PENDING→COMPLETED 应成功: %v", err)
	}

	_, err := svc.UpdateStatus(context.Background(), id, &dto.UpdateJobCardStatusRequest{
		Status: model.JobStatusCancelled,
	})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("已完成任务不可取消，实际: %v", err)
	}
}

// ── MyTasks 测试 ──

func TestJobCardService_MyTasks_OnlyOpen(t *testing.T) {
	svc, mocks := setupTestJobCardService()
	mocks.employee.employees["emp-001"] = &model.Employee{
		EmployeeID: "emp-001", Name: "张三", Code: "E001", IsActive: true,
	}

	for _, status := range []string{
		model.JobStatusPending, model.JobStatusInProgress,
		model.JobStatusCompleted, model.JobStatusCancelled,
	} {
		mocks.jobCard.Create(context.Background(), &model.JobCard{
			Type:       model.JobTypeCall,
			Status:     status,
			AssigneeID: strPtr("emp-001"),
		})
	}

	tasks, err := svc.MyTasks(context.Background(), &dto.MyTasksRequest{EmployeeID: "emp-001"})
	if err != nil {
		t.Fatalf("MyTasks 应成功: %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("只应返回 PENDING/IN_PROGRESS，期望 2 条，实际 %d 条", len(tasks))
	}
}
