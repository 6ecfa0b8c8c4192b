package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"fieldpulse/backend/internal/dto"
	"fieldpulse/backend/internal/model"
	"fieldpulse/backend/pkg/geo"
)

func setupTestAttendanceService() (*attendanceService, *mockRepos, *mockPresenceStore) {
	repo, mocks := newMockRepos()
	presence := newMockPresenceStore()
	svc := NewAttendanceService(testConfig(), repo, presence, zap.NewNop()).(*attendanceService)
	return svc, mocks, presence
}

func addTestEmployee(mocks *mockRepos, id string, active bool) {
	mocks.employee.employees[id] = &model.Employee{
		EmployeeID: id,
		Name:       "测试员工",
		Code:       "E-" + id,
		IsActive:   active,
	}
}

// addCircleCity 以 (12.9716, 77.5946) 为圆心的 200 米圆形围栏
func addCircleCity(mocks *mockRepos, id string) {
	kind := geo.FenceCircle
	lat, lon, radius := 12.9716, 77.5946, 200.0
	mocks.city.cities[id] = &model.City{
		CityID:       id,
		Name:         "测试城市",
		FenceKind:    &kind,
		CenterLat:    &lat,
		CenterLon:    &lon,
		RadiusMeters: &radius,
		AllowCheckin: true,
	}
}

// ── CheckIn 测试 ──

func TestAttendanceService_CheckIn_Success(t *testing.T) {
	svc, mocks, presence := setupTestAttendanceService()
	addTestEmployee(mocks, "emp-001", true)
	addCircleCity(mocks, "city-001")

	fixed := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	req := &dto.CheckInRequest{
		EmployeeID:    "emp-001",
		WorkingCityID: "city-001",
	}
	req.GPS = "12.9716,77.5946"

	resp, err := svc.CheckIn(context.Background(), req)
	if err != nil {
		t.Fatalf("CheckIn 应成功: %v", err)
	}
	if !resp.GeofenceChecked || !resp.GeofencePassed {
		t.Errorf("期望围栏校验通过，实际 checked=%v passed=%v", resp.GeofenceChecked, resp.GeofencePassed)
	}
	if resp.SessionID == "" {
		t.Error("期望返回会话ID")
	}
	if _, ok := presence.locations["emp-001"]; !ok {
		t.Error("签到后应刷新最近活跃位置")
	}
}

func TestAttendanceService_CheckIn_OutsideFence(t *testing.T) {
	svc, mocks, _ := setupTestAttendanceService()
	addTestEmployee(mocks, "emp-001", true)
	addCircleCity(mocks, "city-001")

	// 向北移动约 500 米（纬度 +0.0045 度）
	req := &dto.CheckInRequest{
		EmployeeID:    "emp-001",
		WorkingCityID: "city-001",
	}
	req.GPS = "12.9761,77.5946"

	_, err := svc.CheckIn(context.Background(), req)
	if !errors.Is(err, ErrGeofenceViolation) {
		t.Errorf("期望 ErrGeofenceViolation，实际: %v", err)
	}
	if len(mocks.attendance.sessions) != 0 {
		t.Error("围栏拒绝后不应创建会话")
	}
}

func TestAttendanceService_CheckIn_Duplicate(t *testing.T) {
	svc, mocks, _ := setupTestAttendanceService()
	addTestEmployee(mocks, "emp-001", true)

	req := &dto.CheckInRequest{EmployeeID: "emp-001"}
	req.GPS = "12.9716,77.5946"

	first, err := svc.CheckIn(context.Background(), req)
	if err != nil {
		t.Fatalf("首次 CheckIn 应成功: %v", err)
	}

	// 未签退前再次签到
	_, err = svc.CheckIn(context.Background(), req)
	if !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Errorf("期望 ErrAlreadyCheckedIn，实际: %v", err)
	}

	// 原会话不被修改
	session, err := svc.repo.Attendance.GetByEmployeeAndDate(context.Background(), "emp-001", dateOf(svc.now().UTC()))
	if err != nil {
		t.Fatalf("查询会话失败: %v", err)
	}
	if session.SessionID != first.SessionID {
		t.Errorf("重复签到不应替换原会话，期望 %s，实际 %s", first.SessionID, session.SessionID)
	}
}

func TestAttendanceService_CheckIn_MalformedPolygonRejected(t *testing.T) {
	svc, mocks, _ := setupTestAttendanceService()
	addTestEmployee(mocks, "emp-001", true)

	// 围栏定义损坏：coordinates 不是合法环
	kind := geo.FencePolygon
	mocks.city.cities["city-bad"] = &model.City{
		CityID:       "city-bad",
		Name:         "坏围栏城市",
		FenceKind:    &kind,
		Polygon:      datatypes.JSON(json.RawMessage(`{"coordinates": "not-a-ring"}`)),
		AllowCheckin: true,
	}

	req := &dto.CheckInRequest{
		EmployeeID:    "emp-001",
		WorkingCityID: "city-bad",
	}
	req.GPS = "12.9716,77.5946"

	_, err := svc.CheckIn(context.Background(), req)
	if !errors.Is(err, ErrFenceInvalid) {
		t.Errorf("坏围栏应拒绝签到（ErrFenceInvalid），实际: %v", err)
	}
	if len(mocks.attendance.sessions) != 0 {
		t.Error("坏围栏拒绝后不应创建会话")
	}
}

func TestAttendanceService_CheckIn_InvalidGPS(t *testing.T) {
	svc, mocks, _ := setupTestAttendanceService()
	addTestEmployee(mocks, "emp-001", true)

	req := &dto.CheckInRequest{EmployeeID: "emp-001"}
	req.GPS = "91.0,200.0"

	_, err := svc.CheckIn(context.Background(), req)
	if !errors.Is(err, ErrInvalidGPS) {
		t.Errorf("期望 ErrInvalidGPS，实际: %v", err)
	}
}

func TestAttendanceService_CheckIn_InactiveEmployee(t *testing.T) {
	svc, mocks, _ := setupTestAttendanceService()
	addTestEmployee(mocks, "emp-001", false)

	req := &dto.CheckInRequest{EmployeeID: "emp-001"}
	req.GPS = "12.9716,77.5946"

	_, err := svc.CheckIn(context.Background(), req)
	if !errors.Is(err, ErrEmployeeInactive) {
		t.Errorf("期望 ErrEmployeeInactive，实际: %v", err)
	}
}

// ── CheckOut 测试 ──

func TestAttendanceService_CheckOut_HoursWorked(t *testing.T) {
	svc, mocks, _ := setupTestAttendanceService()
	addTestEmployee(mocks, "emp-001", true)

	checkin := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return checkin }

	inReq := &dto.CheckInRequest{EmployeeID: "emp-001"}
	inReq.GPS = "12.9716,77.5946"
	if _, err := svc.CheckIn(context.Background(), inReq); err != nil {
		t.Fatalf("CheckIn 应成功: %v", err)
	}

	// 8 小时 30 分钟后签退
	svc.now = func() time.Time { return checkin.Add(8*time.Hour + 30*time.Minute) }

	outReq := &dto.CheckOutRequest{EmployeeID: "emp-001"}
	outReq.GPS = "12.9716,77.5946"
	resp, err := svc.CheckOut(context.Background(), outReq)
	if err != nil {
		t.Fatalf("CheckOut 应成功: %v", err)
	}
	if resp.HoursWorked != "8.50" {
		t.Errorf("期望 hours_worked=8.50，实际=%s", resp.HoursWorked)
	}
}

func TestAttendanceService_CheckOut_WithoutCheckIn(t *testing.T) {
	svc, mocks, _ := setupTestAttendanceService()
	addTestEmployee(mocks, "emp-001", true)

	req := &dto.CheckOutRequest{EmployeeID: "emp-001"}
	req.GPS = "12.9716,77.5946"

	_, err := svc.CheckOut(context.Background(), req)
	if !errors.Is(err, ErrNotCheckedIn) {
		t.Errorf("期望 ErrNotCheckedIn，实际: %v", err)
	}
}

func TestAttendanceService_CheckOut_Twice(t *testing.T) {
	svc, mocks, _ := setupTestAttendanceService()
	addTestEmployee(mocks, "emp-001", true)

	inReq := &dto.CheckInRequest{EmployeeID: "emp-001"}
	inReq.GPS = "12.9716,77.5946"
	if _, err := svc.CheckIn(context.Background(), inReq); err != nil {
		t.Fatalf("CheckIn 应成功: %v", err)
	}

	outReq := &dto.CheckOutRequest{EmployeeID: "emp-001"}
	outReq.GPS = "12.9716,77.5946"
	if _, err := svc.CheckOut(context.Background(), outReq); err != nil {
		t.Fatalf("首次 CheckOut 应成功: %v", err)
	}

	_, err := svc.CheckOut(context.Background(), outReq)
	if !errors.Is(err, ErrAlreadyCheckedOut) {
		t.Errorf("期望 ErrAlreadyCheckedOut，实际: %v", err)
	}
}

// ── Ping / TeamLocations 测试 ──

func TestAttendanceService_Ping_RefreshesPresence(t *testing.T) {
	svc, mocks, presence := setupTestAttendanceService()
	addTestEmployee(mocks, "emp-001", true)

	req := &dto.LocationPingRequest{EmployeeID: "emp-001"}
	req.GPS = "12.9716,77.5946"

	if err := svc.Ping(context.Background(), req); err != nil {
		t.Fatalf("Ping 应成功: %v", err)
	}
	loc, ok := presence.locations["emp-001"]
	if !ok {
		t.Fatal("Ping 后应写入最近活跃位置")
	}
	if loc.Lat != 12.9716 || loc.Lon != 77.5946 {
		t.Errorf("位置写入不正确: %+v", loc)
	}
}

func TestAttendanceService_TeamLocations_PresenceDisabled(t *testing.T) {
	repo, _ := newMockRepos()
	svc := NewAttendanceService(testConfig(), repo, nil, zap.NewNop())

	locations, err := svc.TeamLocations(context.Background())
	if err != nil {
		t.Fatalf("presence 关闭时应降级返回空列表: %v", err)
	}
	if len(locations) != 0 {
		t.Errorf("期望空列表，实际 %d 条", len(locations))
	}
}
