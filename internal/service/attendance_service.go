package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fieldpulse/backend/config"
	"fieldpulse/backend/internal/dto"
	"fieldpulse/backend/internal/model"
	"fieldpulse/backend/internal/repository"
	pkgerrors "fieldpulse/backend/pkg/errors"
	"fieldpulse/backend/pkg/geo"
	"fieldpulse/backend/pkg/redis"
)

// ── 考勤模块业务错误 ──

var (
	ErrEmployeeNotFound  = errors.New("员工不存在")
	ErrEmployeeInactive  = errors.New("员工已停用")
	ErrCityNotFound      = errors.New("城市不存在")
	ErrInvalidGPS        = errors.New("GPS 坐标非法")
	ErrFenceInvalid      = errors.New("围栏定义非法，打卡已拒绝")
	ErrGeofenceViolation = errors.New("打卡位置在允许范围之外")
	ErrAlreadyCheckedIn  = errors.New("今天已签到，不能重复签到")
	ErrNotCheckedIn      = errors.New("今天尚未签到，无法签退")
	ErrAlreadyCheckedOut = errors.New("今天已签退，会话不可再修改")
	ErrInvalidDate       = errors.New("日期格式非法，应为 YYYY-MM-DD")
)

// PresenceStore 最近活跃位置存储（Redis 实现）
// 为 nil 时在线位置功能降级关闭，打卡流程不受影响
type PresenceStore interface {
	SetLastLocation(ctx context.Context, loc *redis.LastLocation, window time.Duration) error
	ListActiveLocations(ctx context.Context) ([]redis.LastLocation, error)
}

// AttendanceService 考勤业务接口
// 状态机：NONE → CHECKED_IN → CHECKED_OUT（当日终态）
type AttendanceService interface {
	CheckIn(ctx context.Context, req *dto.CheckInRequest) (*dto.CheckInResponse, error)
	CheckOut(ctx context.Context, req *dto.CheckOutRequest) (*dto.CheckOutResponse, error)
	Ping(ctx context.Context, req *dto.LocationPingRequest) error
	History(ctx context.Context, req *dto.AttendanceHistoryRequest) ([]dto.AttendanceSessionResponse, error)
	TeamLocations(ctx context.Context) ([]dto.TeamLocationResponse, error)
}

type attendanceService struct {
	cfg      *config.Config
	repo     *repository.Repository
	presence PresenceStore
	logger   *zap.Logger
	now      func() time.Time
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(cfg *config.Config, repo *repository.Repository, presence PresenceStore, logger *zap.Logger) AttendanceService {
	return &attendanceService{
		cfg:      cfg,
		repo:     repo,
		presence: presence,
		logger:   logger,
		now:      time.Now,
	}
}

// ────────────────────── CheckIn ──────────────────────

func (s *attendanceService) CheckIn(ctx context.Context, req *dto.CheckInRequest) (*dto.CheckInResponse, error) {
	lat, lon, err := req.Coordinates()
	if err != nil {
		return nil, ErrInvalidGPS
	}
	if err := geo.ValidateCoordinates(lat, lon); err != nil {
		return nil, ErrInvalidGPS
	}

	emp, err := s.repo.Employee.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return nil, err
	}
	if !emp.IsActive {
		return nil, ErrEmployeeInactive
	}

	// ── 围栏校验 ──
	geofenceChecked := false
	var cityID *string
	if req.WorkingCityID != "" {
		city, err := s.repo.City.GetByID(ctx, req.WorkingCityID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCityNotFound
			}
			s.logger.Error("查询城市失败", zap.String("city_id", req.WorkingCityID), zap.Error(err))
			return nil, err
		}
		cityID = &city.CityID

		if city.HasFence() && city.AllowCheckin {
			geofenceChecked = true
			fence, err := geo.ParseFence(*city.FenceKind, city.CenterLat, city.CenterLon, city.RadiusMeters, city.Polygon)
			if err != nil {
				// 围栏定义损坏时拒绝打卡，而不是默认放行
				s.logger.Warn("围栏定义无法解析，已拒绝签到",
					zap.String("city_id", city.CityID), zap.Error(err))
				return nil, ErrFenceInvalid
			}
			if !fence.Contains(lat, lon) {
				return nil, ErrGeofenceViolation
			}
		}
	}

	now := s.now().UTC()
	session := &model.AttendanceSession{
		EmployeeID:  emp.EmployeeID,
		WorkDate:    dateOf(now),
		CheckinTime: now,
		CheckinLat:  lat,
		CheckinLon:  lon,
		CityID:      cityID,
		Notes:       req.Notes,
	}

	if err := s.repo.Attendance.CreateIfAbsent(ctx, session); err != nil {
		if errors.Is(err, pkgerrors.ErrConflict) {
			// 当日已有会话：重复签到，不做任何修改
			return nil, ErrAlreadyCheckedIn
		}
		s.logger.Error("创建考勤会话失败", zap.String("employee_id", emp.EmployeeID), zap.Error(err))
		return nil, err
	}

	s.touchPresence(ctx, emp.EmployeeID, lat, lon, now)

	return &dto.CheckInResponse{
		SessionID:       session.SessionID,
		CheckinTime:     now.Format(time.RFC3339),
		GeofenceChecked: geofenceChecked,
		GeofencePassed:  true,
	}, nil
}

// ────────────────────── CheckOut ──────────────────────

func (s *attendanceService) CheckOut(ctx context.Context, req *dto.CheckOutRequest) (*dto.CheckOutResponse, error) {
	lat, lon, err := req.Coordinates()
	if err != nil {
		return nil, ErrInvalidGPS
	}
	if err := geo.ValidateCoordinates(lat, lon); err != nil {
		return nil, ErrInvalidGPS
	}

	now := s.now().UTC()
	workDate := dateOf(now)

	session, err := s.repo.Attendance.GetByEmployeeAndDate(ctx, req.EmployeeID, workDate)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotCheckedIn
		}
		s.logger.Error("查询考勤会话失败", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return nil, err
	}
	if session.IsCheckedOut() {
		return nil, ErrAlreadyCheckedOut
	}

	hours := decimal.NewFromFloat(now.Sub(session.CheckinTime).Hours()).Round(2)
	notes := session.Notes
	if req.Notes != "" {
		notes = req.Notes
	}

	update := &model.AttendanceSession{
		EmployeeID:   req.EmployeeID,
		WorkDate:     workDate,
		CheckoutTime: &now,
		CheckoutLat:  &lat,
		CheckoutLon:  &lon,
		Notes:        notes,
		HoursWorked:  &hours,
	}

	rows, err := s.repo.Attendance.CompleteCheckout(ctx, update)
	if err != nil {
		s.logger.Error("签退更新失败", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return nil, err
	}
	if rows == 0 {
		// 读取与更新之间被并发签退
		return nil, ErrAlreadyCheckedOut
	}

	s.touchPresence(ctx, req.EmployeeID, lat, lon, now)

	return &dto.CheckOutResponse{
		SessionID:    session.SessionID,
		CheckoutTime: now.Format(time.RFC3339),
		HoursWorked:  hours.StringFixed(2),
	}, nil
}

// ────────────────────── Ping ──────────────────────

// Ping 工作途中位置上报，仅刷新最近活跃位置
func (s *attendanceService) Ping(ctx context.Context, req *dto.LocationPingRequest) error {
	lat, lon, err := req.Coordinates()
	if err != nil {
		return ErrInvalidGPS
	}
	if err := geo.ValidateCoordinates(lat, lon); err != nil {
		return ErrInvalidGPS
	}

	if _, err := s.repo.Employee.GetByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		return err
	}

	s.touchPresence(ctx, req.EmployeeID, lat, lon, s.now().UTC())
	return nil
}

// ────────────────────── History ──────────────────────

func (s *attendanceService) History(ctx context.Context, req *dto.AttendanceHistoryRequest) ([]dto.AttendanceSessionResponse, error) {
	to := dateOf(s.now().UTC())
	from := to.AddDate(0, -1, 0)

	var err error
	if req.StartDate != "" {
		from, err = time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
	}
	if req.EndDate != "" {
		to, err = time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
	}

	sessions, err := s.repo.Attendance.ListByEmployee(ctx, req.EmployeeID, from, to)
	if err != nil {
		s.logger.Error("查询考勤历史失败", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.AttendanceSessionResponse, 0, len(sessions))
	for i := range sessions {
		result = append(result, *toSessionResponse(&sessions[i]))
	}
	return result, nil
}

// ────────────────────── TeamLocations ──────────────────────

// TeamLocations 返回活跃窗口内的团队位置
// Redis TTL 保证过期位置自动不可见，防止陈旧位置泄漏
func (s *attendanceService) TeamLocations(ctx context.Context) ([]dto.TeamLocationResponse, error) {
	if s.presence == nil {
		return []dto.TeamLocationResponse{}, nil
	}

	locations, err := s.presence.ListActiveLocations(ctx)
	if err != nil {
		s.logger.Error("读取活跃位置失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TeamLocationResponse, 0, len(locations))
	for _, loc := range locations {
		result = append(result, dto.TeamLocationResponse{
			EmployeeID: loc.EmployeeID,
			Lat:        loc.Lat,
			Lon:        loc.Lon,
			SeenAt:     loc.SeenAt.Format(time.RFC3339),
		})
	}
	return result, nil
}

// ── 内部辅助方法 ──

// touchPresence 尽力而为地刷新最近活跃位置，失败只记日志不影响主流程
func (s *attendanceService) touchPresence(ctx context.Context, employeeID string, lat, lon float64, seenAt time.Time) {
	if s.presence == nil {
		return
	}
	loc := &redis.LastLocation{
		EmployeeID: employeeID,
		Lat:        lat,
		Lon:        lon,
		SeenAt:     seenAt,
	}
	if err := s.presence.SetLastLocation(ctx, loc, s.cfg.Presence.Window); err != nil {
		s.logger.Warn("刷新活跃位置失败", zap.String("employee_id", employeeID), zap.Error(err))
	}
}

func toSessionResponse(session *model.AttendanceSession) *dto.AttendanceSessionResponse {
	resp := &dto.AttendanceSessionResponse{
		SessionID:   session.SessionID,
		EmployeeID:  session.EmployeeID,
		WorkDate:    session.WorkDate.Format("2006-01-02"),
		CheckinTime: session.CheckinTime.Format(time.RFC3339),
		CheckinLat:  session.CheckinLat,
		CheckinLon:  session.CheckinLon,
		Notes:       session.Notes,
	}
	if session.CityID != nil {
		resp.CityID = *session.CityID
	}
	if session.CheckoutTime != nil {
		resp.CheckoutTime = session.CheckoutTime.Format(time.RFC3339)
	}
	if session.HoursWorked != nil {
		resp.HoursWorked = session.HoursWorked.StringFixed(2)
	}
	return resp
}

// dateOf 截取 UTC 自然日（零点）
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
