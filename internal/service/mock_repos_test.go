package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fieldpulse/backend/config"
	"fieldpulse/backend/internal/model"
	"fieldpulse/backend/internal/repository"
	pkgerrors "fieldpulse/backend/pkg/errors"
	"fieldpulse/backend/pkg/redis"
)

func dayKey(t time.Time) string { return t.UTC().Format("2006-01-02") }

func sameDay(t, day time.Time) bool { return dayKey(t) == dayKey(day) }

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct {
	employees map[string]*model.Employee
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{employees: make(map[string]*model.Employee)}
}

func (m *mockEmployeeRepo) Create(_ context.Context, emp *model.Employee) error {
	if emp.EmployeeID == "" {
		emp.EmployeeID = "emp-" + emp.Code
	}
	m.employees[emp.EmployeeID] = emp
	return nil
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, id string) (*model.Employee, error) {
	if e, ok := m.employees[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) List(_ context.Context, activeOnly bool) ([]model.Employee, error) {
	var result []model.Employee
	for _, e := range m.employees {
		if activeOnly && !e.IsActive {
			continue
		}
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EmployeeID < result[j].EmployeeID })
	return result, nil
}

func (m *mockEmployeeRepo) Update(_ context.Context, emp *model.Employee) error {
	m.employees[emp.EmployeeID] = emp
	return nil
}

// ── Mock CityRepository ──

type mockCityRepo struct {
	cities map[string]*model.City
}

func newMockCityRepo() *mockCityRepo {
	return &mockCityRepo{cities: make(map[string]*model.City)}
}

func (m *mockCityRepo) Create(_ context.Context, city *model.City) error {
	if city.CityID == "" {
		city.CityID = "city-" + city.Name
	}
	m.cities[city.CityID] = city
	return nil
}

func (m *mockCityRepo) GetByID(_ context.Context, id string) (*model.City, error) {
	if c, ok := m.cities[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCityRepo) List(_ context.Context) ([]model.City, error) {
	var result []model.City
	for _, c := range m.cities {
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockCityRepo) Update(_ context.Context, city *model.City) error {
	m.cities[city.CityID] = city
	return nil
}

// ── Mock CustomerRepository ──

type mockCustomerRepo struct {
	customers map[string]*model.Customer
}

func newMockCustomerRepo() *mockCustomerRepo {
	return &mockCustomerRepo{customers: make(map[string]*model.Customer)}
}

func (m *mockCustomerRepo) Create(_ context.Context, customer *model.Customer) error {
	if customer.CustomerID == "" {
		customer.CustomerID = "cust-" + customer.Code
	}
	m.customers[customer.CustomerID] = customer
	return nil
}

func (m *mockCustomerRepo) GetByID(_ context.Context, id string) (*model.Customer, error) {
	if c, ok := m.customers[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCustomerRepo) List(_ context.Context, activeOnly bool) ([]model.Customer, error) {
	var result []model.Customer
	for _, c := range m.customers {
		if activeOnly && !c.IsActive {
			continue
		}
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CustomerID < result[j].CustomerID })
	return result, nil
}

func (m *mockCustomerRepo) Search(_ context.Context, query string, limit int) ([]model.Customer, error) {
	var result []model.Customer
	q := strings.ToLower(query)
	for _, c := range m.customers {
		if !c.IsActive {
			continue
		}
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Code), q) {
			result = append(result, *c)
		}
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockCustomerRepo) ListActiveByCity(_ context.Context, cityID string) ([]model.Customer, error) {
	var result []model.Customer
	for _, c := range m.customers {
		if c.IsActive && c.CityID != nil && *c.CityID == cityID {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CustomerID < result[j].CustomerID })
	return result, nil
}

// ── Mock CommunicationRepository ──

type mockCommunicationRepo struct {
	logs []*model.CommunicationLog
	// 指定客户的 CountForCustomerSince 返回该错误，模拟单客户查询故障
	countErrFor map[string]error
}

func newMockCommunicationRepo() *mockCommunicationRepo {
	return &mockCommunicationRepo{}
}

func (m *mockCommunicationRepo) Create(_ context.Context, log *model.CommunicationLog) error {
	if log.LogID == "" {
		log.LogID = fmt.Sprintf("log-%d", len(m.logs)+1)
	}
	m.logs = append(m.logs, log)
	return nil
}

func (m *mockCommunicationRepo) CountForCustomerSince(_ context.Context, customerID string, since time.Time) (int64, error) {
	if err, ok := m.countErrFor[customerID]; ok {
		return 0, err
	}
	var count int64
	for _, l := range m.logs {
		if l.CustomerID != nil && *l.CustomerID == customerID && !l.LoggedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (m *mockCommunicationRepo) CountPaymentsByEmployeeOn(_ context.Context, employeeID string, day time.Time) (int64, error) {
	var count int64
	for _, l := range m.logs {
		if l.EmployeeID != nil && *l.EmployeeID == employeeID &&
			l.Kind == model.CommKindPayment && sameDay(l.LoggedAt, day) {
			count++
		}
	}
	return count, nil
}

func (m *mockCommunicationRepo) ListByCustomer(_ context.Context, customerID string, limit int) ([]model.CommunicationLog, error) {
	var result []model.CommunicationLog
	for _, l := range m.logs {
		if l.CustomerID != nil && *l.CustomerID == customerID {
			result = append(result, *l)
		}
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	sessions map[string]*model.AttendanceSession // key: employeeID|workDate
	seq      int
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{sessions: make(map[string]*model.AttendanceSession)}
}

func (m *mockAttendanceRepo) sessionKey(employeeID string, workDate time.Time) string {
	return employeeID + "|" + dayKey(workDate)
}

func (m *mockAttendanceRepo) CreateIfAbsent(_ context.Context, session *model.AttendanceSession) error {
	key := m.sessionKey(session.EmployeeID, session.WorkDate)
	if _, exists := m.sessions[key]; exists {
		return pkgerrors.ErrConflict
	}
	m.seq++
	session.SessionID = fmt.Sprintf("sess-%d", m.seq)
	m.sessions[key] = session
	return nil
}

func (m *mockAttendanceRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, workDate time.Time) (*model.AttendanceSession, error) {
	if s, ok := m.sessions[m.sessionKey(employeeID, workDate)]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) CompleteCheckout(_ context.Context, session *model.AttendanceSession) (int64, error) {
	existing, ok := m.sessions[m.sessionKey(session.EmployeeID, session.WorkDate)]
	if !ok || existing.CheckoutTime != nil {
		return 0, nil
	}
	existing.CheckoutTime = session.CheckoutTime
	existing.CheckoutLat = session.CheckoutLat
	existing.CheckoutLon = session.CheckoutLon
	existing.Notes = session.Notes
	existing.HoursWorked = session.HoursWorked
	return 1, nil
}

func (m *mockAttendanceRepo) ListByEmployee(_ context.Context, employeeID string, from, to time.Time) ([]model.AttendanceSession, error) {
	var result []model.AttendanceSession
	for _, s := range m.sessions {
		if s.EmployeeID == employeeID && !s.WorkDate.Before(from) && !s.WorkDate.After(to) {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].WorkDate.After(result[j].WorkDate) })
	return result, nil
}

// ── Mock JobCardRepository ──

type mockJobCardRepo struct {
	cards map[string]*model.JobCard
	seq   int
}

func newMockJobCardRepo() *mockJobCardRepo {
	return &mockJobCardRepo{cards: make(map[string]*model.JobCard)}
}

func (m *mockJobCardRepo) Create(_ context.Context, card *model.JobCard) error {
	m.seq++
	card.JobCardID = fmt.Sprintf("jc-%d", m.seq)
	card.CreatedAt = time.Now().UTC()
	m.cards[card.JobCardID] = card
	return nil
}

func (m *mockJobCardRepo) CreateAutoIfAbsent(ctx context.Context, card *model.JobCard) error {
	for _, c := range m.cards {
		if c.AutoGenerated && c.CustomerID != nil && card.CustomerID != nil &&
			*c.CustomerID == *card.CustomerID && sameDay(c.CreatedOn, card.CreatedOn) {
			return pkgerrors.ErrConflict
		}
	}
	return m.Create(ctx, card)
}

func (m *mockJobCardRepo) GetByID(_ context.Context, id string) (*model.JobCard, error) {
	if c, ok := m.cards[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockJobCardRepo) UpdateStatus(_ context.Context, id, fromStatus, toStatus string, completedAt *time.Time) (int64, error) {
	c, ok := m.cards[id]
	if !ok || c.Status != fromStatus {
		return 0, nil
	}
	c.Status = toStatus
	if completedAt != nil {
		c.CompletedAt = completedAt
	}
	return 1, nil
}

func (m *mockJobCardRepo) ListOpenByAssignee(_ context.Context, employeeID string) ([]model.JobCard, error) {
	var result []model.JobCard
	for _, c := range m.cards {
		if c.AssigneeID != nil && *c.AssigneeID == employeeID && isOpenStatus(c.Status) {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].JobCardID < result[j].JobCardID })
	return result, nil
}

func (m *mockJobCardRepo) ListAssigneesWithOpenDueOn(_ context.Context, day time.Time) ([]string, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, c := range m.cards {
		if c.AssigneeID != nil && isOpenStatus(c.Status) && c.DueAt != nil && sameDay(*c.DueAt, day) {
			if !seen[*c.AssigneeID] {
				seen[*c.AssigneeID] = true
				ids = append(ids, *c.AssigneeID)
			}
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *mockJobCardRepo) CountOpenDueOn(_ context.Context, employeeID string, day time.Time) (int64, error) {
	var count int64
	for _, c := range m.cards {
		if c.AssigneeID != nil && *c.AssigneeID == employeeID &&
			isOpenStatus(c.Status) && c.DueAt != nil && sameDay(*c.DueAt, day) {
			count++
		}
	}
	return count, nil
}

func (m *mockJobCardRepo) CountCompletedByAssigneeOn(_ context.Context, employeeID string, day time.Time) (int64, error) {
	var count int64
	for _, c := range m.cards {
		if c.AssigneeID != nil && *c.AssigneeID == employeeID &&
			c.Status == model.JobStatusCompleted && c.CompletedAt != nil && sameDay(*c.CompletedAt, day) {
			count++
		}
	}
	return count, nil
}

func (m *mockJobCardRepo) HasCompletedForCustomerSince(_ context.Context, customerID string, since time.Time) (bool, error) {
	for _, c := range m.cards {
		if c.CustomerID != nil && *c.CustomerID == customerID &&
			c.Status == model.JobStatusCompleted && c.CompletedAt != nil && !c.CompletedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockJobCardRepo) HasAutoForCustomerOn(_ context.Context, customerID string, day time.Time) (bool, error) {
	for _, c := range m.cards {
		if c.CustomerID != nil && *c.CustomerID == customerID &&
			c.AutoGenerated && sameDay(c.CreatedOn, day) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockJobCardRepo) CountAutoForPlanOn(_ context.Context, cityID, employeeID string, day time.Time) (int64, error) {
	var count int64
	for _, c := range m.cards {
		if c.CityID != nil && *c.CityID == cityID &&
			c.AssigneeID != nil && *c.AssigneeID == employeeID &&
			c.AutoGenerated && sameDay(c.CreatedOn, day) {
			count++
		}
	}
	return count, nil
}

func isOpenStatus(status string) bool {
	return status == model.JobStatusPending || status == model.JobStatusInProgress
}

// ── Mock ScoreRepository ──

type mockScoreRepo struct {
	scores map[string]*model.DailyScore // key: employeeID|scoreDate
}

func newMockScoreRepo() *mockScoreRepo {
	return &mockScoreRepo{scores: make(map[string]*model.DailyScore)}
}

func (m *mockScoreRepo) Upsert(_ context.Context, score *model.DailyScore) error {
	m.scores[score.EmployeeID+"|"+dayKey(score.ScoreDate)] = score
	return nil
}

func (m *mockScoreRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*model.DailyScore, error) {
	if s, ok := m.scores[employeeID+"|"+dayKey(date)]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScoreRepo) ListByDate(_ context.Context, date time.Time) ([]model.DailyScore, error) {
	var result []model.DailyScore
	for _, s := range m.scores {
		if sameDay(s.ScoreDate, date) {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Points.GreaterThan(result[j].Points) })
	return result, nil
}

// ── Mock PlanRepository ──

type mockPlanRepo struct {
	plans []*model.CityWeekdayPlan
}

func newMockPlanRepo() *mockPlanRepo { return &mockPlanRepo{} }

func (m *mockPlanRepo) ListByWeekday(_ context.Context, weekday int) ([]model.CityWeekdayPlan, error) {
	var result []model.CityWeekdayPlan
	for _, p := range m.plans {
		if p.Weekday == weekday {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockPlanRepo) List(_ context.Context) ([]model.CityWeekdayPlan, error) {
	var result []model.CityWeekdayPlan
	for _, p := range m.plans {
		result = append(result, *p)
	}
	return result, nil
}

// ── Mock OrderRepository ──

type mockOrderRepo struct {
	orders []*model.Order
}

func newMockOrderRepo() *mockOrderRepo { return &mockOrderRepo{} }

func (m *mockOrderRepo) Create(_ context.Context, order *model.Order) error {
	if order.OrderID == "" {
		order.OrderID = fmt.Sprintf("ord-%d", len(m.orders)+1)
	}
	m.orders = append(m.orders, order)
	return nil
}

func (m *mockOrderRepo) List(_ context.Context, employeeID string, limit int) ([]model.Order, error) {
	var result []model.Order
	for _, o := range m.orders {
		if employeeID != "" && (o.EmployeeID == nil || *o.EmployeeID != employeeID) {
			continue
		}
		result = append(result, *o)
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockOrderRepo) CountByEmployeeOn(_ context.Context, employeeID string, day time.Time) (int64, error) {
	var count int64
	for _, o := range m.orders {
		if o.EmployeeID != nil && *o.EmployeeID == employeeID &&
			o.Status != model.OrderStatusCancelled && sameDay(o.OrderDate, day) {
			count++
		}
	}
	return count, nil
}

func (m *mockOrderRepo) SumBalesByEmployeeOn(_ context.Context, employeeID string, day time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, o := range m.orders {
		if o.EmployeeID != nil && *o.EmployeeID == employeeID &&
			o.Status != model.OrderStatusCancelled && sameDay(o.OrderDate, day) {
			total = total.Add(o.TotalBales)
		}
	}
	return total, nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications []*model.Notification
}

func newMockNotificationRepo() *mockNotificationRepo { return &mockNotificationRepo{} }

func (m *mockNotificationRepo) CreateReminderIfAbsent(_ context.Context, n *model.Notification) error {
	for _, existing := range m.notifications {
		if existing.EmployeeID == n.EmployeeID && existing.Kind == n.Kind && sameDay(existing.SentOn, n.SentOn) {
			return pkgerrors.ErrConflict
		}
	}
	n.NotificationID = fmt.Sprintf("ntf-%d", len(m.notifications)+1)
	m.notifications = append(m.notifications, n)
	return nil
}

func (m *mockNotificationRepo) ExistsReminderOn(_ context.Context, employeeID string, day time.Time) (bool, error) {
	for _, n := range m.notifications {
		if n.EmployeeID == employeeID && n.Kind == model.NotificationTaskReminder && sameDay(n.SentOn, day) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockNotificationRepo) ListByEmployee(_ context.Context, employeeID string, limit int) ([]model.Notification, error) {
	var result []model.Notification
	for _, n := range m.notifications {
		if n.EmployeeID == employeeID {
			result = append(result, *n)
		}
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ── 测试辅助 ──

type mockRepos struct {
	employee      *mockEmployeeRepo
	city          *mockCityRepo
	customer      *mockCustomerRepo
	communication *mockCommunicationRepo
	attendance    *mockAttendanceRepo
	jobCard       *mockJobCardRepo
	score         *mockScoreRepo
	plan          *mockPlanRepo
	order         *mockOrderRepo
	notification  *mockNotificationRepo
}

func newMockRepos() (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		employee:      newMockEmployeeRepo(),
		city:          newMockCityRepo(),
		customer:      newMockCustomerRepo(),
		communication: newMockCommunicationRepo(),
		attendance:    newMockAttendanceRepo(),
		jobCard:       newMockJobCardRepo(),
		score:         newMockScoreRepo(),
		plan:          newMockPlanRepo(),
		order:         newMockOrderRepo(),
		notification:  newMockNotificationRepo(),
	}
	repo := &repository.Repository{
		Employee:      m.employee,
		City:          m.city,
		Customer:      m.customer,
		Communication: m.communication,
		Attendance:    m.attendance,
		JobCard:       m.jobCard,
		Score:         m.score,
		Plan:          m.plan,
		Order:         m.order,
		Notification:  m.notification,
	}
	return repo, m
}

func testConfig() *config.Config {
	return &config.Config{
		Jobs: config.JobsConfig{
			CadenceMinContacts:  2,
			CadenceCooldownDays: 15,
			CadenceTaskCap:      5,
			TaskDueHours:        8,
		},
		Presence: config.PresenceConfig{Window: 10 * time.Minute},
	}
}

func strPtr(s string) *string { return &s }

// ── Mock PresenceStore ──

type mockPresenceStore struct {
	locations map[string]*redis.LastLocation
}

func newMockPresenceStore() *mockPresenceStore {
	return &mockPresenceStore{locations: make(map[string]*redis.LastLocation)}
}

func (m *mockPresenceStore) SetLastLocation(_ context.Context, loc *redis.LastLocation, _ time.Duration) error {
	m.locations[loc.EmployeeID] = loc
	return nil
}

func (m *mockPresenceStore) ListActiveLocations(_ context.Context) ([]redis.LastLocation, error) {
	var result []redis.LastLocation
	for _, loc := range m.locations {
		result = append(result, *loc)
	}
	return result, nil
}
