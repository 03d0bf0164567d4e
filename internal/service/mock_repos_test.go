package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/AzuraDhar/goldPanicles-sub000/internal/model"
	"github.com/AzuraDhar/goldPanicles-sub000/internal/repository"
	pkgerrors "github.com/AzuraDhar/goldPanicles-sub000/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) ListByRole(_ context.Context, role string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.Role == role {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockUserRepo) List(_ context.Context, _, _ int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, int64(len(result)), nil
}

// ── Mock EventRequestRepository ──

type mockRequestRepo struct {
	requests map[string]*model.EventRequest
	seq      int
}

func newMockRequestRepo() *mockRequestRepo {
	return &mockRequestRepo{requests: make(map[string]*model.EventRequest)}
}

func (m *mockRequestRepo) Create(_ context.Context, req *model.EventRequest) error {
	if req.RequestID == "" {
		m.seq++
		req.RequestID = fmt.Sprintf("req-%d", m.seq)
	}
	if req.Status == "" {
		req.Status = model.RequestStatusPending
	}
	if req.Version == 0 {
		req.Version = 1
	}
	m.requests[req.RequestID] = req
	return nil
}

func (m *mockRequestRepo) GetByID(_ context.Context, id string) (*model.EventRequest, error) {
	if r, ok := m.requests[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRequestRepo) GetDetail(ctx context.Context, id string) (*model.EventRequest, error) {
	return m.GetByID(ctx, id)
}

func (m *mockRequestRepo) ListByOwner(_ context.Context, ownerID string, _, _ int) ([]model.EventRequest, int64, error) {
	var result []model.EventRequest
	for _, r := range m.requests {
		if r.OwnerID == ownerID {
			result = append(result, *r)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockRequestRepo) ListByStatus(_ context.Context, status string, _, _ int) ([]model.EventRequest, int64, error) {
	var result []model.EventRequest
	for _, r := range m.requests {
		if r.Status == status {
			result = append(result, *r)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockRequestRepo) ListAssignedToHead(_ context.Context, headID string) ([]model.EventRequest, error) {
	var result []model.EventRequest
	for _, r := range m.requests {
		if r.AssignedHeadID != nil && *r.AssignedHeadID == headID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRequestRepo) ListByStatuses(_ context.Context, statuses []string) ([]model.EventRequest, error) {
	want := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}
	var result []model.EventRequest
	for _, r := range m.requests {
		if want[r.Status] {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRequestRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, r := range m.requests {
		counts[r.Status]++
	}
	return counts, nil
}

func (m *mockRequestRepo) Update(_ context.Context, req *model.EventRequest) error {
	existing, ok := m.requests[req.RequestID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if existing.Version != req.Version {
		return pkgerrors.ErrOptimisticLock
	}
	req.Version++
	cp := *req
	m.requests[req.RequestID] = &cp
	return nil
}

func (m *mockRequestRepo) UpdateStatusCAS(_ context.Context, id, fromStatus, toStatus string, actorID string, headID *string) (bool, error) {
	r, ok := m.requests[id]
	if !ok {
		return false, nil
	}
	if r.Status != fromStatus {
		return false, nil
	}
	r.Status = toStatus
	r.UpdatedBy = &actorID
	r.UpdatedAt = time.Now()
	if headID != nil {
		r.AssignedHeadID = headID
	}
	return true, nil
}

func (m *mockRequestRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.requests, id)
	return nil
}

// ── Mock AuditRecordRepository ──

type mockAuditRepo struct {
	records map[string]*model.AuditRecord // keyed by request_id（唯一约束）
}

func newMockAuditRepo() *mockAuditRepo {
	return &mockAuditRepo{records: make(map[string]*model.AuditRecord)}
}

func (m *mockAuditRepo) Create(_ context.Context, record *model.AuditRecord) error {
	if _, exists := m.records[record.RequestID]; exists {
		return gorm.ErrDuplicatedKey
	}
	if record.RecordID == "" {
		record.RecordID = "audit-" + record.RequestID
	}
	record.CreatedAt = time.Now()
	m.records[record.RequestID] = record
	return nil
}

func (m *mockAuditRepo) GetByRequest(_ context.Context, requestID string) (*model.AuditRecord, error) {
	if r, ok := m.records[requestID]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAuditRepo) ListByActor(_ context.Context, actorID string, _, _ int) ([]model.AuditRecord, int64, error) {
	var result []model.AuditRecord
	for _, r := range m.records {
		if r.ActorID == actorID {
			result = append(result, *r)
		}
	}
	return result, int64(len(result)), nil
}

// ── Mock DenialReasonRepository ──

type mockDenialRepo struct {
	reasons map[string]*model.DenialReason
	failAll bool // 模拟拒绝原因写入失败
}

func newMockDenialRepo() *mockDenialRepo {
	return &mockDenialRepo{reasons: make(map[string]*model.DenialReason)}
}

func (m *mockDenialRepo) Create(_ context.Context, reason *model.DenialReason) error {
	if m.failAll {
		return fmt.Errorf("存储暂不可用")
	}
	if _, exists := m.reasons[reason.RequestID]; exists {
		return gorm.ErrDuplicatedKey
	}
	m.reasons[reason.RequestID] = reason
	return nil
}

func (m *mockDenialRepo) GetByRequest(_ context.Context, requestID string) (*model.DenialReason, error) {
	if r, ok := m.reasons[requestID]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock AssignmentRecordRepository ──

type mockAssignmentRepo struct {
	records map[string]*model.AssignmentRecord // keyed by request_id（唯一约束）
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{records: make(map[string]*model.AssignmentRecord)}
}

func (m *mockAssignmentRepo) Create(_ context.Context, record *model.AssignmentRecord) error {
	if _, exists := m.records[record.RequestID]; exists {
		return gorm.ErrDuplicatedKey
	}
	if record.AssignmentID == "" {
		record.AssignmentID = "assign-" + record.RequestID
	}
	record.CreatedAt = time.Now()
	m.records[record.RequestID] = record
	return nil
}

func (m *mockAssignmentRepo) GetByRequest(_ context.Context, requestID string) (*model.AssignmentRecord, error) {
	if r, ok := m.records[requestID]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) ListByHead(_ context.Context, headID string) ([]model.AssignmentRecord, error) {
	var result []model.AssignmentRecord
	for _, r := range m.records {
		if r.HeadID == headID {
			result = append(result, *r)
		}
	}
	return result, nil
}

// ── Mock StaffInvitationRepository ──

type mockInvitationRepo struct {
	invitations map[string]*model.StaffInvitation
	positions   map[string]string // staffID → position（供职位统计）
	seq         int
}

func newMockInvitationRepo() *mockInvitationRepo {
	return &mockInvitationRepo{
		invitations: make(map[string]*model.StaffInvitation),
		positions:   make(map[string]string),
	}
}

func (m *mockInvitationRepo) Create(_ context.Context, inv *model.StaffInvitation) error {
	for _, existing := range m.invitations {
		if existing.RequestID == inv.RequestID && existing.StaffID == inv.StaffID {
			return gorm.ErrDuplicatedKey
		}
	}
	if inv.InvitationID == "" {
		m.seq++
		inv.InvitationID = fmt.Sprintf("inv-%d", m.seq)
	}
	if inv.Status == "" {
		inv.Status = model.InvitationStatusPending
	}
	inv.CreatedAt = time.Now()
	m.invitations[inv.InvitationID] = inv
	return nil
}

func (m *mockInvitationRepo) GetByID(_ context.Context, id string) (*model.StaffInvitation, error) {
	if inv, ok := m.invitations[id]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInvitationRepo) ListByRequest(_ context.Context, requestID string) ([]model.StaffInvitation, error) {
	var result []model.StaffInvitation
	for _, inv := range m.invitations {
		if inv.RequestID == requestID {
			result = append(result, *inv)
		}
	}
	return result, nil
}

func (m *mockInvitationRepo) ListByStaff(_ context.Context, staffID string) ([]model.StaffInvitation, error) {
	var result []model.StaffInvitation
	for _, inv := range m.invitations {
		if inv.StaffID == staffID {
			result = append(result, *inv)
		}
	}
	return result, nil
}

func (m *mockInvitationRepo) UpdateStatusCAS(_ context.Context, id string, fromStatuses []string, toStatus, actorID string) (bool, error) {
	inv, ok := m.invitations[id]
	if !ok {
		return false, nil
	}
	matched := false
	for _, from := range fromStatuses {
		if inv.Status == from {
			matched = true
			break
		}
	}
	if !matched {
		return false, nil
	}
	inv.Status = toStatus
	inv.UpdatedBy = &actorID
	inv.UpdatedAt = time.Now()
	return true, nil
}

func (m *mockInvitationRepo) CountAcceptedByPosition(_ context.Context, requestID string) ([]repository.PositionCount, error) {
	counts := make(map[string]int64)
	for _, inv := range m.invitations {
		if inv.RequestID == requestID && inv.Status == model.InvitationStatusAccepted {
			counts[m.positions[inv.StaffID]]++
		}
	}
	var result []repository.PositionCount
	for pos, n := range counts {
		result = append(result, repository.PositionCount{Position: pos, Count: n})
	}
	return result, nil
}

// ── Mock AcceptanceRecordRepository ──

type mockAcceptanceRepo struct {
	records map[string]*model.AcceptanceRecord // keyed by request_id:head_id
}

func newMockAcceptanceRepo() *mockAcceptanceRepo {
	return &mockAcceptanceRepo{records: make(map[string]*model.AcceptanceRecord)}
}

func (m *mockAcceptanceRepo) Create(_ context.Context, record *model.AcceptanceRecord) error {
	key := record.RequestID + ":" + record.HeadID
	if _, exists := m.records[key]; exists {
		return gorm.ErrDuplicatedKey
	}
	if record.RecordID == "" {
		record.RecordID = "acc-" + key
	}
	record.CreatedAt = time.Now()
	m.records[key] = record
	return nil
}

func (m *mockAcceptanceRepo) GetByRequestAndHead(_ context.Context, requestID, headID string) (*model.AcceptanceRecord, error) {
	if r, ok := m.records[requestID+":"+headID]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAcceptanceRepo) ListByHead(_ context.Context, headID string) ([]model.AcceptanceRecord, error) {
	var result []model.AcceptanceRecord
	for _, r := range m.records {
		if r.HeadID == headID {
			result = append(result, *r)
		}
	}
	return result, nil
}

// ── Mock AdminEventRepository ──

type mockAdminEventRepo struct {
	events map[string]*model.AdminEvent
	seq    int
}

func newMockAdminEventRepo() *mockAdminEventRepo {
	return &mockAdminEventRepo{events: make(map[string]*model.AdminEvent)}
}

func (m *mockAdminEventRepo) Create(_ context.Context, event *model.AdminEvent) error {
	if event.EventID == "" {
		m.seq++
		event.EventID = fmt.Sprintf("evt-%d", m.seq)
	}
	event.CreatedAt = time.Now()
	m.events[event.EventID] = event
	return nil
}

func (m *mockAdminEventRepo) GetByID(_ context.Context, id string) (*model.AdminEvent, error) {
	if e, ok := m.events[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAdminEventRepo) ListByDateRange(_ context.Context, from, to time.Time) ([]model.AdminEvent, error) {
	var result []model.AdminEvent
	for _, e := range m.events {
		if !e.EventDate.Before(from) && !e.EventDate.After(to) {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockAdminEventRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.events, id)
	return nil
}

// ── Mock AvailabilityRepository ──

type mockAvailabilityRepo struct {
	schedules map[string]*model.AvailabilitySchedule // keyed by user_id:day
	failDays  map[int]bool                           // 模拟指定天 upsert 失败
}

func newMockAvailabilityRepo() *mockAvailabilityRepo {
	return &mockAvailabilityRepo{
		schedules: make(map[string]*model.AvailabilitySchedule),
		failDays:  make(map[int]bool),
	}
}

func (m *mockAvailabilityRepo) ListByUser(_ context.Context, userID string) ([]model.AvailabilitySchedule, error) {
	var result []model.AvailabilitySchedule
	for _, s := range m.schedules {
		if s.UserID == userID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockAvailabilityRepo) GetDay(_ context.Context, userID string, dayOfWeek int) (*model.AvailabilitySchedule, error) {
	if s, ok := m.schedules[fmt.Sprintf("%s:%d", userID, dayOfWeek)]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAvailabilityRepo) UpsertDay(_ context.Context, sched *model.AvailabilitySchedule) error {
	if m.failDays[sched.DayOfWeek] {
		return fmt.Errorf("存储暂不可用")
	}
	key := fmt.Sprintf("%s:%d", sched.UserID, sched.DayOfWeek)
	cp := *sched
	m.schedules[key] = &cp
	return nil
}

// ── 测试辅助 ──

// passthroughTx 直通事务：直接在原聚合上执行 fn，不做回滚
type passthroughTx struct {
	repo *repository.Repository
}

func (t *passthroughTx) Transaction(_ context.Context, fn func(*repository.Repository) error) error {
	return fn(t.repo)
}

// testRepos 持有所有 mock，便于测试中直接断言内部状态
type testRepos struct {
	user         *mockUserRepo
	request      *mockRequestRepo
	audit        *mockAuditRepo
	denial       *mockDenialRepo
	assignment   *mockAssignmentRepo
	invitation   *mockInvitationRepo
	acceptance   *mockAcceptanceRepo
	adminEvent   *mockAdminEventRepo
	availability *mockAvailabilityRepo
}

// newTestRepository 构造注入全部 mock 的 Repository 聚合（事务为直通实现）
func newTestRepository() (*repository.Repository, *testRepos) {
	mocks := &testRepos{
		user:         newMockUserRepo(),
		request:      newMockRequestRepo(),
		audit:        newMockAuditRepo(),
		denial:       newMockDenialRepo(),
		assignment:   newMockAssignmentRepo(),
		invitation:   newMockInvitationRepo(),
		acceptance:   newMockAcceptanceRepo(),
		adminEvent:   newMockAdminEventRepo(),
		availability: newMockAvailabilityRepo(),
	}
	repo := &repository.Repository{
		User:         mocks.user,
		Request:      mocks.request,
		Audit:        mocks.audit,
		Denial:       mocks.denial,
		Assignment:   mocks.assignment,
		Invitation:   mocks.invitation,
		Acceptance:   mocks.acceptance,
		AdminEvent:   mocks.adminEvent,
		Availability: mocks.availability,
	}
	repo.Tx = &passthroughTx{repo: repo}
	return repo, mocks
}
