package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AzuraDhar/goldPanicles-sub000/internal/dto"
	"github.com/AzuraDhar/goldPanicles-sub000/internal/model"
	"github.com/AzuraDhar/goldPanicles-sub000/internal/repository"
)

// ── 空闲时间表模块业务错误 ──

var (
	ErrGridInvalid = errors.New("时间表格式不正确：需包含 1-7 天，每天恰好 25 格")
)

// AvailabilityService 每周空闲时间表业务接口
//
// 读取时缺失的天以 25 个空格补齐，保证响应总是完整一周；
// 保存按天独立 upsert，某天失败不回滚已保存的天，失败天在响应中列出。
type AvailabilityService interface {
	LoadWeek(ctx context.Context, userID string) (*dto.WeekResponse, error)
	SaveWeek(ctx context.Context, userID string, req *dto.SaveWeekRequest) (*dto.SaveWeekResponse, error)
}

type availabilityService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAvailabilityService 创建 AvailabilityService 实例
func NewAvailabilityService(repo *repository.Repository, logger *zap.Logger) AvailabilityService {
	return &availabilityService{repo: repo, logger: logger}
}

// ────────────────────── LoadWeek ──────────────────────

func (s *availabilityService) LoadWeek(ctx context.Context, userID string) (*dto.WeekResponse, error) {
	schedules, err := s.repo.Availability.ListByUser(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("读取时间表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	week := make(dto.WeekGrid, model.DaysPerWeek)
	for day := 1; day <= model.DaysPerWeek; day++ {
		week[strconv.Itoa(day)] = emptySlots()
	}
	for i := range schedules {
		sched := &schedules[i]
		if sched.DayOfWeek < 1 || sched.DayOfWeek > model.DaysPerWeek {
			continue
		}
		week[strconv.Itoa(sched.DayOfWeek)] = padSlots(sched.Slots)
	}

	return &dto.WeekResponse{UserID: userID, Week: week}, nil
}

// ────────────────────── SaveWeek ──────────────────────

func (s *availabilityService) SaveWeek(ctx context.Context, userID string, req *dto.SaveWeekRequest) (*dto.SaveWeekResponse, error) {
	days, err := validateWeek(req.Week)
	if err != nil {
		return nil, err
	}

	resp := &dto.SaveWeekResponse{SavedDays: make([]int, 0, len(days))}
	for _, day := range days {
		sched := &model.AvailabilitySchedule{
			UserID:    userID,
			DayOfWeek: day,
			Slots:     model.TextArray(req.Week[strconv.Itoa(day)]),
		}
		if err := s.repo.Availability.UpsertDay(ctx, sched); err != nil {
			s.logger.Error("保存单日时间表失败",
				zap.String("user_id", userID), zap.Int("day", day), zap.Error(err))
			resp.FailedDays = append(resp.FailedDays, day)
			continue
		}
		resp.SavedDays = append(resp.SavedDays, day)
	}

	return resp, nil
}

// ── 内部辅助方法 ──

// validateWeek 校验键为 "1"-"7"、每天恰好 25 格，返回升序的天序号
func validateWeek(week dto.WeekGrid) ([]int, error) {
	if len(week) == 0 {
		return nil, ErrGridInvalid
	}

	days := make([]int, 0, len(week))
	for key, slots := range week {
		day, err := strconv.Atoi(key)
		if err != nil || day < 1 || day > model.DaysPerWeek {
			return nil, fmt.Errorf("%w：非法的天 %q", ErrGridInvalid, key)
		}
		if len(slots) != model.SlotsPerDay {
			return nil, fmt.Errorf("%w：第 %d 天有 %d 格", ErrGridInvalid, day, len(slots))
		}
		days = append(days, day)
	}
	sort.Ints(days)
	return days, nil
}

func emptySlots() []string {
	return make([]string, model.SlotsPerDay)
}

// padSlots 把历史数据不足 25 格的行补齐，超出的截断
func padSlots(slots []string) []string {
	out := emptySlots()
	copy(out, slots)
	return out
}
