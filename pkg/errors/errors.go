package errors

import "errors"

// ErrConflict 并发写入冲突：同一自然键的记录已被其他请求写入
// 不在内部重试，直接透传给调用方决定是否重试
var ErrConflict = errors.New("记录已被并发写入，请重试")
