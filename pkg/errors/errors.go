package errors

import "errors"

// ErrConcurrentUpdate 并发修改冲突：会话在读取后已被另一个请求修改
var ErrConcurrentUpdate = errors.New("会话已被其他操作修改，请刷新后重试")

// ErrSessionNotFound 会话不存在或已过期
var ErrSessionNotFound = errors.New("会话不存在或已过期")
