package service

import "errors"

// 业务层哨兵错误，handler 通过 errors.Is 映射为 HTTP 状态码。
var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("admin access required")
	ErrChatUnavailable    = errors.New("chat service unavailable")
	ErrTrackingFailed     = errors.New("tracking failed")
)
