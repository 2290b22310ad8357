// Package model 定义了与存储记录对应的 Go 结构体。
package model

import "time"

// User 对应于 users 集合/表。Password 与 Token 永远不会被序列化到响应中。
type User struct {
	ID        string    `gorm:"type:varchar(64);primaryKey" bson:"id" json:"id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" bson:"email" json:"email"`
	Password  string    `gorm:"type:varchar(255)" bson:"password" json:"-"`
	FirstName string    `gorm:"type:varchar(100)" bson:"first_name" json:"first_name"`
	LastName  string    `gorm:"type:varchar(100)" bson:"last_name" json:"last_name"`
	IsAdmin   bool      `gorm:"not null;default:false" bson:"is_admin" json:"is_admin"`
	CreatedAt time.Time `gorm:"not null" bson:"created_at" json:"created_at"`
	Token     string    `gorm:"type:varchar(512);index" bson:"token" json:"-"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (User) TableName() string {
	return "users"
}

// UserResponse 是用户的公开投影。
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsAdmin   bool   `json:"is_admin"`
}

// Public 返回不含密码与 token 的公开信息。
func (u *User) Public() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsAdmin:   u.IsAdmin,
	}
}

// SignupRequest 定义了注册 API 的请求体结构。
type SignupRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginRequest 定义了登录与管理员登录 API 的请求体结构。
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse 是登录成功后的响应。
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
