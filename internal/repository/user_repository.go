package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"neuvera-go/internal/model"
)

// userRepository 是 UserRepository 接口的 GORM 实现。
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建一个新的 UserRepository 实例。
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create 在数据库中创建一个新的用户记录。email 冲突时返回 ErrDuplicate。
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return translateGormError(r.db.WithContext(ctx).Create(user).Error)
}

// FindByEmail 根据邮箱从数据库中查找一个用户。
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, translateGormError(err)
	}
	return &user, nil
}

// FindByToken 查找当前 token 与给定值相同的用户。
func (r *userRepository) FindByToken(ctx context.Context, token string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&user).Error
	if err != nil {
		return nil, translateGormError(err)
	}
	return &user, nil
}

// UpdateToken 覆盖用户当前的 token。
func (r *userRepository) UpdateToken(ctx context.Context, userID, token string) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Update("token", token)
	if res.Error != nil {
		return translateGormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) UpsertByEmail(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"first_name", "last_name", "is_admin", "token", "password"}),
	}).Create(user).Error
	return translateGormError(err)
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error
	return total, err
}

// translateGormError 把 GORM 的错误映射为仓库层的哨兵错误。
// 依赖 gorm.Config.TranslateError 把驱动的唯一键冲突转换为 gorm.ErrDuplicatedKey。
func translateGormError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
