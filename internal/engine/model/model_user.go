package model

/**
 * @author: dev@talenthub.io
 * @file: model_user.go
 * @description: 用户表模型
 */

// User 用户表
type User struct {
	BaseModel
	UserId   string `gorm:"column:user_id" json:"userId"`     // 用户唯一标识
	Username string `gorm:"column:username" json:"username"`  // 登录名
	Name     string `gorm:"column:name" json:"name"`          // 显示名称
	Email    string `gorm:"column:email" json:"email"`        // 邮箱
	Avatar   string `gorm:"column:avatar" json:"avatar"`      // 头像
	IsActive int    `gorm:"column:is_active" json:"isActive"` // 是否启用: 0-禁用, 1-启用
}

func (User) TableName() string {
	return "t_user"
}
