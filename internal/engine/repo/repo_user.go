// Copyright 2025 Talenthub Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package repo

import (
	"errors"

	"gorm.io/gorm"

	"github.com/talenthub/talenthub/internal/engine/model"
	"github.com/talenthub/talenthub/pkg/database"
)

type IUserRepository interface {
	GetUser(userId string) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
}

type UserRepo struct {
	db database.IDatabase
}

func NewUserRepo(db database.IDatabase) IUserRepository {
	return &UserRepo{
		db: db,
	}
}

// GetUser 获取用户
func (ur *UserRepo) GetUser(userId string) (*model.User, error) {
	var user model.User
	err := ur.db.Database().Where("user_id = ? AND is_active = ?", userId, 1).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail 根据邮箱获取用户，邀请内部用户时用于归属判定，不存在时返回 nil
func (ur *UserRepo) GetUserByEmail(email string) (*model.User, error) {
	var user model.User
	err := ur.db.Database().Where("email = ? AND is_active = ?", email, 1).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

