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

type ICandidateRepository interface {
	CreateCandidate(c *model.Candidate) error
	GetCandidate(candidateId string) (*model.Candidate, error)
	GetCandidateByExternalRef(externalRef string) (*model.Candidate, error)
	ListCandidates(pageNum, pageSize int) ([]model.Candidate, int64, error)
	UpdateCandidateByCandidateId(candidateId string, updates map[string]any) error
}

type CandidateRepo struct {
	database.IDatabase
}

func NewCandidateRepo(db database.IDatabase) ICandidateRepository {
	return &CandidateRepo{
		IDatabase: db,
	}
}

// CreateCandidate 创建候选人
func (r *CandidateRepo) CreateCandidate(c *model.Candidate) error {
	if err := r.Database().Table(c.TableName()).Create(c).Error; err != nil {
		return err
	}
	return nil
}

// GetCandidate 获取候选人
func (r *CandidateRepo) GetCandidate(candidateId string) (*model.Candidate, error) {
	var c model.Candidate
	err := r.Database().Where("candidate_id = ?", candidateId).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCandidateByExternalRef 根据外部引用获取候选人，不存在时返回 nil
func (r *CandidateRepo) GetCandidateByExternalRef(externalRef string) (*model.Candidate, error) {
	var c model.Candidate
	err := r.Database().Where("external_ref = ?", externalRef).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// ListCandidates 分页查询候选人
func (r *CandidateRepo) ListCandidates(pageNum, pageSize int) ([]model.Candidate, int64, error) {
	var cs []model.Candidate
	var count int64

	query := r.Database().Model(&model.Candidate{})
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").
		Offset((pageNum - 1) * pageSize).Limit(pageSize).
		Find(&cs).Error
	if err != nil {
		return nil, 0, err
	}
	return cs, count, nil
}

// UpdateCandidateByCandidateId 更新候选人
func (r *CandidateRepo) UpdateCandidateByCandidateId(candidateId string, updates map[string]any) error {
	return r.Database().Model(&model.Candidate{}).Where("candidate_id = ?", candidateId).
		Updates(updates).Error
}
