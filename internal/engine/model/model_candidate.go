/*
Copyright 2025 The Talenthub Team.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package model

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// Candidate 候选人表，external_ref 为外部系统的自然键
type Candidate struct {
	BaseModel
	CandidateId string         `gorm:"column:candidate_id;uniqueIndex" json:"candidateId"` // 候选人ID
	ExternalRef string         `gorm:"column:external_ref;uniqueIndex" json:"externalRef"` // 外部引用，幂等去重键
	Name        string         `gorm:"column:name" json:"name"`
	Email       string         `gorm:"column:email" json:"email"`
	Phone       string         `gorm:"column:phone" json:"phone,omitempty"`
	Stage       string         `gorm:"column:stage" json:"stage"` // 流程阶段
	Profile     datatypes.JSON `gorm:"column:profile" json:"profile,omitempty"`
}

func (Candidate) TableName() string {
	return "t_candidate"
}

// CandidateProfile 候选人档案，序列化后存入 Profile 列
type CandidateProfile struct {
	Headline   string                `json:"headline,omitempty"`
	Summary    string                `json:"summary,omitempty"`
	Skills     []string              `json:"skills,omitempty"`
	Experience []CandidateExperience `json:"experience,omitempty"`
	Education  []CandidateEducation  `json:"education,omitempty"`
}

type CandidateExperience struct {
	Company   string `json:"company"`
	Title     string `json:"title"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	Current   bool   `json:"current,omitempty"`
}

type CandidateEducation struct {
	School string `json:"school"`
	Degree string `json:"degree,omitempty"`
	Major  string `json:"major,omitempty"`
	Year   string `json:"year,omitempty"`
}

// ParseProfile 解析候选人档案，列为空时返回零值
func (c *Candidate) ParseProfile() (CandidateProfile, error) {
	var p CandidateProfile
	if len(c.Profile) == 0 {
		return p, nil
	}
	err := json.Unmarshal(c.Profile, &p)
	return p, err
}

// EnsureCandidateReq 按外部引用创建或更新候选人的请求
type EnsureCandidateReq struct {
	ExternalRef string            `json:"externalRef" validate:"required"`
	Name        string            `json:"name" validate:"required"`
	Email       string            `json:"email" validate:"required,email"`
	Phone       string            `json:"phone"`
	Stage       string            `json:"stage"`
	Profile     *CandidateProfile `json:"profile"`
}

// CandidateResp 候选人响应
type CandidateResp struct {
	CandidateId string            `json:"candidateId"`
	ExternalRef string            `json:"externalRef"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Phone       string            `json:"phone,omitempty"`
	Stage       string            `json:"stage"`
	Profile     *CandidateProfile `json:"profile,omitempty"`
	CreatedAt   string            `json:"createdAt"`
	UpdatedAt   string            `json:"updatedAt"`
}

// ToCandidateResp 转换候选人响应
func ToCandidateResp(c *Candidate) *CandidateResp {
	resp := &CandidateResp{
		CandidateId: c.CandidateId,
		ExternalRef: c.ExternalRef,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Stage:       c.Stage,
		CreatedAt:   c.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:   c.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if p, err := c.ParseProfile(); err == nil && len(c.Profile) > 0 {
		resp.Profile = &p
	}
	return resp
}
