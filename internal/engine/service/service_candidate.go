package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/talenthub/talenthub/internal/engine/common"
	"github.com/talenthub/talenthub/internal/engine/model"
	"github.com/talenthub/talenthub/internal/engine/repo"
	"github.com/talenthub/talenthub/pkg/id"
	"github.com/talenthub/talenthub/pkg/log"
)

type CandidateService struct {
	candidateRepo repo.ICandidateRepository
}

func NewCandidateService(candidateRepo repo.ICandidateRepository) *CandidateService {
	return &CandidateService{
		candidateRepo: candidateRepo,
	}
}

// EnsureByExternalRef 按外部引用创建或更新候选人，重复提交幂等
func (s *CandidateService) EnsureByExternalRef(req *model.EnsureCandidateReq) (*model.CandidateResp, error) {
	// 1. 校验请求
	if req.ExternalRef == "" {
		return nil, common.E(common.KindValidation, "external ref cannot be empty")
	}
	if req.Name == "" {
		return nil, common.E(common.KindValidation, "name cannot be empty")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, common.Ef(common.KindValidation, "invalid email: %s", req.Email)
	}

	// 2. 序列化档案
	var profile datatypes.JSON
	if req.Profile != nil {
		raw, err := json.Marshal(req.Profile)
		if err != nil {
			return nil, common.Wrap(common.KindValidation, err, "invalid profile")
		}
		profile = raw
	}

	// 3. 已存在则更新
	existing, err := s.candidateRepo.GetCandidateByExternalRef(req.ExternalRef)
	if err != nil {
		return nil, fmt.Errorf("get candidate failed: %w", err)
	}
	if existing != nil {
		updates := map[string]any{
			"name":  req.Name,
			"email": req.Email,
			"phone": req.Phone,
		}
		if req.Stage != "" {
			updates["stage"] = req.Stage
		}
		if profile != nil {
			updates["profile"] = profile
		}
		if err := s.candidateRepo.UpdateCandidateByCandidateId(existing.CandidateId, updates); err != nil {
			log.Errorw("update candidate failed", "candidateId", existing.CandidateId, "error", err)
			return nil, fmt.Errorf("update candidate failed: %w", err)
		}
		updated, err := s.candidateRepo.GetCandidate(existing.CandidateId)
		if err != nil {
			return nil, fmt.Errorf("get candidate failed: %w", err)
		}
		return model.ToCandidateResp(updated), nil
	}

	// 4. 新建
	stage := req.Stage
	if stage == "" {
		stage = "applied"
	}
	candidate := &model.Candidate{
		// ULID 按时间有序，列表默认按创建顺序稳定
		CandidateId: id.GetUlid(),
		ExternalRef: req.ExternalRef,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Stage:       stage,
		Profile:     profile,
	}
	if err := s.candidateRepo.CreateCandidate(candidate); err != nil {
		log.Errorw("create candidate failed", "externalRef", req.ExternalRef, "error", err)
		return nil, fmt.Errorf("create candidate failed: %w", err)
	}

	log.Infow("success create candidate", "candidateId", candidate.CandidateId, "externalRef", candidate.ExternalRef)
	return model.ToCandidateResp(candidate), nil
}

// GetCandidate 获取候选人
func (s *CandidateService) GetCandidate(candidateId string) (*model.CandidateResp, error) {
	c, err := s.candidateRepo.GetCandidate(candidateId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.Ef(common.KindNotFound, "candidate %s not found", candidateId)
		}
		return nil, fmt.Errorf("get candidate failed: %w", err)
	}
	return model.ToCandidateResp(c), nil
}

// ListCandidates 分页查询候选人
func (s *CandidateService) ListCandidates(pageNum, pageSize int) ([]*model.CandidateResp, int64, error) {
	if pageNum <= 0 {
		pageNum = 1
	}
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 20
	}
	cs, count, err := s.candidateRepo.ListCandidates(pageNum, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list candidates failed: %w", err)
	}
	out := make([]*model.CandidateResp, 0, len(cs))
	for i := range cs {
		out = append(out, model.ToCandidateResp(&cs[i]))
	}
	return out, count, nil
}
