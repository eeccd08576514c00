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

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talenthub/talenthub/internal/engine/common"
	"github.com/talenthub/talenthub/internal/engine/model"
)

func TestEnsureByExternalRef_Create(t *testing.T) {
	svc := NewCandidateService(newFakeCandidateRepo())

	resp, err := svc.EnsureByExternalRef(&model.EnsureCandidateReq{
		ExternalRef: "linkedin:alice",
		Name:        "Alice Zhang",
		Email:       "alice@example.com",
		Profile: &model.CandidateProfile{
			Headline: "Backend Engineer",
			Skills:   []string{"go", "mysql"},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.CandidateId)
	assert.Equal(t, "applied", resp.Stage)
	require.NotNil(t, resp.Profile)
	assert.Equal(t, "Backend Engineer", resp.Profile.Headline)
}

func TestEnsureByExternalRef_Idempotent(t *testing.T) {
	svc := NewCandidateService(newFakeCandidateRepo())

	first, err := svc.EnsureByExternalRef(&model.EnsureCandidateReq{
		ExternalRef: "linkedin:alice",
		Name:        "Alice Zhang",
		Email:       "alice@example.com",
	})
	require.NoError(t, err)

	// 同一 external_ref 重复提交更新原记录
	second, err := svc.EnsureByExternalRef(&model.EnsureCandidateReq{
		ExternalRef: "linkedin:alice",
		Name:        "Alice Zhang",
		Email:       "alice.zhang@example.com",
		Stage:       "interviewing",
	})
	require.NoError(t, err)
	assert.Equal(t, first.CandidateId, second.CandidateId)
	assert.Equal(t, "alice.zhang@example.com", second.Email)
	assert.Equal(t, "interviewing", second.Stage)

	// 未传 stage 时保留原阶段
	third, err := svc.EnsureByExternalRef(&model.EnsureCandidateReq{
		ExternalRef: "linkedin:alice",
		Name:        "Alice Zhang",
		Email:       "alice.zhang@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "interviewing", third.Stage)
}

func TestEnsureByExternalRef_Validation(t *testing.T) {
	svc := NewCandidateService(newFakeCandidateRepo())

	testCases := []struct {
		name string
		req  *model.EnsureCandidateReq
	}{
		{
			name: "empty external ref",
			req:  &model.EnsureCandidateReq{Name: "A", Email: "a@example.com"},
		},
		{
			name: "empty name",
			req:  &model.EnsureCandidateReq{ExternalRef: "r1", Email: "a@example.com"},
		},
		{
			name: "invalid email",
			req:  &model.EnsureCandidateReq{ExternalRef: "r1", Name: "A", Email: "nope"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.EnsureByExternalRef(tc.req)
			require.Error(t, err)
			assert.Equal(t, common.KindValidation, common.KindOf(err))
		})
	}
}

func TestGetCandidate_NotFound(t *testing.T) {
	svc := NewCandidateService(newFakeCandidateRepo())

	_, err := svc.GetCandidate("no-such-candidate")
	require.Error(t, err)
	assert.Equal(t, common.KindNotFound, common.KindOf(err))
}

func TestListCandidates(t *testing.T) {
	svc := NewCandidateService(newFakeCandidateRepo())

	for _, ref := range []string{"r1", "r2", "r3"} {
		_, err := svc.EnsureByExternalRef(&model.EnsureCandidateReq{
			ExternalRef: ref,
			Name:        "Candidate " + ref,
			Email:       ref + "@example.com",
		})
		require.NoError(t, err)
	}

	out, count, err := svc.ListCandidates(0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.Len(t, out, 3)
}
