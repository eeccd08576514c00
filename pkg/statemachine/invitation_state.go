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

package statemachine

type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationAccepted  InvitationStatus = "accepted"
	InvitationDeclined  InvitationStatus = "declined"
	InvitationMaybe     InvitationStatus = "maybe"
	InvitationCancelled InvitationStatus = "cancelled"
)

// IsTerminal 判断是否为终止状态
func (s InvitationStatus) IsTerminal() bool {
	return s == InvitationCancelled
}

// IsActive 判断邀请是否处于不可被重新邀请覆盖的状态
// declined 不在其中，重新邀请时会被新的 pending 邀请替代
func (s InvitationStatus) IsActive() bool {
	return s == InvitationPending || s == InvitationAccepted || s == InvitationMaybe
}

// IsResponse 判断是否为被邀请人可提交的响应状态
func (s InvitationStatus) IsResponse() bool {
	return s == InvitationAccepted || s == InvitationDeclined || s == InvitationMaybe
}

// NewInvitationStateMachine 创建邀请状态机
// pending 可进入任一响应状态；响应状态之间可以随时改变主意；
// 除 cancelled 外任何状态都可被取消；cancelled 为终态。
func NewInvitationStateMachine() *StateMachine[InvitationStatus] {
	sm := NewWithState(InvitationPending)

	sm.Allow(InvitationPending, InvitationAccepted, InvitationDeclined, InvitationMaybe, InvitationCancelled).
		Allow(InvitationAccepted, InvitationAccepted, InvitationDeclined, InvitationMaybe, InvitationCancelled).
		Allow(InvitationDeclined, InvitationAccepted, InvitationDeclined, InvitationMaybe, InvitationCancelled).
		Allow(InvitationMaybe, InvitationAccepted, InvitationDeclined, InvitationMaybe, InvitationCancelled)

	return sm
}
