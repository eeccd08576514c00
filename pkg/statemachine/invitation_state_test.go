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

import "testing"

func TestInvitationStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   InvitationStatus
		expected bool
	}{
		{InvitationPending, false},
		{InvitationAccepted, false},
		{InvitationDeclined, false},
		{InvitationMaybe, false},
		{InvitationCancelled, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsTerminal(); got != tt.expected {
				t.Errorf("IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestInvitationStatus_IsActive(t *testing.T) {
	tests := []struct {
		status   InvitationStatus
		expected bool
	}{
		{InvitationPending, true},
		{InvitationAccepted, true},
		{InvitationMaybe, true},
		{InvitationDeclined, false},
		{InvitationCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsActive(); got != tt.expected {
				t.Errorf("IsActive() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestInvitationStateMachine_ResponsesMayChange(t *testing.T) {
	sm := NewInvitationStateMachine()

	if sm.Current() != InvitationPending {
		t.Fatalf("initial state = %v, want pending", sm.Current())
	}

	if err := sm.Transit(InvitationAccepted); err != nil {
		t.Fatalf("pending -> accepted: %v", err)
	}
	if err := sm.Transit(InvitationDeclined); err != nil {
		t.Fatalf("accepted -> declined (change of mind): %v", err)
	}
	if err := sm.Transit(InvitationMaybe); err != nil {
		t.Fatalf("declined -> maybe: %v", err)
	}
}

func TestInvitationStateMachine_CancelledIsTerminal(t *testing.T) {
	sm := NewInvitationStateMachine()

	if err := sm.Transit(InvitationCancelled); err != nil {
		t.Fatalf("pending -> cancelled: %v", err)
	}

	for _, to := range []InvitationStatus{
		InvitationPending, InvitationAccepted, InvitationDeclined, InvitationMaybe,
	} {
		if err := sm.Transit(to); err == nil {
			t.Errorf("cancelled -> %v should be rejected", to)
		}
	}
}

func TestInvitationStateMachine_CanTransitionTo(t *testing.T) {
	sm := NewInvitationStateMachine()

	sm.SetCurrent(InvitationAccepted)
	if !sm.CanTransitionTo(InvitationDeclined) {
		t.Error("accepted should allow declined from current state")
	}
	if !sm.CanTransitionTo(InvitationCancelled) {
		t.Error("accepted should allow cancelled from current state")
	}

	sm.SetCurrent(InvitationCancelled)
	if sm.CanTransitionTo(InvitationAccepted) {
		t.Error("cancelled should not allow accepted from current state")
	}
}

func TestInvitationStateMachine_NoTransitionBackToPending(t *testing.T) {
	sm := NewInvitationStateMachine()

	if err := sm.Transit(InvitationAccepted); err != nil {
		t.Fatal(err)
	}
	if err := sm.Transit(InvitationPending); err == nil {
		t.Error("accepted -> pending should be rejected")
	}
}
