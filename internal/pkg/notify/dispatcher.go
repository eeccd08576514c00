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

package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/talenthub/talenthub/pkg/log"
)

// Dispatcher fans a message out to all enabled channels.
type Dispatcher struct {
	channels []INotifyChannel
}

func NewDispatcher(conf *Conf) *Dispatcher {
	d := &Dispatcher{}
	if conf.Email.Enabled {
		d.channels = append(d.channels, NewEmailChannel(conf.Email))
	}
	if conf.Webhook.Enabled {
		d.channels = append(d.channels, NewWebhookChannel(conf.Webhook))
	}
	return d
}

// Dispatch 逐个渠道同步投递，任一渠道失败都返回错误
// 单渠道失败不阻断其余渠道
func (d *Dispatcher) Dispatch(ctx context.Context, msg *Message) error {
	var failed []string
	for _, ch := range d.channels {
		if err := ch.Send(ctx, msg); err != nil {
			log.Errorw("notify send failed", "channel", ch.Name(), "subject", msg.Subject, "err", err)
			failed = append(failed, fmt.Sprintf("%s: %v", ch.Name(), err))
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("notify dispatch failed: %s", strings.Join(failed, "; "))
	}
	return nil
}
