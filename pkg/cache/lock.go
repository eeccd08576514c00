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

package cache

import (
	"context"
	"time"
)

// Lock 基于 SETNX 的简单互斥锁，用于串行化同一资源上的并发操作。
// 返回 release 函数；锁被他人持有时 acquired 为 false。
func Lock(ctx context.Context, c ICache, key string, ttl time.Duration) (acquired bool, release func(), err error) {
	ok, err := c.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, nil, err
	}
	if !ok {
		return false, nil, nil
	}
	return true, func() {
		// 锁过期后删除他人锁的窗口很小，这里接受该竞态
		c.Del(context.WithoutCancel(ctx), key)
	}, nil
}
