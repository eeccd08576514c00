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

package bootstrap

import (
	"github.com/talenthub/talenthub/internal/app"
	httpx "github.com/talenthub/talenthub/pkg/http"
	"github.com/talenthub/talenthub/pkg/log"
)

type InitAppFunc func(configPath string) (*app.App, func(), error)

// Bootstrap init app, return App instance and cleanup function
func Bootstrap(configFile string, initApp InitAppFunc) (*app.App, func(), error) {
	// Wire build App (所有依赖都由 wire 自动注入)
	application, cleanup, err := initApp(configFile)
	if err != nil {
		return nil, nil, err
	}
	return application, cleanup, nil
}

// Run start app and wait for exit signal, then gracefully shutdown
func Run(application *app.App, cleanup func()) {
	defer cleanup()

	shutdown := httpx.NewHttp(application.AppConf.Http, application.HttpApp)

	// 阻塞直到收到退出信号
	shutdown()
	log.Info("server exited")
}
