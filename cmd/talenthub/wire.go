//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/talenthub/talenthub/internal/app"
	"github.com/talenthub/talenthub/internal/engine/conf"
	"github.com/talenthub/talenthub/internal/engine/repo"
	"github.com/talenthub/talenthub/internal/engine/router"
	"github.com/talenthub/talenthub/internal/engine/service"
	"github.com/talenthub/talenthub/pkg/cache"
	"github.com/talenthub/talenthub/pkg/database"
	"github.com/talenthub/talenthub/pkg/log"
)

func initApp(configPath string) (*app.App, func(), error) {
	panic(wire.Build(
		// 配置层
		conf.ProviderSet,
		// 日志
		log.ProviderSet,
		// 数据库
		databaseProviderSet,
		// 缓存
		cache.ProviderSet,
		// 仓储层
		repo.ProviderSet,
		// 服务层
		service.ProviderSet,
		// 路由层
		router.ProviderSet,
		// 应用层
		app.NewApp,
	))
}

// databaseProviderSet 数据库 ProviderSet
var databaseProviderSet = wire.NewSet(
	database.NewDatabase,
	database.NewGormDB,
)
