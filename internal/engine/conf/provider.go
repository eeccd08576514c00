package conf

import (
	"github.com/google/wire"

	"github.com/talenthub/talenthub/internal/engine/service"
	"github.com/talenthub/talenthub/internal/pkg/google"
	"github.com/talenthub/talenthub/internal/pkg/notify"
	"github.com/talenthub/talenthub/pkg/cache"
	"github.com/talenthub/talenthub/pkg/database"
	"github.com/talenthub/talenthub/pkg/http"
	"github.com/talenthub/talenthub/pkg/log"
)

// ProviderSet 提供配置相关的依赖
var ProviderSet = wire.NewSet(
	ProvideConf,
	ProvideLogConf,
	ProvideHttpConf,
	ProvideDatabaseConf,
	ProvideRedisConf,
	ProvideGoogleConf,
	ProvideNotifyConf,
	ProvideSchedulerConf,
)

// ProvideConf 提供完整配置实例
func ProvideConf(configFile string) AppConfig {
	return NewConf(configFile)
}

func ProvideLogConf(appConf AppConfig) *log.Conf {
	return &appConf.Log
}

func ProvideHttpConf(appConf AppConfig) http.Http {
	return appConf.Http
}

func ProvideDatabaseConf(appConf AppConfig) database.Database {
	return appConf.Database
}

func ProvideRedisConf(appConf AppConfig) cache.Redis {
	return appConf.Redis
}

func ProvideGoogleConf(appConf AppConfig) *google.Conf {
	return &appConf.Google
}

func ProvideNotifyConf(appConf AppConfig) *notify.Conf {
	return &appConf.Notify
}

func ProvideSchedulerConf(appConf AppConfig) service.SchedulerConf {
	return appConf.Sync
}
