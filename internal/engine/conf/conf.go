package conf

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/talenthub/talenthub/internal/engine/service"
	"github.com/talenthub/talenthub/internal/pkg/google"
	"github.com/talenthub/talenthub/internal/pkg/notify"
	"github.com/talenthub/talenthub/pkg/cache"
	"github.com/talenthub/talenthub/pkg/database"
	"github.com/talenthub/talenthub/pkg/http"
	"github.com/talenthub/talenthub/pkg/log"
)

/**
 * @author: dev@talenthub.io
 * @file: conf.go
 * @description: 应用配置加载
 */

type AppConfig struct {
	Log      log.Conf
	Http     http.Http
	Database database.Database
	Redis    cache.Redis
	Google   google.Conf
	Notify   notify.Conf
	Sync     service.SchedulerConf
}

var (
	cfg  AppConfig
	once sync.Once
)

func NewConf(confDir string) AppConfig {
	once.Do(func() {
		var err error
		cfg, err = LoadConfigFile(confDir)
		if err != nil {
			panic(fmt.Sprintf("load conf file error: %s", err))
		}
	})
	return cfg
}

// LoadConfigFile load conf file
func LoadConfigFile(confDir string) (AppConfig, error) {

	config := viper.New()
	config.SetConfigFile(confDir)
	config.AddConfigPath("./conf.d")
	config.SetConfigName("config")
	config.SetConfigType("toml")
	if err := config.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("failed to read configuration file: %v", err)
	}

	config.WatchConfig()
	config.OnConfigChange(func(e fsnotify.Event) {
		log.Infof("The configuration changes, re-analyze the configuration file: %s", e.Name)
		if err := config.Unmarshal(&cfg); err != nil {
			log.Errorf("failed to unmarshal configuration file: %v", err)
		}
	})
	if err := config.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal configuration file: %v", err)
	}

	return cfg, nil
}

func GetString(key string) string {
	return viper.GetString(key)
}
