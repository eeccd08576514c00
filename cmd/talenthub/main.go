package main

import (
	"flag"
	"fmt"

	"github.com/talenthub/talenthub/internal/bootstrap"
	"github.com/talenthub/talenthub/pkg/runner"
)

/**
 * @author: dev@talenthub.io
 * @file: main.go
 * @description: talenthub server
 */

var (
	configFile string
)

func init() {
	flag.StringVar(&configFile, "conf", "conf.d/config.toml", "conf file path, e.g. -conf ./conf.d")
}

func main() {
	flag.Parse()
	printRunner()

	// Bootstrap 初始化应用
	app, cleanup, err := bootstrap.Bootstrap(configFile, initApp)
	if err != nil {
		panic(err)
	}

	// 启动应用并等待退出信号
	bootstrap.Run(app, cleanup)
}

func printRunner() {
	fmt.Println("runner.pwd:", runner.Pwd)
	fmt.Println("runner.hostname:", runner.Hostname)
}
