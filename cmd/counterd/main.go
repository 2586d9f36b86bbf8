// counterd 命名计数器服务
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/d0ngw/namedcounter/api"
	c "github.com/d0ngw/namedcounter/common"
)

func main() {
	configPath := flag.String("config", "", "yaml config file, optional")
	flag.Parse()

	conf, err := api.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config fail,err:%v\n", err)
		os.Exit(1)
	}
	defer c.SyncLog()

	app, err := api.NewApp(conf)
	if err != nil {
		c.Errorf("create app fail,err:%v", err)
		c.SyncLog()
		os.Exit(1)
	}

	services := c.NewServices(app)
	if !services.Init() || !services.Start() {
		c.Errorf("start %s fail", app.Name())
		services.Stop()
		c.SyncLog()
		os.Exit(1)
	}

	hook := c.NewShutdownhook()
	hook.AddHook(func() {
		services.Stop()
	})
	hook.WaitShutdown()
}
