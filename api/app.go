// Package api 将计数器存储以http接口的形式提供服务
package api

import (
	"errors"
	"net/http"

	c "github.com/d0ngw/namedcounter/common"
	"github.com/d0ngw/namedcounter/counter"
	dhttp "github.com/d0ngw/namedcounter/http"
)

// App 进程内共享的计数器服务,持有唯一的Store
type App struct {
	c.BaseService
	Conf       *Config
	Store      *counter.Store
	Metrics    *Metrics
	Controller *CounterController
	HTTPConf   *dhttp.Config
	HTTP       *dhttp.Service
}

// NewApp 根据配置创建App,注册接口和middleware
func NewApp(conf *Config) (*App, error) {
	if conf == nil {
		return nil, errors.New("no config")
	}
	conf.setDefaults()
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	store := counter.NewStoreWithShard(conf.Store.Shards)
	metrics := NewMetrics(store)
	controller := NewCounterController(store, metrics)

	httpConf := dhttp.NewConfig(conf.HTTP.Addr)
	httpConf.ReadTimeout = conf.HTTP.ReadTimeout
	httpConf.WriteTimeout = conf.HTTP.WriteTimeout
	httpConf.MaxConns = conf.HTTP.MaxConns

	middlewares := []dhttp.Middleware{dhttp.Recover(), dhttp.RequestID(), dhttp.AccessLog()}
	if conf.HTTP.RateLimit > 0 {
		middlewares = append(middlewares, dhttp.RateLimit(conf.HTTP.RateLimit, conf.HTTP.RateBurst))
	}
	if conf.HTTP.GzipEnabled() {
		middlewares = append(middlewares, dhttp.Gzip())
	}
	for _, m := range middlewares {
		if err := httpConf.RegMiddleware(m); err != nil {
			return nil, err
		}
	}

	if err := httpConf.RegController(controller); err != nil {
		return nil, err
	}
	if err := httpConf.RegHandler("GET /metrics", metrics.Handler()); err != nil {
		return nil, err
	}

	return &App{
		BaseService: c.BaseService{SName: "counterd"},
		Conf:        conf,
		Store:       store,
		Metrics:     metrics,
		Controller:  controller,
		HTTPConf:    httpConf,
		HTTP:        dhttp.NewService("counterd-http", httpConf),
	}, nil
}

// Handler 返回App的http.Handler,不监听端口
func (p *App) Handler() (http.Handler, error) {
	return p.HTTPConf.Handler()
}

// Init implements common.Service
func (p *App) Init() error {
	return p.HTTP.Init()
}

// Start implements common.Service
func (p *App) Start() bool {
	if !p.HTTP.Start() {
		return false
	}
	c.Infof("%s started at %s", p.Name(), p.HTTP.Addr())
	return true
}

// Stop implements common.Service
func (p *App) Stop() bool {
	ok := p.HTTP.Stop()
	c.Infof("%s stopped,live counters:%d", p.Name(), p.Store.Len())
	return ok
}
