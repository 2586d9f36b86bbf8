// Package http 提供基本的http服务
package http

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	c "github.com/d0ngw/namedcounter/common"
)

// Config Http配置
type Config struct {
	Addr         string        //Http监听地址
	ReadTimeout  time.Duration //读超时
	WriteTimeout time.Duration //写超时
	MaxConns     int           //最大的并发连接数,<=0表示不限制
	middlewares  []Middleware
	patterns     []string
	handles      map[string]http.Handler
	mu           sync.Mutex
}

// NewConfig 创建配置
func NewConfig(addr string) *Config {
	return &Config{
		Addr:    addr,
		handles: map[string]http.Handler{},
	}
}

// RegController 注册controller中的所有处理函数
func (p *Config) RegController(controller Controller) error {
	if controller == nil {
		return fmt.Errorf("Can't reg nil controller")
	}

	var path = controller.GetPath()
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}

	handlers, err := controller.GetHandlers()
	if err != nil {
		return err
	}

	if len(handlers) == 0 {
		c.Warnf("Can't find handler in %T", controller)
		return nil
	}

	for handlerPath, h := range handlers {
		patternPath := handlerPath
		if !isFullPattern(handlerPath) {
			patternPath = path + handlerPath
		}
		if err := p.RegHandleFunc(patternPath, h); err != nil {
			return err
		}
		c.Infof("Register controller %T#%s,pattern:%s", controller, controller.GetName(), patternPath)
	}
	return nil
}

// isFullPattern 判断是否是完整的ServeMux pattern,由反射得到的方法名不会包含空格和'/'
func isFullPattern(pattern string) bool {
	return strings.ContainsAny(pattern, " /")
}

// RegHandleFunc 注册patternPath的处理函数handlerFunc
func (p *Config) RegHandleFunc(patternPath string, handlerFunc http.HandlerFunc) error {
	if handlerFunc == nil {
		return fmt.Errorf("Can't bind nil handlerFunc to path %s", patternPath)
	}
	return p.RegHandler(patternPath, handlerFunc)
}

// RegHandler 注册patternPath的处理器
func (p *Config) RegHandler(patternPath string, handler http.Handler) error {
	if handler == nil {
		return fmt.Errorf("Can't bind nil handler to path %s", patternPath)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.handles[patternPath]; ok {
		return fmt.Errorf("Duplicate ,path:%s", patternPath)
	}
	p.handles[patternPath] = handler
	p.patterns = append(p.patterns, patternPath)
	return nil
}

// RegMiddleware 注册middleware,先注册的middleware在外层
func (p *Config) RegMiddleware(middleware Middleware) error {
	if middleware == nil {
		return fmt.Errorf("invalid middleware")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.middlewares = append(p.middlewares, middleware)
	return nil
}

// Handler 使用注册的处理器和middleware构建http.Handler
func (p *Config) Handler() (http.Handler, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	serveMux := http.NewServeMux()
	for _, pattern := range p.patterns {
		if err := registerPattern(serveMux, pattern, p.handles[pattern]); err != nil {
			return nil, err
		}
	}
	return Chain(serveMux, p.middlewares...), nil
}

// registerPattern ServeMux遇到冲突的pattern会panic,这里转为error
func registerPattern(mux *http.ServeMux, pattern string, handler http.Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("register pattern %s fail,err:%v", pattern, r)
		}
	}()
	mux.Handle(pattern, handler)
	return nil
}
