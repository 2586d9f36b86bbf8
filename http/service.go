package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	c "github.com/d0ngw/namedcounter/common"
	"golang.org/x/net/netutil"
)

// DefaultShutdownTimeout 停止服务时等待处理中请求的最长时间
const DefaultShutdownTimeout = 10 * time.Second

type tcpKeepAliveListener struct {
	*net.TCPListener
}

// Accept 接受连接,并开启TCP keep-alive
func (ln tcpKeepAliveListener) Accept() (net.Conn, error) {
	tc, err := ln.AcceptTCP()
	if err != nil {
		return nil, err
	}
	if err = tc.SetKeepAlive(true); err != nil {
		tc.Close()
		return nil, err
	}
	if err = tc.SetKeepAlivePeriod(3 * time.Minute); err != nil {
		tc.Close()
		return nil, err
	}
	return tc, nil
}

// GraceableHandler 记录处理中的请求,用于安全地关闭
type GraceableHandler struct {
	handler   http.Handler
	waitGroup *sync.WaitGroup
}

func (p *GraceableHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.waitGroup.Add(1)
	defer p.waitGroup.Done()

	p.handler.ServeHTTP(w, r)
}

// Service Http服务
type Service struct {
	c.BaseService
	Conf            *Config
	ShutdownTimeout time.Duration
	listener        net.Listener
	graceHandler    *GraceableHandler
	server          *http.Server
	serveDone       chan struct{}
	lock            sync.Mutex
}

// NewService 创建Http服务
func NewService(name string, conf *Config) *Service {
	return &Service{
		BaseService: c.BaseService{SName: name},
		Conf:        conf,
	}
}

// Init 初始化Http服务
func (p *Service) Init() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.Conf == nil {
		return errors.New("no http config")
	}
	if p.Conf.Addr == "" {
		p.Conf.Addr = ":http"
	}

	handler, err := p.Conf.Handler()
	if err != nil {
		return err
	}

	graceHandler := &GraceableHandler{
		handler:   handler,
		waitGroup: &sync.WaitGroup{}}

	p.graceHandler = graceHandler
	p.server = &http.Server{
		Addr:         p.Conf.Addr,
		ReadTimeout:  p.Conf.ReadTimeout,
		WriteTimeout: p.Conf.WriteTimeout,
		Handler:      graceHandler,
	}
	return nil
}

// Start 启动Http服务,开始端口监听和服务处理
func (p *Service) Start() bool {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.server == nil {
		c.Errorf("http service %s not inited", p.Name())
		return false
	}

	ln, err := net.Listen("tcp", p.Conf.Addr)
	if err != nil {
		c.Errorf("Listen at %s fail,error:%v", p.Conf.Addr, err)
		return false
	}
	c.Infof("Listen at %s", ln.Addr())

	var listener net.Listener = tcpKeepAliveListener{ln.(*net.TCPListener)}
	if p.Conf.MaxConns > 0 {
		listener = netutil.LimitListener(listener, p.Conf.MaxConns)
	}
	p.listener = listener
	p.serveDone = make(chan struct{})

	go func(server *http.Server, done chan struct{}) {
		defer close(done)
		err := server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.Errorf("server.Serve return with %v", err)
		}
	}(p.server, p.serveDone)
	return true
}

// Addr 返回实际监听的地址,未启动时返回配置的地址
func (p *Service) Addr() string {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.listener != nil {
		return p.listener.Addr().String()
	}
	if p.Conf != nil {
		return p.Conf.Addr
	}
	return ""
}

// URL 返回服务的http地址
func (p *Service) URL() string {
	return fmt.Sprintf("http://%s", p.Addr())
}

// Stop 停止Http服务,关闭端口监听并等待处理中的请求完成
func (p *Service) Stop() bool {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.server == nil {
		return true
	}

	timeout := p.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	c.Infof("Waiting shutdown")
	ok := true
	if err := p.server.Shutdown(ctx); err != nil {
		c.Errorf("Shutdown %s error:%v", p.Name(), err)
		p.server.Close()
		ok = false
	}
	if p.serveDone != nil {
		<-p.serveDone
	}
	if ok {
		p.graceHandler.waitGroup.Wait()
	}
	c.Infof("Finish shutdown")

	p.listener = nil
	p.graceHandler = nil
	p.server = nil
	p.serveDone = nil
	return ok
}
