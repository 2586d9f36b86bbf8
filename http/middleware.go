package http

import (
	"net/http"
	"runtime/debug"
	"time"

	c "github.com/d0ngw/namedcounter/common"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Middleware 定义http处理的中间件
type Middleware interface {
	// Handle 包装next,返回新的处理函数
	Handle(next http.HandlerFunc) http.HandlerFunc
}

// MiddlewareFunc 函数形式的Middleware
type MiddlewareFunc func(next http.HandlerFunc) http.HandlerFunc

// Handle implements Middleware
func (f MiddlewareFunc) Handle(next http.HandlerFunc) http.HandlerFunc {
	return f(next)
}

// Chain 依次使用middlewares包装handler,第一个middleware在最外层
func Chain(handler http.Handler, middlewares ...Middleware) http.Handler {
	h := handler.ServeHTTP
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i].Handle(h)
	}
	return http.HandlerFunc(h)
}

// RequestIDHeader 请求id的header
const RequestIDHeader = "X-Request-Id"

// RequestID 从header中取得请求id,没有时生成新的uuid,并写入响应header和request context
func RequestID() Middleware {
	return MiddlewareFunc(func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.New().String()
			}
			w.Header().Set(RequestIDHeader, id)
			next(w, RequestWithContext(r, requestIDKey, id))
		}
	})
}

// statusRecorder 记录响应的状态码和长度
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (p *statusRecorder) WriteHeader(status int) {
	if p.status == 0 {
		p.status = status
	}
	p.ResponseWriter.WriteHeader(status)
}

func (p *statusRecorder) Write(b []byte) (int, error) {
	if p.status == 0 {
		p.status = http.StatusOK
	}
	n, err := p.ResponseWriter.Write(b)
	p.bytes += n
	return n, err
}

func (p *statusRecorder) Flush() {
	if f, ok := p.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap 用于http.ResponseController
func (p *statusRecorder) Unwrap() http.ResponseWriter {
	return p.ResponseWriter
}

// AccessLog 记录访问日志
func AccessLog() Middleware {
	return MiddlewareFunc(func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next(rec, r)
			if !c.InfoEnabled() {
				return
			}
			c.ZapL().Info("access",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Int("bytes", rec.bytes),
				zap.Duration("latency", time.Since(start)),
				zap.String("request_id", RequestIDFromContext(r)),
				zap.String("remote", r.RemoteAddr))
		}
	})
}

// Recover 将处理过程中的panic转为500响应
func Recover() Middleware {
	return MiddlewareFunc(func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if e := recover(); e != nil {
					if e == http.ErrAbortHandler {
						panic(e)
					}
					c.Errorf("handle %s %s panic:%v\n%s", r.Method, r.URL.Path, e, debug.Stack())
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()
			next(w, r)
		}
	})
}

// RateLimit 使用令牌桶限制每秒的请求数,超出时返回429
func RateLimit(limit float64, burst int) Middleware {
	if burst <= 0 {
		burst = int(limit)
		if burst <= 0 {
			burst = 1
		}
	}
	limiter := rate.NewLimiter(rate.Limit(limit), burst)
	return MiddlewareFunc(func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				c.Debugf("rate limited %s %s", r.Method, r.URL.Path)
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next(w, r)
		}
	})
}

// Gzip 对支持gzip的客户端压缩响应
func Gzip() Middleware {
	return MiddlewareFunc(func(next http.HandlerFunc) http.HandlerFunc {
		return gzhttp.GzipHandler(next)
	})
}
