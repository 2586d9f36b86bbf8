package api

import (
	_ "embed"
	"net/http"
	"time"
	"unicode/utf8"

	c "github.com/d0ngw/namedcounter/common"
	"github.com/d0ngw/namedcounter/counter"
	dhttp "github.com/d0ngw/namedcounter/http"
)

// 错误信息,以JSON字符串的形式返回
const (
	MsgMissing          = "No counter with matching name found"
	MsgConflict         = "A counter with the given name already exists"
	MsgCASExpectation   = "Current value is different from given condition"
	MsgSubzeroCondition = "Condition can never be less than zero"
	MsgBlankName        = "Counter name can not be blank"
	MsgInvalidName      = "Counter name must be valid UTF-8"
	MsgInvalidCondition = "Condition must be an integer"
	MsgOverflow         = "Counter has reached its maximum value"
)

// 路径参数
const (
	paramCounter   = "counter"
	paramCondition = "condition"
)

// listFlushSize 列表输出时缓冲超过该大小就写出
const listFlushSize = 4096

//go:embed readme.html
var readme []byte

//go:embed swagger.json
var swagger []byte

// CounterController 计数器的http接口
type CounterController struct {
	dhttp.BaseController
	Store   *counter.Store
	Metrics *Metrics
}

// NewCounterController 创建计数器接口,metrics可以为nil
func NewCounterController(store *counter.Store, metrics *Metrics) *CounterController {
	return &CounterController{
		BaseController: dhttp.BaseController{
			Name: "counter",
			Path: "/counters/",
			PatternMethods: map[string]string{
				"GET /{$}":                               "Readme",
				"GET /swagger.json":                      "Swagger",
				"GET /counters/{$}":                      "List",
				"GET /counters/{counter}":                "Read",
				"PUT /counters/{counter}":                "Init",
				"DELETE /counters/{counter}":             "Delete",
				"POST /counters/{counter}":               "Increment",
				"DELETE /counters/{counter}/{condition}": "DeleteCAS",
				"POST /counters/{counter}/{condition}":   "IncrementCAS",
			},
		},
		Store:   store,
		Metrics: metrics,
	}
}

// GetHandlers implements http.Controller
func (p *CounterController) GetHandlers() (map[string]http.HandlerFunc, error) {
	return dhttp.ReflectHandlers(p)
}

// Readme 接口文档
func (p *CounterController) Readme(w http.ResponseWriter, r *http.Request) {
	dhttp.RenderHTML(w, http.StatusOK, readme)
}

// Swagger 机器可读的接口描述(Swagger 2.0)
func (p *CounterController) Swagger(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", dhttp.ContentTypeJSON)
	w.WriteHeader(http.StatusOK)
	w.Write(swagger)
}

// List 以JSON对象输出所有的计数器,按名称排序
func (p *CounterController) List(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer p.observe("list", counter.Outcome{Kind: counter.Ok}, start)

	if dhttp.AcceptMsgPack(r) {
		all := map[string]int64{}
		for name, value := range p.Store.List() {
			all[name] = value
		}
		dhttp.RenderMsgPack(w, http.StatusOK, all)
		return
	}

	w.Header().Set("Content-Type", dhttp.ContentTypeJSON)
	w.WriteHeader(http.StatusOK)

	flusher := http.NewResponseController(w)
	stream := dhttp.JSON().BorrowStream(w)
	defer dhttp.JSON().ReturnStream(stream)

	stream.WriteObjectStart()
	first := true
	for name, value := range p.Store.List() {
		if !first {
			stream.WriteMore()
		}
		first = false
		stream.WriteStringWithHTMLEscaped(name)
		stream.WriteRaw(":")
		stream.WriteInt64(value)
		if stream.Buffered() >= listFlushSize {
			if err := stream.Flush(); err != nil {
				c.Warnf("write counter list fail,err:%v", err)
				return
			}
			flusher.Flush()
		}
	}
	stream.WriteObjectEnd()
	stream.WriteRaw("\n")
	if err := stream.Flush(); err != nil {
		c.Warnf("write counter list fail,err:%v", err)
	}
}

// Read 读取计数器的值
func (p *CounterController) Read(w http.ResponseWriter, r *http.Request) {
	name, ok := counterName(w, r)
	if !ok {
		return
	}
	start := time.Now()
	outcome := p.Store.Read(name)
	p.observe("read", outcome, start)
	renderOutcome(w, r, outcome)
}

// Init 创建值为0的计数器
func (p *CounterController) Init(w http.ResponseWriter, r *http.Request) {
	name, ok := counterName(w, r)
	if !ok {
		return
	}
	start := time.Now()
	outcome := p.Store.Init(name)
	p.observe("init", outcome, start)
	renderOutcome(w, r, outcome)
}

// Delete 删除计数器,返回删除前的值
func (p *CounterController) Delete(w http.ResponseWriter, r *http.Request) {
	name, ok := counterName(w, r)
	if !ok {
		return
	}
	start := time.Now()
	outcome := p.Store.Delete(name)
	p.observe("delete", outcome, start)
	renderOutcome(w, r, outcome)
}

// DeleteCAS 计数器的值等于condition时删除计数器
func (p *CounterController) DeleteCAS(w http.ResponseWriter, r *http.Request) {
	name, ok := counterName(w, r)
	if !ok {
		return
	}
	condition, ok := counterCondition(w, r)
	if !ok {
		return
	}
	start := time.Now()
	outcome := p.Store.DeleteCAS(name, condition)
	p.observe("delete_cas", outcome, start)
	renderOutcome(w, r, outcome)
}

// Increment 计数器加1,返回新值
func (p *CounterController) Increment(w http.ResponseWriter, r *http.Request) {
	name, ok := counterName(w, r)
	if !ok {
		return
	}
	start := time.Now()
	outcome := p.Store.Increment(name)
	p.observe("increment", outcome, start)
	renderOutcome(w, r, outcome)
}

// IncrementCAS 计数器的值等于condition时加1,返回新值
func (p *CounterController) IncrementCAS(w http.ResponseWriter, r *http.Request) {
	name, ok := counterName(w, r)
	if !ok {
		return
	}
	condition, ok := counterCondition(w, r)
	if !ok {
		return
	}
	start := time.Now()
	outcome := p.Store.IncrementCAS(name, condition)
	p.observe("increment_cas", outcome, start)
	renderOutcome(w, r, outcome)
}

func (p *CounterController) observe(op string, outcome counter.Outcome, start time.Time) {
	if p.Metrics != nil {
		p.Metrics.Observe(op, outcome, start)
	}
}

func counterName(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := r.PathValue(paramCounter)
	if c.IsBlank(name) {
		dhttp.Render(w, r, http.StatusBadRequest, MsgBlankName)
		return "", false
	}
	if !utf8.ValidString(name) {
		dhttp.Render(w, r, http.StatusBadRequest, MsgInvalidName)
		return "", false
	}
	return name, true
}

func counterCondition(w http.ResponseWriter, r *http.Request) (int64, bool) {
	condition, err := dhttp.ParseInt64(r.PathValue(paramCondition))
	if err != nil {
		c.Debugf("invalid condition %q,err:%v", r.PathValue(paramCondition), err)
		dhttp.Render(w, r, http.StatusBadRequest, MsgInvalidCondition)
		return 0, false
	}
	return condition, true
}

// outcomeStatus 返回outcome对应的http状态码和响应内容
func outcomeStatus(outcome counter.Outcome) (int, interface{}) {
	switch outcome.Kind {
	case counter.Ok:
		return http.StatusOK, outcome.Value
	case counter.Created:
		return http.StatusCreated, nil
	case counter.NotFound:
		return http.StatusNotFound, MsgMissing
	case counter.Conflict:
		if outcome.Reason == counter.ReasonOverflow {
			return http.StatusConflict, MsgOverflow
		}
		return http.StatusConflict, MsgConflict
	case counter.PreconditionFailed:
		return http.StatusExpectationFailed, MsgCASExpectation
	case counter.InvalidArgument:
		if outcome.Reason == counter.ReasonNegativeCondition {
			return http.StatusBadRequest, MsgSubzeroCondition
		}
		return http.StatusBadRequest, outcome.Reason
	default:
		return http.StatusInternalServerError, outcome.String()
	}
}

func renderOutcome(w http.ResponseWriter, r *http.Request, outcome counter.Outcome) {
	status, body := outcomeStatus(outcome)
	if body == nil {
		w.WriteHeader(status)
		return
	}
	dhttp.Render(w, r, status, body)
}
