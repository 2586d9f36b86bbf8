package http

import (
	"context"
	"net/http"
)

type key int

const (
	requestIDKey key = iota // 请求id的key
)

// RequestWithContext 向req的context中设置key = val,返回新的request
func RequestWithContext(req *http.Request, key, val interface{}) *http.Request {
	ctx := req.Context()
	ctx = context.WithValue(ctx, key, val)
	return req.WithContext(ctx)
}

// FromRequestContext 从req的context中取得key值
func FromRequestContext(req *http.Request, key interface{}) interface{} {
	return req.Context().Value(key)
}

// RequestIDFromContext 取得RequestID中间件设置的请求id
func RequestIDFromContext(req *http.Request) string {
	id, _ := FromRequestContext(req, requestIDKey).(string)
	return id
}
