package http

import (
	"fmt"
	"net/http"
	"reflect"
	"unicode"
)

// Controller 接口定义http处理器
type Controller interface {
	// GetName 控制器的名称
	GetName() string
	// GetPath 路径前缀,以'/'结束
	GetPath() string
	// GetHandlers 返回controller的所有处理方法,key为路径或者完整的ServeMux pattern,value为对应的处理方法
	GetHandlers() (map[string]http.HandlerFunc, error)
}

// BaseController 表示一个控制器
type BaseController struct {
	Name string // Controller的名称
	Path string // Controller的路径
	// PatternMethods ServeMux pattern到处理方法名的映射,例如"GET /counters/{counter}" -> "Read",
	// 配置了PatternMethods时pattern按原样注册,不再拼接Path
	PatternMethods map[string]string
}

// GetName 控制器名称
func (p *BaseController) GetName() string {
	return p.Name
}

// GetPath 控制器路径
func (p *BaseController) GetPath() string {
	return p.Path
}

// GetPatternMethods 取得pattern到方法名的映射
func (p *BaseController) GetPatternMethods() map[string]string {
	return p.PatternMethods
}

type patternMethodsGetter interface {
	GetPatternMethods() map[string]string
}

var (
	handlerFuncType = reflect.TypeOf(http.HandlerFunc(nil))
)

// ReflectHandlers 查找controller中类型为http.HandlerFunc的可导出方法.
// 如果controller配置了PatternMethods,按照其中的映射返回;否则将驼峰命名改为下划线分隔的路径,
// 例如Index -> index,GetUser -> get_user
func ReflectHandlers(controller Controller) (handlers map[string]http.HandlerFunc, err error) {
	val := reflect.ValueOf(controller)
	if !val.IsValid() || val.Kind() != reflect.Ptr {
		return nil, fmt.Errorf("controller must be a valid pointer")
	}

	methods := map[string]http.HandlerFunc{}
	controllerType := val.Type()
	for i := 0; i < val.NumMethod(); i++ {
		methodVal := val.Method(i)
		if methodVal.Type().ConvertibleTo(handlerFuncType) {
			methods[controllerType.Method(i).Name] = methodVal.Convert(handlerFuncType).Interface().(http.HandlerFunc)
		}
	}

	handlers = map[string]http.HandlerFunc{}
	if getter, ok := controller.(patternMethodsGetter); ok && len(getter.GetPatternMethods()) > 0 {
		for pattern, methodName := range getter.GetPatternMethods() {
			h, ok := methods[methodName]
			if !ok {
				return nil, fmt.Errorf("can't find handler method %s for pattern %s in %T", methodName, pattern, controller)
			}
			handlers[pattern] = h
		}
		return handlers, nil
	}

	for name, h := range methods {
		handlers[ToUnderlineName(name)] = h
	}
	return handlers, nil
}

// ToUnderlineName 将驼峰命名改为小写的下划线命名
func ToUnderlineName(camelName string) string {
	nameRune := []rune(camelName)
	normalizeName := make([]rune, 0, len(nameRune))

	for ni := 0; ni < len(nameRune); ni++ {
		if ni != 0 && unicode.IsUpper(nameRune[ni]) && unicode.IsLower(nameRune[ni-1]) {
			normalizeName = append(normalizeName, '_')
		}

		r := nameRune[ni]
		if unicode.IsUpper(nameRune[ni]) {
			r = unicode.ToLower(r)
		}
		normalizeName = append(normalizeName, r)
	}
	return string(normalizeName)
}
