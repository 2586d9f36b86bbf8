package http

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/ugorji/go/codec"
)

// 响应的Content-Type
const (
	ContentTypeJSON    = "application/json; charset=utf-8"
	ContentTypeMsgPack = "application/x-msgpack"
	ContentTypeText    = "text/plain; charset=utf-8"
	ContentTypeHTML    = "text/html; charset=utf-8"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var msgpackHandle = &codec.MsgpackHandle{}

func init() {
	msgpackHandle.MapType = reflect.TypeOf(map[string]interface{}(nil))
}

// JSON 返回使用的jsoniter配置
func JSON() jsoniter.API {
	return json
}

// ParseInt64 解析10进制的64位整数,会去掉首尾空白
func ParseInt64(value string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(value), 10, 64)
}

// AcceptMsgPack 判断客户端是否要求msgpack格式的响应
func AcceptMsgPack(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), ContentTypeMsgPack)
}

// RenderJSON 渲染JSON
func RenderJSON(w http.ResponseWriter, status int, jsonData interface{}) {
	data, err := json.Marshal(jsonData)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	w.Write(data)
	w.Write([]byte("\n"))
}

// MsgPackEncodeBytes encode data to bytes use msgpack
func MsgPackEncodeBytes(data interface{}) (b []byte, err error) {
	enc := codec.NewEncoderBytes(&b, msgpackHandle)
	err = enc.Encode(data)
	return
}

// MsgPackDecodeBytes decode bytes to dest use msgpack
func MsgPackDecodeBytes(b []byte, dest interface{}) (err error) {
	if len(b) == 0 {
		return fmt.Errorf("nil bytes to decode")
	}
	dec := codec.NewDecoderBytes(b, msgpackHandle)
	err = dec.Decode(dest)
	return
}

// RenderMsgPack 渲染msgpack
func RenderMsgPack(w http.ResponseWriter, status int, data interface{}) {
	b, err := MsgPackEncodeBytes(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", ContentTypeMsgPack)
	w.WriteHeader(status)
	w.Write(b)
}

// Render 根据请求的Accept选择msgpack或者JSON渲染data
func Render(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if AcceptMsgPack(r) {
		RenderMsgPack(w, status, data)
		return
	}
	RenderJSON(w, status, data)
}

// RenderText 渲染Text
func RenderText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", ContentTypeText)
	w.WriteHeader(status)
	w.Write([]byte(text))
}

// RenderHTML 渲染HTML
func RenderHTML(w http.ResponseWriter, status int, html []byte) {
	w.Header().Set("Content-Type", ContentTypeHTML)
	w.WriteHeader(status)
	w.Write(html)
}

// Response 请求的结果
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// DoURL 使用method请求URL,返回状态码,header和body,非2xx的状态码不作为错误
func DoURL(client *http.Client, method, rawURL string, header http.Header, body []byte) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, rawURL, reader)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: respBody}, nil
}

// GetURL 请求URL,状态码不是200时返回错误
func GetURL(client *http.Client, rawURL string, params url.Values) (string, error) {
	if params != nil {
		rawURL = rawURL + "?" + params.Encode()
	}
	resp, err := DoURL(client, http.MethodGet, rawURL, nil, nil)
	if err != nil {
		return "", err
	}
	if resp.Status != http.StatusOK {
		return "", fmt.Errorf("Status:%d,msg:%s", resp.Status, http.StatusText(resp.Status))
	}
	return strings.TrimSpace(string(resp.Body)), nil
}
