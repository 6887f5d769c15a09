package client

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/mexbot/gomex/bitmex/types"
)

// TestGetSuccess 200 响应应原样返回 json
func TestGetSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/order" {
			t.Errorf("请求路径 = %q，应带 /api/v1 前缀", r.URL.Path)
		}
		if r.Header.Get("api-key") != "k" {
			t.Errorf("api-key 头 = %q", r.Header.Get("api-key"))
		}
		if r.Header.Get("api-signature") == "" {
			t.Error("缺少 api-signature 头")
		}
		w.Write([]byte(`[{"orderID":"abc"}]`))
	}))
	defer server.Close()

	c := New()
	raw, err := c.Get(server.URL, "k", "s", "/order", 5, nil)
	if err != nil {
		t.Fatalf("Get 失败: %v", err)
	}
	var orders []types.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		t.Fatalf("响应不是合法 json: %v", err)
	}
	if len(orders) != 1 || orders[0].OrderID != "abc" {
		t.Errorf("解码结果 = %+v", orders)
	}
}

// TestGetQueryEncoding 非字符串参数先 json 编码，时间按微秒格式渲染
func TestGetQueryEncoding(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := New()
	when := time.Date(2023, 4, 5, 6, 7, 8, 900000000, time.UTC)
	_, err := c.Get(server.URL, "k", "s", "/order", 5, types.Params{
		"filter":    map[string]any{"open": true},
		"count":     20,
		"startTime": when,
	})
	if err != nil {
		t.Fatalf("Get 失败: %v", err)
	}
	values, err := url.ParseQuery(gotQuery)
	if err != nil {
		t.Fatalf("query 解析失败: %v", err)
	}
	if values.Get("filter") != `{"open":true}` {
		t.Errorf("filter = %q", values.Get("filter"))
	}
	if values.Get("count") != "20" {
		t.Errorf("count = %q", values.Get("count"))
	}
	if values.Get("startTime") != "2023-04-05T06:07:08.900000Z" {
		t.Errorf("startTime = %q", values.Get("startTime"))
	}
}

// TestErrorEnvelope 非 200 响应应解析错误信封为 ApiError
func TestErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"name":"HTTPError","message":"Invalid API Key."}}`))
	}))
	defer server.Close()

	c := New()
	_, err := c.Get(server.URL, "bad", "bad", "/order", 5, nil)
	var apiErr *types.ApiError
	if !errors.As(err, &apiErr) {
		t.Fatalf("期望 ApiError，实际 %T: %v", err, err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Errorf("Status = %d", apiErr.Status)
	}
	if apiErr.Name != "HTTPError" || apiErr.Message != "Invalid API Key." {
		t.Errorf("信封解析结果 = %+v", apiErr)
	}
}

// TestNegativeLife 负的请求有效期应在发出任何网络请求之前报错
func TestNegativeLife(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := New()
	if _, err := c.Get(server.URL, "k", "s", "/order", -1, nil); !errors.Is(err, types.ErrNegativeLife) {
		t.Errorf("Get: 期望 ErrNegativeLife，实际 %v", err)
	}
	if _, err := c.Mutate(server.URL, "k", "s", "/order", http.MethodPost, -1, nil); !errors.Is(err, types.ErrNegativeLife) {
		t.Errorf("Mutate: 期望 ErrNegativeLife，实际 %v", err)
	}
	if hits.Load() != 0 {
		t.Errorf("发出了 %d 个请求，应为 0", hits.Load())
	}
}

// TestMutateBody 请求体应为单个 json 对象，nil 参数发送空对象
func TestMutateBody(t *testing.T) {
	var gotBody []byte
	var gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := New()
	if _, err := c.Mutate(server.URL, "k", "s", "/order", http.MethodPost, 5,
		types.Params{"symbol": "XBTUSD", "orderQty": int64(1)}); err != nil {
		t.Fatalf("Mutate 失败: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method = %s", gotMethod)
	}
	var decoded map[string]any
	if err := json.Unmarshal(gotBody, &decoded); err != nil {
		t.Fatalf("请求体不是合法 json: %v", err)
	}
	if decoded["symbol"] != "XBTUSD" {
		t.Errorf("body = %s", gotBody)
	}

	if _, err := c.Mutate(server.URL, "k", "s", "/order", http.MethodDelete, 5, nil); err != nil {
		t.Fatalf("Mutate 失败: %v", err)
	}
	if string(gotBody) != "{}" {
		t.Errorf("nil 参数的请求体 = %q，应为空对象", gotBody)
	}
}

// TestMutateUnknownVerb 不认识的 http 动词直接报错
func TestMutateUnknownVerb(t *testing.T) {
	c := New()
	if _, err := c.Mutate("http://127.0.0.1:0", "k", "s", "/order", "PATCH", 5, nil); err == nil {
		t.Error("PATCH 应该被拒绝")
	}
}
