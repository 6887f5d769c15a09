package client

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/mexbot/gomex/bitmex/signing"
	"github.com/mexbot/gomex/bitmex/types"
)

// APIRoot api 调用的根路径
const APIRoot = "/api/v1"

// TimeFormat GET 查询参数中 datetime 的序列化格式（UTC，微秒精度）
const TimeFormat = "2006-01-02T15:04:05.000000Z"

// Client BitMEX REST 传输层。本身不含账号状态，host/key/secret
// 逐次传入，同一个 Client 可服务任意多个账号。
type Client struct {
	rc *resty.Client
}

// New 创建新的传输层客户端
func New() *Client {
	rc := resty.New().
		SetTimeout(30 * time.Second)
	return &Client{rc: rc}
}

// errorEnvelope 非 200 响应的错误信封
type errorEnvelope struct {
	Error struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"error"`
}

// buildURL 拼接完整请求 url。params 中的非字符串值先 json 编码，
// time.Time 按 TimeFormat 渲染，再整体做 query 编码。
func buildURL(host, path string, params types.Params) (string, error) {
	base := strings.TrimSuffix(host, "/") + APIRoot + path
	if len(params) == 0 {
		return base, nil
	}
	values := url.Values{}
	for k, v := range params {
		switch t := v.(type) {
		case string:
			values.Set(k, t)
		case time.Time:
			values.Set(k, t.UTC().Format(TimeFormat))
		default:
			b, err := json.Marshal(v)
			if err != nil {
				return "", errors.Wrapf(err, "encode query param %q", k)
			}
			values.Set(k, string(b))
		}
	}
	return base + "?" + values.Encode(), nil
}

// parse 统一处理响应：200 返回原始 json，其余状态码解析错误信封
func parse(resp *resty.Response, err error) (json.RawMessage, error) {
	if err != nil {
		return nil, &types.TransportError{Err: err}
	}
	body := resp.Body()
	if resp.StatusCode() == http.StatusOK {
		return json.RawMessage(body), nil
	}
	var envelope errorEnvelope
	_ = json.Unmarshal(body, &envelope)
	return nil, &types.ApiError{
		Status:  resp.StatusCode(),
		Name:    envelope.Error.Name,
		Message: envelope.Error.Message,
	}
}

// Get 向 BitMEX 发送 GET 请求。
// life 为请求有效期秒数，负值在发出请求前即报错。
func (c *Client) Get(host, key, secret, path string, life int64, params types.Params) (json.RawMessage, error) {
	if life < 0 {
		return nil, errors.Wrapf(types.ErrNegativeLife, "request life of %d", life)
	}
	reqURL, err := buildURL(host, path, params)
	if err != nil {
		return nil, err
	}
	headers := signing.Headers(life, key, secret, http.MethodGet, reqURL, "")
	return parse(c.rc.R().SetHeaders(headers).Get(reqURL))
}

// Mutate 向 BitMEX 发送 PUT / POST / DELETE 请求。
// params 序列化为单个 json 对象作为请求体，签名覆盖与实际传输
// 完全一致的字节。
func (c *Client) Mutate(host, key, secret, path, verb string, life int64, params types.Params) (json.RawMessage, error) {
	if life < 0 {
		return nil, errors.Wrapf(types.ErrNegativeLife, "request life of %d", life)
	}
	switch verb {
	case http.MethodPut, http.MethodPost, http.MethodDelete:
	default:
		return nil, errors.Errorf("unrecognized http operation: %s", verb)
	}
	reqURL, err := buildURL(host, path, nil)
	if err != nil {
		return nil, err
	}
	if params == nil {
		params = types.Params{}
	}
	body, err := json.Marshal(params)
	if err != nil {
		return nil, errors.Wrap(err, "encode request body")
	}
	headers := signing.Headers(life, key, secret, verb, reqURL, string(body))
	req := c.rc.R().SetHeaders(headers).SetBody(body)
	switch verb {
	case http.MethodPut:
		return parse(req.Put(reqURL))
	case http.MethodPost:
		return parse(req.Post(reqURL))
	default:
		return parse(req.Delete(reqURL))
	}
}
