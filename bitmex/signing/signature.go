package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"time"
)

// DefaultLife 请求默认有效期（秒）
const DefaultLife = 5

// Now 签名用的时钟，测试可替换
var Now = time.Now

// Sign 构建 BitMEX 兼容的请求签名。
//
// secret:  api key secret
// verb:    http 动词（GET, POST, ...）
// rawURL:  完整 url 或仅路径
// body:    将要发送的 json 字符串（必须与实际传输字节完全一致，GET 为空串）
// expires: 请求过期的 unix 时间戳
//
// 签名内容为 verb + path[?query] + expires + body 的 HMAC-SHA256，
// 输出小写 hex。
func Sign(secret, verb, rawURL, body string, expires int64) string {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
		if u.RawQuery != "" {
			path = path + "?" + u.RawQuery
		}
	}

	message := verb + path + strconv.FormatInt(expires, 10) + body

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

// Headers 构建 BitMEX 兼容的认证请求头。
// expires = 当前时间 + life 秒。
func Headers(life int64, key, secret, verb, rawURL, body string) map[string]string {
	expires := Now().Unix() + life
	return map[string]string{
		"api-key":       key,
		"api-expires":   strconv.FormatInt(expires, 10),
		"api-signature": Sign(secret, verb, rawURL, body, expires),
		"content-type":  "application/json",
	}
}
