package types

import (
	"errors"
	"fmt"
)

// ErrNegativeLife 表示请求有效期为负（发出任何网络请求前校验）
var ErrNegativeLife = errors.New("request life is negative")

// ValidationError 枚举取值等参数校验失败（发出任何网络请求前抛出）
type ValidationError struct {
	Field string
	Value string
	Allow string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%q isn't a valid %s. Choose from %s.", e.Value, e.Field, e.Allow)
}

// AuthError 账号凭据缺失或不可用，发出请求前就能确定签名必然无效
type AuthError struct {
	Account string
	Reason  string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("account %s: %s", e.Account, e.Reason)
}

// ApiError 交易所返回非 200 响应。name 与 message 取自
// {"error": {"name", "message"}} 错误信封。
type ApiError struct {
	Status  int
	Name    string
	Message string
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Name, e.Message)
}

// TransportError 网络层失败（超时、DNS、TLS 等），与交易所错误区分开
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "transport: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
