package core

import (
	"encoding/json"
	"math"

	"github.com/pkg/errors"

	"github.com/mexbot/gomex/accounts"
	"github.com/mexbot/gomex/bitmex/client"
	"github.com/mexbot/gomex/bitmex/signing"
	"github.com/mexbot/gomex/bitmex/types"
)

// ErrNoAccounts 需要至少一个账号来推导参数的操作不接受空账号列表
var ErrNoAccounts = errors.New("no accounts were given")

// ErrInvalidMargin 每合约保证金必须为正，相对数量才有定义
var ErrInvalidMargin = errors.New("margin per contract must be positive")

// Lookup 核心层对账号表的只读视图
type Lookup interface {
	Get(name string) (accounts.Account, error)
	All() []accounts.Account
}

// Core 多账号请求扇出引擎。持有账号表的只读访问和一个传输层
// 客户端，所有交易动作经由它分发到各账号。
type Core struct {
	registry Lookup
	api      *client.Client
	life     int64
}

// New 创建核心引擎。life 使用默认请求有效期。
func New(registry Lookup, api *client.Client) *Core {
	return &Core{
		registry: registry,
		api:      api,
		life:     signing.DefaultLife,
	}
}

// API 返回底层传输客户端（方法值可直接作为扇出调用传入）
func (c *Core) API() *client.Client {
	return c.api
}

// Result 单个账号的成功响应
type Result struct {
	Account  accounts.Account
	Response json.RawMessage
}

// checkCredentials 凭据缺失时在发请求前报 AuthError。
// 存档只存账号名时密钥来自密钥库，漏掉装载这一步会在这里暴露，
// 不用等交易所的 401。
func checkCredentials(account accounts.Account) error {
	if account.Key == "" || account.Secret == "" {
		return &types.AuthError{Account: account.Name, Reason: "missing api credentials"}
	}
	return nil
}

// ForEachAccount 对每个账号执行一次 api 调用。
//
// 单个账号解析失败或调用失败不会中断批次；全部尝试过后，
// 若有任何失败则返回已成功的结果列表加一个 AggregateError。
// 已发出的订单不会回滚。
func (c *Core) ForEachAccount(names []string, call client.Call, params types.Params) ([]Result, error) {
	var results []Result
	agg := &AggregateError{}
	for _, name := range names {
		account, err := c.registry.Get(name)
		if err != nil {
			agg.Add(nil, err)
			continue
		}
		if err := checkCredentials(account); err != nil {
			failed := account
			agg.Add(&failed, err)
			continue
		}
		response, err := call(account.Host, account.Key, account.Secret, c.life, params)
		if err != nil {
			failed := account
			agg.Add(&failed, err)
			continue
		}
		results = append(results, Result{Account: account, Response: response})
	}
	return results, agg.AsError()
}

// ForOneAccount 对单个账号执行一次 api 调用。任何失败立即返回，
// 错误信息带上账号名便于追踪。
func (c *Core) ForOneAccount(name string, call client.Call, params types.Params) (Result, error) {
	account, err := c.registry.Get(name)
	if err != nil {
		return Result{}, err
	}
	if err := checkCredentials(account); err != nil {
		return Result{}, err
	}
	response, err := call(account.Host, account.Key, account.Secret, c.life, params)
	if err != nil {
		return Result{}, errors.Wrap(err, account.Name)
	}
	return Result{Account: account, Response: response}, nil
}

// ForEachRelative 与 ForEachAccount 相同的迭代与续错策略，但在
// 每次调用前按该账号的可用保证金计算 orderQty 并注入参数：
//
//	orderQty = round((percent/100 * availableMargin) / marginPerContract)
//
// 取可用保证金失败时记为该账号的错误并跳过（不发单），批次继续。
// 舍入采用银行家舍入（四舍六入五取偶），不做合约手数对齐。
// marginPerContract 非正时除法没有意义，发出任何请求前即报错。
func (c *Core) ForEachRelative(names []string, call client.Call, percent, marginPerContract float64, params types.Params) ([]Result, error) {
	if marginPerContract <= 0 {
		return nil, ErrInvalidMargin
	}
	var results []Result
	agg := &AggregateError{}
	for _, name := range names {
		account, err := c.registry.Get(name)
		if err != nil {
			agg.Add(nil, err)
			continue
		}
		if err := checkCredentials(account); err != nil {
			failed := account
			agg.Add(&failed, err)
			continue
		}
		available, err := c.AvailableMargin(name)
		if err != nil {
			failed := account
			agg.Add(&failed, err)
			continue
		}
		orderValue := percent / 100.0 * available
		orderQty := int64(math.RoundToEven(orderValue / marginPerContract))
		sized := params.Clone()
		sized["orderQty"] = orderQty
		response, err := call(account.Host, account.Key, account.Secret, c.life, sized)
		if err != nil {
			failed := account
			agg.Add(&failed, err)
			continue
		}
		results = append(results, Result{Account: account, Response: response})
	}
	return results, agg.AsError()
}
