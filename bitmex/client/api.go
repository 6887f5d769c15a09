package client

import (
	"encoding/json"
	"net/http"

	"github.com/mexbot/gomex/bitmex/types"
)

// Call 一次具体 api 调用的函数形态。扇出引擎以该形态接收调用，
// Client 的各方法值（如 c.PlaceOrder）都满足它。
type Call func(host, key, secret string, life int64, params types.Params) (json.RawMessage, error)

// GetInstruments GET /instrument
//
// params: symbol, filter, columns, count, start, reverse, startTime, endTime
func (c *Client) GetInstruments(host, key, secret string, life int64, params types.Params) (json.RawMessage, error) {
	return c.Get(host, key, secret, EndpointInstrument, life, params)
}

// GetOrders GET /order
//
// params: symbol, filter, columns, count, start, reverse, startTime, endTime
func (c *Client) GetOrders(host, key, secret string, life int64, params types.Params) (json.RawMessage, error) {
	return c.Get(host, key, secret, EndpointOrder, life, params)
}

// AmendOrder PUT /order
//
// params: orderID / origClOrdID, clOrdID, orderQty, leavesQty, price,
// stopPx, pegOffsetValue, text
func (c *Client) AmendOrder(host, key, secret string, life int64, params types.Params) (json.RawMessage, error) {
	return c.Mutate(host, key, secret, EndpointOrder, http.MethodPut, life, params)
}

// PlaceOrder POST /order
//
// params: symbol, side, orderQty, price, ordType, timeInForce, execInst,
// stopPx, displayQty, pegOffsetValue, clOrdID, text。
// 注意 price 与 stopPx 只接受按 instrument tick 取整过的值。
func (c *Client) PlaceOrder(host, key, secret string, life int64, params types.Params) (json.RawMessage, error) {
	return c.Mutate(host, key, secret, EndpointOrder, http.MethodPost, life, params)
}

// CancelOrders DELETE /order
//
// params: orderID / origClOrdID（逗号分隔的列表）, text
func (c *Client) CancelOrders(host, key, secret string, life int64, params types.Params) (json.RawMessage, error) {
	return c.Mutate(host, key, secret, EndpointOrder, http.MethodDelete, life, params)
}

// CancelAll DELETE /order/all
//
// params: symbol, filter, text
func (c *Client) CancelAll(host, key, secret string, life int64, params types.Params) (json.RawMessage, error) {
	return c.Mutate(host, key, secret, EndpointOrderAll, http.MethodDelete, life, params)
}

// CancelAllAfter POST /cancelAllAfter
//
// 超时后撤销全部订单，重复调用会重置计时器。params: timeout（毫秒）
func (c *Client) CancelAllAfter(host, key, secret string, life int64, params types.Params) (json.RawMessage, error) {
	return c.Mutate(host, key, secret, EndpointCancelAllAfter, http.MethodPost, life, params)
}

// GetPositions GET /position
//
// params: filter, columns, count
func (c *Client) GetPositions(host, key, secret string, life int64, params types.Params) (json.RawMessage, error) {
	return c.Get(host, key, secret, EndpointPosition, life, params)
}

// SetLeverage POST /position/leverage
//
// params: symbol, leverage（0-100，0 表示全仓）
func (c *Client) SetLeverage(host, key, secret string, life int64, params types.Params) (json.RawMessage, error) {
	return c.Mutate(host, key, secret, EndpointPositionLeverage, http.MethodPost, life, params)
}

// SetRiskLimit POST /position/riskLimit
//
// params: symbol, riskLimit（satoshi）。服务端会取邻近的可用档位。
func (c *Client) SetRiskLimit(host, key, secret string, life int64, params types.Params) (json.RawMessage, error) {
	return c.Mutate(host, key, secret, EndpointPositionRiskLimit, http.MethodPost, life, params)
}

// TransferMargin POST /order/transferMargin
//
// params: symbol, amount（satoshi，可为负）。上游接口已失效，保留。
func (c *Client) TransferMargin(host, key, secret string, life int64, params types.Params) (json.RawMessage, error) {
	return c.Mutate(host, key, secret, EndpointTransferMargin, http.MethodPost, life, params)
}

// GetUserMargin GET /user/margin
//
// params: currency（传 "all" 可取全部币种）
func (c *Client) GetUserMargin(host, key, secret string, life int64, params types.Params) (json.RawMessage, error) {
	return c.Get(host, key, secret, EndpointUserMargin, life, params)
}
