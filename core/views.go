package core

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/mexbot/gomex/bitmex/types"
)

// 监控视图与账号级操作。视图把各账号的原始响应整形为扁平的行，
// 金额统一换算为 BTC，展示端拿到就能直接渲染。

// historyCount 历史订单每个账号取多少条
const historyCount = 20

// PositionView 单个账号在某个 symbol 上的持仓行
type PositionView struct {
	Account           string
	Symbol            string
	Size              int64
	EntryPrice        *float64
	MarkPrice         *float64
	LiquidationPrice  *float64
	Margin            float64
	Leverage          string
	UnrealisedPnl     float64
	UnrealisedRoePcnt float64
	RealisedPnl       float64
}

func positionView(account string, p types.Position) PositionView {
	return PositionView{
		Account:           account,
		Symbol:            p.Symbol,
		Size:              p.CurrentQty,
		EntryPrice:        p.AvgEntryPrice,
		MarkPrice:         p.MarkPrice,
		LiquidationPrice:  p.LiquidationPrice,
		Margin:            SignificantFigures(satoshiToBTC(p.PosMargin), SignificantFigureCount),
		Leverage:          p.LeverageLabel(),
		UnrealisedPnl:     SignificantFigures(satoshiToBTC(p.UnrealisedPnl), SignificantFigureCount),
		UnrealisedRoePcnt: p.UnrealisedRoePcnt,
		RealisedPnl:       SignificantFigures(satoshiToBTC(p.RealisedPnl), SignificantFigureCount),
	}
}

func (c *Core) positions(names []string, filter map[string]any) ([]PositionView, error) {
	results, err := c.ForEachAccount(names, c.api.GetPositions, types.Params{"filter": filter})
	if err != nil {
		return nil, err
	}
	var views []PositionView
	for _, result := range results {
		var positions []types.Position
		if err := json.Unmarshal(result.Response, &positions); err != nil {
			return nil, errors.Wrapf(err, "decode positions for %s", result.Account.Name)
		}
		for _, p := range positions {
			views = append(views, positionView(result.Account.Name, p))
		}
	}
	return views, nil
}

// PositionInfo 取每个账号在指定 symbol 上的持仓
func (c *Core) PositionInfo(names []string, symbol string) ([]PositionView, error) {
	return c.positions(names, map[string]any{"symbol": symbol})
}

// PositionInfoAll 取每个账号的全部未平仓持仓
func (c *Core) PositionInfoAll(names []string) ([]PositionView, error) {
	return c.positions(names, map[string]any{"isOpen": true})
}

// OverviewRow 行情总览的一行：一个交易中的 instrument 加上该账号
// 在其上的持仓数量（无持仓为 0）
type OverviewRow struct {
	Symbol    string
	LastPrice *float64
	Size      int64
}

// InstrumentOverview 单账号视角的行情总览。把全部 Open 状态的
// instrument 和该账号的未平仓持仓做一次连接。
func (c *Core) InstrumentOverview(accountName string) ([]OverviewRow, error) {
	result, err := c.ForOneAccount(accountName, c.api.GetInstruments,
		types.Params{"filter": map[string]any{"state": "Open"}})
	if err != nil {
		return nil, err
	}
	var instruments []types.Instrument
	if err := json.Unmarshal(result.Response, &instruments); err != nil {
		return nil, errors.Wrap(err, "decode instruments")
	}
	posResult, err := c.ForOneAccount(accountName, c.api.GetPositions,
		types.Params{"filter": map[string]any{"isOpen": true}})
	if err != nil {
		return nil, err
	}
	var positions []types.Position
	if err := json.Unmarshal(posResult.Response, &positions); err != nil {
		return nil, errors.Wrap(err, "decode positions")
	}
	sizes := make(map[string]int64, len(positions))
	for _, p := range positions {
		sizes[p.Symbol] = p.CurrentQty
	}
	rows := make([]OverviewRow, 0, len(instruments))
	for _, instrument := range instruments {
		rows = append(rows, OverviewRow{
			Symbol:    instrument.Symbol,
			LastPrice: instrument.LastPrice,
			Size:      sizes[instrument.Symbol],
		})
	}
	return rows, nil
}

// OrderView 单个账号的一条订单行
type OrderView struct {
	Account      string
	OrderID      string
	ClOrdID      string
	Symbol       string
	Side         types.Side
	OrderQty     int64
	LeavesQty    int64
	Price        *float64
	StopPx       *float64
	DisplayQty   *int64
	AvgPx        *float64
	OrdType      types.OrdType
	OrdStatus    string
	ExecInst     string
	Text         string
	TransactTime string
}

func orderView(account string, o types.Order) OrderView {
	return OrderView{
		Account:      account,
		OrderID:      o.OrderID,
		ClOrdID:      o.ClOrdID,
		Symbol:       o.Symbol,
		Side:         o.Side,
		OrderQty:     o.OrderQty,
		LeavesQty:    o.LeavesQty,
		Price:        o.Price,
		StopPx:       o.StopPx,
		DisplayQty:   o.DisplayQty,
		AvgPx:        o.AvgPx,
		OrdType:      o.OrdType,
		OrdStatus:    o.OrdStatus,
		ExecInst:     o.ExecInst,
		Text:         o.Text,
		TransactTime: o.TransactTime,
	}
}

func (c *Core) orders(names []string, params types.Params) ([]OrderView, error) {
	results, err := c.ForEachAccount(names, c.api.GetOrders, params)
	if err != nil {
		return nil, err
	}
	var views []OrderView
	for _, result := range results {
		var orders []types.Order
		if err := json.Unmarshal(result.Response, &orders); err != nil {
			return nil, errors.Wrapf(err, "decode orders for %s", result.Account.Name)
		}
		for _, o := range orders {
			views = append(views, orderView(result.Account.Name, o))
		}
	}
	return views, nil
}

// ActiveOrderInfo 取每个账号的活动委托（未触发的条件单不在其中）。
// symbol 为空时不按 symbol 过滤。
func (c *Core) ActiveOrderInfo(names []string, symbol string) ([]OrderView, error) {
	filter := map[string]any{"open": true}
	if symbol != "" {
		filter["symbol"] = symbol
	}
	views, err := c.orders(names, types.Params{"filter": filter, "reverse": true})
	if err != nil {
		return nil, err
	}
	active := views[:0]
	for _, v := range views {
		if v.StopPx == nil {
			active = append(active, v)
		}
	}
	return active, nil
}

// StopOrderInfo 取每个账号的未触发条件单（带 stopPx 的开放订单）
func (c *Core) StopOrderInfo(names []string, symbol string) ([]OrderView, error) {
	filter := map[string]any{"open": true}
	if symbol != "" {
		filter["symbol"] = symbol
	}
	views, err := c.orders(names, types.Params{"filter": filter, "reverse": true})
	if err != nil {
		return nil, err
	}
	stops := views[:0]
	for _, v := range views {
		if v.StopPx != nil {
			stops = append(stops, v)
		}
	}
	return stops, nil
}

// HistoryOrderInfo 取每个账号最近的订单记录，按时间倒序每账号最多
// 20 条。symbol 为空时不按 symbol 过滤。
func (c *Core) HistoryOrderInfo(names []string, symbol string) ([]OrderView, error) {
	params := types.Params{"count": historyCount, "reverse": true}
	if symbol != "" {
		params["filter"] = map[string]any{"symbol": symbol}
	}
	return c.orders(names, params)
}

// 订单修改与撤销。修改按 orderID 对每个账号尝试一次，订单只存在于
// 某一个账号时其余账号会记入聚合错误。

// SetOrderQty 修改订单数量
func (c *Core) SetOrderQty(names []string, orderID string, quantity int64) ([]Result, error) {
	return c.ForEachAccount(names, c.api.AmendOrder,
		types.Params{"orderID": orderID, "orderQty": quantity})
}

// SetOrderPrice 修改订单限价
func (c *Core) SetOrderPrice(names []string, orderID string, price float64) ([]Result, error) {
	return c.ForEachAccount(names, c.api.AmendOrder,
		types.Params{"orderID": orderID, "price": price})
}

// SetOrderStopPrice 修改条件单触发价
func (c *Core) SetOrderStopPrice(names []string, orderID string, stopPrice float64) ([]Result, error) {
	return c.ForEachAccount(names, c.api.AmendOrder,
		types.Params{"orderID": orderID, "stopPx": stopPrice})
}

// CancelOrder 按 orderID 撤单
func (c *Core) CancelOrder(names []string, orderID string) ([]Result, error) {
	return c.ForEachAccount(names, c.api.CancelOrders, types.Params{"orderID": orderID})
}

// CancelAllOrders 撤掉每个账号的全部订单。symbol 为空时撤全部 symbol。
func (c *Core) CancelAllOrders(names []string, symbol string) ([]Result, error) {
	params := types.Params{}
	if symbol != "" {
		params["symbol"] = symbol
	}
	return c.ForEachAccount(names, c.api.CancelAll, params)
}

// ClosePosition 市价平掉每个账号在 symbol 上的持仓。不带数量，
// 由交易所按当前持仓决定方向与数量（execInst Close）。
func (c *Core) ClosePosition(names []string, symbol string) ([]Result, error) {
	return c.ForEachAccount(names, c.api.PlaceOrder, types.Params{
		"symbol":   symbol,
		"ordType":  types.OrdTypeMarket,
		"execInst": types.ExecInstClose,
	})
}

// CancelAllAfter 设置死人开关：timeout 毫秒内没有新的请求就撤掉
// 该账号全部订单。timeout 为 0 时关闭开关。
func (c *Core) CancelAllAfter(names []string, timeout int64) ([]Result, error) {
	return c.ForEachAccount(names, c.api.CancelAllAfter, types.Params{"timeout": timeout})
}

// SetLeverage 设置杠杆。leverage 为 0 表示全仓。
func (c *Core) SetLeverage(names []string, symbol string, leverage float64) ([]Result, error) {
	return c.ForEachAccount(names, c.api.SetLeverage,
		types.Params{"symbol": symbol, "leverage": leverage})
}

// SetRiskLimit 设置风险限额，入参单位 BTC
func (c *Core) SetRiskLimit(names []string, symbol string, limitBTC float64) ([]Result, error) {
	return c.ForEachAccount(names, c.api.SetRiskLimit,
		types.Params{"symbol": symbol, "riskLimit": btcToSatoshi(limitBTC)})
}

// TransferMargin 给隔离仓转入（负数转出）保证金，入参单位 BTC
func (c *Core) TransferMargin(names []string, symbol string, amountBTC float64) ([]Result, error) {
	return c.ForEachAccount(names, c.api.TransferMargin,
		types.Params{"symbol": symbol, "amount": btcToSatoshi(amountBTC)})
}
