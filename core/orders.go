package core

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mexbot/gomex/bitmex/types"
)

// 订单族。每个族自己校验枚举选项并产出发往 POST /order 的参数集，
// 可选地附带一个镜像止损单。

// StopLoss 入场单的镜像止损配置。止损单方向与主单相反，
// 带 ReduceOnly 与触发价类型 execInst。
type StopLoss struct {
	Price   float64
	Trigger types.Trigger // 空值默认 Last
}

// MarketOrder 市价单
type MarketOrder struct {
	Symbol   string
	Quantity int64
	Sell     bool
	ClOrdID  string
	StopLoss *StopLoss
}

// LimitOrder 限价单
type LimitOrder struct {
	Symbol      string
	Quantity    int64 // 相对下单时忽略，由扇出引擎按账号注入
	Price       float64
	Sell        bool
	PostOnly    bool
	Hidden      bool
	DisplayQty  int64
	TimeInForce types.TimeInForce // 空值默认 GoodTillCancel；PostOnly 时不发送
	ReduceOnly  bool
	ClOrdID     string
	StopLoss    *StopLoss
}

// StopLimitOrder 止损限价单
type StopLimitOrder struct {
	Symbol         string
	Quantity       int64
	Price          float64
	StopPrice      float64
	Sell           bool
	Trigger        types.Trigger // 空值默认 Last
	CloseOnTrigger bool
	PostOnly       bool
	Hidden         bool
	DisplayQty     int64
	TimeInForce    types.TimeInForce
	ClOrdID        string
}

// TakeProfitLimitOrder 止盈限价单（LimitIfTouched）
type TakeProfitLimitOrder struct {
	Symbol         string
	Quantity       int64
	Price          float64
	TriggerPrice   float64
	Sell           bool
	Trigger        types.Trigger
	CloseOnTrigger bool
	PostOnly       bool
	Hidden         bool
	DisplayQty     int64
	TimeInForce    types.TimeInForce
	ClOrdID        string
}

// StopMarketOrder 止损市价单
type StopMarketOrder struct {
	Symbol         string
	Quantity       int64
	StopPrice      float64
	Sell           bool
	Trigger        types.Trigger
	CloseOnTrigger bool
	ClOrdID        string
}

// TakeProfitMarketOrder 止盈市价单（MarketIfTouched）
type TakeProfitMarketOrder struct {
	Symbol         string
	Quantity       int64
	TriggerPrice   float64
	Sell           bool
	Trigger        types.Trigger
	CloseOnTrigger bool
	ClOrdID        string
}

// TrailingStopOrder 跟踪止损单。交易所侧该功能不可用，
// 参数组装保留但不要依赖它真正生效。
type TrailingStopOrder struct {
	Symbol         string
	Quantity       int64
	TrailValue     float64 // 相对现价的偏移量，可为负
	Sell           bool
	Trigger        types.Trigger
	CloseOnTrigger bool
	ClOrdID        string
}

// NewClOrdID 生成自定义订单 id
func NewClOrdID() string {
	return uuid.NewString()
}

// 校验与参数组装

func normalizeTimeInForce(tif types.TimeInForce) (types.TimeInForce, error) {
	if tif == "" {
		return types.TimeInForceGoodTillCancel, nil
	}
	if !tif.Valid() {
		return "", &types.ValidationError{
			Field: "time in force",
			Value: string(tif),
			Allow: "GoodTillCancel, ImmediateOrCancel and FillOrKill",
		}
	}
	return tif, nil
}

func normalizeTrigger(trigger types.Trigger) (types.Trigger, error) {
	if trigger == "" {
		return types.TriggerLast, nil
	}
	if !trigger.Valid() {
		return "", &types.ValidationError{
			Field: "trigger",
			Value: string(trigger),
			Allow: "Mark, Last and Index",
		}
	}
	return trigger, nil
}

// joinExecInst 按组装顺序以 ", " 连接 execInst 片段
func joinExecInst(flags []string) string {
	return strings.Join(flags, ", ")
}

func (o MarketOrder) params() (types.Params, error) {
	p := types.Params{
		"symbol":   o.Symbol,
		"ordType":  types.OrdTypeMarket,
		"orderQty": o.Quantity,
		"side":     types.SideFromSell(o.Sell),
	}
	if o.ClOrdID != "" {
		p["clOrdID"] = o.ClOrdID
	}
	return p, nil
}

func (o LimitOrder) params() (types.Params, error) {
	var execInst []string
	if o.PostOnly {
		execInst = append(execInst, types.ExecInstPostOnly)
	}
	if o.ReduceOnly {
		execInst = append(execInst, types.ExecInstReduceOnly)
	}
	p := types.Params{
		"symbol":   o.Symbol,
		"ordType":  types.OrdTypeLimit,
		"orderQty": o.Quantity,
		"price":    o.Price,
		"execInst": joinExecInst(execInst),
		"side":     types.SideFromSell(o.Sell),
	}
	if !o.PostOnly {
		tif, err := normalizeTimeInForce(o.TimeInForce)
		if err != nil {
			return nil, err
		}
		p["timeInForce"] = tif
	}
	if o.Hidden {
		p["displayQty"] = o.DisplayQty
	}
	if o.ClOrdID != "" {
		p["clOrdID"] = o.ClOrdID
	}
	return p, nil
}

// stopParams Stop / IfTouched 族的公共组装
func stopParams(symbol string, quantity int64, ordType types.OrdType, sell, postOnly, closeOnTrigger bool,
	trigger types.Trigger) (types.Params, error) {
	normalized, err := normalizeTrigger(trigger)
	if err != nil {
		return nil, err
	}
	var execInst []string
	if postOnly {
		execInst = append(execInst, types.ExecInstPostOnly)
	}
	if closeOnTrigger {
		execInst = append(execInst, types.ExecInstClose)
	}
	execInst = append(execInst, types.TriggerExecInst(normalized))
	return types.Params{
		"symbol":   symbol,
		"ordType":  ordType,
		"orderQty": quantity,
		"execInst": joinExecInst(execInst),
		"side":     types.SideFromSell(sell),
	}, nil
}

func (o StopLimitOrder) params() (types.Params, error) {
	p, err := stopParams(o.Symbol, o.Quantity, types.OrdTypeStopLimit, o.Sell, o.PostOnly, o.CloseOnTrigger, o.Trigger)
	if err != nil {
		return nil, err
	}
	p["price"] = o.Price
	p["stopPx"] = o.StopPrice
	if !o.PostOnly {
		tif, err := normalizeTimeInForce(o.TimeInForce)
		if err != nil {
			return nil, err
		}
		p["timeInForce"] = tif
	}
	if o.Hidden {
		p["displayQty"] = o.DisplayQty
	}
	if o.ClOrdID != "" {
		p["clOrdID"] = o.ClOrdID
	}
	return p, nil
}

func (o TakeProfitLimitOrder) params() (types.Params, error) {
	p, err := stopParams(o.Symbol, o.Quantity, types.OrdTypeLimitIfTouched, o.Sell, o.PostOnly, o.CloseOnTrigger, o.Trigger)
	if err != nil {
		return nil, err
	}
	p["price"] = o.Price
	p["stopPx"] = o.TriggerPrice
	if !o.PostOnly {
		tif, err := normalizeTimeInForce(o.TimeInForce)
		if err != nil {
			return nil, err
		}
		p["timeInForce"] = tif
	}
	if o.Hidden {
		p["displayQty"] = o.DisplayQty
	}
	if o.ClOrdID != "" {
		p["clOrdID"] = o.ClOrdID
	}
	return p, nil
}

func (o StopMarketOrder) params() (types.Params, error) {
	p, err := stopParams(o.Symbol, o.Quantity, types.OrdTypeStop, o.Sell, false, o.CloseOnTrigger, o.Trigger)
	if err != nil {
		return nil, err
	}
	p["stopPx"] = o.StopPrice
	if o.ClOrdID != "" {
		p["clOrdID"] = o.ClOrdID
	}
	return p, nil
}

func (o TakeProfitMarketOrder) params() (types.Params, error) {
	p, err := stopParams(o.Symbol, o.Quantity, types.OrdTypeMarketIfTouched, o.Sell, false, o.CloseOnTrigger, o.Trigger)
	if err != nil {
		return nil, err
	}
	p["stopPx"] = o.TriggerPrice
	if o.ClOrdID != "" {
		p["clOrdID"] = o.ClOrdID
	}
	return p, nil
}

func (o TrailingStopOrder) params() (types.Params, error) {
	p, err := stopParams(o.Symbol, o.Quantity, types.OrdTypeStop, o.Sell, false, o.CloseOnTrigger, o.Trigger)
	if err != nil {
		return nil, err
	}
	p["pegOffsetValue"] = o.TrailValue
	if o.ClOrdID != "" {
		p["clOrdID"] = o.ClOrdID
	}
	return p, nil
}

// mirrorParams 从主单参数派生镜像止损单参数：去掉限价、改为 Stop、
// 方向取反、execInst 换成 ReduceOnly + 触发价类型。
func mirrorParams(primary types.Params, sl StopLoss) (types.Params, error) {
	trigger, err := normalizeTrigger(sl.Trigger)
	if err != nil {
		return nil, err
	}
	p := primary.Clone()
	delete(p, "price")
	delete(p, "clOrdID")
	p["ordType"] = types.OrdTypeStop
	p["stopPx"] = sl.Price
	side, _ := p["side"].(types.Side)
	p["side"] = side.Opposite()
	p["execInst"] = joinExecInst([]string{types.ExecInstReduceOnly, types.TriggerExecInst(trigger)})
	return p, nil
}

// 下单入口。固定数量的族对每个账号发同样的参数；relative 族先算出
// 每合约保证金，再由扇出引擎按账号注入 orderQty。

// OrderMarket 对每个账号发市价单
func (c *Core) OrderMarket(names []string, o MarketOrder) ([]Result, error) {
	p, err := o.params()
	if err != nil {
		return nil, err
	}
	return c.placeWithMirror(names, p, o.StopLoss)
}

// OrderLimit 对每个账号发限价单
func (c *Core) OrderLimit(names []string, o LimitOrder) ([]Result, error) {
	p, err := o.params()
	if err != nil {
		return nil, err
	}
	return c.placeWithMirror(names, p, o.StopLoss)
}

// placeWithMirror 固定数量入场单的公共路径：先主单扇出，主单批次
// 全部成功后再对同一批账号扇出镜像止损单。两轮是独立的扇出操作，
// 不构成原子动作。
func (c *Core) placeWithMirror(names []string, primary types.Params, sl *StopLoss) ([]Result, error) {
	var mirror types.Params
	if sl != nil {
		p, err := mirrorParams(primary, *sl)
		if err != nil {
			return nil, err
		}
		mirror = p
	}
	results, err := c.ForEachAccount(names, c.api.PlaceOrder, primary)
	if err != nil || mirror == nil {
		return results, err
	}
	_, err = c.ForEachAccount(names, c.api.PlaceOrder, mirror)
	return results, err
}

// OrderLimitRelative 按可用保证金比例对每个账号发限价单。
// 每合约保证金只用第一个账号查一次，批次内共用；各账号的
// orderQty 再按各自的可用保证金推导。
//
// 配置了止损时，镜像单数量从各账号主单响应里读回 orderQty，
// 只给主单成功的账号发镜像；镜像失败并入聚合错误。
func (c *Core) OrderLimitRelative(names []string, o LimitOrder, percent float64, force ForceOptions) ([]Result, error) {
	if len(names) == 0 {
		return nil, ErrNoAccounts
	}
	p, err := o.params()
	if err != nil {
		return nil, err
	}
	delete(p, "orderQty")
	var mirror types.Params
	if o.StopLoss != nil {
		m, err := mirrorParams(p, *o.StopLoss)
		if err != nil {
			return nil, err
		}
		mirror = m
	}
	marginPerContract, err := c.MarginPerContract(names[0], o.Symbol, o.Price, force)
	if err != nil {
		return nil, errors.Wrapf(err, "wasn't able to find out %s's margin per contract", o.Symbol)
	}
	results, fanErr := c.ForEachRelative(names, c.api.PlaceOrder, percent, marginPerContract, p)
	return c.mirrorSuccessful(results, fanErr, mirror)
}

// OrderMarketRelative 按可用保证金比例对每个账号发市价单。市价单
// 不带限价，每合约保证金按调用方给的参考价（通常是当前市价）计算。
// 止损镜像的规则与 OrderLimitRelative 相同。
func (c *Core) OrderMarketRelative(names []string, o MarketOrder, percent, refPrice float64, force ForceOptions) ([]Result, error) {
	if len(names) == 0 {
		return nil, ErrNoAccounts
	}
	p, err := o.params()
	if err != nil {
		return nil, err
	}
	delete(p, "orderQty")
	var mirror types.Params
	if o.StopLoss != nil {
		m, err := mirrorParams(p, *o.StopLoss)
		if err != nil {
			return nil, err
		}
		mirror = m
	}
	marginPerContract, err := c.MarginPerContract(names[0], o.Symbol, refPrice, force)
	if err != nil {
		return nil, errors.Wrapf(err, "wasn't able to find out %s's margin per contract", o.Symbol)
	}
	results, fanErr := c.ForEachRelative(names, c.api.PlaceOrder, percent, marginPerContract, p)
	return c.mirrorSuccessful(results, fanErr, mirror)
}

// mirrorSuccessful 给主单成功的账号补发镜像止损单，数量取自各账号
// 主单响应里的 orderQty。镜像失败并入聚合错误。
func (c *Core) mirrorSuccessful(results []Result, fanErr error, mirror types.Params) ([]Result, error) {
	if mirror == nil {
		return results, fanErr
	}
	agg := &AggregateError{}
	if fanErr != nil {
		var existing *AggregateError
		if errors.As(fanErr, &existing) {
			agg = existing
		} else {
			return results, fanErr
		}
	}
	for _, result := range results {
		var placed types.Order
		if err := json.Unmarshal(result.Response, &placed); err != nil {
			failed := result.Account
			agg.Add(&failed, errors.Wrap(err, "decode placed order"))
			continue
		}
		sized := mirror.Clone()
		sized["orderQty"] = placed.OrderQty
		if _, err := c.ForOneAccount(result.Account.Name, c.api.PlaceOrder, sized); err != nil {
			failed := result.Account
			agg.Add(&failed, err)
		}
	}
	return results, agg.AsError()
}

// OrderStopLimit 对每个账号发止损限价单
func (c *Core) OrderStopLimit(names []string, o StopLimitOrder) ([]Result, error) {
	p, err := o.params()
	if err != nil {
		return nil, err
	}
	return c.ForEachAccount(names, c.api.PlaceOrder, p)
}

// OrderStopLimitRelative 按可用保证金比例对每个账号发止损限价单
func (c *Core) OrderStopLimitRelative(names []string, o StopLimitOrder, percent float64, force ForceOptions) ([]Result, error) {
	if len(names) == 0 {
		return nil, ErrNoAccounts
	}
	p, err := o.params()
	if err != nil {
		return nil, err
	}
	delete(p, "orderQty")
	marginPerContract, err := c.MarginPerContract(names[0], o.Symbol, o.Price, force)
	if err != nil {
		return nil, errors.Wrapf(err, "wasn't able to find out %s's margin per contract", o.Symbol)
	}
	return c.ForEachRelative(names, c.api.PlaceOrder, percent, marginPerContract, p)
}

// OrderTakeProfitLimit 对每个账号发止盈限价单
func (c *Core) OrderTakeProfitLimit(names []string, o TakeProfitLimitOrder) ([]Result, error) {
	p, err := o.params()
	if err != nil {
		return nil, err
	}
	return c.ForEachAccount(names, c.api.PlaceOrder, p)
}

// OrderTakeProfitLimitRelative 按可用保证金比例对每个账号发止盈限价单
func (c *Core) OrderTakeProfitLimitRelative(names []string, o TakeProfitLimitOrder, percent float64, force ForceOptions) ([]Result, error) {
	if len(names) == 0 {
		return nil, ErrNoAccounts
	}
	p, err := o.params()
	if err != nil {
		return nil, err
	}
	delete(p, "orderQty")
	marginPerContract, err := c.MarginPerContract(names[0], o.Symbol, o.Price, force)
	if err != nil {
		return nil, errors.Wrapf(err, "wasn't able to find out %s's margin per contract", o.Symbol)
	}
	return c.ForEachRelative(names, c.api.PlaceOrder, percent, marginPerContract, p)
}

// OrderStopMarket 对每个账号发止损市价单
func (c *Core) OrderStopMarket(names []string, o StopMarketOrder) ([]Result, error) {
	p, err := o.params()
	if err != nil {
		return nil, err
	}
	return c.ForEachAccount(names, c.api.PlaceOrder, p)
}

// OrderTakeProfitMarket 对每个账号发止盈市价单
func (c *Core) OrderTakeProfitMarket(names []string, o TakeProfitMarketOrder) ([]Result, error) {
	p, err := o.params()
	if err != nil {
		return nil, err
	}
	return c.ForEachAccount(names, c.api.PlaceOrder, p)
}

// OrderTrailingStop 对每个账号发跟踪止损单。交易所侧不可用，慎用。
func (c *Core) OrderTrailingStop(names []string, o TrailingStopOrder) ([]Result, error) {
	p, err := o.params()
	if err != nil {
		return nil, err
	}
	return c.ForEachAccount(names, c.api.PlaceOrder, p)
}
