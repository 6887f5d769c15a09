package types

// Side 订单方向
type Side string

const (
	SideBuy  Side = "Buy"
	SideSell Side = "Sell"
)

// Opposite 返回相反方向（止损镜像单使用）
func (s Side) Opposite() Side {
	if s == SideSell {
		return SideBuy
	}
	return SideSell
}

// SideFromSell 根据 sell 标志推导方向
func SideFromSell(sell bool) Side {
	if sell {
		return SideSell
	}
	return SideBuy
}

// OrdType 订单类型（BitMEX ordType 字段）
type OrdType string

const (
	OrdTypeMarket          OrdType = "Market"
	OrdTypeLimit           OrdType = "Limit"
	OrdTypeStop            OrdType = "Stop"
	OrdTypeStopLimit       OrdType = "StopLimit"
	OrdTypeMarketIfTouched OrdType = "MarketIfTouched"
	OrdTypeLimitIfTouched  OrdType = "LimitIfTouched"
)

// TimeInForce 订单有效期
type TimeInForce string

const (
	TimeInForceGoodTillCancel    TimeInForce = "GoodTillCancel"
	TimeInForceImmediateOrCancel TimeInForce = "ImmediateOrCancel"
	TimeInForceFillOrKill        TimeInForce = "FillOrKill"
)

// Valid 检查有效期枚举是否合法
func (t TimeInForce) Valid() bool {
	switch t {
	case TimeInForceGoodTillCancel, TimeInForceImmediateOrCancel, TimeInForceFillOrKill:
		return true
	}
	return false
}

// Trigger 触发价类型（Stop / IfTouched 订单使用）
type Trigger string

const (
	TriggerMark  Trigger = "Mark"
	TriggerLast  Trigger = "Last"
	TriggerIndex Trigger = "Index"
)

// Valid 检查触发类型是否合法
func (t Trigger) Valid() bool {
	switch t {
	case TriggerMark, TriggerLast, TriggerIndex:
		return true
	}
	return false
}

// ExecInst 片段（execInst 由这些标志按顺序以 ", " 连接而成）
const (
	ExecInstPostOnly   = "ParticipateDoNotInitiate"
	ExecInstReduceOnly = "ReduceOnly"
	ExecInstClose      = "Close"
)

// TriggerExecInst 返回触发类型对应的 execInst 片段（MarkPrice / LastPrice / IndexPrice）
func TriggerExecInst(t Trigger) string {
	return string(t) + "Price"
}

// PriceKind 机器人比价使用的价格字段
type PriceKind string

const (
	PriceKindLast PriceKind = "lastPrice"
	PriceKindBid  PriceKind = "bidPrice"
	PriceKindMid  PriceKind = "midPrice"
	PriceKindAsk  PriceKind = "askPrice"
)
