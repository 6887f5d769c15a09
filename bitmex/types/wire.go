package types

import "strconv"

// BitMEX REST 响应的反序列化结构。只声明核心层用得到的字段，
// 其余字段原样留在 json.RawMessage 里由调用方自行处理。

// Margin /user/margin 响应。货币金额单位为 satoshi（×1e-8 BTC）。
type Margin struct {
	Account            int64  `json:"account"`
	Currency           string `json:"currency"`
	AvailableMargin    int64  `json:"availableMargin"`
	WalletBalance      int64  `json:"walletBalance"`
	MarginBalance      int64  `json:"marginBalance"`
	UnrealisedPnl      int64  `json:"unrealisedPnl"`
	RealisedPnl        int64  `json:"realisedPnl"`
	WithdrawableMargin int64  `json:"withdrawableMargin"`
}

// Instrument /instrument 响应
type Instrument struct {
	Symbol     string   `json:"symbol"`
	State      string   `json:"state"`
	TickSize   float64  `json:"tickSize"`
	IsInverse  bool     `json:"isInverse"`
	Multiplier float64  `json:"multiplier"`
	LastPrice  *float64 `json:"lastPrice"`
	BidPrice   *float64 `json:"bidPrice"`
	MidPrice   *float64 `json:"midPrice"`
	AskPrice   *float64 `json:"askPrice"`
}

// Price 按 PriceKind 取价格字段
func (i *Instrument) Price(kind PriceKind) (float64, bool) {
	var p *float64
	switch kind {
	case PriceKindLast:
		p = i.LastPrice
	case PriceKindBid:
		p = i.BidPrice
	case PriceKindMid:
		p = i.MidPrice
	case PriceKindAsk:
		p = i.AskPrice
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Order /order 响应
type Order struct {
	OrderID        string   `json:"orderID"`
	ClOrdID        string   `json:"clOrdID"`
	Symbol         string   `json:"symbol"`
	Side           Side     `json:"side"`
	OrderQty       int64    `json:"orderQty"`
	LeavesQty      int64    `json:"leavesQty"`
	Price          *float64 `json:"price"`
	StopPx         *float64 `json:"stopPx"`
	DisplayQty     *int64   `json:"displayQty"`
	AvgPx          *float64 `json:"avgPx"`
	OrdType        OrdType  `json:"ordType"`
	OrdStatus      string   `json:"ordStatus"`
	TimeInForce    string   `json:"timeInForce"`
	ExecInst       string   `json:"execInst"`
	PegOffsetValue *float64 `json:"pegOffsetValue"`
	Text           string   `json:"text"`
	TransactTime   string   `json:"transactTime"`
}

// Position /position 响应。posMargin / unrealisedPnl / realisedPnl /
// riskLimit 单位为 satoshi。
type Position struct {
	Symbol            string   `json:"symbol"`
	CurrentQty        int64    `json:"currentQty"`
	HomeNotional      float64  `json:"homeNotional"`
	ForeignNotional   float64  `json:"foreignNotional"`
	AvgEntryPrice     *float64 `json:"avgEntryPrice"`
	MarkPrice         *float64 `json:"markPrice"`
	LiquidationPrice  *float64 `json:"liquidationPrice"`
	PosMargin         int64    `json:"posMargin"`
	Leverage          float64  `json:"leverage"`
	CrossMargin       bool     `json:"crossMargin"`
	UnrealisedPnl     int64    `json:"unrealisedPnl"`
	UnrealisedRoePcnt float64  `json:"unrealisedRoePcnt"`
	RealisedPnl       int64    `json:"realisedPnl"`
	RiskLimit         *int64   `json:"riskLimit"`
	IsOpen            bool     `json:"isOpen"`
}

// LeverageLabel 杠杆展示值（全仓显示 cross）
func (p *Position) LeverageLabel() string {
	if p.CrossMargin {
		return "cross"
	}
	return strconv.FormatFloat(p.Leverage, 'f', -1, 64)
}
