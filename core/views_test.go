package core

import (
	"net/http"
	"testing"
)

// TestActiveAndStopOrderSplit 开放订单按有无 stopPx 分为活动委托
// 和未触发条件单
func TestActiveAndStopOrderSplit(t *testing.T) {
	ex := newExchange(t)
	ex.orders = `[
	  {"orderID":"o1","symbol":"XBTUSD","side":"Buy","orderQty":10,"price":24000,"ordType":"Limit","ordStatus":"New"},
	  {"orderID":"o2","symbol":"XBTUSD","side":"Sell","orderQty":10,"stopPx":23000,"ordType":"Stop","ordStatus":"New"}
	]`
	c := newTestCore(ex, "alice")

	active, err := c.ActiveOrderInfo([]string{"alice"}, "XBTUSD")
	if err != nil {
		t.Fatalf("ActiveOrderInfo 失败: %v", err)
	}
	if len(active) != 1 || active[0].OrderID != "o1" {
		t.Errorf("活动委托 = %+v", active)
	}
	if active[0].Account != "alice" {
		t.Errorf("订单行应带账号名，实际 %q", active[0].Account)
	}

	stops, err := c.StopOrderInfo([]string{"alice"}, "XBTUSD")
	if err != nil {
		t.Fatalf("StopOrderInfo 失败: %v", err)
	}
	if len(stops) != 1 || stops[0].OrderID != "o2" {
		t.Errorf("条件单 = %+v", stops)
	}
}

// TestPositionInfo 持仓行的金额换算为 BTC
func TestPositionInfo(t *testing.T) {
	ex := newExchange(t)
	ex.positions = `[{
	  "symbol":"XBTUSD","currentQty":-50,"avgEntryPrice":25000,
	  "posMargin":1000000,"leverage":10,"crossMargin":false,
	  "unrealisedPnl":250000,"unrealisedRoePcnt":0.025,"realisedPnl":-50000,"isOpen":true
	}]`
	c := newTestCore(ex, "alice")

	views, err := c.PositionInfo([]string{"alice"}, "XBTUSD")
	if err != nil {
		t.Fatalf("PositionInfo 失败: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("持仓行数 = %d", len(views))
	}
	v := views[0]
	if v.Size != -50 {
		t.Errorf("Size = %d", v.Size)
	}
	if v.Margin != 0.01 {
		t.Errorf("Margin = %v，应换算为 BTC", v.Margin)
	}
	if v.UnrealisedPnl != 0.0025 {
		t.Errorf("UnrealisedPnl = %v", v.UnrealisedPnl)
	}
	if v.Leverage != "10" {
		t.Errorf("Leverage = %q", v.Leverage)
	}
}

// TestPositionLeverageCross 全仓持仓的杠杆展示为 cross
func TestPositionLeverageCross(t *testing.T) {
	ex := newExchange(t)
	ex.positions = `[{"symbol":"XBTUSD","currentQty":1,"crossMargin":true,"leverage":100,"isOpen":true}]`
	c := newTestCore(ex, "alice")

	views, err := c.PositionInfoAll([]string{"alice"})
	if err != nil {
		t.Fatalf("PositionInfoAll 失败: %v", err)
	}
	if views[0].Leverage != "cross" {
		t.Errorf("Leverage = %q", views[0].Leverage)
	}
}

// TestAmendAndCancel 修改与撤销走 /order 的 PUT / DELETE
func TestAmendAndCancel(t *testing.T) {
	ex := newExchange(t)
	c := newTestCore(ex, "alice")

	if _, err := c.SetOrderQty([]string{"alice"}, "oid", 200); err != nil {
		t.Fatalf("SetOrderQty 失败: %v", err)
	}
	if _, err := c.SetOrderPrice([]string{"alice"}, "oid", 24500); err != nil {
		t.Fatalf("SetOrderPrice 失败: %v", err)
	}
	if _, err := c.CancelOrder([]string{"alice"}, "oid"); err != nil {
		t.Fatalf("CancelOrder 失败: %v", err)
	}

	got := ex.mutationsFor("alice")
	if len(got) != 3 {
		t.Fatalf("写请求数 = %d", len(got))
	}
	if got[0].method != http.MethodPut || got[0].body["orderQty"] != float64(200) {
		t.Errorf("修改数量请求 = %+v", got[0])
	}
	if got[1].body["price"] != float64(24500) {
		t.Errorf("修改价格请求 = %+v", got[1])
	}
	if got[2].method != http.MethodDelete || got[2].body["orderID"] != "oid" {
		t.Errorf("撤单请求 = %+v", got[2])
	}
}

// TestSetRiskLimitSatoshi 风险限额入参 BTC，上行转为 satoshi
func TestSetRiskLimitSatoshi(t *testing.T) {
	ex := newExchange(t)
	c := newTestCore(ex, "alice")

	if _, err := c.SetRiskLimit([]string{"alice"}, "XBTUSD", 150); err != nil {
		t.Fatalf("SetRiskLimit 失败: %v", err)
	}
	got := ex.mutationsFor("alice")
	if len(got) != 1 || got[0].path != "/api/v1/position/riskLimit" {
		t.Fatalf("请求 = %+v", got)
	}
	if got[0].body["riskLimit"] != float64(15_000_000_000) {
		t.Errorf("riskLimit = %v，应为 satoshi", got[0].body["riskLimit"])
	}
}

// TestTransferMarginPath 保证金划转沿用 /order/transferMargin 路径
func TestTransferMarginPath(t *testing.T) {
	ex := newExchange(t)
	c := newTestCore(ex, "alice")

	if _, err := c.TransferMargin([]string{"alice"}, "XBTUSD", -0.5); err != nil {
		t.Fatalf("TransferMargin 失败: %v", err)
	}
	got := ex.mutationsFor("alice")
	if len(got) != 1 || got[0].path != "/api/v1/order/transferMargin" {
		t.Fatalf("请求 = %+v", got)
	}
	if got[0].body["amount"] != float64(-50_000_000) {
		t.Errorf("amount = %v", got[0].body["amount"])
	}
}

// TestInstrumentOverview 行情总览把持仓数量并到 instrument 行上
func TestInstrumentOverview(t *testing.T) {
	ex := newExchange(t)
	ex.instruments = `[
	  {"symbol":"XBTUSD","state":"Open","lastPrice":25000},
	  {"symbol":"ETHUSD","state":"Open","lastPrice":1800}
	]`
	ex.positions = `[{"symbol":"ETHUSD","currentQty":7,"isOpen":true}]`
	c := newTestCore(ex, "alice")

	rows, err := c.InstrumentOverview("alice")
	if err != nil {
		t.Fatalf("InstrumentOverview 失败: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("行数 = %d", len(rows))
	}
	if rows[0].Symbol != "XBTUSD" || rows[0].Size != 0 {
		t.Errorf("第一行 = %+v", rows[0])
	}
	if rows[1].Symbol != "ETHUSD" || rows[1].Size != 7 {
		t.Errorf("第二行 = %+v", rows[1])
	}
}

// TestMarginStats 可用保证金保持原始数值，盈亏换算 BTC
func TestMarginStats(t *testing.T) {
	ex := newExchange(t)
	ex.margins["alice"] = 98_765_432
	c := newTestCore(ex, "alice")

	stats, err := c.MarginStats([]string{"alice"})
	if err != nil {
		t.Fatalf("MarginStats 失败: %v", err)
	}
	if len(stats) != 1 || stats[0].Name != "alice" {
		t.Fatalf("stats = %+v", stats)
	}
	if stats[0].AvailableMargin != 98_765_432 {
		t.Errorf("AvailableMargin = %v", stats[0].AvailableMargin)
	}
}
