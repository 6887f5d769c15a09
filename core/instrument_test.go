package core

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/mexbot/gomex/bitmex/types"
)

func float64Ptr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool          { return &v }

// TestMarginPerContractForced 覆盖项齐全时不发起任何查询
func TestMarginPerContractForced(t *testing.T) {
	ex := newExchange(t)
	// 不配置 instrument 响应：有查询发生就会解码失败
	ex.instruments = `boom`
	c := newTestCore(ex, "alice")

	force := ForceOptions{ContractValue: float64Ptr(0.001), Inverse: boolPtr(false)}
	got, err := c.MarginPerContract("alice", "XBTUSD", 25000, force)
	if err != nil {
		t.Fatalf("不应有错误: %v", err)
	}
	if got != 25 {
		t.Errorf("正向合约每张保证金 = %v，应为 price * contractValue", got)
	}
}

// TestMarginPerContractInverse 反向合约按 contractValue / price 计算
func TestMarginPerContractInverse(t *testing.T) {
	ex := newExchange(t)
	ex.instruments = `[{"symbol":"XBTUSD","state":"Open","tickSize":0.5,"isInverse":true,"multiplier":-100000000}]`
	c := newTestCore(ex, "alice")

	got, err := c.MarginPerContract("alice", "XBTUSD", 20000, ForceOptions{})
	if err != nil {
		t.Fatalf("不应有错误: %v", err)
	}
	if got != (1.0/20000)*1.0 {
		t.Errorf("反向合约每张保证金 = %v", got)
	}
}

// TestMarginPerContractZeroPrice 反向合约的零价格被拒绝
func TestMarginPerContractZeroPrice(t *testing.T) {
	ex := newExchange(t)
	c := newTestCore(ex, "alice")

	force := ForceOptions{ContractValue: float64Ptr(1), Inverse: boolPtr(true)}
	_, err := c.MarginPerContract("alice", "XBTUSD", 0, force)
	if !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("期望 ErrInvalidPrice，实际 %v", err)
	}
}

// TestContractValue 合约面值 = abs(multiplier) * 1e-8
func TestContractValue(t *testing.T) {
	ex := newExchange(t)
	ex.instruments = `[{"symbol":"ETHUSD","state":"Open","tickSize":0.05,"isInverse":false,"multiplier":-100}]`
	c := newTestCore(ex, "alice")

	got, err := c.ContractValue("alice", "ETHUSD")
	if err != nil {
		t.Fatalf("不应有错误: %v", err)
	}
	if got != 0.000001 {
		t.Errorf("ContractValue = %v", got)
	}
}

// TestInstrumentNotFound 空列表视为 instrument 不存在
func TestInstrumentNotFound(t *testing.T) {
	ex := newExchange(t)
	ex.instruments = `[]`
	c := newTestCore(ex, "alice")

	if _, err := c.Tick("alice", "NOPE123"); err == nil {
		t.Error("不存在的 instrument 应报错")
	}
}

// TestInstrumentPrice 按指定价格字段取价，缺失字段报错
func TestInstrumentPrice(t *testing.T) {
	ex := newExchange(t)
	ex.instruments = `[{"symbol":"XBTUSD","state":"Open","lastPrice":25123.5,"bidPrice":25123}]`
	c := newTestCore(ex, "alice")

	got, err := c.InstrumentPrice("alice", "XBTUSD", types.PriceKindLast)
	if err != nil {
		t.Fatalf("不应有错误: %v", err)
	}
	if got != 25123.5 {
		t.Errorf("lastPrice = %v", got)
	}
	if _, err := c.InstrumentPrice("alice", "XBTUSD", types.PriceKindMid); err == nil {
		t.Error("缺失的价格字段应报错")
	}
}

// TestAvailableMargin satoshi 换算为 BTC
func TestAvailableMargin(t *testing.T) {
	ex := newExchange(t)
	ex.margins["alice"] = 12_345_678
	c := newTestCore(ex, "alice")

	got, err := c.AvailableMargin("alice")
	if err != nil {
		t.Fatalf("不应有错误: %v", err)
	}
	if got != 0.12345678 {
		t.Errorf("AvailableMargin = %v", got)
	}
}
