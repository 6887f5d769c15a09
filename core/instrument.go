package core

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/mexbot/gomex/bitmex/types"
)

// ErrInvalidPrice 反向合约的保证金计算不接受零价格（除零）
var ErrInvalidPrice = errors.New("price must be non-zero for inverse instruments")

// ForceOptions 保证金计算的覆盖项。字段非 nil 时直接采用给定值，
// 完全跳过对应的 instrument 查询。
type ForceOptions struct {
	ContractValue *float64
	Inverse       *bool
}

// fetchInstrument 取单个 instrument 的信息（每次现查，核心层不缓存）
func (c *Core) fetchInstrument(accountName, symbol string) (types.Instrument, error) {
	result, err := c.ForOneAccount(accountName, c.api.GetInstruments, types.Params{"symbol": symbol})
	if err != nil {
		return types.Instrument{}, err
	}
	var instruments []types.Instrument
	if err := json.Unmarshal(result.Response, &instruments); err != nil {
		return types.Instrument{}, errors.Wrapf(err, "decode instrument %s", symbol)
	}
	if len(instruments) == 0 {
		return types.Instrument{}, errors.Errorf("instrument %s not found", symbol)
	}
	return instruments[0], nil
}

// Tick 取 instrument 的价格步长
func (c *Core) Tick(accountName, symbol string) (float64, error) {
	instrument, err := c.fetchInstrument(accountName, symbol)
	if err != nil {
		return 0, err
	}
	return instrument.TickSize, nil
}

// IsInverse 判断 instrument 是否为反向合约（CURRENCY/BITCOIN 计价）
func (c *Core) IsInverse(accountName, symbol string) (bool, error) {
	instrument, err := c.fetchInstrument(accountName, symbol)
	if err != nil {
		return false, err
	}
	return instrument.IsInverse, nil
}

// ContractValue 一张合约包含多少货币（= abs(multiplier) * 1e-8）
func (c *Core) ContractValue(accountName, symbol string) (float64, error) {
	instrument, err := c.fetchInstrument(accountName, symbol)
	if err != nil {
		return 0, err
	}
	return satoshiToBTC(int64(abs(instrument.Multiplier))), nil
}

// MarginPerContract 一张合约占用多少保证金。
// 正向合约为 price * contractValue，反向合约为 contractValue / price。
// force 覆盖项设置后不再发起对应查询。
func (c *Core) MarginPerContract(accountName, symbol string, price float64, force ForceOptions) (float64, error) {
	var contractValue float64
	if force.ContractValue != nil {
		contractValue = *force.ContractValue
	} else {
		v, err := c.ContractValue(accountName, symbol)
		if err != nil {
			return 0, errors.Wrapf(err, "wasn't able to get %s's contract value", symbol)
		}
		contractValue = v
	}
	var inverse bool
	if force.Inverse != nil {
		inverse = *force.Inverse
	} else {
		v, err := c.IsInverse(accountName, symbol)
		if err != nil {
			return 0, errors.Wrapf(err, "wasn't able to find out if %s is inverse", symbol)
		}
		inverse = v
	}
	if !inverse {
		return price * contractValue, nil
	}
	if price == 0 {
		return 0, ErrInvalidPrice
	}
	return (1 / price) * contractValue, nil
}

// OpenInstruments 取全部处于 Open 状态的 instrument 符号
func (c *Core) OpenInstruments(accountName string) ([]string, error) {
	result, err := c.ForOneAccount(accountName, c.api.GetInstruments,
		types.Params{"filter": map[string]any{"state": "Open"}})
	if err != nil {
		return nil, err
	}
	var instruments []types.Instrument
	if err := json.Unmarshal(result.Response, &instruments); err != nil {
		return nil, errors.Wrap(err, "decode instruments")
	}
	symbols := make([]string, 0, len(instruments))
	for _, instrument := range instruments {
		symbols = append(symbols, instrument.Symbol)
	}
	return symbols, nil
}

// InstrumentPrice 按指定价格字段取 instrument 当前价格（机器人比价用）
func (c *Core) InstrumentPrice(accountName, symbol string, kind types.PriceKind) (float64, error) {
	instrument, err := c.fetchInstrument(accountName, symbol)
	if err != nil {
		return 0, err
	}
	price, ok := instrument.Price(kind)
	if !ok {
		return 0, errors.Errorf("instrument %s has no %s", symbol, kind)
	}
	return price, nil
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
