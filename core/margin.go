package core

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/mexbot/gomex/bitmex/types"
)

// marginCurrency /user/margin 查询使用的币种
const marginCurrency = "XBt"

// AvailableMargin 取账号的可用保证金（BTC）
func (c *Core) AvailableMargin(accountName string) (float64, error) {
	result, err := c.ForOneAccount(accountName, c.api.GetUserMargin,
		types.Params{"currency": marginCurrency})
	if err != nil {
		return 0, err
	}
	var margin types.Margin
	if err := json.Unmarshal(result.Response, &margin); err != nil {
		return 0, errors.Wrap(err, "decode user margin")
	}
	return satoshiToBTC(margin.AvailableMargin), nil
}

// MarginStat 单个账号的保证金概况（金额单位 BTC）
type MarginStat struct {
	Name            string
	AvailableMargin float64
	UnrealisedPnl   float64
}

// MarginStats 取每个账号的保证金概况
func (c *Core) MarginStats(accountNames []string) ([]MarginStat, error) {
	results, err := c.ForEachAccount(accountNames, c.api.GetUserMargin,
		types.Params{"currency": marginCurrency})
	if err != nil {
		return nil, err
	}
	stats := make([]MarginStat, 0, len(results))
	for _, result := range results {
		var margin types.Margin
		if err := json.Unmarshal(result.Response, &margin); err != nil {
			return nil, errors.Wrapf(err, "decode user margin for %s", result.Account.Name)
		}
		stats = append(stats, MarginStat{
			Name:            result.Account.Name,
			AvailableMargin: float64(margin.AvailableMargin),
			UnrealisedPnl:   SignificantFigures(satoshiToBTC(margin.UnrealisedPnl), SignificantFigureCount),
		})
	}
	return stats, nil
}
