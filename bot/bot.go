package bot

import (
	"context"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mexbot/gomex/core"
	"github.com/mexbot/gomex/pkg/logger"
)

// CompareBot 比价机器人。每轮取两个合约的价格算价差：价差拉开到
// tradeDiff 时卖出贵的一边、买入便宜的一边（按保证金比例的市价单），
// 回落到 closeDiff 以内时把两边持仓都平掉。每轮比较结果写入流水。
type CompareBot struct {
	core     *core.Core
	settings BotSettings
	journal  *Journal
	log      *logrus.Entry

	holding bool
}

// NewCompareBot 创建比价机器人。journal 可以为 nil。
func NewCompareBot(c *core.Core, settings BotSettings, journal *Journal) *CompareBot {
	return &CompareBot{
		core:     c,
		settings: settings,
		journal:  journal,
		log:      logger.WithField("task", "compare-bot"),
	}
}

func (b *CompareBot) Name() string { return "compare-bot" }

// compare 取两个合约的价格。行情用第一个账号查询。
func (b *CompareBot) compare() (price1, price2 float64, err error) {
	name := b.settings.Accounts[0]
	price1, err = b.core.InstrumentPrice(name, b.settings.Contract1, b.settings.PriceKind)
	if err != nil {
		return 0, 0, err
	}
	price2, err = b.core.InstrumentPrice(name, b.settings.Contract2, b.settings.PriceKind)
	if err != nil {
		return 0, 0, err
	}
	return price1, price2, nil
}

// Step 执行一轮比价。下单部分失败时记录失败账号但不中断循环，
// 持仓状态照常翻转，避免对同一个信号反复下单。
func (b *CompareBot) Step(ctx context.Context) error {
	if len(b.settings.Accounts) == 0 {
		return core.ErrNoAccounts
	}
	price1, price2, err := b.compare()
	if err != nil {
		return err
	}
	difference := price1 - price2
	b.log.Infof("%s=%g %s=%g 价差 %g",
		b.settings.Contract1, price1, b.settings.Contract2, price2, difference)
	if b.journal != nil {
		entry := Entry{
			Time:       time.Now(),
			Contract1:  b.settings.Contract1,
			Contract2:  b.settings.Contract2,
			Price1:     price1,
			Price2:     price2,
			Difference: difference,
		}
		if err := b.journal.Record(ctx, entry); err != nil {
			b.log.Warnf("写入流水失败: %v", err)
		}
	}
	switch {
	case !b.holding && math.Abs(difference) >= b.settings.TradeDiff:
		b.enter(difference, price1, price2)
	case b.holding && math.Abs(difference) <= b.settings.CloseDiff:
		b.exit()
	}
	return nil
}

// enter 价差拉开：卖出贵的一边、买入便宜的一边
func (b *CompareBot) enter(difference, price1, price2 float64) {
	b.log.Infof("价差 %g 达到开仓线 %g, 开仓", difference, b.settings.TradeDiff)
	sellFirst := difference > 0
	legs := []struct {
		symbol string
		price  float64
		sell   bool
	}{
		{b.settings.Contract1, price1, sellFirst},
		{b.settings.Contract2, price2, !sellFirst},
	}
	for _, leg := range legs {
		_, err := b.core.OrderMarketRelative(b.settings.Accounts, core.MarketOrder{
			Symbol: leg.symbol,
			Sell:   leg.sell,
		}, b.settings.Percent, leg.price, core.ForceOptions{})
		if err != nil {
			b.log.Errorf("%s 开仓未全部成功: %v", leg.symbol, err)
		}
	}
	b.holding = true
}

// exit 价差回落：两边持仓都平掉
func (b *CompareBot) exit() {
	b.log.Infof("价差回落到平仓线 %g 以内, 平仓", b.settings.CloseDiff)
	for _, symbol := range []string{b.settings.Contract1, b.settings.Contract2} {
		if _, err := b.core.ClosePosition(b.settings.Accounts, symbol); err != nil {
			b.log.Errorf("%s 平仓未全部成功: %v", symbol, err)
		}
	}
	b.holding = false
}
