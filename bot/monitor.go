package bot

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mexbot/gomex/core"
	"github.com/mexbot/gomex/pkg/logger"
)

// 账号监控。每轮对每个账号发一次查询，所以外层 Runner 的预算
// Streams 应设为账号数，让间隔按账号数放大。

// MarginsMonitor 轮询每个账号的保证金概况
type MarginsMonitor struct {
	core  *core.Core
	names []string
	log   *logrus.Entry
}

// NewMarginsMonitor 创建保证金监控任务
func NewMarginsMonitor(c *core.Core, names []string) *MarginsMonitor {
	return &MarginsMonitor{
		core:  c,
		names: names,
		log:   logger.WithField("task", "margins-monitor"),
	}
}

func (m *MarginsMonitor) Name() string { return "margins-monitor" }

// Step 查询并输出全部账号的保证金概况
func (m *MarginsMonitor) Step(ctx context.Context) error {
	stats, err := m.core.MarginStats(m.names)
	if err != nil {
		return err
	}
	for _, stat := range stats {
		m.log.Infof("%s: 可用保证金 %.0f XBt, 未实现盈亏 %v BTC",
			stat.Name, stat.AvailableMargin, stat.UnrealisedPnl)
	}
	return nil
}

// PositionsMonitor 轮询每个账号的未平仓持仓
type PositionsMonitor struct {
	core  *core.Core
	names []string
	log   *logrus.Entry
}

// NewPositionsMonitor 创建持仓监控任务
func NewPositionsMonitor(c *core.Core, names []string) *PositionsMonitor {
	return &PositionsMonitor{
		core:  c,
		names: names,
		log:   logger.WithField("task", "positions-monitor"),
	}
}

func (m *PositionsMonitor) Name() string { return "positions-monitor" }

// Step 查询并输出全部账号的未平仓持仓
func (m *PositionsMonitor) Step(ctx context.Context) error {
	views, err := m.core.PositionInfoAll(m.names)
	if err != nil {
		return err
	}
	if len(views) == 0 {
		m.log.Info("没有未平仓持仓")
	}
	for _, v := range views {
		entry := "-"
		if v.EntryPrice != nil {
			entry = fmt.Sprintf("%g", *v.EntryPrice)
		}
		m.log.Infof("%s %s: 数量 %d, 开仓价 %s, 杠杆 %s, 未实现盈亏 %v BTC (%.2f%%)",
			v.Account, v.Symbol, v.Size, entry, v.Leverage, v.UnrealisedPnl, v.UnrealisedRoePcnt*100)
	}
	return nil
}
