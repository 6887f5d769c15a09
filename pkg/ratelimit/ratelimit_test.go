package ratelimit

import (
	"testing"
	"time"
)

// TestBudgetDelay 间隔 = 60 / 每分钟请求数 * 流数量 * 倍率
func TestBudgetDelay(t *testing.T) {
	b := Budget{PerMinute: 30}
	if got := b.Delay(1); got != 2*time.Second {
		t.Errorf("30/min 的间隔 = %v", got)
	}
	if got := b.Delay(3); got != 6*time.Second {
		t.Errorf("倍率 3 的间隔 = %v", got)
	}

	multi := Budget{PerMinute: 60, Streams: 4}
	if got := multi.Delay(1); got != 4*time.Second {
		t.Errorf("4 个流共享预算的间隔 = %v", got)
	}

	if got := (Budget{}).Delay(1); got != 0 {
		t.Errorf("零预算的间隔 = %v", got)
	}
}

// TestPacerBackoff 失败加倍率，成功重置
func TestPacerBackoff(t *testing.T) {
	p := NewPacer(Budget{PerMinute: 60})
	if got := p.Delay(); got != time.Second {
		t.Errorf("初始间隔 = %v", got)
	}
	p.Backoff()
	p.Backoff()
	if got := p.Multiplier(); got != 3 {
		t.Errorf("两次退避后倍率 = %v", got)
	}
	if got := p.Delay(); got != 3*time.Second {
		t.Errorf("退避后的间隔 = %v", got)
	}
	p.Reset()
	if got := p.Delay(); got != time.Second {
		t.Errorf("重置后的间隔 = %v", got)
	}
}
