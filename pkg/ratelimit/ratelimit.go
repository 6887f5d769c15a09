package ratelimit

import (
	"sync"
	"time"
)

// 请求预算节拍器。循环型任务（监控、机器人）按每分钟请求数的预算
// 计算两次迭代之间的间隔，失败时拉长间隔、成功后恢复，给交易所的
// 限流留出余量。

// Budget 每分钟请求数预算
type Budget struct {
	PerMinute float64 // 每分钟允许发出的请求数
	Streams   int     // 并行消耗同一预算的流数量（多账号监控按账号数放大间隔）
}

// Delay 按预算和倍率计算间隔
//
//	delay = 60 / PerMinute * Streams * multiplier
func (b Budget) Delay(multiplier float64) time.Duration {
	if b.PerMinute <= 0 {
		return 0
	}
	streams := b.Streams
	if streams < 1 {
		streams = 1
	}
	seconds := 60.0 / b.PerMinute * float64(streams) * multiplier
	return time.Duration(seconds * float64(time.Second))
}

// Pacer 带失败退避的节拍器。每次迭代失败倍率加一，成功后重置为一。
type Pacer struct {
	budget     Budget
	multiplier float64
	mu         sync.Mutex
}

// NewPacer 创建节拍器，初始倍率为 1
func NewPacer(budget Budget) *Pacer {
	return &Pacer{budget: budget, multiplier: 1}
}

// Delay 取当前倍率下的间隔
func (p *Pacer) Delay() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.budget.Delay(p.multiplier)
}

// Backoff 迭代失败后调用，倍率加一
func (p *Pacer) Backoff() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.multiplier++
}

// Reset 迭代成功后调用，倍率重置为一
func (p *Pacer) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.multiplier = 1
}

// Multiplier 取当前倍率
func (p *Pacer) Multiplier() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.multiplier
}
