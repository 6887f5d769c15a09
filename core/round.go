package core

import (
	"math"

	"github.com/shopspring/decimal"
)

// SignificantFigureCount 展示数值时保留的有效数字位数
const SignificantFigureCount = 5

// satoshiToBTC satoshi → BTC（×1e-8），经 decimal 避免精度抖动
func satoshiToBTC(sat int64) float64 {
	return decimal.New(sat, -8).InexactFloat64()
}

// btcToSatoshi BTC → satoshi（×1e8），riskLimit / transferMargin 参数用
func btcToSatoshi(btc float64) int64 {
	return decimal.NewFromFloat(btc).Shift(8).Round(0).IntPart()
}

// SignificantFigures 按有效数字位数取整
func SignificantFigures(x float64, figures int) float64 {
	if x == 0 {
		return x
	}
	shift := figures - 1 - int(math.Floor(math.Log10(math.Abs(x))))
	factor := math.Pow(10, float64(shift))
	return math.Round(x*factor) / factor
}

// TickRound 把数量对齐到 BitMEX 的最小步长。
// 相对数量目前只做银行家舍入、不做步长对齐，此函数留给需要
// 对齐价格 / 数量的调用方使用。
func TickRound(quantity, tick float64) float64 {
	return tick * math.Round(quantity/tick)
}
