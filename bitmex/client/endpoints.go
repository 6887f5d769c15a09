package client

// API 端点常量（相对于每个账号 host 的 /api/v1 前缀）
const (
	// Instrument
	EndpointInstrument = "/instrument"

	// Order
	EndpointOrder           = "/order"
	EndpointOrderAll        = "/order/all"
	EndpointCancelAllAfter  = "/cancelAllAfter"
	EndpointTransferMargin  = "/order/transferMargin"

	// Position
	EndpointPosition          = "/position"
	EndpointPositionLeverage  = "/position/leverage"
	EndpointPositionRiskLimit = "/position/riskLimit"

	// User
	EndpointUserMargin = "/user/margin"
)
