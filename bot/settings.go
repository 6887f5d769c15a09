package bot

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mexbot/gomex/bitmex/types"
	"github.com/mexbot/gomex/pkg/logger"
)

// Settings 运行配置，从 YAML 文件加载
type Settings struct {
	Log logger.Config `yaml:"log"`

	// AccountsFile 账号存档路径（JSON，不含密钥）
	AccountsFile string `yaml:"accountsFile"`
	// SecretStore 密钥库目录（badger），为空则密钥直接取自存档
	SecretStore string `yaml:"secretStore"`
	// Journal 活动流水数据库路径（sqlite），为空则不记录
	Journal string `yaml:"journal"`

	Monitor MonitorSettings `yaml:"monitor"`
	Bot     *BotSettings    `yaml:"bot"`
}

// MonitorSettings 监控循环配置
type MonitorSettings struct {
	// Accounts 监控哪些账号，为空表示全部
	Accounts []string `yaml:"accounts"`
	// RequestsPerMinute 每分钟请求数预算
	RequestsPerMinute float64 `yaml:"requestsPerMinute"`
	// Margins / Positions 两类监控的开关
	Margins   bool `yaml:"margins"`
	Positions bool `yaml:"positions"`
}

// BotSettings 比价机器人配置。每隔 interval 秒比较两个合约的价格，
// 价差拉开到 tradeDiff 时开仓，回落到 closeDiff 以内时平仓。
type BotSettings struct {
	Accounts  []string `yaml:"accounts"`
	Contract1 string   `yaml:"contract1"`
	Contract2 string   `yaml:"contract2"`
	// PriceKind 比较哪个价格字段: lastPrice, bidPrice, midPrice, askPrice
	PriceKind types.PriceKind `yaml:"priceKind"`

	// TradeDiff 开仓价差，CloseDiff 平仓价差
	TradeDiff float64 `yaml:"tradeDiff"`
	CloseDiff float64 `yaml:"closeDiff"`
	// Percent 开仓占每个账号可用保证金的百分比
	Percent float64 `yaml:"percent"`

	// Interval 两次比较之间的间隔（秒）
	Interval float64 `yaml:"interval"`
}

// defaultSettings 各项的缺省值
func defaultSettings() Settings {
	return Settings{
		Log: logger.Config{
			Level:      "info",
			OutputFile: "logs/gomex.log",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   true,
		},
		AccountsFile: "accounts.json",
		Monitor: MonitorSettings{
			RequestsPerMinute: 30,
			Margins:           true,
			Positions:         true,
		},
	}
}

// LoadSettings 从 YAML 文件加载配置，未设置的字段使用缺省值
func LoadSettings(path string) (Settings, error) {
	settings := defaultSettings()
	raw, err := os.ReadFile(path)
	if err != nil {
		return settings, errors.Wrapf(err, "read settings %s", path)
	}
	if err := yaml.Unmarshal(raw, &settings); err != nil {
		return settings, errors.Wrapf(err, "parse settings %s", path)
	}
	if err := settings.validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

func (s *Settings) validate() error {
	if s.Monitor.RequestsPerMinute <= 0 {
		return errors.New("monitor.requestsPerMinute must be positive")
	}
	if s.Bot != nil {
		if s.Bot.Contract1 == "" {
			s.Bot.Contract1 = "XBTUSD"
		}
		if s.Bot.Contract2 == "" {
			s.Bot.Contract2 = "XBTUSD"
		}
		if s.Bot.PriceKind == "" {
			s.Bot.PriceKind = types.PriceKindLast
		}
		if s.Bot.Interval <= 0 {
			s.Bot.Interval = 3600
		}
		if s.Bot.TradeDiff <= 0 {
			return errors.New("bot.tradeDiff must be positive")
		}
		if s.Bot.CloseDiff < 0 {
			return errors.New("bot.closeDiff must not be negative")
		}
		if s.Bot.CloseDiff >= s.Bot.TradeDiff {
			return errors.New("bot.closeDiff must be below bot.tradeDiff")
		}
		if s.Bot.Percent <= 0 {
			return errors.New("bot.percent must be positive")
		}
	}
	return nil
}
