package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/mexbot/gomex/accounts"
	"github.com/mexbot/gomex/bitmex/client"
	"github.com/mexbot/gomex/bot"
	"github.com/mexbot/gomex/core"
	"github.com/mexbot/gomex/pkg/logger"
	"github.com/mexbot/gomex/pkg/ratelimit"
	"github.com/mexbot/gomex/pkg/shutdown"
)

// shutdownTimeout 收到信号后等待循环退出的时长
const shutdownTimeout = 10 * time.Second

func main() {
	settingsPath := flag.String("settings", "settings.yaml", "配置文件路径")
	envPath := flag.String("env", "", ".env 文件路径（可选，提供密钥库口令等环境变量）")
	flag.Parse()

	// .env 不存在不算错误，环境变量可以由外部注入
	if *envPath != "" {
		if err := godotenv.Load(*envPath); err != nil {
			logrus.Warnf("加载 %s 失败: %v", *envPath, err)
		}
	} else {
		_ = godotenv.Load()
	}

	settings, err := bot.LoadSettings(*settingsPath)
	if err != nil {
		logrus.Errorf("加载配置失败: %v", err)
		os.Exit(1)
	}

	if err := logger.Init(settings.Log); err != nil {
		logrus.Errorf("初始化日志失败: %v", err)
		os.Exit(1)
	}

	// 账号表：存档提供账号清单，密钥库（如果配置了）提供密钥
	registry := accounts.NewRegistry()
	if err := registry.Load(settings.AccountsFile); err != nil {
		logger.Errorf("加载账号存档失败: %v", err)
		os.Exit(1)
	}
	if settings.SecretStore != "" {
		store, err := accounts.OpenSecretStore(accounts.SecretStoreOptions{
			Path:          settings.SecretStore,
			EncryptionKey: []byte(os.Getenv("GOMEX_SECRETSTORE_KEY")),
			ReadOnly:      true,
		})
		if err != nil {
			logger.Errorf("打开密钥库失败: %v", err)
			os.Exit(1)
		}
		defer store.Close()
		if err := registry.Hydrate(store); err != nil {
			logger.Errorf("从密钥库装载密钥失败: %v", err)
			os.Exit(1)
		}
	}

	engine := core.New(registry, client.New())

	var journal *bot.Journal
	if settings.Journal != "" {
		journal, err = bot.OpenJournal(settings.Journal)
		if err != nil {
			logger.Errorf("打开活动流水失败: %v", err)
			os.Exit(1)
		}
		defer journal.Close()
	}

	monitorNames := settings.Monitor.Accounts
	if len(monitorNames) == 0 {
		monitorNames = registry.Names()
	}

	// 要运行的循环
	var runners []*bot.Runner
	if settings.Monitor.Margins {
		runners = append(runners, bot.NewRunner(
			bot.NewMarginsMonitor(engine, monitorNames),
			ratelimit.Budget{PerMinute: settings.Monitor.RequestsPerMinute, Streams: len(monitorNames)},
		))
	}
	if settings.Monitor.Positions {
		runners = append(runners, bot.NewRunner(
			bot.NewPositionsMonitor(engine, monitorNames),
			ratelimit.Budget{PerMinute: settings.Monitor.RequestsPerMinute, Streams: len(monitorNames)},
		))
	}
	if settings.Bot != nil {
		botNames := settings.Bot.Accounts
		if len(botNames) == 0 {
			botNames = registry.Names()
		}
		settings.Bot.Accounts = botNames
		// interval 秒换算为每分钟预算，迭代失败的退避倍率照常生效
		runners = append(runners, bot.NewRunner(
			bot.NewCompareBot(engine, *settings.Bot, journal),
			ratelimit.Budget{PerMinute: 60 / settings.Bot.Interval},
		))
	}
	if len(runners) == 0 {
		logger.Error("没有启用任何循环，检查 monitor / bot 配置")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := shutdown.NewManager()
	var wg sync.WaitGroup
	for _, r := range runners {
		wg.Add(1)
		runner := r
		go func() {
			defer wg.Done()
			_ = runner.Run(ctx)
		}()
	}
	manager.OnShutdown(func(shutdownCtx context.Context, _ *sync.WaitGroup) {
		cancel()
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-shutdownCtx.Done():
		}
	})

	// 所有循环自然结束（比如机器人触发完成）或收到信号时退出
	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-signals:
		logger.Infof("收到信号 %v, 开始关闭", sig)
	case <-finished:
		logger.Info("全部循环已结束")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	manager.Shutdown(shutdownCtx)
}
