// Command yapingpong is a webhook bot that answers every message with "pong".
//
// It reads BOT_TOKEN, PORT and HOST from the environment (or a .env file), registers
// https://{HOST}/bot{BOT_TOKEN} as its webhook and serves it on BIND_ADDRESS:PORT.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YaCodeDev/GoYaTgWebhook/config"
	"github.com/YaCodeDev/GoYaTgWebhook/yacache"
	"github.com/YaCodeDev/GoYaTgWebhook/yadeadletter"
	"github.com/YaCodeDev/GoYaTgWebhook/yadispatcher"
	"github.com/YaCodeDev/GoYaTgWebhook/yalogger"
	"github.com/YaCodeDev/GoYaTgWebhook/yaratelimit"
	"github.com/YaCodeDev/GoYaTgWebhook/yatgapi"
	"github.com/YaCodeDev/GoYaTgWebhook/yaupdates"
	"github.com/YaCodeDev/GoYaTgWebhook/yawebhook"
)

const dedupTTL = 24 * time.Hour

func main() {
	var cfg Config

	config.LoadConfigStructFromEnv(&cfg, yalogger.NewBaseLogger(nil).NewLogger())

	log := yalogger.NewBaseLogger(&yalogger.Config{
		BaseLoggerType: yalogger.Logrus,
		Level:          cfg.LogLevel,
		FullTimestamp:  true,
	}).NewLogger()

	log.Info("Starting ping-pong bot...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	apiOpts := []yatgapi.Option{yatgapi.WithLogger(log)}
	if cfg.APIServerURL != "" {
		apiOpts = append(apiOpts, yatgapi.WithServerURL(cfg.APIServerURL))
	}

	api, err := yatgapi.New(cfg.BotToken, apiOpts...)
	if err != nil {
		log.Fatalf("Failed to create Bot API client: %v", err)
	}

	username := cfg.BotUsername
	if username == "" {
		if username, err = api.Username(ctx); err != nil {
			log.Fatalf("Failed to resolve bot username: %v", err)
		}
	}

	commands := newCommands()

	if err := api.SetCommands(ctx, commands.BotCommands()); err != nil {
		log.Warnf("Failed to publish command list: %v", err)
	}

	cache := newCache(ctx, &cfg, log)
	defer cache.Close()

	listenerOpts := []yawebhook.Option{yawebhook.WithLogger(log)}

	if cfg.DeadLetterDSN != "" {
		store, err := yadeadletter.Open(cfg.DeadLetterDSN, log)
		if err != nil {
			log.Fatalf("Failed to open dead-letter store: %v", err)
		}
		defer store.Close()

		listenerOpts = append(listenerOpts, yawebhook.WithDropHook(store.Record))
	}

	queue := yaupdates.NewQueue()

	stream, err := queue.Stream()
	if err != nil {
		log.Fatalf("Failed to take update stream: %v", err)
	}

	listener, err := yawebhook.New(yawebhook.Config{
		BotToken:            cfg.BotToken,
		Port:                cfg.Port,
		Host:                cfg.Host,
		BindAddress:         cfg.BindAddress,
		DeleteWebhookOnStop: cfg.DeleteWebhookOnStop,
	}, api, queue, listenerOpts...)
	if err != nil {
		log.Fatalf("Failed to create webhook listener: %v", err)
	}

	router := newRouter(commands)
	router.AddMiddleware(
		yadispatcher.Recover(),
		yadispatcher.Logging(),
		yadispatcher.Deduplicate(cache, dedupTTL),
	)

	if cfg.RateLimit > 0 {
		router.AddMiddleware(yadispatcher.Throttle(
			yaratelimit.New(cache, cfg.RateLimit, cfg.RateLimitWindow),
			"updates",
		))
	}

	dispatcher, err := yadispatcher.New(router, &yadispatcher.Dependencies{
		Commands:    commands,
		BotUsername: username,
		Sender:      api,
		Log:         log,
	})
	if err != nil {
		log.Fatalf("Failed to build dispatcher: %v", err)
	}

	if err := listener.Start(ctx); err != nil {
		log.Fatalf("Failed to start webhook listener: %v", err)
	}

	// The listener closes the queue once it has stopped, which ends the dispatch loop
	// after the backlog is handled.
	if err := dispatcher.Dispatch(context.WithoutCancel(ctx), stream); err != nil {
		log.Errorf("Dispatcher stopped: %v", err)
	}

	<-listener.Done()

	log.Infof("Ping-pong bot stopped, %d malformed updates dropped", listener.Dropped())
}

func newCache(ctx context.Context, cfg *Config, log yalogger.Logger) yacache.Cache {
	if cfg.RedisAddr == "" {
		return yacache.NewMemory(time.Minute)
	}

	client, err := yacache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, 0, log)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}

	return yacache.NewRedis(client)
}
