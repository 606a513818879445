package main

import (
	"context"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/telebot.v3"

	"numinfo-bot/config"
	"numinfo-bot/database"
	"numinfo-bot/handlers"
	"numinfo-bot/lookup"
	"numinfo-bot/middleware"
)

func main() {
	_ = godotenv.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal("mongo connect", zap.Error(err))
	}
	defer database.Disconnect(client)

	db := client.Database(cfg.MongoName)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatal("mongo indexes", zap.Error(err))
	}
	ledger := database.NewMongoLedger(db)

	bot, err := telebot.NewBot(telebot.Settings{
		Token:  cfg.Token,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		Client: &http.Client{Timeout: 30 * time.Second},
		OnError: func(err error, c telebot.Context) {
			log.Error("update failed", zap.Error(err))
		},
	})
	if err != nil {
		log.Fatal("telegram connect", zap.Error(err))
	}

	modes := handlers.NewModeTracker()
	gate := middleware.NewGate(bot, cfg.ChannelID, cfg.ChannelLink, modes, log)
	lookupClient := lookup.NewClient(cfg.LookupURL, cfg.LookupKey, log)

	h := handlers.New(bot, ledger, lookupClient, gate, modes, cfg, bot.Me.Username, log)

	bot.Use(
		middleware.Recover(log),
		middleware.DirectOnly(),
		middleware.NewThrottle(2*time.Second, cfg.AdminIDs).Middleware,
		gate.Middleware,
	)
	h.Register(bot)

	log.Info("bot started", zap.String("username", bot.Me.Username))
	bot.Start()
}
