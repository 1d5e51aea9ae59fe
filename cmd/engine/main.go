package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"StakeSentinel/internal/chain"
	"StakeSentinel/internal/config"
	"StakeSentinel/internal/engine"
	"StakeSentinel/internal/ledger"
	"StakeSentinel/internal/notifier"
	"StakeSentinel/internal/quote"
	"StakeSentinel/internal/recorder"
	"StakeSentinel/internal/rules"
	"StakeSentinel/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] StakeSentinel starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Load rules (missing document falls back to built-in defaults)
	r, err := rules.Load(cfg.Rules.File)
	if err != nil {
		log.Printf("[WARN] load rules failed, using defaults: %v", err)
		r = rules.Default()
	}
	log.Printf("[INFO] rules loaded: %d tier(s), rate %g tokens/$-day", len(r.Tiers), r.Rule.TokensPerUSDPerDay)

	// Init quote fetcher
	fetcher := quote.NewJupiterFetcher(
		cfg.Quote.BaseURL, cfg.Quote.InputMint, cfg.Quote.OutputMint,
		cfg.Quote.SlippageBps, cfg.Quote.OutputDecimals, cfg.Proxy,
	)
	log.Printf("[INFO] quote source: %s", fetcher.Name())

	// Init chain client
	rpc := chain.NewRPCClient(cfg.RPC.Endpoint, cfg.Proxy)

	// Init accrual ledger
	store, err := ledger.NewStore(cfg.Accrual.StateFile)
	if err != nil {
		log.Fatalf("[FATAL] init accrual store: %v", err)
	}
	led := ledger.New(store, r.Rule)

	// Init engine
	eng := &engine.Engine{
		Quote:           fetcher,
		Chain:           rpc,
		Ledger:          led,
		Rules:           r,
		TokenDecimals:   cfg.Token.Decimals,
		ReserveAccount:  cfg.Reserve.TokenAccount,
		ReserveDecimals: cfg.Reserve.Decimals,
	}

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, eng, rpc, tn, rec, cfg)
	if err := sched.RegisterAll(cfg.Schedule.DailyCron, cfg.Schedule.ReserveCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing daily report now")
		go sched.RunDailyNow()
	}

	log.Println("[INFO] StakeSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] StakeSentinel stopped")
}
