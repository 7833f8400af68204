package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"railfeed/params"
	"railfeed/pkg/api"
	"railfeed/pkg/book"
	"railfeed/pkg/feed"
	"railfeed/pkg/pipeline"
	"railfeed/pkg/tape"
	"railfeed/pkg/transport"
	"railfeed/pkg/util"
)

func main() {
	// Load config from .env file and environment variables
	cfg := params.LoadFromEnv("")

	logger, err := util.NewLogger(cfg.LogFile)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Transport: dial the market-data stream ----
	client, err := transport.NewClient(sugar)
	if err != nil {
		sugar.Fatalw("client_init_failed", "err", err)
	}

	streamURL := cfg.Stream.URL + "?market=" + cfg.Stream.Market
	stream, err := client.Dial(ctx, streamURL)
	if err != nil {
		sugar.Fatalw("stream_dial_failed", "err", err)
	}
	defer stream.Close()

	// ---- Startup protocol: wait for both initial snapshots ----
	dec := feed.NewDecoder(cfg.Stream.Market)
	snap, err := feed.ReadSnapshot(stream, dec, sugar)
	if err != nil {
		sugar.Fatalw("initial_snapshot_failed", "err", err)
	}

	// ---- State machines and inspection server ----
	bk := book.New()
	agg := tape.New(sugar, cfg.Pipeline.TapeSize, cfg.Pipeline.MilestoneInterval)
	server := api.NewServer(cfg.Stream.Market, sugar)

	if cfg.APIAddr != "" {
		go func() {
			if err := server.Start(cfg.APIAddr); err != nil {
				sugar.Fatalw("api_server_failed", "err", err)
			}
		}()
	}

	// ---- Pipeline ----
	p := pipeline.New(pipeline.Config{Capacity: cfg.Pipeline.ChannelCapacity}, bk, agg, sugar)

	renderer := book.NewRenderer(os.Stdout)
	render := cfg.Render
	p.OnBook = func(bids, offers []book.PriceLevel) {
		if render {
			if err := renderer.Render(bids, offers); err != nil {
				sugar.Errorw("render_failed", "err", err)
			}
		}
		server.PublishBook(bids, offers)
	}
	p.OnTape = server.PublishTrades

	p.Start(snap)
	sugar.Infow("pipeline_started",
		"market", cfg.Stream.Market,
		"channel_capacity", cfg.Pipeline.ChannelCapacity)

	// ---- Steady-state read loop ----
	runErr := feed.Run(ctx, stream, dec, p)

	p.Close()
	if err := p.Wait(); err != nil {
		sugar.Fatalw("pipeline_failed", "err", err)
	}
	if runErr != nil && ctx.Err() == nil {
		sugar.Fatalw("stream_failed", "err", runErr)
	}
	sugar.Infow("stream_ended")
}
