// Command burgage runs the economic town simulation.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/talgdenn/burgage/internal/api"
	"github.com/talgdenn/burgage/internal/business"
	"github.com/talgdenn/burgage/internal/config"
	"github.com/talgdenn/burgage/internal/engine"
	"github.com/talgdenn/burgage/internal/persistence"
	"github.com/talgdenn/burgage/internal/world"
)

// AI firm flavor. Stances cycle through the list below so a default
// three-AI world gets one of each temperament.
var firmNames = []string{
	"Kilnford Clayworks",
	"Stonewell & Co",
	"Granary Trust",
	"Ironmark Works",
	"Tiderow Yards",
	"Ashby Holdings",
}

var firmStances = []business.Stance{
	business.StanceAggressive,
	business.StanceNeutral,
	business.StancePassive,
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfgPath := "burgage.yaml"
	if p := os.Getenv("BURGAGE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	slog.Info("burgage starting", "seed", seed, "config", cfgPath)

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll(filepath.Dir(cfg.DBPath), 0755)
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	// ── Load or Generate World State ─────────────────────────────────
	var (
		w          *world.World
		businesses []*business.Business
		startTick  uint64
	)

	if db.HasWorldState() {
		slog.Info("found saved world state, loading...")

		w, err = db.LoadWorld()
		if err != nil {
			slog.Error("failed to load world", "error", err)
			os.Exit(1)
		}
		businesses, err = db.LoadBusinesses()
		if err != nil {
			slog.Error("failed to load businesses", "error", err)
			os.Exit(1)
		}
		if tickStr, err := db.GetMeta("last_tick"); err == nil {
			if t, err := strconv.ParseUint(tickStr, 10, 64); err == nil {
				startTick = t
			}
		}

		slog.Info("world state restored",
			"sites", len(w.Sites),
			"businesses", len(businesses),
			"tick", startTick,
		)
	} else {
		slog.Info("no saved state found, generating new world...")

		gen := world.DefaultGenConfig()
		gen.Seed = seed
		gen.Sites = cfg.Sites
		gen.Rows = cfg.Rows
		gen.Cols = cfg.Cols
		gen.EmployeesMin = cfg.EmployeesMin
		gen.EmployeesMax = cfg.EmployeesMax
		gen.ResourceDensity = cfg.ResourceDensity
		w = world.Generate(gen)

		businesses = append(businesses, business.NewPlayer("Player", cfg.PlayerFunds))
		for i := 0; i < cfg.AICount; i++ {
			name := firmNames[i%len(firmNames)]
			stance := firmStances[i%len(firmStances)]
			ai := business.NewAI(name, stance, cfg.AIFunds)
			businesses = append(businesses, ai)
			slog.Info("ai business founded",
				"name", ai.Name,
				"stance", business.StanceName(stance),
				"funds", cfg.AIFunds,
			)
		}
	}

	var player *business.Business
	for _, b := range businesses {
		if b.Kind == business.KindPlayer {
			player = b
			break
		}
	}

	slog.Info("world ready",
		"sites", len(w.Sites),
		"lots", w.LotCount(),
		"businesses", len(businesses),
	)

	// ── Simulation ────────────────────────────────────────────────────
	sim := engine.NewSimulation(w, businesses, seed)
	sim.LastTick = startTick
	sim.ReallocateEvery = cfg.ReallocateEvery

	save := func() error {
		if err := db.SaveWorld(sim.World); err != nil {
			return err
		}
		if err := db.SaveBusinesses(sim.Businesses); err != nil {
			return err
		}
		return db.SetMeta("last_tick", strconv.FormatUint(sim.LastTick, 10))
	}

	// Save on fresh generation only (loaded worlds are already saved).
	if startTick == 0 {
		if err := save(); err != nil {
			slog.Error("initial save failed", "error", err)
		}
	}

	eng := engine.NewEngine()
	eng.Tick = startTick
	eng.Interval = time.Duration(cfg.TickMillis) * time.Millisecond

	// Wire tick callbacks — auto-save every sim-day.
	eng.OnQuarter = sim.TickQuarter
	eng.OnDay = func(tick uint64) {
		sim.TickDay(tick)
		sim.Lock()
		err := save()
		sim.Unlock()
		if err != nil {
			slog.Error("daily save failed", "error", err)
		}
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	playerKey := os.Getenv("BURGAGE_PLAYER_KEY")
	if playerKey == "" {
		slog.Warn("BURGAGE_PLAYER_KEY not set — player command endpoints will be disabled")
	}
	adminKey := os.Getenv("BURGAGE_ADMIN_KEY")
	if adminKey == "" {
		slog.Warn("BURGAGE_ADMIN_KEY not set — admin POST endpoints will be disabled")
	}

	apiServer := &api.Server{
		Sim:       sim,
		Eng:       eng,
		DB:        db,
		Player:    player,
		Port:      cfg.APIPort,
		PlayerKey: playerKey,
		AdminKey:  adminKey,
	}
	apiServer.Start()

	// ── Start ─────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	fmt.Printf("\nBurgage is open for business: %d firms across %d sites, %d lots.\n",
		len(businesses), len(w.Sites), w.LotCount())
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.APIPort)
	if startTick > 0 {
		fmt.Printf("Resuming from tick %d (day %d)\n", startTick, startTick/engine.QuartersPerDay)
	}
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run()

	// Final save on shutdown.
	slog.Info("final save...")
	sim.Lock()
	err = save()
	sim.Unlock()
	if err != nil {
		slog.Error("final save failed", "error", err)
	}

	fmt.Println("Simulation stopped. World state saved.")
}
