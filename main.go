package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/bandit-demo/bandit"
	"github.com/danielhkuo/bandit-demo/cliparse"
	"github.com/danielhkuo/bandit-demo/db"
	"github.com/danielhkuo/bandit-demo/middleware"
	"github.com/danielhkuo/bandit-demo/router"
	"github.com/danielhkuo/bandit-demo/session"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Pick the random source
	src := bandit.SystemSource()
	if cfg.RandomSeed != 0 {
		src = bandit.NewSeededSource(cfg.RandomSeed)
		slog.Info("Using seeded random source", "seed", cfg.RandomSeed)
	}

	// Open the session store
	var store session.Store
	if cfg.DatabaseType == cliparse.DatabaseMemory {
		store = session.NewMemoryStore(src)
		slog.Info("Sessions kept in memory")
	} else {
		dialect := db.Dialect(cfg.DatabaseType)
		dbConn, err := openDatabase(dialect, cfg.DatabaseURL)
		if err != nil {
			slog.Error("database setup failed", "error", err, "type", cfg.DatabaseType)
			os.Exit(1)
		}
		defer dbConn.Close()
		store = session.NewSQLStore(dbConn, dialect, src)
		slog.Info("Database schema ready", "type", cfg.DatabaseType)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Sessions may survive a restart on a database backend
	session.SyncActive(ctx, store)

	// Discard idle sessions in the background
	go session.RunJanitor(ctx, store, cfg.SessionTTL, min(cfg.SessionTTL/2, time.Minute))

	// Create router
	mux := router.NewRouter(store, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		cancel()
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "token_budget", cfg.TokenBudget, "session_ttl", cfg.SessionTTL)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

func openDatabase(dialect db.Dialect, url string) (*sql.DB, error) {
	dbConn, err := db.Open(dialect, url)
	if err != nil {
		return nil, err
	}
	if err := db.CreateSchema(dbConn); err != nil {
		dbConn.Close()
		return nil, err
	}
	return dbConn, nil
}
