package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joshuamkite/freecell-engine/internal/api"
	"github.com/joshuamkite/freecell-engine/internal/store"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	dbPath := flag.String("db", "freecell.db", "sqlite database path for scan run history (empty disables persistence)")
	flag.Parse()

	logger := log.New(os.Stdout, "[FREECELLD] ", log.LstdFlags)

	var db store.DB
	if *dbPath != "" {
		sqliteDB, err := store.NewSQLiteDB(*dbPath)
		if err != nil {
			logger.Fatalf("open database: %v", err)
		}
		if err := sqliteDB.Migrate(); err != nil {
			logger.Fatalf("migrate database: %v", err)
		}
		db = sqliteDB
		defer sqliteDB.Close()
		logger.Printf("run history enabled db_path=%s", *dbPath)
	} else {
		logger.Printf("run history disabled")
	}

	server := api.NewServer(db)
	httpServer := &http.Server{
		Addr:         *addr,
		Handler:      server.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // scans may run long
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("listening addr=%s", *addr)
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server error: %v", err)
		}
	case sig := <-stop:
		logger.Printf("shutting down signal=%s", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Printf("shutdown error: %v", err)
		}
	}
}
