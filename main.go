package main

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/danielhkuo/classpoll/auth"
	"github.com/danielhkuo/classpoll/cliparse"
	"github.com/danielhkuo/classpoll/db"
	"github.com/danielhkuo/classpoll/middleware"
	"github.com/danielhkuo/classpoll/monitor"
	"github.com/danielhkuo/classpoll/roster"
	"github.com/danielhkuo/classpoll/router"
	"github.com/danielhkuo/classpoll/session"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the database and create tables
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	if err := db.CreateSchema(dbConn, cfg.DatabaseType); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready")

	// Load the roster
	ros := roster.New(cfg.CodePool)
	students, err := db.LoadStudents(dbConn)
	if err != nil {
		slog.Error("roster load failed", "error", err)
		os.Exit(1)
	}
	for _, s := range students {
		ros.Add(s.UID, s.Fullname, s.Username.String)
	}
	slog.Info("Roster loaded", "students", ros.Count())

	// Classroom state
	notifier := monitor.New(slog.Default())
	defer notifier.Close()
	state := session.New(ros, notifier)
	sessions := auth.NewSessions()

	// Create router
	mux := router.NewRouter(dbConn, cfg, state, sessions)

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
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "admin_ip", cfg.AdminIP)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
