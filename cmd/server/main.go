package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/attendanceterminal/internal/calendars"
	"github.com/attendanceterminal/internal/feedback"
	httpx "github.com/attendanceterminal/internal/http"
	"github.com/attendanceterminal/internal/http/static"
	"github.com/attendanceterminal/internal/http/templates"
	"github.com/attendanceterminal/internal/keys"
	"github.com/attendanceterminal/internal/metrics"
	"github.com/attendanceterminal/internal/statistics"
	"github.com/attendanceterminal/internal/telegram"
	"github.com/attendanceterminal/internal/terms"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("[ERROR] load .env: %s", err)
	}

	addr := flag.String("address", ":http", "http address to listen to")
	dbPath := flag.String("database-path", "attendance.db", "path to the database")
	key := flag.String("encryption-key", "please-change-me", "encryption key for the database")
	termPath := flag.String("term", "", "path to a term JSON file to load on startup")
	termID := flag.String("term-id", "current", "id of the loaded term, unless the file sets one")
	telegramToken := flag.String("telegram-token", "", "telegram bot token, the bot is disabled when empty")
	watch := flag.Bool("watch", false, "if true, will serve from filesystem")
	flag.Parse()

	if envKey := os.Getenv("ENCRYPTION_KEY"); envKey != "" {
		key = &envKey
	}
	if envToken := os.Getenv("TELEGRAM_TOKEN"); envToken != "" {
		telegramToken = &envToken
	}

	encryptionKey, err := keys.ParseKey([]byte(*key))
	if err != nil {
		encryptionKey = keys.FromPassphrase(*key)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	baseHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: new(slog.LevelVar),
	})
	logger := slog.New(baseHandler)

	db, err := badger.Open(badger.DefaultOptions(*dbPath).WithLogger(nil))
	if err != nil {
		log.Fatalf("[ERROR] db: %s", err)
	}
	defer db.Close()

	var renderer templates.Renderer
	var staticHandler http.Handler
	if *watch {
		renderer = templates.NewFilesystemTemplates("./internal/http/templates")
		staticHandler = static.NewFilesystemHandler("./internal/http/static/files")
	} else {
		renderer = templates.NewEmbedTemplates()
		staticHandler = static.NewEmbedHandler()
	}

	termsService := terms.NewService(logger, terms.NewStore(db))
	statisticsService := statistics.NewService(logger)
	calendarsService := calendars.NewService(logger, termsService)
	feedbackService := feedback.NewService(logger, feedback.NewStore(db, encryptionKey))

	if *termPath != "" {
		term, err := terms.LoadFile(*termPath)
		if err != nil {
			log.Fatalf("[ERROR] term: %s", err)
		}
		if term.ID == "" {
			term.ID = terms.ID(*termID)
		}
		if err := termsService.Create(ctx, term); err != nil {
			log.Fatalf("[ERROR] term: %s", err)
		}
	}

	var workers []func(context.Context) error

	if *telegramToken != "" {
		bot, err := telegram.NewBot(logger, telegram.NewStore(db), *telegramToken, termsService, statisticsService, feedbackService)
		if err != nil {
			log.Fatalf("[ERROR] telegram: %s", err)
		}
		feedbackService.SetNotifier(bot)
		// The bot keeps the plain logger, otherwise a failed broadcast would
		// be broadcast again.
		logger = slog.New(telegram.NewSlogHandler(bot, baseHandler))
		workers = append(workers, bot.Listen)
	}

	htmlHandler := httpx.Handler(
		logger,
		renderer,
		staticHandler,
		metrics.New(),
		termsService,
		statisticsService,
		calendarsService,
		feedbackService,
	)

	httpServer := http.Server{
		Handler:           htmlHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatalf("[ERROR] tcp: %s", err)
	}
	log.Printf("[INFO] listening on %s", ln.Addr())

	signalCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(signalCtx, &httpServer, ln, workers...); err != nil {
		log.Printf("[ERROR] %s", err)
	}

	log.Printf("[INFO] application stopped")
}

const shutdownTimeout = 15 * time.Second

// serve runs srv on ln and workers next to it until ctx is done or srv
// fails. It then shuts srv down and waits for every worker to return. A
// failing worker is logged and does not stop the server.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, workers ...func(context.Context) error) error {
	workersCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	var wg sync.WaitGroup
	for _, worker := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := worker(workersCtx); err != nil {
				log.Printf("[ERROR] worker: %s", err)
			}
		}()
	}

	serveErrCh := make(chan error, 1)
	go func() {
		serveErrCh <- srv.Serve(ln)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Printf("[INFO] shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			serveErr = fmt.Errorf("error during shutdown: %w", err)
		}
		if err := <-serveErrCh; err != nil && !errors.Is(err, http.ErrServerClosed) && serveErr == nil {
			serveErr = fmt.Errorf("http serve: %w", err)
		}
	case err := <-serveErrCh:
		serveErr = fmt.Errorf("http serve: %w", err)
	}

	cancelWorkers()
	wg.Wait()
	return serveErr
}
