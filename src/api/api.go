package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/theegiza-web/Hebron-Accountability-Platform/src/api/config"
	"github.com/theegiza-web/Hebron-Accountability-Platform/src/api/data"
	"github.com/theegiza-web/Hebron-Accountability-Platform/src/api/feed"
	"github.com/theegiza-web/Hebron-Accountability-Platform/src/api/tabular"
	"github.com/theegiza-web/Hebron-Accountability-Platform/src/api/webserver"
)

func main() {
	_ = godotenv.Load()

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		mysqlDSN = "dev:test@tcp(localhost:3306)/accountability"
	}
	db := data.MustMySQL(mysqlDSN)

	cfg := config.Load(db)
	if cfg.AdminKey == "" {
		log.Printf("Warning: ADMIN_KEY not configured, admin actions unavailable")
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb = data.MustRedis(cfg.RedisURL)
	} else {
		log.Printf("REDIS_URL not set, event publishing disabled")
	}

	store, err := tabular.Open(db)
	if err != nil {
		log.Fatalf("store: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	// Periodically pick up settings changed directly in the database.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := data.RefreshSettings(db); err != nil {
					log.Printf("settings refresh: %v", err)
				}
			}
		}
	}()

	svc := feed.NewService(store, rdb)
	router := webserver.New(cfg, svc)

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		var err error
		if cfg.EnableSSL && cfg.SSLCert != "" && cfg.SSLKey != "" {
			log.Printf("Starting HTTPS server on port %s", cfg.Port)
			tlsReloader, rerr := webserver.NewTLSReloader(cfg.SSLCert, cfg.SSLKey)
			if rerr != nil {
				log.Printf("Failed to create TLS reloader: %v. Falling back to HTTP", rerr)
				err = httpSrv.ListenAndServe()
			} else {
				httpSrv.TLSConfig = tlsReloader.GetConfig()
				err = httpSrv.ListenAndServeTLS("", "")
			}
		} else {
			log.Printf("Starting HTTP server on port %s (SSL not configured)", cfg.Port)
			err = httpSrv.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()

	log.Printf("Accountability API listening on %s", cfg.Port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	cancel()
	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	_ = httpSrv.Shutdown(shutCtx)
}
