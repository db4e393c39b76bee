// Command api-server serves the tracker dataset read-only over HTTP for
// local preview before publication.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"demtracker/internal/dataset"
	"demtracker/internal/serve"
	"demtracker/internal/tables"
	"demtracker/internal/validate"
	"demtracker/pkg/database"
)

func main() {
	var (
		addr     = flag.String("addr", ":8080", "listen address")
		jsonPath = flag.String("json", dataset.DefaultPath, "path to countryData.json")
	)
	flag.Parse()

	doc, err := dataset.Load(*jsonPath)
	if err != nil {
		log.Fatalf("load dataset: %v", err)
	}

	validator, err := validate.New(tables.Default())
	if err != nil {
		log.Fatalf("build validator: %v", err)
	}

	// History is optional here: a missing db only disables /runs.
	var db *sql.DB
	if opened, err := database.Open(database.DefaultConfig()); err != nil {
		log.Printf("history db unavailable, /runs disabled: %v", err)
	} else if err := database.Migrate(opened); err != nil {
		log.Printf("history db migrate failed, /runs disabled: %v", err)
		_ = opened.Close()
	} else {
		db = opened
		defer db.Close()
	}

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"json":      *jsonPath,
			"countries": len(doc.Countries),
		})
	})

	handler := serve.NewHandler(serve.NewRepo(doc), validator, *jsonPath, db)
	handler.RegisterRoutes(router)

	httpSrv := &http.Server{
		Addr:    *addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("HTTP API server listening on %s", *addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	log.Println("server stopped")
}
