// Command server runs the planner's HTTP API: POST /optimize to run the
// genetic optimizer, GET /health for liveness, and a /ws/:run_id endpoint
// streaming that run's generation progress. Adapted from
// brianmickel-battery-backtest's cmd/api/main.go gin+middleware wiring.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"energyplanner/internal/api"
	"energyplanner/internal/api/middleware"
	"energyplanner/internal/cache"
	"energyplanner/internal/fitness"
)

func main() {
	port := os.Getenv("PLANNER_PORT")
	if port == "" {
		port = "8080"
	}
	addrFlag := flag.String("addr", ":"+port, "listen address")
	flag.Parse()

	if os.Getenv("PLANNER_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())

	runCache := cache.New()
	ipc := fitness.NewInterpolatorCache()
	hubs := api.NewHubRegistry()
	optimizeHandler := api.NewOptimizeHandler(runCache, ipc, hubs)

	router.GET("/health", api.Health)
	router.POST("/optimize", optimizeHandler.Run)
	router.GET("/ws/:run_id", api.ProgressWebSocket(hubs))

	log.Printf("starting planner server on %s", *addrFlag)
	if err := router.Run(*addrFlag); err != nil {
		log.Fatal(fmt.Errorf("server exited: %w", err))
	}
}
