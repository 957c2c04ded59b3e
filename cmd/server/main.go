package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"chefcart-service/internal/adapters/cartstore"
	"chefcart-service/internal/adapters/orderapi"
	"chefcart-service/internal/adapters/repositories"
	"chefcart-service/internal/api"
	"chefcart-service/internal/platform/db"
	"chefcart-service/internal/ports"
	"chefcart-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (Redis, Postgres, order API) behind ports and
// starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := getEnv("PORT", "8080")
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	cartTTL := getDurationEnv("CART_TTL", 7*24*time.Hour)

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	orderAPIURL := os.Getenv("ORDER_API_URL")
	if strings.TrimSpace(orderAPIURL) == "" {
		log.Fatal("ORDER_API_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("verify redis connection to %q: %v", redisAddr, err)
	}
	defer redisClient.Close()

	pg, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pg.Close()

	// Zone and minimum-order configuration are loaded once at startup;
	// dbtool owns schema init and seeding.
	zone, err := repositories.NewSQLZoneRepository(pg).LoadZone(ctx)
	if err != nil {
		log.Fatal(err)
	}

	evaluator, err := services.NewZoneEvaluator(zone)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("delivery zone loaded: name=%q center=(%v,%v) max_radius_km=%v tiers=%d",
		zone.Name, zone.Center.Lat, zone.Center.Lon, zone.MaxRadiusKm, len(zone.Tiers))

	minOrders, err := repositories.NewSQLSettingsRepository(pg).MinOrderSettings(ctx)
	if err != nil {
		log.Fatal(err)
	}

	sessions := services.NewSessionManager(cartstore.NewRedisStore(redisClient, cartTTL))
	sessions.SetMinOrderSettings(ctx, minOrders)

	orderClient, err := orderapi.NewClient(orderAPIURL)
	if err != nil {
		log.Fatal(err)
	}
	placer := orderapi.NewHTTPOrderPlacer(orderClient)

	// The fee endpoint is optional; without it the local tier evaluation is
	// used as-is at checkout.
	var confirmer ports.FeeConfirmer
	if feeAPIURL := os.Getenv("FEE_API_URL"); strings.TrimSpace(feeAPIURL) != "" {
		feeClient, err := orderapi.NewClient(feeAPIURL)
		if err != nil {
			log.Fatal(err)
		}
		confirmer = orderapi.NewHTTPFeeConfirmer(feeClient)
	}

	orchestrator := services.NewCheckoutOrchestrator(sessions, evaluator, confirmer, placer)
	router := api.NewRouter(sessions, evaluator, orchestrator)

	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return d
}
