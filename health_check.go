//go:build ignore

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bortnikova888-creator/SupplierCheck-UK/config"
	"github.com/bortnikova888-creator/SupplierCheck-UK/database"
	"github.com/bortnikova888-creator/SupplierCheck-UK/services"
	"github.com/bortnikova888-creator/SupplierCheck-UK/shared"
)

func main() {
	fmt.Printf("SupplierCheck Health Check - %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Println(strings.Repeat("=", 50))

	healthScore := 0
	totalTests := 3

	cfg := config.LoadConfig()

	// Test 1: Database
	fmt.Print("Database: ")
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		fmt.Printf("FAILED (%v)\n", err)
	} else {
		fmt.Println("OK")
		healthScore++
	}

	// Test 2: Schema
	fmt.Print("Schema: ")
	if db == nil {
		fmt.Println("SKIPPED (no database)")
	} else if err := database.Migrate(db); err != nil {
		fmt.Printf("FAILED (%v)\n", err)
	} else {
		fmt.Println("OK")
		healthScore++
	}

	// Test 3: Companies House API
	fmt.Print("Companies House API: ")
	if db == nil {
		fmt.Println("SKIPPED (no database)")
	} else {
		factory := shared.NewHTTPClientFactory(15 * time.Second)
		limiter := shared.NewHTTPRequestRateLimiter(500 * time.Millisecond)
		cache := services.NewFetchCacheService(
			services.NewPostgresCacheStore(db),
			services.NewHTTPFetchFunc(factory, limiter, 15*time.Second),
		)
		client := services.NewCompaniesHouseClient(cache, cfg.CHAPIKey, time.Minute)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		// 00000006 is a long-standing live company number, cheap to probe.
		if _, _, err := client.GetProfile(ctx, "00000006"); err != nil {
			fmt.Printf("FAILED (%v)\n", err)
		} else {
			fmt.Println("OK")
			healthScore++
		}
	}

	if db != nil {
		db.Close()
	}

	fmt.Println(strings.Repeat("-", 50))
	healthPercent := float64(healthScore) / float64(totalTests) * 100

	switch {
	case healthScore == totalTests:
		fmt.Printf("SYSTEM HEALTHY: %d/%d tests passed (%.0f%%)\n", healthScore, totalTests, healthPercent)
	case healthScore >= totalTests/2:
		fmt.Printf("SYSTEM DEGRADED: %d/%d tests passed (%.0f%%)\n", healthScore, totalTests, healthPercent)
	default:
		fmt.Printf("SYSTEM UNHEALTHY: %d/%d tests passed (%.0f%%)\n", healthScore, totalTests, healthPercent)
	}
}
