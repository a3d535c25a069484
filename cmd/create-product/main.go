package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/givespark/checkout-api/internal/config"
	"github.com/givespark/checkout-api/internal/domain"
	"github.com/givespark/checkout-api/internal/repository/postgres"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Println("Usage: go run cmd/create-product/main.go <name> <price> <cost> [stripe-price-id]")
		fmt.Println("Example: go run cmd/create-product/main.go \"Cookie Dough Tub\" 25.00 10.00 price_1ABC")
		os.Exit(1)
	}

	name := os.Args[1]

	price, err := strconv.ParseFloat(os.Args[2], 64)
	if err != nil || price < 0 {
		fmt.Fprintf(os.Stderr, "Invalid price: %s\n", os.Args[2])
		os.Exit(1)
	}

	cost, err := strconv.ParseFloat(os.Args[3], 64)
	if err != nil || cost < 0 {
		fmt.Fprintf(os.Stderr, "Invalid cost: %s\n", os.Args[3])
		os.Exit(1)
	}

	var stripePriceID *string
	if len(os.Args) > 4 {
		stripePriceID = &os.Args[4]
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	repos := postgres.NewRepositories(db, logger)

	product := &domain.Product{
		Name:          name,
		Price:         price,
		Cost:          cost,
		StripePriceID: stripePriceID,
		IsActive:      true,
	}

	if err := repos.Product.Create(context.Background(), product); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create product: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Product created successfully!\n\n")
	fmt.Printf("Product ID: %s\n", product.ID.String())
	fmt.Printf("Name: %s\n", product.Name)
	fmt.Printf("Price: %.2f\n", product.Price)
	fmt.Printf("Cost: %.2f\n", product.Cost)
	if stripePriceID != nil {
		fmt.Printf("Stripe Price ID: %s\n", *stripePriceID)
	}
}
