package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/franciscosanchezn/pizza-search-api/internal/config"
	"github.com/franciscosanchezn/pizza-search-api/internal/models"
	"github.com/franciscosanchezn/pizza-search-api/internal/search"
	"github.com/franciscosanchezn/pizza-search-api/internal/services"
	"github.com/joho/godotenv"
)

var menu = []models.PizzaCreate{
	{Name: "Margherita", Description: "Classic", Price: 10.99, Ingredients: models.Ingredients{"Tomato Sauce", "Mozzarella", "Basil"}},
	{Name: "Pepperoni", Description: "Spicy salami", Price: 12.99, Ingredients: models.Ingredients{"Tomato Sauce", "Mozzarella", "Pepperoni"}},
	{Name: "Vegetarian", Description: "Garden vegetables", Price: 11.99, Ingredients: models.Ingredients{"Tomato Sauce", "Mozzarella", "Bell Peppers", "Olives"}},
}

func main() {
	// Parse command line flags
	force := flag.Bool("force", false, "Insert the menu even if the index already has pizzas")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	conf, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	store, err := search.Open(conf)
	if err != nil {
		log.Fatal("Failed to open document store:", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	service := services.NewPizzaService(store)

	// Check if the index is already seeded
	existing, err := service.GetAllPizzas(ctx)
	if err != nil {
		log.Fatal("Failed to list pizzas:", err)
	}
	if len(existing) > 0 && !*force {
		fmt.Printf("Index %s already has %d pizzas, use -force to add the menu again\n", services.PizzaIndex, len(existing))
		return
	}

	for _, p := range menu {
		pizza, err := service.CreatePizza(ctx, p)
		if err != nil {
			log.Fatalf("Failed to create pizza %s: %v", p.Name, err)
		}
		fmt.Printf("✓ Created %s (ID: %s)\n", pizza.Name, pizza.ID)
	}
	fmt.Printf("\nSeeded %d pizzas into %s (%s backend)\n", len(menu), services.PizzaIndex, conf.StoreBackend)
}
