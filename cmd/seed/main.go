package main

import (
	"context"
	"log"
	"time"

	"carbon-track/footprint-backend/internal/challenges"
	"carbon-track/footprint-backend/internal/config"
	"carbon-track/footprint-backend/internal/factors"
	"carbon-track/footprint-backend/internal/users"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func seedFactors() []factors.EmissionFactor {
	epa := factors.Source{Name: "EPA", Reliability: factors.ReliabilityHigh, Year: 2024}
	fao := factors.Source{Name: "FAO", Reliability: factors.ReliabilityHigh, Year: 2024}

	return []factors.EmissionFactor{
		{
			Category:    factors.CategoryTransport,
			Subcategory: "car",
			Name:        "Petrol car",
			Factor:      factors.Factor{Value: 2.31, Unit: "kg", PerUnit: "L"},
			Source:      epa,
		},
		{
			Category:    factors.CategoryTransport,
			Subcategory: "car_diesel",
			Name:        "Diesel car",
			Factor:      factors.Factor{Value: 2.68, Unit: "kg", PerUnit: "L"},
			Source:      epa,
		},
		{
			Category:    factors.CategoryTransport,
			Subcategory: "bus",
			Name:        "Bus travel",
			Factor:      factors.Factor{Value: 0.14, Unit: "kg", PerUnit: "km"},
			Source:      epa,
		},
		{
			Category:    factors.CategoryTransport,
			Subcategory: "train",
			Name:        "Train travel",
			Factor:      factors.Factor{Value: 0.04, Unit: "kg", PerUnit: "km"},
			Source:      epa,
		},
		{
			Category:    factors.CategoryTransport,
			Subcategory: "flight",
			Name:        "Short-haul flight",
			Factor:      factors.Factor{Value: 0.255, Unit: "kg", PerUnit: "km"},
			Source:      epa,
		},
		{
			Category:    factors.CategoryEnergy,
			Subcategory: "electricity",
			Name:        "Grid electricity (US)",
			Factor:      factors.Factor{Value: 0.92, Unit: "kg", PerUnit: "kWh"},
			Region:      &factors.Region{Country: "US"},
			Source:      epa,
		},
		{
			Category:    factors.CategoryEnergy,
			Subcategory: "natural_gas",
			Name:        "Natural gas",
			Factor:      factors.Factor{Value: 2.02, Unit: "kg", PerUnit: "m3"},
			Source:      epa,
		},
		{
			Category:    factors.CategoryWaste,
			Subcategory: "landfill",
			Name:        "Landfill waste",
			Factor:      factors.Factor{Value: 0.5, Unit: "kg", PerUnit: "kg"},
			Source:      epa,
		},
		{
			Category:    factors.CategoryFood,
			Subcategory: "beef",
			Name:        "Beef",
			Factor:      factors.Factor{Value: 13.3, Unit: "kg", PerUnit: "kg"},
			Source:      fao,
		},
		{
			Category:    factors.CategoryFood,
			Subcategory: "chicken",
			Name:        "Chicken",
			Factor:      factors.Factor{Value: 2.9, Unit: "kg", PerUnit: "kg"},
			Source:      fao,
		},
		{
			Category:    factors.CategoryFood,
			Subcategory: "vegetables",
			Name:        "Vegetables",
			Factor:      factors.Factor{Value: 2.0, Unit: "kg", PerUnit: "kg"},
			Source:      fao,
		},
	}
}

func seedUsers() []users.User {
	return []users.User{
		{
			Username: "admin",
			Email:    "admin@carbontracker.com",
			Password: "Admin123!",
			Role:     users.RoleAdmin,
			Profile: users.Profile{
				FirstName: "Admin",
				LastName:  "User",
			},
		},
		{
			Username: "demo_user",
			Email:    "demo@carbontracker.com",
			Password: "Demo123!",
			Role:     users.RoleUser,
			Profile: users.Profile{
				FirstName: "Demo",
				LastName:  "User",
				Location:  &users.Location{Country: "US", City: "San Francisco"},
			},
		},
		{
			Username: "eco_warrior",
			Email:    "eco@carbontracker.com",
			Password: "Eco123!",
			Role:     users.RoleUser,
			Profile: users.Profile{
				FirstName: "Eco",
				LastName:  "Warrior",
				Location:  &users.Location{Country: "US", City: "Portland"},
			},
		},
	}
}

func seedChallenges(now time.Time) []challenges.Challenge {
	return []challenges.Challenge{
		{
			Title:       "30-Day Car-Free Challenge",
			Description: "Go car-free for 30 days and explore alternative transportation methods.",
			Category:    "transport",
			Goal:        challenges.Goal{Target: 30, Unit: "days", Description: "Car-free days"},
			Duration:    challenges.Duration{StartDate: now, EndDate: now.AddDate(0, 0, 30)},
			Status:      challenges.StatusActive,
		},
		{
			Title:       "Energy Conservation Week",
			Description: "Reduce your electricity consumption by 20% for one week.",
			Category:    "energy",
			Goal:        challenges.Goal{Target: 20, Unit: "percent", Description: "Electricity reduction"},
			Duration:    challenges.Duration{StartDate: now, EndDate: now.AddDate(0, 0, 7)},
			Status:      challenges.StatusActive,
		},
		{
			Title:       "Zero Waste Month",
			Description: "Minimize your waste production and practice sustainable living.",
			Category:    "waste",
			Goal:        challenges.Goal{Target: 80, Unit: "percent", Description: "Waste reduction"},
			Duration:    challenges.Duration{StartDate: now, EndDate: now.AddDate(0, 0, 30)},
			Status:      challenges.StatusActive,
		},
	}
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Database.URI))
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.Database.DBName)
	logger.Info("Connected to MongoDB", zap.String("database", cfg.Database.DBName))

	// Existing documents are dropped so the seed is repeatable
	for _, name := range []string{"users", "activities", "challenges", "emission_factors"} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			logger.Fatal("Failed to drop collection", zap.String("collection", name), zap.Error(err))
		}
	}
	logger.Info("Cleared existing data")

	now := time.Now().UTC()

	catalog := factors.NewCatalog(db)
	seeded := seedFactors()
	for i := range seeded {
		if err := catalog.Insert(ctx, &seeded[i]); err != nil {
			logger.Fatal("Failed to insert emission factor", zap.String("name", seeded[i].Name), zap.Error(err))
		}
	}
	logger.Info("Created emission factors", zap.Int("count", len(seeded)))

	userRepo := users.NewRepository(db)
	accounts := seedUsers()
	for i := range accounts {
		hashed, err := bcrypt.GenerateFromPassword([]byte(accounts[i].Password), 12)
		if err != nil {
			logger.Fatal("Failed to hash password", zap.Error(err))
		}
		accounts[i].Password = string(hashed)
		accounts[i].IsActive = true
		accounts[i].CreatedAt = now
		accounts[i].UpdatedAt = now
		if err := userRepo.Insert(ctx, &accounts[i]); err != nil {
			logger.Fatal("Failed to insert user", zap.String("username", accounts[i].Username), zap.Error(err))
		}
	}
	logger.Info("Created users", zap.Int("count", len(accounts)))

	challengeRepo := challenges.NewRepository(db)
	templates := seedChallenges(now)
	for i := range templates {
		templates[i].CreatedBy = accounts[0].ID
		if err := challengeRepo.Insert(ctx, &templates[i]); err != nil {
			logger.Fatal("Failed to insert challenge", zap.String("title", templates[i].Title), zap.Error(err))
		}
	}
	logger.Info("Created challenges", zap.Int("count", len(templates)))

	logger.Info("Seeding completed",
		zap.Int("users", len(accounts)),
		zap.Int("emissionFactors", len(seeded)),
		zap.Int("challenges", len(templates)))
}
