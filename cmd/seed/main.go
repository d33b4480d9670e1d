// Command seed prepares a fresh database: schema, the admin account and the
// default facilities.
package main

import (
	"context"
	"time"

	intconfig "resort/internal/config"
	intdb "resort/internal/db"
	"resort/internal/domain"
	"resort/internal/domain/models"
	"resort/internal/repositories"
	"resort/internal/services"
	"resort/internal/utils"
)

var defaultFacilities = []models.Facility{
	{Name: "Swimming Pool", Type: models.TypeRoom, Capacity: 50, Price: 0, Description: "All accommodations, day tour, and overnight guests have access to the swimming pool."},
	{Name: "Kubo sa Ilog", Type: models.TypeKubo, Capacity: 8, Price: 300, Description: "Perfect for groups looking to enjoy river views and grilling."},
	{Name: "Kubo sa Patag", Type: models.TypeKubo, Capacity: 8, Price: 400, Description: "Includes powered outlets for convenience."},
	{Name: "Cabana", Type: models.TypeCabana, Capacity: 20, Price: 1600, Description: "Good for 20 pax. Includes river access and entertainment options."},
	{Name: "Function Hall", Type: models.TypeHall, Capacity: 50, Price: 2000, Description: "Perfect for events and gatherings with river access."},
	{Name: "A-House", Type: models.TypeHouse, Capacity: 10, Price: 5000, Description: "Rent the entire house for a private stay with all amenities included."},
	{Name: "Kubo ni Bella", Type: models.TypeKubo, Capacity: 8, Price: 500, Description: "A themed kubo perfect for special occasions and celebrations."},
	{Name: "Kubo ni Job", Type: models.TypeKubo, Capacity: 8, Price: 450, Description: "A private kubo in a secluded area for intimate gatherings."},
}

func main() {
	env := intconfig.LoadEnv()
	utils.ConfigureLogger(env.IsProduction())

	db := intconfig.ConnectDB(env)
	defer intconfig.CloseDB()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := intdb.EnsureSchema(ctx, db); err != nil {
		utils.Logger.Fatalf("schema: %v", err)
	}
	if err := seedAdmin(ctx, repositories.UserRepository{DB: db}, env); err != nil {
		utils.Logger.Fatalf("admin: %v", err)
	}
	if err := seedFacilities(ctx, repositories.FacilityRepository{DB: db}); err != nil {
		utils.Logger.Fatalf("facilities: %v", err)
	}
	utils.Logger.Info("seed complete")
}

func seedAdmin(ctx context.Context, users repositories.UserRepository, env intconfig.Env) error {
	_, err := users.GetByEmail(ctx, env.AdminEmail)
	if err == nil {
		utils.Logger.WithField("email", env.AdminEmail).Info("admin already exists")
		return nil
	}
	if !domain.IsNotFound(err) {
		return err
	}
	if env.AdminPassword == "" {
		utils.Logger.Warn("ADMIN_PASSWORD not set, skipping admin account")
		return nil
	}

	hash, err := services.HashPassword(env.AdminPassword)
	if err != nil {
		return err
	}
	_, err = users.Create(ctx, models.User{
		FirstName:    "Admin",
		LastName:     "User",
		Email:        env.AdminEmail,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	})
	if err != nil {
		return err
	}
	utils.Logger.WithField("email", env.AdminEmail).Info("admin created")
	return nil
}

func seedFacilities(ctx context.Context, facilities repositories.FacilityRepository) error {
	existing, err := facilities.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		utils.Logger.WithField("count", len(existing)).Info("facilities already present")
		return nil
	}
	for _, f := range defaultFacilities {
		f.Status = models.FacilityAvailable
		if _, err := facilities.Create(ctx, f); err != nil {
			return err
		}
		utils.Logger.WithField("name", f.Name).Info("seeded facility")
	}
	return nil
}
