package sandbox

import (
	"fmt"
	"time"

	"reader-booking/internal/models"
)

// Seed loads the repository with the well-known dev accounts and a handful
// of orders in different lifecycle states.
//
// Accounts (password "password" for all):
//
//	admin@sandbox.local  (admin)
//	client@sandbox.local (client)
//	reader@sandbox.local (reader)
func Seed(repo *Repository) error {
	if _, err := repo.AddUser("Ada Admin", "admin@sandbox.local", "password", models.RoleAdmin); err != nil {
		return fmt.Errorf("sandbox.Seed: %w", err)
	}
	client, err := repo.AddUser("Cleo Client", "client@sandbox.local", "password", models.RoleClient)
	if err != nil {
		return fmt.Errorf("sandbox.Seed: %w", err)
	}
	reader, err := repo.AddUser("Rey Reader", "reader@sandbox.local", "password", models.RoleReader)
	if err != nil {
		return fmt.Errorf("sandbox.Seed: %w", err)
	}
	mk := func(days int, city string) models.Order {
		return repo.CreateOrder(client.ID, models.CreateOrderRequest{
			OrderDate:  time.Now().AddDate(0, 0, days),
			AddressOne: fmt.Sprintf("%d Harbor Street", days+1),
			City:       city,
			Country:    "Iceland",
			PostNumber: 101 + days,
		})
	}

	// A pending order, an assigned one, and an accepted one.
	mk(1, "Reykjavik")
	assigned := mk(2, "Akureyri")
	accepted := mk(3, "Selfoss")

	if _, err := repo.ApplyPatch(assigned.ID, models.OrderPatch{ReaderID: &reader.ID}); err != nil {
		return fmt.Errorf("sandbox.Seed: %w", err)
	}
	acceptedFlag := true
	if _, err := repo.ApplyPatch(accepted.ID, models.OrderPatch{ReaderID: &reader.ID, IsAccepted: &acceptedFlag}); err != nil {
		return fmt.Errorf("sandbox.Seed: %w", err)
	}
	return nil
}
