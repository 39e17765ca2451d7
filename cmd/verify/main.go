package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/teamslict/hotel/internal/adapters/erp"
	"github.com/teamslict/hotel/internal/adapters/observability"
	"github.com/teamslict/hotel/internal/domain"
	"github.com/teamslict/hotel/internal/shared"
)

// verify runs the room CRUD sequence against the live ERP:
// list, create, get, patch, delete. Operators run it after an ERP deploy
// to confirm the write surface still behaves.
func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, "verify")

	tenantID := os.Getenv("VERIFY_TENANT")
	if tenantID == "" {
		tenantID = "ceylon-paradise"
	}

	client, err := erp.New(cfg.ERPBase, cfg.ERPKey, cfg.ERPRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("erp client init failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	log.Info().Str("base", cfg.ERPBase).Str("tenant", tenantID).Msg("room CRUD verification starting")

	rooms, err := client.ListRooms(ctx, domain.StayQuery{TenantID: tenantID})
	if err != nil {
		log.Fatal().Err(err).Msg("[list] failed")
	}
	log.Info().Int("count", len(rooms)).Msg("[list] ok")

	created, err := client.CreateRoom(ctx, domain.Room{
		RoomNumber:   "TEST-999",
		RoomType:     "Automated Test Suite",
		BasePrice:    150,
		Floor:        1,
		BedType:      "King",
		MaxOccupancy: 2,
		Amenities:    []string{"Wifi", "Test Amenity"},
		Images:       []string{},
		Description:  "Temporary room for CRUD verification.",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("[create] failed")
	}
	if created.ID == "" {
		log.Fatal().Msg("[create] no room id returned")
	}
	log.Info().Str("id", created.ID).Msg("[create] ok")

	got, err := client.GetRoom(ctx, created.ID)
	if err != nil {
		log.Fatal().Err(err).Str("id", created.ID).Msg("[details] failed")
	}
	if got.RoomNumber != "TEST-999" {
		log.Fatal().Str("roomNumber", got.RoomNumber).Msg("[details] wrong room came back")
	}
	log.Info().Str("roomNumber", got.RoomNumber).Msg("[details] ok")

	price := 200.0
	desc := "Updated Description"
	if err := client.UpdateRoom(ctx, created.ID, domain.RoomPatch{BasePrice: &price, Description: &desc}); err != nil {
		log.Fatal().Err(err).Str("id", created.ID).Msg("[update] failed")
	}
	got, err = client.GetRoom(ctx, created.ID)
	if err != nil {
		log.Fatal().Err(err).Str("id", created.ID).Msg("[update] re-read failed")
	}
	if got.BasePrice != price || got.Description != desc {
		log.Fatal().Float64("basePrice", got.BasePrice).Msg("[update] patch did not stick")
	}
	log.Info().Msg("[update] ok")

	if err := client.DeleteRoom(ctx, created.ID); err != nil {
		log.Fatal().Err(err).Str("id", created.ID).Msg("[delete] failed")
	}
	log.Info().Str("id", created.ID).Msg("[delete] ok")

	log.Info().Msg("room CRUD verification completed")
}
