// Package fleet persists ingested ships and answers matchmaking queries.
package fleet

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/navsim/broadside/pkg/core"
)

// battleTiers maps a ship tier (1-10) to the battle tiers it can appear in.
var battleTiers = [10][]int{
	{1},
	{2, 3},
	{3, 4},
	{4, 5},
	{5, 6, 7},
	{6, 7, 8},
	{7, 8, 9},
	{8, 9, 10},
	{9, 10},
	{10},
}

// CanBattle reports whether two ships share at least one battle tier.
func CanBattle(a, b *core.Ship) bool {
	if a.Tier < 1 || a.Tier > 10 || b.Tier < 1 || b.Tier > 10 {
		return false
	}
	for _, tier := range battleTiers[a.Tier-1] {
		for _, other := range battleTiers[b.Tier-1] {
			if tier == other {
				return true
			}
		}
	}
	return false
}

// Store reads and writes the fleet cache.
type Store struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewStore creates a fleet store on an already-connected database.
func NewStore(db *gorm.DB, logger zerolog.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Save upserts one ship under its vehicle identifier.
func (s *Store) Save(vehicleID string, ship *core.Ship) error {
	configurations, err := json.Marshal(ship.Configurations)
	if err != nil {
		return fmt.Errorf("encoding configurations for %s: %w", vehicleID, err)
	}

	record := ShipRecord{
		VehicleID:      vehicleID,
		Name:           ship.Name,
		Class:          uint8(ship.Class),
		Tier:           ship.Tier,
		Configurations: configurations,
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "vehicle_id"}},
		UpdateAll: true,
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("saving ship %s: %w", vehicleID, err)
	}

	s.logger.Debug().Str("vehicleId", vehicleID).Str("name", ship.Name).Msg("Saved ship")
	return nil
}

// Load returns one ship by vehicle identifier.
func (s *Store) Load(vehicleID string) (*core.Ship, error) {
	var record ShipRecord
	if err := s.db.Where("vehicle_id = ?", vehicleID).First(&record).Error; err != nil {
		return nil, fmt.Errorf("loading ship %s: %w", vehicleID, err)
	}
	return record.toShip()
}

// LoadAll returns every cached ship keyed by vehicle identifier.
func (s *Store) LoadAll() (map[string]*core.Ship, error) {
	var records []ShipRecord
	if err := s.db.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("loading fleet: %w", err)
	}

	ships := make(map[string]*core.Ship, len(records))
	for _, record := range records {
		ship, err := record.toShip()
		if err != nil {
			return nil, err
		}
		ships[record.VehicleID] = ship
	}
	s.logger.Info().Int("ships", len(ships)).Msg("Loaded fleet from cache")
	return ships, nil
}

// FindByName returns the cached ships whose name contains the fragment.
func (s *Store) FindByName(fragment string) ([]*core.Ship, error) {
	var records []ShipRecord
	if err := s.db.Where("name LIKE ?", "%"+fragment+"%").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("searching fleet for %q: %w", fragment, err)
	}

	ships := make([]*core.Ship, 0, len(records))
	for _, record := range records {
		ship, err := record.toShip()
		if err != nil {
			return nil, err
		}
		ships = append(ships, ship)
	}
	return ships, nil
}

// Count returns the number of cached ships.
func (s *Store) Count() (int64, error) {
	var count int64
	if err := s.db.Model(&ShipRecord{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting fleet: %w", err)
	}
	return count, nil
}

func (r ShipRecord) toShip() (*core.Ship, error) {
	ship := &core.Ship{
		Tier:  r.Tier,
		Name:  r.Name,
		Class: core.ShipClass(r.Class),
	}
	if err := json.Unmarshal(r.Configurations, &ship.Configurations); err != nil {
		return nil, fmt.Errorf("decoding configurations for %s: %w", r.VehicleID, err)
	}
	return ship, nil
}
