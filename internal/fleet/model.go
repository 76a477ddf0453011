package fleet

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DatabaseModels is a list of all the structs which represent tables in the
// fleet cache schema.
var DatabaseModels = []interface{}{
	&ShipRecord{},
}

// ShipRecord is the persisted form of one ingested vehicle. The hull
// configurations (armament, armor mesh, dimensions) are large and only ever
// read back whole, so they live in a JSON column.
type ShipRecord struct {
	gorm.Model
	VehicleID      string         `json:"vehicleId" gorm:"size:32;uniqueIndex"`
	Name           string         `json:"name" gorm:"size:127"`
	Class          uint8          `json:"class"`
	Tier           int            `json:"tier"`
	Configurations datatypes.JSON `json:"configurations"`
}
