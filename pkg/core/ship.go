package core

// AmmoKind distinguishes the damage-resolution strategy of a shell.
type AmmoKind uint8

const (
	AmmoHE AmmoKind = iota
	AmmoAP
)

func (k AmmoKind) String() string {
	if k == AmmoAP {
		return "AP"
	}
	return "HE"
}

// AmmoSpec is one ammunition choice for a gun: the resolver variant plus the
// gun's ballistic characteristics. HE shells use Piercing; AP shells use
// Caliber, DetonatorDelay and DetonatorThreshold.
type AmmoSpec struct {
	Kind               AmmoKind `json:"kind"`
	Damage             float64  `json:"damage"`             // alpha damage
	Piercing           float64  `json:"piercing"`           // mm, HE only
	Caliber            float64  `json:"caliber"`            // mm, AP only
	DetonatorDelay     float64  `json:"detonatorDelay"`     // s, AP only
	DetonatorThreshold float64  `json:"detonatorThreshold"` // mm, AP only
	Gun                GunSpec  `json:"gun"`
}

// GunMount is a dispersion profile plus the ammunition loadout of one mount.
type GunMount struct {
	Dispersion DispersionProfile `json:"dispersion"`
	Ammo       []AmmoSpec        `json:"ammo"`
}

// TargetConfiguration is a fully ingested hull: armament, armor mesh and
// basic dimensions. The simulation core treats it as read-only.
type TargetConfiguration struct {
	Artillery []GunMount  `json:"artillery"`
	Geometry  []ArmorFace `json:"geometry"`
	Speed     float64     `json:"speed"`  // m/s
	Length    float64     `json:"length"` // m
	Name      string      `json:"name"`
}

// ShipClass is the hull classification of a ship.
type ShipClass uint8

const (
	ClassDestroyer ShipClass = iota
	ClassCruiser
	ClassBattleship
	ClassAircraftCarrier
)

func (c ShipClass) String() string {
	switch c {
	case ClassDestroyer:
		return "Destroyer"
	case ClassCruiser:
		return "Cruiser"
	case ClassBattleship:
		return "Battleship"
	default:
		return "AircraftCarrier"
	}
}

// Ship groups the hull configurations of one vehicle together with its
// matchmaking tier.
type Ship struct {
	Configurations []TargetConfiguration `json:"configurations"`
	Tier           int                   `json:"tier"`
	Name           string                `json:"name"`
	Class          ShipClass             `json:"class"`
}
