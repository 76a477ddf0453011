package core

// ArmorClass tags an armor face with its protective role.
type ArmorClass uint8

const (
	ArmorNormal ArmorClass = iota
	ArmorCitadel
	ArmorTorpedoProtectionBelt
)

func (c ArmorClass) String() string {
	switch c {
	case ArmorCitadel:
		return "Citadel"
	case ArmorTorpedoProtectionBelt:
		return "TorpedoProtectionBelt"
	default:
		return "Normal"
	}
}

// ArmorClassFromID maps a material type id from the upstream armor schema
// to an armor class. Ids 59-67 are citadel compartments, 101 is the torpedo
// protection belt.
func ArmorClassFromID(id int) ArmorClass {
	switch {
	case id >= 59 && id <= 67:
		return ArmorCitadel
	case id == 101:
		return ArmorTorpedoProtectionBelt
	default:
		return ArmorNormal
	}
}

// ArmorFace is a single triangle of the armor mesh. Vertices are in world
// space; winding order determines the face normal (edge1 x edge2), so the
// ingestion layer must keep it consistent across the mesh.
type ArmorFace struct {
	Vertices  [3]Vec3    `json:"vertices"`
	Thickness float64    `json:"thickness"` // mm
	Class     ArmorClass `json:"class"`
}

// ImpactType classifies the terminal outcome of a single shot.
type ImpactType uint8

const (
	Miss ImpactType = iota
	NonPenetration
	Citadel
	Penetration
	TorpedoProtection
	Ricochet
	OverPenetration
)

var impactTypeNames = [...]string{
	"Miss",
	"NonPenetration",
	"Citadel",
	"Penetration",
	"TorpedoProtection",
	"Ricochet",
	"OverPenetration",
}

func (t ImpactType) String() string {
	if int(t) < len(impactTypeNames) {
		return impactTypeNames[t]
	}
	return "Unknown"
}
