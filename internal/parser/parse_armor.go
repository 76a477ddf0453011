package parser

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/navsim/broadside/pkg/core"
)

type armorMaterial struct {
	Type      int     `json:"type"`
	Thickness float64 `json:"thickness"` // mm
}

type armorGroup struct {
	Material string `json:"material"`
	Indices  []int  `json:"indices"`
}

type armorObject struct {
	Vertices []float64    `json:"vertices"`
	Groups   []armorGroup `json:"groups"`
}

type rawGeometry struct {
	Objects struct {
		Armor armorObject `json:"armor"`
	} `json:"objects"`
	Materials map[string]armorMaterial `json:"materials"`
}

// schemeEntry is one armor model reference in the "var scheme" payload:
// the model file name and a column-major 4x4 placement transform.
type schemeEntry struct {
	Model     string        `json:"model"`
	Transform [4][4]float64 `json:"transform"`
}

// transformPoint applies a column-major homogeneous transform to a point.
func transformPoint(m [4][4]float64, p core.Vec3) core.Vec3 {
	x := m[0][0]*p.X + m[1][0]*p.Y + m[2][0]*p.Z + m[3][0]
	y := m[0][1]*p.X + m[1][1]*p.Y + m[2][1]*p.Z + m[3][1]
	z := m[0][2]*p.X + m[1][2]*p.Y + m[2][2]*p.Z + m[3][2]
	w := m[0][3]*p.X + m[1][3]*p.Y + m[2][3]*p.Z + m[3][3]
	if w != 0 && w != 1 {
		x, y, z = x/w, y/w, z/w
	}
	return core.Vec3{X: x, Y: y, Z: z}
}

// armorFaces expands a decoded armor model into placed triangles. Vertices
// are stored as a flat coordinate array; groups index into it per material.
func (g rawGeometry) armorFaces(transform [4][4]float64) ([]core.ArmorFace, error) {
	verts := make([]core.Vec3, 0, len(g.Objects.Armor.Vertices)/3)
	for i := 0; i+2 < len(g.Objects.Armor.Vertices); i += 3 {
		verts = append(verts, transformPoint(transform, core.Vec3{
			X: g.Objects.Armor.Vertices[i],
			Y: g.Objects.Armor.Vertices[i+1],
			Z: g.Objects.Armor.Vertices[i+2],
		}))
	}

	var faces []core.ArmorFace
	for _, group := range g.Objects.Armor.Groups {
		material, ok := g.Materials[group.Material]
		if !ok {
			return nil, fmt.Errorf("group references unknown material %q", group.Material)
		}
		for i := 0; i+2 < len(group.Indices); i += 3 {
			for j := 0; j < 3; j++ {
				if group.Indices[i+j] >= len(verts) {
					return nil, fmt.Errorf("vertex index %d out of range", group.Indices[i+j])
				}
			}
			faces = append(faces, core.ArmorFace{
				Vertices: [3]core.Vec3{
					verts[group.Indices[i]],
					verts[group.Indices[i+1]],
					verts[group.Indices[i+2]],
				},
				Thickness: material.Thickness,
				Class:     core.ArmorClassFromID(material.Type),
			})
		}
	}
	return faces, nil
}

// parseArmor downloads and assembles the full armor mesh of one hull. The
// vehicle page serves a scheme listing the per-section model files; each is
// fetched separately and placed by its transform. Missing model files happen
// upstream and are skipped.
func (p *Parser) parseArmor(vehicleURL string, hullComponents map[string]any) ([]core.ArmorFace, error) {
	params := make(map[string]any, len(hullComponents))
	for key, raw := range hullComponents {
		p.logger.Debug("hull component", "key", key)
		list, ok := raw.([]any)
		if !ok || len(list) == 0 {
			return nil, fmt.Errorf("component %q is not a non-empty list", key)
		}
		params[key] = list[0]
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encoding armor params: %w", err)
	}

	page, err := p.fetcher.PostForm(vehicleURL, "armor", string(paramsJSON))
	if err != nil {
		return nil, fmt.Errorf("fetching armor scheme: %w", err)
	}
	payload, err := jsVarPayload(page, "var scheme")
	if err != nil {
		return nil, fmt.Errorf("extracting armor scheme: %w", err)
	}

	scheme := map[string]schemeEntry{}
	if err := json.Unmarshal([]byte(payload), &scheme); err != nil {
		return nil, fmt.Errorf("decoding armor scheme: %w", err)
	}

	sections := make([]string, 0, len(scheme))
	for section := range scheme {
		sections = append(sections, section)
	}
	sort.Strings(sections)

	var faces []core.ArmorFace
	for _, section := range sections {
		entry := scheme[section]
		model, err := p.fetcher.Get(p.baseURL + "/data/current/armor/" + entry.Model)
		if err != nil {
			return nil, fmt.Errorf("fetching armor model %q: %w", entry.Model, err)
		}
		if len(model) == 0 {
			p.logger.Warn("armor model missing upstream, skipping", "section", section, "model", entry.Model)
			continue
		}

		var geometry rawGeometry
		if err := json.Unmarshal([]byte(model), &geometry); err != nil {
			return nil, fmt.Errorf("decoding armor model %q: %w", entry.Model, err)
		}
		sectionFaces, err := geometry.armorFaces(entry.Transform)
		if err != nil {
			return nil, fmt.Errorf("assembling armor model %q: %w", entry.Model, err)
		}
		faces = append(faces, sectionFaces...)
	}
	p.logger.Debug("assembled armor mesh", "faces", len(faces))
	return faces, nil
}
