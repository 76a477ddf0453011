package parser

import (
	"fmt"

	"github.com/navsim/broadside/pkg/core"
)

// parseGun reads the ballistic characteristics shared by every ammo type.
func parseGun(ammo map[string]any) (core.GunSpec, error) {
	var gun core.GunSpec
	var err error
	if gun.Mass, err = floatField(ammo, "bulletMass"); err != nil {
		return gun, err
	}
	if gun.Diameter, err = floatField(ammo, "bulletDiametr"); err != nil {
		return gun, err
	}
	if gun.MuzzleSpeed, err = floatField(ammo, "bulletSpeed"); err != nil {
		return gun, err
	}
	if gun.Drag, err = floatField(ammo, "bulletAirDrag"); err != nil {
		return gun, err
	}
	if gun.Krupp, err = floatField(ammo, "bulletKrupp"); err != nil {
		return gun, err
	}
	return gun, nil
}

// parseAmmo reads one entry of a gun's ammoList. CS (semi-AP) shells are not
// modelled and are downgraded to an inert HE round so the loadout keeps its
// shape.
func (p *Parser) parseAmmo(ammo map[string]any) (core.AmmoSpec, error) {
	ammoType, err := stringField(ammo, "ammoType")
	if err != nil {
		return core.AmmoSpec{}, err
	}
	p.logger.Debug("found ammo", "type", ammoType)

	gun, err := parseGun(ammo)
	if err != nil {
		return core.AmmoSpec{}, fmt.Errorf("parsing ballistics: %w", err)
	}

	switch ammoType {
	case "HE":
		spec := core.AmmoSpec{Kind: core.AmmoHE, Gun: gun}
		if spec.Damage, err = floatField(ammo, "alphaDamage"); err != nil {
			return spec, err
		}
		if spec.Piercing, err = floatField(ammo, "alphaPiercingHE"); err != nil {
			return spec, err
		}
		return spec, nil

	case "AP":
		spec := core.AmmoSpec{Kind: core.AmmoAP, Gun: gun}
		// Ricochet and overmatch work against thickness in millimeters.
		spec.Caliber = gun.Diameter * 1000
		if spec.Damage, err = floatField(ammo, "alphaDamage"); err != nil {
			return spec, err
		}
		if spec.DetonatorDelay, err = floatField(ammo, "bulletDetonator"); err != nil {
			return spec, err
		}
		if spec.DetonatorThreshold, err = floatField(ammo, "bulletDetonatorThreshold"); err != nil {
			return spec, err
		}
		return spec, nil

	case "CS":
		p.logger.Warn("found unimplemented ammo type CS, using inert HE")
		return core.AmmoSpec{Kind: core.AmmoHE, Damage: 1, Piercing: 1, Gun: gun}, nil

	default:
		return core.AmmoSpec{}, fmt.Errorf("unknown ammo type %q", ammoType)
	}
}

// parseArtillery reads one artillery component: a shared dispersion profile
// plus one mount per gun entry.
func (p *Parser) parseArtillery(artillery map[string]any) ([]core.GunMount, error) {
	var dispersion core.DispersionProfile
	var err error
	if dispersion.Horizontal, err = floatField(artillery, "minDistH"); err != nil {
		return nil, err
	}
	if dispersion.Vertical, err = floatField(artillery, "minDistV"); err != nil {
		return nil, err
	}
	if dispersion.MaxRange, err = floatField(artillery, "maxDist"); err != nil {
		return nil, err
	}
	if dispersion.Sigma, err = floatField(artillery, "sigmaCount"); err != nil {
		return nil, err
	}

	guns, ok := artillery["guns"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("artillery has no guns object")
	}

	mounts := make([]core.GunMount, 0, len(guns))
	for _, key := range sortedKeys(guns) {
		gun, ok := guns[key].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("gun %q is not an object", key)
		}
		ammoList, ok := gun["ammoList"].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("gun %q has no ammoList", key)
		}

		mount := core.GunMount{Dispersion: dispersion}
		for _, ammoKey := range sortedKeys(ammoList) {
			ammoObj, ok := ammoList[ammoKey].(map[string]any)
			if !ok {
				return nil, fmt.Errorf("ammo %q is not an object", ammoKey)
			}
			spec, err := p.parseAmmo(ammoObj)
			if err != nil {
				return nil, fmt.Errorf("parsing ammo %q: %w", ammoKey, err)
			}
			mount.Ammo = append(mount.Ammo, spec)
		}
		mounts = append(mounts, mount)
	}
	return mounts, nil
}
