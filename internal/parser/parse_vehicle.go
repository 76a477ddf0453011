package parser

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/navsim/broadside/internal/geo"
	"github.com/navsim/broadside/pkg/core"
)

// Upstream speeds are knots and model units are not meters; these bring both
// into SI.
const (
	speedDivisor = 1.944
	lengthScale  = 1.53
)

// ErrUnsupportedClass marks vehicle classes the simulation does not model.
var ErrUnsupportedClass = errors.New("unsupported vehicle class")

// parseHull ingests one hull upgrade: its name, speed, armament and armor.
func (p *Parser) parseHull(vehicleURL string, hullSpec map[string]any, components map[string]any) (core.TargetConfiguration, error) {
	var config core.TargetConfiguration

	componentRefs, ok := hullSpec["components"].(map[string]any)
	if !ok {
		return config, fmt.Errorf("hull has no components object")
	}

	hullName, err := componentRef(componentRefs, "hull")
	if err != nil {
		return config, err
	}
	hull, ok := components[hullName].(map[string]any)
	if !ok {
		return config, fmt.Errorf("missing hull component %q", hullName)
	}

	maxSpeed, err := floatField(hull, "maxSpeed")
	if err != nil {
		return config, err
	}
	config.Speed = maxSpeed / speedDivisor
	if config.Name, err = stringField(hull, "name"); err != nil {
		return config, err
	}

	if _, hasArtillery := componentRefs["artillery"]; hasArtillery {
		refs, ok := componentRefs["artillery"].([]any)
		if !ok {
			return config, fmt.Errorf("artillery reference is not a list")
		}
		if len(refs) != 1 {
			p.logger.Warn("unexpected artillery reference count", "count", len(refs))
		}
		artilleryName, ok := refs[0].(string)
		if !ok {
			return config, fmt.Errorf("artillery reference is not a string")
		}
		artillery, ok := components[artilleryName].(map[string]any)
		if !ok {
			return config, fmt.Errorf("missing artillery component %q", artilleryName)
		}
		if config.Artillery, err = p.parseArtillery(artillery); err != nil {
			return config, fmt.Errorf("parsing artillery %q: %w", artilleryName, err)
		}
	}

	if config.Geometry, err = p.parseArmor(vehicleURL, componentRefs); err != nil {
		return config, fmt.Errorf("parsing armor: %w", err)
	}

	footprint, err := geo.FootprintOf(config.Geometry)
	if err != nil {
		p.logger.Warn("hull has no armor footprint", "hull", config.Name)
	} else {
		config.Length = footprint.Length * lengthScale
		p.logger.Debug("hull footprint",
			"hull", config.Name,
			"length", config.Length,
			"beam", footprint.Beam*lengthScale)
	}

	return config, nil
}

// componentRef reads the first entry of a component reference list.
func componentRef(refs map[string]any, key string) (string, error) {
	list, ok := refs[key].([]any)
	if !ok || len(list) == 0 {
		return "", fmt.Errorf("missing component reference %q", key)
	}
	name, ok := list[0].(string)
	if !ok {
		return "", fmt.Errorf("component reference %q is not a string", key)
	}
	return name, nil
}

// Vehicle downloads and parses one vehicle page into a Ship. Auxiliaries and
// submarines return ErrUnsupportedClass.
func (p *Parser) Vehicle(vehicleID string) (*core.Ship, error) {
	url := p.baseURL + "/vehicles/" + vehicleID
	p.logger.Debug("downloading vehicle", "id", vehicleID)

	page, err := p.fetcher.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching vehicle %s: %w", vehicleID, err)
	}
	payload, err := jsVarPayload(page, "var _vehicle")
	if err != nil {
		return nil, fmt.Errorf("extracting vehicle data for %s: %w", vehicleID, err)
	}

	spec := map[string]any{}
	if err := json.Unmarshal([]byte(payload), &spec); err != nil {
		return nil, fmt.Errorf("decoding vehicle data for %s: %w", vehicleID, err)
	}

	name, err := stringField(spec, "name")
	if err != nil {
		return nil, err
	}
	className, err := stringField(spec, "class")
	if err != nil {
		return nil, err
	}

	var class core.ShipClass
	switch className {
	case "destroyer":
		class = core.ClassDestroyer
	case "cruiser":
		class = core.ClassCruiser
	case "battleship":
		class = core.ClassBattleship
	case "aircarrier":
		class = core.ClassAircraftCarrier
	case "auxiliary", "submarine":
		return nil, fmt.Errorf("%s is %s: %w", vehicleID, className, ErrUnsupportedClass)
	default:
		return nil, fmt.Errorf("unknown ship class %q for %s", className, name)
	}

	level, err := floatField(spec, "level")
	if err != nil {
		return nil, err
	}

	components, ok := spec["Components"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("vehicle %s has no Components object", vehicleID)
	}
	upgradeInfo, ok := spec["ShipUpgradeInfo"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("vehicle %s has no ShipUpgradeInfo object", vehicleID)
	}
	hulls, ok := upgradeInfo["_Hull"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("vehicle %s has no _Hull upgrades", vehicleID)
	}

	ship := &core.Ship{
		Tier:  int(level),
		Name:  name,
		Class: class,
	}
	for _, key := range sortedKeys(hulls) {
		hullSpec, ok := hulls[key].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("hull %q is not an object", key)
		}
		p.logger.Debug("found hull", "key", key)
		config, err := p.parseHull(url, hullSpec, components)
		if err != nil {
			return nil, fmt.Errorf("parsing hull %q: %w", key, err)
		}
		ship.Configurations = append(ship.Configurations, config)
	}

	return ship, nil
}
