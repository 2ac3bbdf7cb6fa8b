// seed.go first-run unit profile creation
package datastore

import (
	"github.com/now-man/a4s-dshbrd-250831/internal/conf"
	"github.com/now-man/a4s-dshbrd-250831/internal/errors"
)

// EnsureUnitProfile loads the unit profile, creating it from the configured
// unit defaults on first run. After the first run the stored profile is
// authoritative and config changes do not overwrite it.
func EnsureUnitProfile(store Interface, unit *conf.UnitSettings) (*UnitProfile, error) {
	profile, err := store.GetUnitProfile()
	if err == nil {
		return profile, nil
	}
	var ee *errors.EnhancedError
	if !errors.As(err, &ee) || ee.Category != errors.CategoryNotFound {
		return nil, err
	}

	profile = &UnitProfile{
		UnitName:         unit.Name,
		DefaultThreshold: unit.DefaultThreshold,
		Latitude:         unit.Latitude,
		Longitude:        unit.Longitude,
		Timezone:         unit.Timezone,
		Equipment:        defaultEquipment(),
	}
	if err := store.SaveUnitProfile(profile); err != nil {
		return nil, err
	}
	return store.GetUnitProfile()
}

// defaultEquipment mirrors the equipment set a newly provisioned unit starts
// with before the operator edits settings.
func defaultEquipment() []Equipment {
	return []Equipment{
		{Name: "JDAM", UsesGeoData: false, ThresholdMode: ThresholdModeManual, ManualThreshold: 10.0},
		{Name: "Recon Drone (Type A)", UsesGeoData: true, ThresholdMode: ThresholdModeManual, ManualThreshold: 15.0},
		{Name: "Tactical Datalink", UsesGeoData: false, ThresholdMode: ThresholdModeManual, ManualThreshold: 8.0},
	}
}
