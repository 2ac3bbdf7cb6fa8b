// profile.go database operations for the unit profile and its equipment
package datastore

import (
	"github.com/now-man/a4s-dshbrd-250831/internal/errors"
	"gorm.io/gorm"
)

// GetUnitProfile loads the unit profile with its equipment set. Returns a
// not-found error when no profile has been seeded yet.
func (ds *DataStore) GetUnitProfile() (*UnitProfile, error) {
	var profile UnitProfile
	err := ds.DB.Preload("Equipment", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("unit profile", "singleton")
		}
		return nil, dbError(err, "get_unit_profile", errors.PriorityHigh)
	}
	return &profile, nil
}

// SaveUnitProfile persists the whole aggregate, replacing the equipment set
// with the one on the profile. Equipment rows removed from the profile are
// deleted; mission logs referencing them by name are retained.
func (ds *DataStore) SaveUnitProfile(profile *UnitProfile) error {
	if profile == nil {
		return validationError("profile cannot be nil", "profile", nil)
	}
	if profile.DefaultThreshold <= 0 {
		return validationError("default threshold must be positive", "default_threshold", profile.DefaultThreshold)
	}
	for i := range profile.Equipment {
		if err := validateEquipment(&profile.Equipment[i]); err != nil {
			return err
		}
	}

	err := ds.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(profile).Error; err != nil {
			return err
		}
		// Drop equipment rows no longer present on the aggregate.
		keep := make([]uint, 0, len(profile.Equipment))
		for i := range profile.Equipment {
			keep = append(keep, profile.Equipment[i].ID)
		}
		q := tx.Where("profile_id = ?", profile.ID)
		if len(keep) > 0 {
			q = q.Where("id NOT IN ?", keep)
		}
		return q.Delete(&Equipment{}).Error
	})
	if err != nil {
		return dbError(err, "save_unit_profile", errors.PriorityHigh,
			"unit", profile.UnitName,
			"equipment_count", len(profile.Equipment))
	}
	return nil
}

// GetEquipment retrieves a single equipment row by id.
func (ds *DataStore) GetEquipment(id uint) (*Equipment, error) {
	var eq Equipment
	if err := ds.DB.First(&eq, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("equipment", id)
		}
		return nil, dbError(err, "get_equipment", errors.PriorityMedium, "id", id)
	}
	return &eq, nil
}

// SaveEquipment creates or updates one equipment row.
func (ds *DataStore) SaveEquipment(eq *Equipment) error {
	if eq == nil {
		return validationError("equipment cannot be nil", "equipment", nil)
	}
	if err := validateEquipment(eq); err != nil {
		return err
	}
	if err := ds.DB.Save(eq).Error; err != nil {
		return dbError(err, "save_equipment", errors.PriorityMedium,
			"name", eq.Name)
	}
	return nil
}

// DeleteEquipment removes an equipment row. Mission logs referencing it by
// name snapshot are deliberately left in place as orphaned history.
func (ds *DataStore) DeleteEquipment(id uint) error {
	result := ds.DB.Delete(&Equipment{}, id)
	if result.Error != nil {
		return dbError(result.Error, "delete_equipment", errors.PriorityMedium, "id", id)
	}
	if result.RowsAffected == 0 {
		return notFoundError("equipment", id)
	}
	return nil
}

// UpdateAutoThreshold writes the estimator result for one equipment row.
// value may be nil, meaning there is not enough mission feedback yet. This is
// the only write path for AutoThreshold.
func (ds *DataStore) UpdateAutoThreshold(equipmentID uint, value *float64) error {
	result := ds.DB.Model(&Equipment{}).
		Where("id = ?", equipmentID).
		Update("auto_threshold", value)
	if result.Error != nil {
		return dbError(result.Error, "update_auto_threshold", errors.PriorityMedium,
			"id", equipmentID)
	}
	if result.RowsAffected == 0 {
		return notFoundError("equipment", equipmentID)
	}
	return nil
}

func validateEquipment(eq *Equipment) error {
	if eq.Name == "" {
		return validationError("equipment name cannot be empty", "name", "")
	}
	if eq.ManualThreshold <= 0 {
		return validationError("manual threshold must be positive", "manual_threshold", eq.ManualThreshold)
	}
	switch eq.ThresholdMode {
	case ThresholdModeManual, ThresholdModeAuto:
	default:
		return validationError("threshold mode must be manual or auto", "threshold_mode", eq.ThresholdMode)
	}
	return nil
}
