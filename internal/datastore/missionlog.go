// missionlog.go database operations for mission feedback records
package datastore

import (
	"github.com/now-man/a4s-dshbrd-250831/internal/errors"
	"gorm.io/gorm"
)

// SaveMissionLog stores a mission log and its samples as a single
// transaction. The database assigns a monotonically increasing id at insert
// time; ids are never reused. No referential check is made against the
// equipment list: the log keeps a name snapshot and survives later renames.
func (ds *DataStore) SaveMissionLog(log *MissionLog) error {
	if log == nil {
		return validationError("mission log cannot be nil", "log", nil)
	}
	if log.SuccessScore < 1 || log.SuccessScore > 10 {
		return validationError("success score must be between 1 and 10", "success_score", log.SuccessScore)
	}
	if log.EndTime.Before(log.StartTime) {
		return validationError("end time cannot precede start time", "end_time", log.EndTime)
	}

	for i := range log.Samples {
		log.Samples[i].Position = i
	}

	if err := ds.DB.Create(log).Error; err != nil {
		return dbError(err, "save_mission_log", errors.PriorityMedium,
			"equipment", log.Equipment,
			"sample_count", len(log.Samples))
	}

	return nil
}

// GetMissionLog loads one mission log with its samples in upload order.
func (ds *DataStore) GetMissionLog(id uint) (*MissionLog, error) {
	var log MissionLog
	err := ds.DB.Preload("Samples", samplesInUploadOrder).First(&log, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("mission log", id)
		}
		return nil, dbError(err, "get_mission_log", errors.PriorityMedium, "id", id)
	}
	return &log, nil
}

// DeleteMissionLog removes a mission log and its samples. Deleting an id that
// does not exist is a no-op, not an error.
func (ds *DataStore) DeleteMissionLog(id uint) error {
	result := ds.DB.Select("Samples").Delete(&MissionLog{ID: id})
	if result.Error != nil {
		return dbError(result.Error, "delete_mission_log", errors.PriorityMedium,
			"id", id)
	}
	return nil
}

// GetAllMissionLogs returns every mission log with its samples in insertion
// order. Display consumers re-sort by start time themselves.
func (ds *DataStore) GetAllMissionLogs() ([]MissionLog, error) {
	var logs []MissionLog
	err := ds.DB.Preload("Samples", samplesInUploadOrder).
		Order("id ASC").
		Find(&logs).Error
	if err != nil {
		return nil, dbError(err, "get_all_mission_logs", errors.PriorityMedium)
	}
	return logs, nil
}

// MissionLogsByEquipment returns the logs whose equipment name snapshot
// matches name, in insertion order.
func (ds *DataStore) MissionLogsByEquipment(name string) ([]MissionLog, error) {
	var logs []MissionLog
	err := ds.DB.Preload("Samples", samplesInUploadOrder).
		Where("equipment = ?", name).
		Order("id ASC").
		Find(&logs).Error
	if err != nil {
		return nil, dbError(err, "mission_logs_by_equipment", errors.PriorityMedium,
			"equipment", name)
	}
	return logs, nil
}

// CountMissionLogs returns the number of stored mission logs.
func (ds *DataStore) CountMissionLogs() (int64, error) {
	var count int64
	if err := ds.DB.Model(&MissionLog{}).Count(&count).Error; err != nil {
		return 0, dbError(err, "count_mission_logs", errors.PriorityLow)
	}
	return count, nil
}

// DeleteAllMissionLogs removes every mission log and sample. Callers must
// route this through the two-step confirmation flow. Returns the number of
// logs removed.
func (ds *DataStore) DeleteAllMissionLogs() (int64, error) {
	var removed int64
	err := ds.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&MissionLogSample{}).Error; err != nil {
			return err
		}
		result := tx.Where("1 = 1").Delete(&MissionLog{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, dbError(err, "delete_all_mission_logs", errors.PriorityHigh)
	}
	return removed, nil
}

func samplesInUploadOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}
