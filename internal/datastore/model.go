// model.go defines the persisted data model for the application
package datastore

import "time"

// Threshold modes for equipment sensitivity.
const (
	ThresholdModeManual = "manual"
	ThresholdModeAuto   = "auto"
)

// Success score partition boundaries for mission outcomes.
const (
	FailureScoreBelow = 4 // scores below this count as failed missions
	SuccessScoreFrom  = 8 // scores at or above this count as successful missions
)

// UnitProfile is the aggregate root holding the unit identity, the unit-wide
// default threshold and the equipment set. It is persisted and loaded as a
// whole.
type UnitProfile struct {
	ID               uint   `gorm:"primaryKey"`
	UnitName         string `gorm:"index"`
	DefaultThreshold float64
	Latitude         float64
	Longitude        float64
	Timezone         string
	Equipment        []Equipment `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
	UpdatedAt        time.Time
}

// Equipment is one piece of GNSS-dependent equipment. Exactly one threshold
// governs it at a time, selected by ThresholdMode: the operator-set
// ManualThreshold or the estimator-derived AutoThreshold. AutoThreshold is
// nil until enough mission feedback exists and is written only by the
// threshold estimator, never by a settings edit.
type Equipment struct {
	ID              uint `gorm:"primaryKey"`
	ProfileID       uint `gorm:"index"`
	Name            string
	UsesGeoData     bool
	ThresholdMode   string `gorm:"type:varchar(10)"`
	ManualThreshold float64
	AutoThreshold   *float64
	UpdatedAt       time.Time
}

// MissionLog is one operator-submitted feedback record about a completed
// operation. Equipment is referenced by name snapshot, not by id: renaming
// equipment orphans its historical logs, which is accepted behavior so that
// history survives equipment removal.
type MissionLog struct {
	ID           uint      `gorm:"primaryKey"`
	StartTime    time.Time `gorm:"index:idx_missionlogs_start"`
	EndTime      time.Time
	Equipment    string `gorm:"index:idx_missionlogs_equipment"`
	SuccessScore int
	Samples      []MissionLogSample `gorm:"foreignKey:MissionLogID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
}

// Failed reports whether the mission counts as a failure.
func (m *MissionLog) Failed() bool {
	return m.SuccessScore < FailureScoreBelow
}

// Mediocre reports whether the mission was neither failed nor successful.
func (m *MissionLog) Mediocre() bool {
	return m.SuccessScore >= FailureScoreBelow && m.SuccessScore < SuccessScoreFrom
}

// Successful reports whether the mission counts as a success.
func (m *MissionLog) Successful() bool {
	return m.SuccessScore >= SuccessScoreFrom
}

// MissionLogSample is one measured GNSS error reading attached to a mission
// log, in upload order. Lat/Lon are present only when the originating
// equipment uses geo data.
type MissionLogSample struct {
	ID           uint   `gorm:"primaryKey"`
	MissionLogID uint   `gorm:"index;not null"`
	Position     int    // ordinal within the uploaded series
	Timestamp    string // raw uploaded date text, preserved verbatim
	ErrorMeters  float64
	Lat          *float64
	Lon          *float64
}

// TodoItem is one entry of the optional daily task list, keyed by date.
type TodoItem struct {
	ID        uint   `gorm:"primaryKey"`
	Date      string `gorm:"index:idx_todos_date"` // YYYY-MM-DD
	Position  int
	Text      string `gorm:"type:text"`
	Done      bool
	UpdatedAt time.Time
}
