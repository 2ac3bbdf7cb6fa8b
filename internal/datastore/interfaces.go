// interfaces.go defines the interface for the database operations
package datastore

import (
	"github.com/now-man/a4s-dshbrd-250831/internal/conf"
	"gorm.io/gorm"
)

// Interface abstracts the underlying database implementation and defines the
// persistence operations the rest of the application depends on. The core
// packages never touch storage directly; they receive and return values
// through this interface.
type Interface interface {
	Open() error
	Close() error

	// unit profile
	GetUnitProfile() (*UnitProfile, error)
	SaveUnitProfile(profile *UnitProfile) error
	GetEquipment(id uint) (*Equipment, error)
	SaveEquipment(eq *Equipment) error
	DeleteEquipment(id uint) error
	UpdateAutoThreshold(equipmentID uint, value *float64) error

	// mission logs
	SaveMissionLog(log *MissionLog) error
	GetMissionLog(id uint) (*MissionLog, error)
	DeleteMissionLog(id uint) error
	GetAllMissionLogs() ([]MissionLog, error)
	MissionLogsByEquipment(name string) ([]MissionLog, error)
	CountMissionLogs() (int64, error)
	DeleteAllMissionLogs() (int64, error)

	// daily todo list
	GetTodos(date string) ([]TodoItem, error)
	SaveTodos(date string, items []TodoItem) error

	// Transaction runs fn against a store view bound to a single database
	// transaction. Threshold recompute uses this to keep the profile write
	// atomic relative to log mutation.
	Transaction(fn func(tx Interface) error) error
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB
}

// New creates a store instance based on the configured output backend.
// Returns nil when no backend is enabled; conf validation prevents that in
// normal operation.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{Settings: settings}
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{Settings: settings}
	default:
		return nil
	}
}

// Transaction runs fn inside a single database transaction.
func (ds *DataStore) Transaction(fn func(tx Interface) error) error {
	return ds.DB.Transaction(func(tx *gorm.DB) error {
		return fn(&DataStore{DB: tx})
	})
}

// Open is a no-op on the embedded DataStore; the backend-specific stores
// establish the connection.
func (ds *DataStore) Open() error { return nil }

// Close is a no-op on the embedded DataStore.
func (ds *DataStore) Close() error { return nil }
