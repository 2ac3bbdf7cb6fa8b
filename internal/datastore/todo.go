// todo.go database operations for the daily task list
package datastore

import (
	"time"

	"github.com/now-man/a4s-dshbrd-250831/internal/errors"
	"gorm.io/gorm"
)

// GetTodos returns the task list for one date in list order. An unknown date
// yields an empty list, not an error.
func (ds *DataStore) GetTodos(date string) ([]TodoItem, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, validationError("date must be YYYY-MM-DD", "date", date)
	}

	var items []TodoItem
	err := ds.DB.Where("date = ?", date).
		Order("position ASC").
		Find(&items).Error
	if err != nil {
		return nil, dbError(err, "get_todos", errors.PriorityLow, "date", date)
	}
	return items, nil
}

// SaveTodos replaces the task list for one date with items, preserving the
// given order.
func (ds *DataStore) SaveTodos(date string, items []TodoItem) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return validationError("date must be YYYY-MM-DD", "date", date)
	}

	err := ds.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("date = ?", date).Delete(&TodoItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].ID = 0
			items[i].Date = date
			items[i].Position = i
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return dbError(err, "save_todos", errors.PriorityLow,
			"date", date,
			"item_count", len(items))
	}
	return nil
}
