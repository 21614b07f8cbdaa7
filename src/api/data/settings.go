package data

import (
	"sync"

	"github.com/theegiza-web/Hebron-Accountability-Platform/src/api/types"
	"gorm.io/gorm"
)

var (
	settingsCache map[string]string
	settingsMu    sync.RWMutex
)

// LoadSettings migrates the settings table and loads it into the cache.
func LoadSettings(db *gorm.DB) error {
	if err := db.AutoMigrate(&types.Setting{}); err != nil {
		return err
	}

	var settings []types.Setting
	if err := db.Find(&settings).Error; err != nil {
		return err
	}

	settingsMu.Lock()
	defer settingsMu.Unlock()

	settingsCache = make(map[string]string)
	for _, s := range settings {
		settingsCache[s.Name] = s.Value
	}

	return nil
}

// GetSetting retrieves a setting value by name.
func GetSetting(name string) string {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return settingsCache[name]
}

// RefreshSettings reloads settings from the database.
func RefreshSettings(db *gorm.DB) error {
	return LoadSettings(db)
}
