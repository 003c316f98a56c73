package types

import "time"

// Known roster levels, lowest first.
const (
	LevelDefault = "1"
	LevelStarter = "Starter"
	LevelPro     = "Pro"
	LevelElite   = "Elite"
)

// StatusInProgress is the level status new users start with.
const StatusInProgress = "IN_PROGRESS"

// Levels lists every level an admin may assign.
var Levels = []string{LevelDefault, LevelStarter, LevelPro, LevelElite}

// ValidLevel reports whether level is one of Levels.
func ValidLevel(level string) bool {
	for _, l := range Levels {
		if l == level {
			return true
		}
	}
	return false
}

// User is one roster entry.
type User struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Level       string  `json:"level"`
	Status      string  `json:"status"`
	GrowthIndex float64 `json:"growth_index"`
}

// AnalysisRecord is one saved swing analysis.
type AnalysisRecord struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	Level            string    `json:"level"`
	Name             string    `json:"name"`
	FileName         string    `json:"file_name"`
	FileSize         int64     `json:"file_size"`
	MimeType         string    `json:"mime_type"`
	Seed             uint32    `json:"seed"`
	AddressScore     int       `json:"address_score"`
	BalanceScore     int       `json:"balance_score"`
	SwingPath        string    `json:"swing_path"`
	ImpactTiming     string    `json:"impact_timing"`
	ConsistencyScore int       `json:"consistency_score"`
	Comment          string    `json:"comment"`
	CreatedAt        time.Time `json:"created_at"`
}
