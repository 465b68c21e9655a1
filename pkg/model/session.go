package model

import "fmt"

// SessionType is the kind of timed session within a race weekend.
type SessionType string

const (
	SessionTypePractice   SessionType = "Practice"
	SessionTypeQualifying SessionType = "Qualifying"
	SessionTypeRace       SessionType = "Race"
)

// SessionKey identifies one session of one event.
type SessionKey struct {
	Year    int         `json:"year"`
	Circuit string      `json:"circuit"`
	Type    SessionType `json:"type"`
}

func (k SessionKey) String() string {
	return fmt.Sprintf("%d %s %s", k.Year, k.Circuit, k.Type)
}

// DriverInfo identifies a driver within a session.
type DriverInfo struct {
	ID           string `json:"id"` // provider driver identifier (car number)
	Abbreviation string `json:"abbreviation"`
	FullName     string `json:"fullName"`
}

// Corner is a static circuit corner with its distance along the lap.
type Corner struct {
	Number   int     `json:"number"`
	Distance float64 `json:"distance"` // meters from lap start
}

// defaultPalette is used when the provider has no color assignment for
// a driver; indexed by selection order so the fallback stays stable for
// the lifetime of a session.
var defaultPalette = []string{
	"#0600EF", "#FF8700", "#FF1801", "#DC143C", "#00D2BE",
	"#FF69B4", "#32CD32", "#FF4500", "#8A2BE2", "#00CED1",
}

// SessionContext holds the session-scoped constants. It is built once
// per session load, read-only afterwards, and replaced wholesale on
// reload.
type SessionContext struct {
	Key     SessionKey        `json:"key"`
	Colors  map[string]string `json:"colors"`  // driver id or abbreviation -> hex color
	Corners []Corner          `json:"corners"` // ordered by distance; empty when unavailable
}

// ColorFor resolves the display color for a driver. The provider
// assignment wins; otherwise the default palette indexed by selection
// order is used.
func (c *SessionContext) ColorFor(driver DriverInfo, selectionIdx int) string {
	if col, ok := c.Colors[driver.ID]; ok && col != "" {
		return col
	}
	if col, ok := c.Colors[driver.Abbreviation]; ok && col != "" {
		return col
	}
	if selectionIdx < 0 {
		selectionIdx = 0
	}
	return defaultPalette[selectionIdx%len(defaultPalette)]
}
