package model

// LocationID uniquely identifies a location in the catalog
type LocationID int64

// Location is one entry in the hunt's catalog. The code is the secret
// printed at the physical location and is never exposed to players.
type Location struct {
	ID    LocationID `json:"id"`
	Level int        `json:"level"`
	Name  string     `json:"name"`
	Clue  string     `json:"clue"`
	Code  string     `json:"code"`
}
