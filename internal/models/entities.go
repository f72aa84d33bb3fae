package models

import "time"

// Audit carries the fields shared by all lore entities.
type Audit struct {
	Tags      []string       `json:"tags" db:"tags"`
	ExtraData map[string]any `json:"extra_data" db:"extra_data"`
	CreatedBy *uint64        `json:"created_by" db:"created_by"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

// OwnedBy reports whether userID created the entity. Entities whose owner
// is unknown belong to nobody.
func (a *Audit) OwnedBy(userID uint64) bool {
	return a.CreatedBy != nil && *a.CreatedBy == userID
}

// Normalize replaces nil collections with empty ones so they serialize as [] and {}.
func (a *Audit) Normalize() {
	if a.Tags == nil {
		a.Tags = []string{}
	}
	if a.ExtraData == nil {
		a.ExtraData = map[string]any{}
	}
}

// Location is a place in the world. Locations nest through ParentID.
type Location struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Description  string `json:"description" db:"description"`
	LocationType string `json:"location_type" db:"location_type"`
	ParentID     *int64 `json:"parent" db:"parent_id"`
	Audit
}

type Faction struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	FactionType string `json:"faction_type" db:"faction_type"`
	LocationID  *int64 `json:"location" db:"location_id"`
	Audit
}

type Item struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	ItemType    string `json:"item_type" db:"item_type"`
	Rarity      string `json:"rarity" db:"rarity"`
	Audit
}

type Character struct {
	ID             int64          `json:"id" db:"id"`
	Name           string         `json:"name" db:"name"`
	Description    string         `json:"description" db:"description"`
	Age            *int           `json:"age" db:"age"`
	AgeDescription string         `json:"age_description" db:"age_description"`
	Species        string         `json:"species" db:"species"`
	Gender         string         `json:"gender" db:"gender"`
	LocationID     *int64         `json:"location" db:"location_id"`
	Relationships  map[string]any `json:"relationships" db:"relationships"`
	Affiliations   []int64        `json:"affiliations" db:"affiliations"`
	Equipment      []int64        `json:"equipment" db:"equipment"`
	Audit
}

// Normalize also fills the character's own collections.
func (ch *Character) Normalize() {
	ch.Audit.Normalize()
	if ch.Relationships == nil {
		ch.Relationships = map[string]any{}
	}
	if ch.Affiliations == nil {
		ch.Affiliations = []int64{}
	}
	if ch.Equipment == nil {
		ch.Equipment = []int64{}
	}
}
