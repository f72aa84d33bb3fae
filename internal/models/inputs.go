package models

import "encoding/json"

// Optional distinguishes an absent JSON field from an explicit value,
// including an explicit null for pointer types.
type Optional[T any] struct {
	Set   bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	return json.Unmarshal(data, &o.Value)
}

// Some returns a set Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Write payloads. A nil pointer or unset Optional means "leave unchanged"
// on update and "use the default" on create.

type AuditInput struct {
	Tags      *[]string       `json:"tags"`
	ExtraData *map[string]any `json:"extra_data"`
}

type LocationInput struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	LocationType *string          `json:"location_type"`
	ParentID     Optional[*int64] `json:"parent"`
	AuditInput
}

type FactionInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	FactionType *string          `json:"faction_type"`
	LocationID  Optional[*int64] `json:"location"`
	AuditInput
}

type ItemInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ItemType    *string `json:"item_type"`
	Rarity      *string `json:"rarity"`
	AuditInput
}

type CharacterInput struct {
	Name           *string          `json:"name"`
	Description    *string          `json:"description"`
	Age            Optional[*int]   `json:"age"`
	AgeDescription *string          `json:"age_description"`
	Species        *string          `json:"species"`
	Gender         *string          `json:"gender"`
	LocationID     Optional[*int64] `json:"location"`
	Relationships  *map[string]any  `json:"relationships"`
	Affiliations   *[]int64         `json:"affiliations"`
	Equipment      *[]int64         `json:"equipment"`
	AuditInput
}

// StoryInput has no slug: it is derived from the title at creation.
type StoryInput struct {
	Title       *string          `json:"title"`
	Summary     *string          `json:"summary"`
	Body        *string          `json:"body"`
	Kind        *StoryKind       `json:"kind"`
	StoryType   *StoryType       `json:"story_type"`
	Visibility  *Visibility      `json:"visibility"`
	InWorldDate *string          `json:"in_world_date"`
	ParentID    Optional[*int64] `json:"parent"`
	Order       *int             `json:"order"`
	Characters  *[]int64         `json:"characters"`
	Locations   *[]int64         `json:"locations"`
	Factions    *[]int64         `json:"factions"`
	Items       *[]int64         `json:"items"`
	AuditInput
}
