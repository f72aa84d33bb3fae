package models

import "strings"

type StoryKind string

const (
	StoryKindStandalone StoryKind = "standalone"
	StoryKindArc        StoryKind = "arc"
	StoryKindPart       StoryKind = "part"
)

type StoryType string

const (
	StoryTypeLore       StoryType = "lore"
	StoryTypeQuest      StoryType = "quest"
	StoryTypeBackstory  StoryType = "backstory"
	StoryTypeWorldEvent StoryType = "world_event"
	StoryTypeLegend     StoryType = "legend"
	StoryTypeOther      StoryType = "other"
)

type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

func (k StoryKind) Valid() bool {
	switch k {
	case StoryKindStandalone, StoryKindArc, StoryKindPart:
		return true
	}
	return false
}

func (t StoryType) Valid() bool {
	switch t {
	case StoryTypeLore, StoryTypeQuest, StoryTypeBackstory, StoryTypeWorldEvent, StoryTypeLegend, StoryTypeOther:
		return true
	}
	return false
}

func (v Visibility) Valid() bool {
	return v == VisibilityPrivate || v == VisibilityPublic
}

// Story is a piece of narrative content: a standalone story, an arc, or a
// part of an arc. Slug is assigned once at creation.
type Story struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Slug        string     `json:"slug" db:"slug"`
	Summary     string     `json:"summary" db:"summary"`
	Body        string     `json:"body" db:"body"`
	Kind        StoryKind  `json:"kind" db:"kind"`
	StoryType   StoryType  `json:"story_type" db:"story_type"`
	Visibility  Visibility `json:"visibility" db:"visibility"`
	InWorldDate string     `json:"in_world_date" db:"in_world_date"`
	ParentID    *int64     `json:"parent" db:"parent_id"`
	Order       int        `json:"order" db:"sort_order"`
	Characters  []int64    `json:"characters" db:"characters"`
	Locations   []int64    `json:"locations" db:"locations"`
	Factions    []int64    `json:"factions" db:"factions"`
	Items       []int64    `json:"items" db:"items"`
	Audit
}

func (s *Story) Normalize() {
	s.Audit.Normalize()
	for _, ids := range []*[]int64{&s.Characters, &s.Locations, &s.Factions, &s.Items} {
		if *ids == nil {
			*ids = []int64{}
		}
	}
}

// AnalysisText joins the non-empty title, summary and body with blank lines.
func (s *Story) AnalysisText() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{s.Title, s.Summary, s.Body} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "\n\n")
}
