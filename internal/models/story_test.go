package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStory_AnalysisText(t *testing.T) {
	tests := []struct {
		name  string
		story Story
		want  string
	}{
		{"all parts", Story{Title: "T", Summary: "S", Body: "B"}, "T\n\nS\n\nB"},
		{"skips empty summary", Story{Title: "T", Body: "B"}, "T\n\nB"},
		{"body only", Story{Body: "B"}, "B"},
		{"nothing", Story{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.story.AnalysisText())
		})
	}
}

func TestAudit_OwnedBy(t *testing.T) {
	owner := uint64(7)
	a := Audit{CreatedBy: &owner}
	assert.True(t, a.OwnedBy(7))
	assert.False(t, a.OwnedBy(8))
	assert.False(t, (&Audit{}).OwnedBy(7))
}

func TestStory_Normalize(t *testing.T) {
	s := Story{}
	s.Normalize()
	assert.NotNil(t, s.Characters)
	assert.NotNil(t, s.Items)
	assert.NotNil(t, s.Tags)
	assert.NotNil(t, s.ExtraData)
}

func TestEnumsValid(t *testing.T) {
	assert.True(t, StoryKindArc.Valid())
	assert.False(t, StoryKind("saga").Valid())
	assert.True(t, StoryTypeWorldEvent.Valid())
	assert.False(t, StoryType("").Valid())
	assert.True(t, VisibilityPublic.Valid())
	assert.False(t, Visibility("secret").Valid())
}
