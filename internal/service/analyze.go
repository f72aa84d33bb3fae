package service

import (
	"context"

	"lore-server/internal/analysis"
	"lore-server/internal/models"

	"go.uber.org/zap"
)

// StoryAnalysis pairs a result with the story it describes.
type StoryAnalysis struct {
	Story  *models.Story
	Result *analysis.Result
}

// AnalyzeStory runs the analysis pipeline over the owner's story text.
func (s *LoreService) AnalyzeStory(ctx context.Context, userID uint64, id int64) (*StoryAnalysis, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	st, err := s.stories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(&st.Audit, userID); err != nil {
		s.logger.Warn("Analysis refused for non-owner", zap.Int64("story_id", id), zap.Uint64("user_id", userID))
		return nil, err
	}
	result, err := s.analyzer.Analyze(ctx, st.AnalysisText())
	if err != nil {
		return nil, err
	}
	return &StoryAnalysis{Story: st, Result: result}, nil
}
