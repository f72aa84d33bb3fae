package handler

import (
	"net/http"
	"strconv"

	"lore-server/internal/analysis"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type analysisMeta struct {
	AIMode       analysis.Mode `json:"ai_mode"`
	Model        *string       `json:"model"`
	InputTokens  *int          `json:"input_tokens"`
	OutputTokens *int          `json:"output_tokens"`
	TotalTokens  *int          `json:"total_tokens"`
}

type analysisResponse struct {
	EntityType  string       `json:"entity_type"`
	EntityID    int64        `json:"entity_id"`
	EntityLabel string       `json:"entity_label"`
	Summary     string       `json:"summary"`
	Themes      []string     `json:"themes"`
	Tone        string       `json:"tone"`
	Strengths   []string     `json:"strengths"`
	Weaknesses  []string     `json:"weaknesses"`
	Suggestions []string     `json:"suggestions"`
	Snippet     string       `json:"snippet,omitempty"`
	Meta        analysisMeta `json:"meta"`
}

func (h *LoreHandler) analyzeStory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		analyzeRequestsTotal.WithLabelValues(strconv.Itoa(http.StatusNotFound)).Inc()
		return
	}
	userID := callerID(c)

	out, err := h.svc.AnalyzeStory(c.Request.Context(), userID, id)
	if err != nil {
		h.logger.Info("Story analysis failed",
			zap.Int64("story_id", id),
			zap.Uint64("user_id", userID),
			zap.Error(err),
		)
		handleServiceError(c, err)
		analyzeRequestsTotal.WithLabelValues(strconv.Itoa(c.Writer.Status())).Inc()
		return
	}

	r := out.Result
	analyzeRequestsTotal.WithLabelValues(strconv.Itoa(http.StatusOK)).Inc()
	c.JSON(http.StatusOK, analysisResponse{
		EntityType:  "story",
		EntityID:    out.Story.ID,
		EntityLabel: out.Story.Title,
		Summary:     r.Summary,
		Themes:      r.Themes,
		Tone:        r.Tone,
		Strengths:   r.Strengths,
		Weaknesses:  r.Weaknesses,
		Suggestions: r.Suggestions,
		Snippet:     r.Snippet,
		Meta: analysisMeta{
			AIMode:       r.Meta.Mode,
			Model:        r.Meta.Model,
			InputTokens:  r.Meta.InputTokens,
			OutputTokens: r.Meta.OutputTokens,
			TotalTokens:  r.Meta.TotalTokens,
		},
	})
}
