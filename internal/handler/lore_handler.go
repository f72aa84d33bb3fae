package handler

import (
	"context"
	"net/http"
	"strconv"

	"lore-server/internal/middleware"
	"lore-server/internal/models"
	"lore-server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LoreHandler struct {
	svc       *service.LoreService
	verifier  middleware.TokenVerifier
	rateLimit gin.HandlerFunc
	logger    *zap.Logger
}

// NewLoreHandler wires the REST resources. rateLimit guards the analyze
// endpoint and may be nil.
func NewLoreHandler(svc *service.LoreService, verifier middleware.TokenVerifier, rateLimit gin.HandlerFunc, logger *zap.Logger) *LoreHandler {
	return &LoreHandler{
		svc:       svc,
		verifier:  verifier,
		rateLimit: rateLimit,
		logger:    logger.Named("LoreHandler"),
	}
}

func (h *LoreHandler) RegisterRoutes(router gin.IRouter) {
	api := router.Group("/api")
	readAuth := middleware.OptionalAuth(h.verifier, h.logger)
	writeAuth := middleware.RequireAuth(h.verifier, h.logger)

	registerResource(api.Group("/locations"), readAuth, writeAuth, resource[models.Location, models.LocationInput]{
		list:   h.svc.ListLocations,
		get:    h.svc.GetLocation,
		create: h.svc.CreateLocation,
		update: h.svc.UpdateLocation,
		remove: h.svc.DeleteLocation,
	})
	registerResource(api.Group("/factions"), readAuth, writeAuth, resource[models.Faction, models.FactionInput]{
		list:   h.svc.ListFactions,
		get:    h.svc.GetFaction,
		create: h.svc.CreateFaction,
		update: h.svc.UpdateFaction,
		remove: h.svc.DeleteFaction,
	})
	registerResource(api.Group("/items"), readAuth, writeAuth, resource[models.Item, models.ItemInput]{
		list:   h.svc.ListItems,
		get:    h.svc.GetItem,
		create: h.svc.CreateItem,
		update: h.svc.UpdateItem,
		remove: h.svc.DeleteItem,
	})
	registerResource(api.Group("/characters"), readAuth, writeAuth, resource[models.Character, models.CharacterInput]{
		list:   h.svc.ListCharacters,
		get:    h.svc.GetCharacter,
		create: h.svc.CreateCharacter,
		update: h.svc.UpdateCharacter,
		remove: h.svc.DeleteCharacter,
	})

	stories := api.Group("/stories")
	registerResource(stories, readAuth, writeAuth, resource[models.Story, models.StoryInput]{
		list:   h.svc.ListStories,
		get:    h.svc.GetStory,
		create: h.svc.CreateStory,
		update: h.svc.UpdateStory,
		remove: h.svc.DeleteStory,
	})

	analyzeChain := []gin.HandlerFunc{writeAuth}
	if h.rateLimit != nil {
		analyzeChain = append(analyzeChain, h.rateLimit)
	}
	analyzeChain = append(analyzeChain, h.analyzeStory)
	stories.POST("/:id/analyze", analyzeChain...)
}

// resource binds the service operations of one entity type.
type resource[T any, In any] struct {
	list   func(ctx context.Context) ([]*T, error)
	get    func(ctx context.Context, id int64) (*T, error)
	create func(ctx context.Context, userID uint64, in In) (*T, error)
	update func(ctx context.Context, userID uint64, id int64, in In, partial bool) (*T, error)
	remove func(ctx context.Context, userID uint64, id int64) error
}

func registerResource[T any, In any](g *gin.RouterGroup, readAuth, writeAuth gin.HandlerFunc, r resource[T, In]) {
	g.GET("", readAuth, func(c *gin.Context) {
		items, err := r.list(c.Request.Context())
		if err != nil {
			handleServiceError(c, err)
			return
		}
		if items == nil {
			items = []*T{}
		}
		c.JSON(http.StatusOK, items)
	})

	g.GET("/:id", readAuth, func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		item, err := r.get(c.Request.Context(), id)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	})

	g.POST("", writeAuth, func(c *gin.Context) {
		var in In
		if !bindJSON(c, &in) {
			return
		}
		item, err := r.create(c.Request.Context(), callerID(c), in)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	})

	update := func(partial bool) gin.HandlerFunc {
		return func(c *gin.Context) {
			id, ok := parseID(c)
			if !ok {
				return
			}
			var in In
			if !bindJSON(c, &in) {
				return
			}
			item, err := r.update(c.Request.Context(), callerID(c), id, in, partial)
			if err != nil {
				handleServiceError(c, err)
				return
			}
			c.JSON(http.StatusOK, item)
		}
	}
	g.PUT("/:id", writeAuth, update(false))
	g.PATCH("/:id", writeAuth, update(true))

	g.DELETE("/:id", writeAuth, func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		if err := r.remove(c.Request.Context(), callerID(c), id); err != nil {
			handleServiceError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}

func callerID(c *gin.Context) uint64 {
	id, _ := middleware.UserID(c)
	return id
}

// parseID reads the :id path parameter. Malformed ids cannot name an
// object, so they are reported as not found.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		handleServiceError(c, models.ErrNotFound)
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    models.ErrCodeBadRequest,
			Message: "Invalid request body: " + err.Error(),
		})
		return false
	}
	return true
}
