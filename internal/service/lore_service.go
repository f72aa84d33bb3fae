package service

import (
	"context"
	"fmt"
	"strings"

	"lore-server/internal/analysis"
	"lore-server/internal/models"
	"lore-server/internal/repository"

	"go.uber.org/zap"
)

// Analyzer produces a literary analysis of free text.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*analysis.Result, error)
}

// LoreService applies ownership and validation rules on top of the
// repositories. A userID of 0 means an anonymous caller.
type LoreService struct {
	locations  repository.LocationRepository
	factions   repository.FactionRepository
	items      repository.ItemRepository
	characters repository.CharacterRepository
	stories    repository.StoryRepository
	analyzer   Analyzer
	logger     *zap.Logger
}

type Repositories struct {
	Locations  repository.LocationRepository
	Factions   repository.FactionRepository
	Items      repository.ItemRepository
	Characters repository.CharacterRepository
	Stories    repository.StoryRepository
}

func NewLoreService(repos Repositories, analyzer Analyzer, logger *zap.Logger) *LoreService {
	return &LoreService{
		locations:  repos.Locations,
		factions:   repos.Factions,
		items:      repos.Items,
		characters: repos.Characters,
		stories:    repos.Stories,
		analyzer:   analyzer,
		logger:     logger.Named("LoreService"),
	}
}

type writeMode int

const (
	modeCreate writeMode = iota
	modeReplace
	modePatch
)

// modeFor picks replace or patch semantics for an update.
func modeFor(partial bool) writeMode {
	if partial {
		return modePatch
	}
	return modeReplace
}

func requireUser(userID uint64) error {
	if userID == 0 {
		return fmt.Errorf("%w: authentication required", models.ErrUnauthorized)
	}
	return nil
}

func requireOwner(a *models.Audit, userID uint64) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if !a.OwnedBy(userID) {
		return fmt.Errorf("%w: only the owner may modify this object", models.ErrForbidden)
	}
	return nil
}

// checkRequired enforces a non-blank value. Patches may omit the field.
func checkRequired(field string, v *string, mode writeMode) error {
	if v == nil {
		if mode == modePatch {
			return nil
		}
		return fmt.Errorf("%w: %s is required", models.ErrInvalidInput, field)
	}
	if strings.TrimSpace(*v) == "" {
		return fmt.Errorf("%w: %s may not be blank", models.ErrInvalidInput, field)
	}
	return nil
}

func checkNotSelf(field string, id int64, ref *int64) error {
	if ref != nil && *ref == id {
		return fmt.Errorf("%w: %s cannot reference itself", models.ErrInvalidInput, field)
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setOptional[T any](dst *T, src models.Optional[T]) {
	if src.Set {
		*dst = src.Value
	}
}

func setIDs(dst *[]int64, src *[]int64) {
	if src != nil {
		*dst = *src
	}
}

func applyAudit(a *models.Audit, in models.AuditInput) {
	if in.Tags != nil {
		a.Tags = *in.Tags
	}
	if in.ExtraData != nil {
		a.ExtraData = *in.ExtraData
	}
}

func newAudit(userID uint64, in models.AuditInput) models.Audit {
	owner := userID
	a := models.Audit{CreatedBy: &owner}
	applyAudit(&a, in)
	a.Normalize()
	return a
}
