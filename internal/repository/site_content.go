package repository

import (
	"context"
	"strings"

	"noirstore/internal/models"
	"noirstore/internal/storage"
)

type SiteContentRepository struct {
	*base
	activities *ActivityLogger
}

func (r *SiteContentRepository) Get(ctx context.Context) (models.SiteContent, error) {
	if err := r.wait(ctx); err != nil {
		return models.SiteContent{}, err
	}
	s, ver, err := storage.GetOr(ctx, r.store, r.store.Key(storage.NSSiteContent), models.DefaultSiteContent())
	s.Version = ver
	return s, err
}

// Update replaces the sections present in patch. An empty patch is a 400.
func (r *SiteContentRepository) Update(ctx context.Context, patch models.SiteContentPatch) (models.SiteContent, error) {
	if err := r.wait(ctx); err != nil {
		return models.SiteContent{}, err
	}
	var sections []string
	s, ver, err := mutateOr(ctx, r.store, r.store.Key(storage.NSSiteContent), models.DefaultSiteContent(), func(s *models.SiteContent) error {
		sections = patch.Apply(s)
		if len(sections) == 0 {
			return BadRequest("No site content sections to update")
		}
		return nil
	})
	if err != nil {
		return models.SiteContent{}, err
	}
	s.Version = ver

	err = r.activities.record(ctx, models.ActivitySystem, "Site content updated", "Sections: "+strings.Join(sections, ", "))
	return s, err
}
