package api

import (
	"context"
	"strings"

	"github.com/Veraticus/mapping-lia/internal/model"
)

// MapSingle asks the backend to classify one competence string.
func (a *API) MapSingle(ctx context.Context, competence string) (model.SingleMapping, error) {
	var out model.SingleMapping
	err := a.r.Post(ctx, "/api/area-mapper/map", map[string]string{"competence": competence}, &out)
	return out, err
}

// MapLines classifies many competences at once, one per line. A partial
// success is returned as a result with a non-empty Errors list.
func (a *API) MapLines(ctx context.Context, lines []string) (model.BatchMapping, error) {
	var out model.BatchMapping
	err := a.r.Post(ctx, "/api/area-mapper/map-lines", strings.Join(lines, "\n"), &out)
	return out, err
}
