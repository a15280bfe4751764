package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Veraticus/mapping-lia/internal/model"
)

// FetchAllPageSize is the page size used when fetching a whole status set.
const FetchAllPageSize = 5000

// Status list endpoints. The approved path is capitalised on the backend.
const (
	pathPending  = "/api/review/pending"
	pathApproved = "/api/review/Approved"
	pathRejected = "/api/review/rejected"
)

// PageFunc is called after every fetched page with the running total.
type PageFunc func(fetched int)

// Action is a review decision endpoint.
type Action string

// Review actions.
const (
	ActionApprove     Action = "approve"
	ActionReject      Action = "reject"
	ActionAssignOther Action = "assign-other"
)

// Categorization is the body of an update-categorization call. Nil ids clear the level.
type Categorization struct {
	AreaID        *int `json:"areaId"`
	CategoryID    *int `json:"categoryId"`
	SubcategoryID *int `json:"subcategoryId"`
}

// ListPath returns the list endpoint for a status.
func ListPath(status model.ReviewStatus) (string, error) {
	switch status {
	case model.StatusPendingReview:
		return pathPending, nil
	case model.StatusApproved:
		return pathApproved, nil
	case model.StatusRejected:
		return pathRejected, nil
	default:
		return "", fmt.Errorf("unknown review status %q", status)
	}
}

// List fetches one page of competences with the given status.
func (a *API) List(ctx context.Context, status model.ReviewStatus, skip, take int) ([]model.Competence, error) {
	path, err := ListPath(status)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("take", strconv.Itoa(take))

	var out []model.Competence
	if err := a.r.Get(ctx, path, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPending fetches a page of pending competences.
func (a *API) GetPending(ctx context.Context, skip, take int) ([]model.Competence, error) {
	return a.List(ctx, model.StatusPendingReview, skip, take)
}

// GetApproved fetches a page of approved competences.
func (a *API) GetApproved(ctx context.Context, skip, take int) ([]model.Competence, error) {
	return a.List(ctx, model.StatusApproved, skip, take)
}

// GetRejected fetches a page of rejected competences.
func (a *API) GetRejected(ctx context.Context, skip, take int) ([]model.Competence, error) {
	return a.List(ctx, model.StatusRejected, skip, take)
}

// FetchAll pages through every competence with status. It stops at the first
// empty page or the first page shorter than FetchAllPageSize, so a set whose
// size is an exact multiple costs one extra empty request. Any page error
// aborts the whole fetch.
func (a *API) FetchAll(ctx context.Context, status model.ReviewStatus, onPage PageFunc) ([]model.Competence, error) {
	var all []model.Competence
	skip := 0

	for {
		batch, err := a.List(ctx, status, skip, FetchAllPageSize)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}

		all = append(all, batch...)
		skip += len(batch)
		if onPage != nil {
			onPage(len(all))
		}

		if len(batch) < FetchAllPageSize {
			break
		}
	}

	if all == nil {
		all = []model.Competence{}
	}
	return all, nil
}

// GetAllPending fetches every pending competence.
func (a *API) GetAllPending(ctx context.Context) ([]model.Competence, error) {
	return a.FetchAll(ctx, model.StatusPendingReview, nil)
}

// GetAllApproved fetches every approved competence.
func (a *API) GetAllApproved(ctx context.Context) ([]model.Competence, error) {
	return a.FetchAll(ctx, model.StatusApproved, nil)
}

// GetAllRejected fetches every rejected competence.
func (a *API) GetAllRejected(ctx context.Context) ([]model.Competence, error) {
	return a.FetchAll(ctx, model.StatusRejected, nil)
}

// GetCompetence fetches a single competence.
func (a *API) GetCompetence(ctx context.Context, id model.ID) (model.Competence, error) {
	var out model.Competence
	err := a.r.Get(ctx, "/api/review/"+url.PathEscape(id.String()), nil, &out)
	return out, err
}

// GetMetadata fetches the area/category/subcategory collections.
func (a *API) GetMetadata(ctx context.Context) (model.Metadata, error) {
	var out model.Metadata
	err := a.r.Get(ctx, "/api/review/metadata", nil, &out)
	return out, err
}

// Review posts a decision for one competence.
func (a *API) Review(ctx context.Context, id model.ID, action Action, notes string) error {
	switch action {
	case ActionApprove, ActionReject, ActionAssignOther:
	default:
		return fmt.Errorf("unknown review action %q", action)
	}
	path := fmt.Sprintf("/api/review/%s/%s", url.PathEscape(id.String()), action)
	return a.r.Post(ctx, path, map[string]string{"reviewNotes": notes}, nil)
}

// Approve marks a competence approved.
func (a *API) Approve(ctx context.Context, id model.ID, notes string) error {
	return a.Review(ctx, id, ActionApprove, notes)
}

// Reject marks a competence rejected.
func (a *API) Reject(ctx context.Context, id model.ID, notes string) error {
	return a.Review(ctx, id, ActionReject, notes)
}

// AssignOther moves a competence to the catch-all "Other" classification.
func (a *API) AssignOther(ctx context.Context, id model.ID, notes string) error {
	return a.Review(ctx, id, ActionAssignOther, notes)
}

// UpdateCategorization changes the area, category and subcategory of a competence.
func (a *API) UpdateCategorization(ctx context.Context, id model.ID, c Categorization) error {
	path := fmt.Sprintf("/api/review/%s/update-categorization", url.PathEscape(id.String()))
	return a.r.Patch(ctx, path, c, nil)
}
