package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/mapping-lia/internal/api"
	"github.com/Veraticus/mapping-lia/internal/common"
	"github.com/Veraticus/mapping-lia/internal/feedback"
	"github.com/Veraticus/mapping-lia/internal/model"
	"golang.org/x/sync/errgroup"
)

// Notes used when the reviewer gave none.
const (
	DefaultApproveNotes     = "Approved via UI"
	DefaultAssignOtherNotes = "Assigned to Other via UI"
)

// maxInFlight bounds concurrent requests of one bulk action.
const maxInFlight = 8

type verb struct {
	action  api.Action
	present string
	past    string
}

var (
	verbApprove     = verb{action: api.ActionApprove, present: "approve", past: "approved"}
	verbReject      = verb{action: api.ActionReject, present: "reject", past: "rejected"}
	verbAssignOther = verb{action: api.ActionAssignOther, present: "assign", past: "assigned to 'Other' area"}
)

// Approve approves ids. Empty notes become DefaultApproveNotes.
func (l *List) Approve(ctx context.Context, ids []model.ID, notes string) error {
	if strings.TrimSpace(notes) == "" {
		notes = DefaultApproveNotes
	}
	return l.review(ctx, ids, verbApprove, notes)
}

// Reject rejects ids. Notes are required.
func (l *List) Reject(ctx context.Context, ids []model.ID, notes string) error {
	if strings.TrimSpace(notes) == "" {
		return common.ErrNotesRequired
	}
	return l.review(ctx, ids, verbReject, notes)
}

// AssignOther moves ids to the "Other" area. Empty notes become DefaultAssignOtherNotes.
func (l *List) AssignOther(ctx context.Context, ids []model.ID, notes string) error {
	if strings.TrimSpace(notes) == "" {
		notes = DefaultAssignOtherNotes
	}
	return l.review(ctx, ids, verbAssignOther, notes)
}

// Recategorize saves a categorization draft for id.
func (l *List) Recategorize(ctx context.Context, id model.ID, d Draft) error {
	m, err := l.Metadata(ctx)
	if err != nil {
		return err
	}
	if verr := d.Validate(m); verr != nil {
		l.notify.Error(verr.Error())
		return common.NewUserError(verr.Error(), verr)
	}

	return l.run(ctx, []model.ID{id},
		func(ctx context.Context, id model.ID) error {
			return l.backend.UpdateCategorization(ctx, id, d.Categorization())
		},
		"Categorization updated successfully",
		"Failed to update categorization")
}

func (l *List) review(ctx context.Context, ids []model.ID, v verb, notes string) error {
	success := fmt.Sprintf("Competence %s successfully", v.past)
	failure := fmt.Sprintf("Failed to %s competence", v.present)
	if len(ids) > 1 {
		success = fmt.Sprintf("%d competences %s successfully", len(ids), v.past)
		failure = fmt.Sprintf("Failed to %s %d competences", v.present, len(ids))
	}
	if v == verbAssignOther {
		failure += " to Other"
	}

	return l.run(ctx, ids,
		func(ctx context.Context, id model.ID) error {
			return l.backend.Review(ctx, id, v.action, notes)
		},
		success, failure)
}

// run issues call for every id concurrently and waits for all of them. Any
// failure produces one error notification and leaves the succeeded calls in
// place. Success clears the selection and reloads the active tab unless
// WithoutReload is set.
func (l *List) run(ctx context.Context, ids []model.ID, call func(context.Context, model.ID) error, success, failure string) error {
	if len(ids) == 0 {
		return common.ErrNoSelection
	}

	l.mu.Lock()
	if l.busy {
		l.mu.Unlock()
		return common.ErrBusy
	}
	l.busy = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.busy = false
		l.mu.Unlock()
	}()

	g := new(errgroup.Group)
	g.SetLimit(maxInFlight)
	for _, id := range ids {
		g.Go(func() error {
			if err := call(ctx, id); err != nil {
				return fmt.Errorf("competence %s: %w", id, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		l.logger.Warn("Review action failed", "ids", len(ids), "error", err)
		l.notify.Error(failure + ": " + feedback.Message(err))
		return err
	}

	l.notify.Success(success)

	l.mu.Lock()
	l.selected = IDSet{}
	l.mu.Unlock()

	if l.noReload {
		return nil
	}
	return l.Reload(ctx)
}
