package service

import (
	"context"
	"sync"

	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/entity"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/wizard"

	"github.com/google/uuid"
)

// Draft is one in-flight wizard session held server side. All access goes
// through Do, which serializes concurrent requests against the same draft
// so rapid toggles or double submits cannot interleave.
type Draft struct {
	ID uuid.UUID

	mu   sync.Mutex
	wiz  *wizard.Wizard
	done bool
}

// Do runs fn with exclusive access to the draft's wizard. A draft whose
// order has already been placed reports entity.ErrDraftNotFound, so a
// double submit racing the first cannot place a second order.
func (d *Draft) Do(fn func(w *wizard.Wizard) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done {
		return entity.ErrDraftNotFound
	}
	return fn(d.wiz)
}

// finish marks the draft consumed. Callers must hold the mutex via Do.
func (d *Draft) finish() {
	d.done = true
}

// StartDraft opens a fresh wizard session. An authenticated user prefills
// the contact step from the profile.
func (s *OrderService) StartDraft(user *entity.User) *Draft {
	var opts []wizard.Option
	if user != nil {
		opts = append(opts, wizard.WithUser(user))
	}

	draft := &Draft{
		ID:  uuid.New(),
		wiz: wizard.New(opts...),
	}
	s.drafts.Put(draft.ID, draft, s.draftTTL)

	s.logger.Infow("draft started",
		"draft_id", draft.ID.String(),
		"authenticated", user != nil,
	)
	return draft
}

// Draft looks up an in-flight session. Expired or evicted drafts surface
// as entity.ErrDraftNotFound.
func (s *OrderService) Draft(id uuid.UUID) (*Draft, error) {
	draft, ok := s.drafts.Get(id)
	if !ok {
		return nil, entity.ErrDraftNotFound
	}
	return draft, nil
}

// TouchDraft extends the idle expiry after a mutating request.
func (s *OrderService) TouchDraft(draft *Draft) {
	s.drafts.Put(draft.ID, draft, s.draftTTL)
}

// SubmitDraft runs the terminal wizard submit under the draft lock and
// places the order. applyContact pushes the step-4 form fields into the
// wizard first. On success the draft is consumed and dropped from the
// store; on any failure the draft survives with its state intact.
func (s *OrderService) SubmitDraft(
	ctx context.Context,
	draft *Draft,
	applyContact func(w *wizard.Wizard) error,
) (*entity.Order, *entity.User, error) {
	var order *entity.Order
	var createdUser *entity.User

	err := draft.Do(func(w *wizard.Wizard) error {
		if applyContact != nil {
			if err := applyContact(w); err != nil {
				return err
			}
		}

		sub, issues, err := w.Submit()
		if err != nil {
			return err
		}
		if !issues.Empty() {
			return issues.AsError()
		}

		order, createdUser, err = s.PlaceOrder(ctx, w.User(), sub)
		if err != nil {
			return err
		}

		draft.finish()
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.drafts.Remove(draft.ID)
	return order, createdUser, nil
}
