package view

import (
	"context"
	"fmt"

	"github.com/znsio/specmatic-product-admin-go/internal/i18n"
	"github.com/znsio/specmatic-product-admin-go/internal/models"
)

// Confirmer asks the admin to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, pending PendingDelete) (bool, error)
}

type ConfirmFunc func(ctx context.Context, pending PendingDelete) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, pending PendingDelete) (bool, error) {
	return f(ctx, pending)
}

// RequestRemove moves the delete flow to awaiting confirmation. Nothing is
// sent upstream until ConfirmRemove.
func (v *View) RequestRemove(id string) (PendingDelete, error) {
	v.ops.Lock()
	defer v.ops.Unlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	if _, err := v.sessionLocked(); err != nil {
		return PendingDelete{}, err
	}
	if id == "" {
		return PendingDelete{}, ErrProductNotFound
	}

	v.pending = &PendingDelete{
		ID:     id,
		Phase:  PhaseAwaitingConfirmation,
		Prompt: v.printer.Sprintf(i18n.KeyDeleteConfirm),
		Detail: v.printer.Sprintf(i18n.KeyDeleteIrreversible),
	}
	return *v.pending, nil
}

// CancelRemove drops the pending delete.
func (v *View) CancelRemove() error {
	v.ops.Lock()
	defer v.ops.Unlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.pending == nil {
		return ErrNoPendingDelete
	}
	v.pending = nil
	return nil
}

// ConfirmRemove deletes the pending product. An empty id confirms whatever is
// pending; otherwise it must match. The pending entry is consumed whatever the
// outcome, so a repeated confirmation fails with ErrNoPendingDelete.
func (v *View) ConfirmRemove(ctx context.Context, id string) error {
	v.ops.Lock()
	defer v.ops.Unlock()

	v.mu.Lock()
	api, err := v.sessionLocked()
	if err != nil {
		v.mu.Unlock()
		return err
	}
	if v.pending == nil || (id != "" && v.pending.ID != id) {
		v.mu.Unlock()
		return ErrNoPendingDelete
	}
	target := v.pending.ID
	v.pending.Phase = PhaseRequesting
	deleted := models.Product{ID: target}
	for _, p := range v.products {
		if p.ID == target {
			deleted = p.Clone()
			break
		}
	}
	v.mu.Unlock()

	msg, err := api.DeleteProduct(ctx, target)

	v.mu.Lock()
	v.pending = nil
	if err != nil {
		err = v.failLocked(err, i18n.KeyDeleteFailed, i18n.KeyUnknownError, fmt.Sprintf("delete product %s", target))
		v.mu.Unlock()
		return err
	}
	v.notice = &Notice{Level: NoticeSuccess, Title: msg}
	v.clearWorkingLocked()
	v.mu.Unlock()

	v.publish(ctx, models.ActionDeleted, deleted)

	_ = v.syncList(ctx)
	return nil
}

// Remove runs the whole confirm-then-delete flow. A declined confirmation
// sends nothing upstream.
func (v *View) Remove(ctx context.Context, id string, confirmer Confirmer) error {
	pending, err := v.RequestRemove(id)
	if err != nil {
		return err
	}

	ok, err := confirmer.Confirm(ctx, pending)
	if err != nil || !ok {
		_ = v.CancelRemove()
		return err
	}

	return v.ConfirmRemove(ctx, id)
}
