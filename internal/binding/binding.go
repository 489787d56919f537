// Package binding хранит «текущий тикет» оператора: в какой тикет уходят его сообщения.
//
// Привязка является вспомогательным состоянием. Источник истины для авторизации:
// поле operator_id тикета; перед пересылкой привязку всегда сверяют с тикетом.
package binding

import "context"

type Store interface {
	// Get returns the bound ticket id; ok is false when the operator has no binding.
	Get(ctx context.Context, tenantID int64, operatorID string) (ticketID uint64, ok bool, err error)
	Set(ctx context.Context, tenantID int64, operatorID string, ticketID uint64) error
	Clear(ctx context.Context, tenantID int64, operatorID string) error
	// ClearIf removes the binding only while it still points at ticketID and
	// reports whether it did.
	ClearIf(ctx context.Context, tenantID int64, operatorID string, ticketID uint64) (bool, error)
}
