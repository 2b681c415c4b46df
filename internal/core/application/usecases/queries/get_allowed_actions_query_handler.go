package queries

import (
	"context"
	"database/sql"
	"errors"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetAllowedActionsQueryHandler computes the transition targets available
// to an actor for one order. The policy table gives the closed set of
// edges; the permission gate and the customer rule narrow it down. For a
// completed order the answer is always empty.
type GetAllowedActionsQueryHandler struct {
	db   *gorm.DB
	gate ports.PermissionGate
}

// NewGetAllowedActionsQueryHandler creates a handler for allowed-actions queries.
func NewGetAllowedActionsQueryHandler(db *gorm.DB, gate ports.PermissionGate) GetAllowedActionsQueryHandler {
	return GetAllowedActionsQueryHandler{db: db, gate: gate}
}

// Handle executes the query. Returns an object-not-found error when the
// order does not exist within the tenant.
func (h GetAllowedActionsQueryHandler) Handle(
	ctx context.Context,
	query GetAllowedActionsQuery,
) ([]order.Status, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var rawStatus int
	row := h.db.WithContext(ctx).Raw(`
		SELECT status
		FROM orders
		WHERE tenant_id = ? AND id = ?
	`, query.TenantID().Bytes(), query.OrderID().Bytes()).Row()

	if err := row.Scan(&rawStatus); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return nil, err
	}

	currentStatus := order.Status(rawStatus)
	if err := currentStatus.Validate(); err != nil {
		return nil, err
	}

	targets := make([]order.Status, 0)
	for _, target := range currentStatus.AllowedTargets() {
		if query.By().IsCustomer() && !currentStatus.IsCustomerAllowed(target) {
			continue
		}

		allowed, err := h.gate.Check(ctx, query.By(), query.TenantID(), currentStatus, target)
		if err != nil {
			return nil, err
		}
		if allowed {
			targets = append(targets, target)
		}
	}

	return targets, nil
}
