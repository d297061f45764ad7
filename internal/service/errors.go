package service

import "fmt"

// Ledger error kinds. Every failed operation returns one of these without
// persisting any partial state; handlers match them with errors.As.

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

type InsufficientStockError struct {
	ItemID    string
	Requested float64
	Available float64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %s: requested %.4f, available %.4f",
		e.ItemID, e.Requested, e.Available)
}

type CapacityExceededError struct {
	WarehouseID string
	Requested   float64
	Remaining   float64
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("warehouse %s capacity exceeded: requested %.4f, remaining %.4f",
		e.WarehouseID, e.Requested, e.Remaining)
}

type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}
