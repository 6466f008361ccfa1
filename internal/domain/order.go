// Package domain contains the persisted business entities.
package domain

// Record is a finalized order as written to the order store. Records are
// immutable once persisted.
type Record struct {
	Product string `json:"product"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}
