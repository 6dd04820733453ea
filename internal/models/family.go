package models

import "time"

// FamilyConnection is the supervision edge linking a parent to a child.
// A child resolves to at most one parent; deleting the connection detaches
// the child without touching any of their data.
type FamilyConnection struct {
	ID        string    `json:"id"`
	ParentID  string    `json:"parent_id"`
	ChildID   string    `json:"child_id"`
	CreatedAt time.Time `json:"created_at"`
}
