// Package models defines the core domain models for web-chores.
//
// # Resources
//
//   - Group: a named set of users with its own MEMBER/ADMIN role tier
//   - GroupMember: a user's membership and role in a group
//   - List: a named collection of items owned by one user, optionally scoped to a group
//   - ListCollaborator: a user granted VIEWER/EDITOR/OWNER access to a list
//   - ListItem: a single entry on a list
//   - ListRecurrence: the schedule for re-creating a list
//
// # Design Principles
//
// 1. **IDs, not pointers**: relationships are expressed with ID strings
// 2. **Closed enums**: every role, type and status is a string type with a fixed value set
// 3. **Optional fields are pointers**: nil means "not set", which keeps sparse patches unambiguous
// 4. **Soft delete for lists**: deleted lists keep their row with IsDeleted/DeletedAt set
//
// User identities are opaque strings supplied by the caller; this package
// has no user model.
package models
