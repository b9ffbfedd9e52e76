package errors

// Group errors.
var (
	ErrGroupNotFound                = NotFound("GROUP_NOT_FOUND", "group not found")
	ErrGroupMemberNotFound          = NotFound("GROUP_MEMBER_NOT_FOUND", "user is not a member of this group")
	ErrGroupMemberExists            = Conflict("GROUP_MEMBER_ALREADY_EXISTS", "user is already a member of this group")
	ErrGroupLastOwner               = BadRequest("GROUP_CANNOT_REMOVE_LAST_OWNER", "cannot remove the last group owner")
	ErrGroupInsufficientPermissions = Forbidden("GROUP_INSUFFICIENT_PERMISSIONS", "insufficient permissions for this group action")
	ErrGroupInvalidInviteCode       = NotFound("GROUP_INVALID_INVITE_CODE", "invalid group invite code")
	ErrGroupMissingFields           = BadRequest("GROUP_MISSING_REQUIRED_FIELDS", "group name is required")
)

// List errors.
var (
	ErrListNotFound                = NotFound("LIST_NOT_FOUND", "list not found")
	ErrListInsufficientPermissions = Forbidden("LIST_INSUFFICIENT_PERMISSIONS", "insufficient permissions for this list action")
	ErrListCollaboratorExists      = Conflict("LIST_COLLABORATOR_ALREADY_EXISTS", "collaborator already exists in the list")
	ErrListCollaboratorNotFound    = NotFound("LIST_COLLABORATOR_NOT_FOUND", "user is not a collaborator on this list")
	ErrListInvalidRecurrence       = BadRequest("LIST_INVALID_RECURRENCE", "invalid recurrence pattern")
	ErrListMissingFields           = BadRequest("LIST_MISSING_REQUIRED_FIELDS", "missing required list fields")
)

// List item errors.
var (
	ErrListItemNotFound      = NotFound("LIST_ITEM_NOT_FOUND", "list item not found")
	ErrListItemMissingFields = BadRequest("LIST_ITEM_MISSING_REQUIRED_FIELDS", "list item title is required")
)

// Identity errors, raised by the transport before any manager runs.
var (
	ErrIdentityMissing = Unauthorized("AUTH_IDENTITY_MISSING", "caller identity required")
)
