package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/adrianbrandt/web-chores/internal/models"
	"github.com/adrianbrandt/web-chores/internal/storage"
)

const groupColumns = "id, name, description, type, invite_code, created_by_id, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row rowScanner) (*models.Group, error) {
	group := &models.Group{}
	var createdAt, updatedAt int64
	if err := row.Scan(&group.ID, &group.Name, &group.Description, &group.Type,
		&group.InviteCode, &group.CreatedByID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	group.CreatedAt = fromMillis(createdAt)
	group.UpdatedAt = fromMillis(updatedAt)
	return group, nil
}

// CreateGroup persists a new group.
func (q *queries) CreateGroup(ctx context.Context, group *models.Group) error {
	// Generate IDs if not set
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = q.now().UTC()
	}
	group.UpdatedAt = group.CreatedAt

	_, err := q.db.ExecContext(ctx,
		"INSERT INTO groups ("+groupColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		group.ID, group.Name, group.Description, group.Type, group.InviteCode,
		group.CreatedByID, toMillis(group.CreatedAt), toMillis(group.UpdatedAt),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("failed to insert group: %w", storage.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert group: %w", err)
	}
	return nil
}

// GetGroup retrieves a group by ID.
func (q *queries) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group, err := scanGroup(q.db.QueryRowContext(ctx,
		"SELECT "+groupColumns+" FROM groups WHERE id = ?", groupID))
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// GetGroupByInviteCode retrieves the group using inviteCode.
func (q *queries) GetGroupByInviteCode(ctx context.Context, inviteCode string) (*models.Group, error) {
	group, err := scanGroup(q.db.QueryRowContext(ctx,
		"SELECT "+groupColumns+" FROM groups WHERE invite_code = ?", inviteCode))
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group by invite code: %w", err)
	}
	return group, nil
}

// UpdateGroup persists name, description, type and invite code.
func (q *queries) UpdateGroup(ctx context.Context, group *models.Group) error {
	group.UpdatedAt = q.now().UTC()

	res, err := q.db.ExecContext(ctx,
		"UPDATE groups SET name = ?, description = ?, type = ?, invite_code = ?, updated_at = ? WHERE id = ?",
		group.Name, group.Description, group.Type, group.InviteCode, toMillis(group.UpdatedAt), group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	return requireAffected(res)
}

// CreateGroupMember inserts a membership row.
func (q *queries) CreateGroupMember(ctx context.Context, member *models.GroupMember) error {
	if member.JoinedAt.IsZero() {
		member.JoinedAt = q.now().UTC()
	}

	_, err := q.db.ExecContext(ctx,
		"INSERT INTO group_members (group_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)",
		member.GroupID, member.UserID, member.Role, toMillis(member.JoinedAt),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("failed to insert group member: %w", storage.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert group member: %w", err)
	}
	return nil
}

// GetGroupMember retrieves one membership row.
func (q *queries) GetGroupMember(ctx context.Context, groupID, userID string) (*models.GroupMember, error) {
	member := &models.GroupMember{}
	var joinedAt int64
	err := q.db.QueryRowContext(ctx,
		"SELECT group_id, user_id, role, joined_at FROM group_members WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	).Scan(&member.GroupID, &member.UserID, &member.Role, &joinedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group member: %w", err)
	}
	member.JoinedAt = fromMillis(joinedAt)
	return member, nil
}

// DeleteGroupMember removes one membership row.
func (q *queries) DeleteGroupMember(ctx context.Context, groupID, userID string) error {
	res, err := q.db.ExecContext(ctx,
		"DELETE FROM group_members WHERE group_id = ? AND user_id = ?", groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete group member: %w", err)
	}
	return requireAffected(res)
}

// CountGroupMembersByRole counts the members of a group holding role.
func (q *queries) CountGroupMembersByRole(ctx context.Context, groupID string, role models.GroupRole) (int, error) {
	var count int
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM group_members WHERE group_id = ? AND role = ?", groupID, role,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count group members: %w", err)
	}
	return count, nil
}

// ListGroupMembers retrieves all members of a group.
func (q *queries) ListGroupMembers(ctx context.Context, groupID string) ([]*models.GroupMember, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT group_id, user_id, role, joined_at FROM group_members WHERE group_id = ? ORDER BY joined_at, user_id",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	defer rows.Close()

	members := []*models.GroupMember{}
	for rows.Next() {
		member := &models.GroupMember{}
		var joinedAt int64
		if err := rows.Scan(&member.GroupID, &member.UserID, &member.Role, &joinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		member.JoinedAt = fromMillis(joinedAt)
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}
	return members, nil
}

// ListGroupsForUser retrieves the groups userID belongs to, newest first.
func (q *queries) ListGroupsForUser(ctx context.Context, userID string) ([]*models.UserGroup, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.description, g.type, g.invite_code, g.created_by_id, g.created_at, g.updated_at, m.role
		FROM groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.user_id = ?
		ORDER BY g.created_at DESC, g.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups for user: %w", err)
	}
	defer rows.Close()

	groups := []*models.UserGroup{}
	for rows.Next() {
		group := &models.Group{}
		var createdAt, updatedAt int64
		var role models.GroupRole
		if err := rows.Scan(&group.ID, &group.Name, &group.Description, &group.Type,
			&group.InviteCode, &group.CreatedByID, &createdAt, &updatedAt, &role); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		group.CreatedAt = fromMillis(createdAt)
		group.UpdatedAt = fromMillis(updatedAt)
		groups = append(groups, &models.UserGroup{Group: group, Role: role})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	return groups, nil
}
