// Package access keeps role grants and user role assignments in the rbac
// tables and answers permission checks against them. Roles and users are
// keyed by their decimal primary keys; a permission name "posts.manage" is
// stored as resource "posts" with action "manage".
package access

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/simp-lee/rbac"
	"gorm.io/gorm"

	"github.com/simp-lee/gocms/internal/domain"
)

// TablePrefix prefixes every table created by the rbac store.
const TablePrefix = "rbac_"

// UserRolesTable holds one row per user role assignment.
const UserRolesTable = TablePrefix + "user_roles"

const wildcard = "*"

// Store implements domain.AccessControl with an rbac.Service.
type Store struct {
	svc rbac.Service
}

// New opens the rbac tables on the connection pool behind db and creates them
// when missing.
func New(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("access: db is nil")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access: %w", err)
	}
	svc, err := rbac.New(rbac.WithSQLStorage(sqlDB, TablePrefix))
	if err != nil {
		return nil, fmt.Errorf("access: %w", err)
	}
	return &Store{svc: svc}, nil
}

// NewWithService wraps svc, e.g. one built with rbac.WithMemoryStorage.
func NewWithService(svc rbac.Service) *Store {
	return &Store{svc: svc}
}

// Close releases the rbac service. The database pool stays open.
func (s *Store) Close() error {
	return s.svc.Close()
}

// Key formats a primary key the way the rbac tables store it.
func Key(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// SyncRole creates or renames the rbac role of role and sets its grants to
// exactly role.Permissions.
func (s *Store) SyncRole(role *domain.Role) error {
	if role == nil || role.ID == 0 {
		return errors.New("access: role has no id")
	}
	key := Key(role.ID)

	want := make(map[string][]string)
	for _, name := range role.Permissions {
		resource, action, ok := splitPermission(name)
		if !ok {
			return domain.NewAppError(domain.CodeValidation, fmt.Sprintf("malformed permission %q", name), nil)
		}
		if !slices.Contains(want[resource], action) {
			want[resource] = append(want[resource], action)
		}
	}

	exists, err := s.svc.RoleExists(key)
	if err != nil {
		return fmt.Errorf("access: role %s: %w", key, err)
	}
	if exists {
		err = s.svc.UpdateRole(key, role.Name, role.Description)
	} else {
		err = s.svc.CreateRole(key, role.Name, role.Description)
	}
	if err != nil {
		return fmt.Errorf("access: save role %s: %w", key, err)
	}

	have, err := s.svc.GetRolePermissions(key)
	if err != nil {
		return fmt.Errorf("access: role %s permissions: %w", key, err)
	}
	for resource, actions := range have {
		if sameActions(actions, want[resource]) {
			delete(want, resource)
			continue
		}
		if err := s.svc.RemoveRolePermissions(key, resource); err != nil {
			return fmt.Errorf("access: revoke %s from role %s: %w", resource, key, err)
		}
	}
	for resource, actions := range want {
		if err := s.svc.AddRolePermissions(key, resource, actions); err != nil {
			return fmt.Errorf("access: grant %s to role %s: %w", resource, key, err)
		}
	}
	return nil
}

// DeleteRoles removes roles with their user assignments. Unknown ids are
// skipped.
func (s *Store) DeleteRoles(ids []uint) error {
	for _, id := range ids {
		if err := s.svc.DeleteRole(Key(id)); err != nil && !errors.Is(err, rbac.ErrRoleNotFound) {
			return fmt.Errorf("access: delete role %d: %w", id, err)
		}
	}
	return nil
}

// RolePermissions returns the sorted permission names granted to each role.
func (s *Store) RolePermissions(roleIDs []uint) (map[uint][]string, error) {
	out := make(map[uint][]string, len(roleIDs))
	for _, id := range roleIDs {
		if _, done := out[id]; done {
			continue
		}
		perms, err := s.svc.GetRolePermissions(Key(id))
		if errors.Is(err, rbac.ErrRoleNotFound) {
			out[id] = []string{}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("access: role %d permissions: %w", id, err)
		}
		names := []string{}
		for resource, actions := range perms {
			for _, action := range actions {
				names = append(names, joinPermission(resource, action))
			}
		}
		sort.Strings(names)
		out[id] = names
	}
	return out, nil
}

// AssignRoles sets the roles of userID to exactly roleIDs.
func (s *Store) AssignRoles(userID uint, roleIDs []uint) error {
	user := Key(userID)
	current, err := s.svc.GetUserRoles(user)
	if err != nil {
		return fmt.Errorf("access: user %d roles: %w", userID, err)
	}

	want := make([]string, len(roleIDs))
	for i, id := range roleIDs {
		want[i] = Key(id)
	}
	for _, role := range current {
		if slices.Contains(want, role) {
			continue
		}
		if err := s.svc.UnassignRole(user, role); err != nil && !errors.Is(err, rbac.ErrUserDoesNotHaveRole) {
			return fmt.Errorf("access: unassign role %s from user %d: %w", role, userID, err)
		}
	}
	for _, role := range want {
		if slices.Contains(current, role) {
			continue
		}
		err := s.svc.AssignRole(user, role)
		switch {
		case err == nil, errors.Is(err, rbac.ErrUserAlreadyHasRole):
		case errors.Is(err, rbac.ErrRoleNotFound):
			return domain.NewAppError(domain.CodeValidation, "role_ids contains an unknown role", err)
		default:
			return fmt.Errorf("access: assign role %s to user %d: %w", role, userID, err)
		}
	}
	return nil
}

// RemoveUsers drops every role assignment and direct grant of the users.
func (s *Store) RemoveUsers(userIDs []uint) error {
	for _, id := range userIDs {
		if err := s.AssignRoles(id, nil); err != nil {
			return err
		}
		if err := s.svc.RemoveAllUserPermissions(Key(id)); err != nil {
			return fmt.Errorf("access: user %d permissions: %w", id, err)
		}
	}
	return nil
}

// HasPermission implements middleware.PermissionChecker.
func (s *Store) HasPermission(_ context.Context, userID uint, permission string) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	resource, action, ok := splitPermission(permission)
	if !ok {
		return false, fmt.Errorf("access: malformed permission %q", permission)
	}
	return s.svc.HasPermission(Key(userID), resource, action)
}

func splitPermission(name string) (resource, action string, ok bool) {
	if name == domain.AllPermissions {
		return wildcard, wildcard, true
	}
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return "", "", false
	}
	return name[:i], name[i+1:], true
}

func joinPermission(resource, action string) string {
	if resource == wildcard && action == wildcard {
		return domain.AllPermissions
	}
	return resource + "." + action
}

func sameActions(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, v := range a {
		if !slices.Contains(b, v) {
			return false
		}
	}
	return true
}
