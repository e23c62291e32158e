package role

import (
	"context"
	"slices"
	"strings"

	"github.com/simp-lee/gocms/internal/domain"
	"github.com/simp-lee/gocms/internal/pkg"
	"github.com/simp-lee/gocms/internal/query"
)

// RoleService defines the business logic for roles and their grants.
type RoleService interface {
	CreateRole(ctx context.Context, req RoleRequest) (*domain.Role, error)
	GetRole(ctx context.Context, id uint) (*domain.Role, error)
	ListRoles(ctx context.Context, p query.Params) (*query.Result[domain.Role], error)
	UpdateRole(ctx context.Context, id uint, req RoleRequest) (*domain.Role, error)
	DeleteRole(ctx context.Context, id uint) error
	ListPermissions(ctx context.Context) ([]domain.Permission, error)
	Bulk(ctx context.Context, req pkg.BulkRequest, actorID uint) (*pkg.BulkResult, error)
}

type roleService struct {
	repo   domain.RoleRepository
	access domain.AccessControl
	bulk   pkg.BulkActions
}

// NewRoleService creates a new RoleService. Grants are written to access
// after the role row commits.
func NewRoleService(repo domain.RoleRepository, access domain.AccessControl) RoleService {
	s := &roleService{repo: repo, access: access}
	s.bulk = pkg.BulkActions{"delete": s.bulkDelete}
	return s
}

func (s *roleService) CreateRole(ctx context.Context, req RoleRequest) (*domain.Role, error) {
	role := &domain.Role{}
	if err := applyRequest(role, req); err != nil {
		return nil, err
	}
	if err := s.save(ctx, role, req.PermissionIDs, true); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *roleService) GetRole(ctx context.Context, id uint) (*domain.Role, error) {
	role, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.loadPermissions([]*domain.Role{role}); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *roleService) ListRoles(ctx context.Context, p query.Params) (*query.Result[domain.Role], error) {
	result, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, err
	}
	roles := make([]*domain.Role, len(result.Items))
	for i := range result.Items {
		roles[i] = &result.Items[i]
	}
	if err := s.loadPermissions(roles); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateRole applies req to an existing role. The admin role keeps its slug.
func (s *roleService) UpdateRole(ctx context.Context, id uint, req RoleRequest) (*domain.Role, error) {
	role, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	wasAdmin := role.Slug == domain.AdminRoleSlug
	if err := applyRequest(role, req); err != nil {
		return nil, err
	}
	if wasAdmin && role.Slug != domain.AdminRoleSlug {
		return nil, domain.NewAppError(domain.CodeValidation, "the admin role slug cannot change", nil)
	}
	if req.PermissionIDs == nil {
		if err := s.loadPermissions([]*domain.Role{role}); err != nil {
			return nil, err
		}
	}
	if err := s.save(ctx, role, req.PermissionIDs, false); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *roleService) DeleteRole(ctx context.Context, id uint) error {
	n, err := s.bulkDelete(ctx, []uint{id}, nil, 0)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *roleService) ListPermissions(ctx context.Context) ([]domain.Permission, error) {
	return s.repo.ListPermissions(ctx)
}

func (s *roleService) Bulk(ctx context.Context, req pkg.BulkRequest, actorID uint) (*pkg.BulkResult, error) {
	return s.bulk.Run(ctx, req, actorID)
}

// save writes the role row, resolving permissionIDs inside the transaction,
// then syncs its grants. Nil permissionIDs keep role.Permissions. The admin
// role always holds every permission.
func (s *roleService) save(ctx context.Context, role *domain.Role, permissionIDs *[]uint, creating bool) error {
	err := s.repo.Transaction(ctx, func(repo domain.RoleRepository) error {
		if permissionIDs != nil {
			names, err := repo.PermissionNames(ctx, *permissionIDs)
			if err != nil {
				return err
			}
			role.Permissions = names
		}
		if creating {
			return repo.Create(ctx, role)
		}
		return repo.Update(ctx, role)
	})
	if err != nil {
		return err
	}
	if role.Slug == domain.AdminRoleSlug {
		role.Permissions = []string{domain.AllPermissions}
	}
	if role.Permissions == nil {
		role.Permissions = []string{}
	}
	return s.access.SyncRole(role)
}

func (s *roleService) bulkDelete(ctx context.Context, ids []uint, _ map[string]any, _ uint) (int64, error) {
	var deleted int64
	err := s.repo.Transaction(ctx, func(repo domain.RoleRepository) error {
		roles, err := repo.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if slices.ContainsFunc(roles, func(r domain.Role) bool { return r.Slug == domain.AdminRoleSlug }) {
			return domain.NewAppError(domain.CodeValidation, "the admin role cannot be deleted", nil)
		}
		deleted, err = repo.DeleteByIDs(ctx, ids)
		return err
	})
	if err != nil {
		return 0, err
	}
	if err := s.access.DeleteRoles(ids); err != nil {
		return 0, err
	}
	return deleted, nil
}

func (s *roleService) loadPermissions(roles []*domain.Role) error {
	ids := make([]uint, len(roles))
	for i, r := range roles {
		ids[i] = r.ID
	}
	perms, err := s.access.RolePermissions(ids)
	if err != nil {
		return err
	}
	for _, r := range roles {
		r.Permissions = perms[r.ID]
	}
	return nil
}

func applyRequest(role *domain.Role, req RoleRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.NewAppError(domain.CodeValidation, "name is required", nil)
	}
	slug, err := pkg.ResolveSlug(req.Slug, name)
	if err != nil {
		return err
	}
	role.Name = name
	role.Slug = slug
	role.Description = strings.TrimSpace(req.Description)
	return nil
}
