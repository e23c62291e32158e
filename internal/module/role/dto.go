package role

// RoleRequest is the body of role create and update requests. Nil
// permission_ids keep the current permissions on update.
type RoleRequest struct {
	Name          string  `json:"name" binding:"required,min=2,max=100"`
	Slug          string  `json:"slug" binding:"omitempty,max=100"`
	Description   string  `json:"description" binding:"max=255"`
	PermissionIDs *[]uint `json:"permission_ids" binding:"omitempty,dive,gt=0"`
}
