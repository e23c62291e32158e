package pkg

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/simp-lee/gocms/internal/domain"
)

// BulkRequest is the body of POST /<resource>/bulk.
type BulkRequest struct {
	Action string         `json:"action" binding:"required"`
	IDs    []uint         `json:"ids" binding:"required,min=1,max=500,dive,gt=0"`
	Data   map[string]any `json:"data"`
}

// BulkResult reports how many records an action touched.
type BulkResult struct {
	Action   string `json:"action"`
	Affected int64  `json:"affected"`
}

// BulkAction applies one named action to the records in ids on behalf of
// actorID.
type BulkAction func(ctx context.Context, ids []uint, data map[string]any, actorID uint) (int64, error)

// BulkActions maps action names to their implementations.
type BulkActions map[string]BulkAction

// Run dispatches req. Unknown actions are a validation error listing the
// supported names.
func (a BulkActions) Run(ctx context.Context, req BulkRequest, actorID uint) (*BulkResult, error) {
	action := strings.ToLower(strings.TrimSpace(req.Action))
	fn, ok := a[action]
	if !ok {
		return nil, domain.NewAppError(domain.CodeValidation,
			fmt.Sprintf("unsupported action %q: must be one of %s", req.Action, strings.Join(a.Names(), ", ")), nil)
	}

	affected, err := fn(ctx, dedupeIDs(req.IDs), req.Data, actorID)
	if err != nil {
		return nil, err
	}
	return &BulkResult{Action: action, Affected: affected}, nil
}

// Names returns the supported action names in sorted order.
func (a BulkActions) Names() []string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// BulkString reads a required string field from bulk data.
func BulkString(data map[string]any, key string) (string, error) {
	v, ok := data[key]
	if !ok || v == nil {
		return "", domain.NewAppError(domain.CodeValidation, fmt.Sprintf("data.%s is required", key), nil)
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", domain.NewAppError(domain.CodeValidation, fmt.Sprintf("data.%s must be a non-empty string", key), nil)
	}
	return strings.TrimSpace(s), nil
}

// AuditValues adds updated_by for a non-zero actor to a bulk column update.
func AuditValues(actorID uint, values map[string]any) map[string]any {
	if actorID != 0 {
		values["updated_by"] = actorID
	}
	return values
}
