package widget

import (
	"context"
	"encoding/json"
	"strings"

	"gorm.io/datatypes"

	"github.com/simp-lee/gocms/internal/domain"
	"github.com/simp-lee/gocms/internal/pkg"
	"github.com/simp-lee/gocms/internal/query"
)

// WidgetService defines the business logic for widgets.
type WidgetService interface {
	CreateWidget(ctx context.Context, req WidgetRequest, actorID uint) (*domain.Widget, error)
	GetWidget(ctx context.Context, id uint) (*domain.Widget, error)
	ListWidgets(ctx context.Context, p query.Params) (*query.Result[domain.Widget], error)
	UpdateWidget(ctx context.Context, id uint, req WidgetRequest, actorID uint) (*domain.Widget, error)
	DeleteWidget(ctx context.Context, id uint) error
	Bulk(ctx context.Context, req pkg.BulkRequest, actorID uint) (*pkg.BulkResult, error)
}

type widgetService struct {
	repo domain.WidgetRepository
	bulk pkg.BulkActions
}

// NewWidgetService creates a WidgetService.
func NewWidgetService(repo domain.WidgetRepository) WidgetService {
	s := &widgetService{repo: repo}
	s.bulk = pkg.BulkActions{
		"delete": func(ctx context.Context, ids []uint, _ map[string]any, _ uint) (int64, error) {
			return s.repo.DeleteByIDs(ctx, ids)
		},
		"activate":   s.setActive(true),
		"deactivate": s.setActive(false),
	}
	return s
}

func (s *widgetService) CreateWidget(ctx context.Context, req WidgetRequest, actorID uint) (*domain.Widget, error) {
	widget := &domain.Widget{IsActive: true}
	if err := apply(widget, req); err != nil {
		return nil, err
	}
	widget.Stamp(actorID, true)
	if err := s.repo.Create(ctx, widget); err != nil {
		return nil, err
	}
	return widget, nil
}

func (s *widgetService) GetWidget(ctx context.Context, id uint) (*domain.Widget, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *widgetService) ListWidgets(ctx context.Context, p query.Params) (*query.Result[domain.Widget], error) {
	return s.repo.List(ctx, p)
}

func (s *widgetService) UpdateWidget(ctx context.Context, id uint, req WidgetRequest, actorID uint) (*domain.Widget, error) {
	widget, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(widget, req); err != nil {
		return nil, err
	}
	widget.Stamp(actorID, false)
	if err := s.repo.Update(ctx, widget); err != nil {
		return nil, err
	}
	return widget, nil
}

func (s *widgetService) DeleteWidget(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *widgetService) Bulk(ctx context.Context, req pkg.BulkRequest, actorID uint) (*pkg.BulkResult, error) {
	return s.bulk.Run(ctx, req, actorID)
}

func (s *widgetService) setActive(active bool) pkg.BulkAction {
	return func(ctx context.Context, ids []uint, _ map[string]any, actorID uint) (int64, error) {
		return s.repo.UpdateByIDs(ctx, ids, pkg.AuditValues(actorID, map[string]any{"is_active": active}))
	}
}

func apply(widget *domain.Widget, req WidgetRequest) error {
	title := strings.TrimSpace(req.Title)
	location := strings.ToLower(strings.TrimSpace(req.Location))
	if title == "" || location == "" {
		return domain.NewAppError(domain.CodeValidation, "title and location are required", nil)
	}
	items := req.Items
	if items == nil {
		items = []domain.WidgetItem{}
	}
	for i := range items {
		items[i].Label = strings.TrimSpace(items[i].Label)
		items[i].URL = strings.TrimSpace(items[i].URL)
		if items[i].Label == "" || items[i].URL == "" {
			return domain.NewAppError(domain.CodeValidation, "widget items need a label and a url", nil)
		}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return domain.NewAppError(domain.CodeInternal, "failed to encode widget items", err)
	}
	widget.Title = title
	widget.Location = location
	widget.Items = datatypes.JSON(raw)
	widget.Position = req.Position
	if req.IsActive != nil {
		widget.IsActive = *req.IsActive
	}
	return nil
}
