package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gptdeskapp/gptdesk-server/internal/domain"
	"github.com/gptdeskapp/gptdesk-server/internal/service"
)

func (s *Server) registerGPTSRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getHomeCards",
		Method:      http.MethodGet,
		Path:        "/gpts/home",
		Summary:     "Get home cards",
		Description: "Returns the curated favorite and recommended card groups",
		Tags:        []string{"GPTS"},
	}, s.handleGetHomeCards)

	huma.Register(s.api, huma.Operation{
		OperationID: "togglePin",
		Method:      http.MethodPatch,
		Path:        "/gpts/{gptsID}/pin",
		Summary:     "Pin or unpin an item",
		Description: "Sets the caller's pin state for a catalog item",
		Tags:        []string{"GPTS"},
	}, s.handleTogglePin)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSidebar",
		Method:      http.MethodGet,
		Path:        "/gpts/pined",
		Summary:     "Get pinned sidebar",
		Description: "Returns the caller's pinned items, most recent first, seeding defaults when due",
		Tags:        []string{"GPTS"},
	}, s.handleGetSidebar)

	huma.Register(s.api, huma.Operation{
		OperationID: "listGPTS",
		Method:      http.MethodGet,
		Path:        "/gpts",
		Summary:     "List catalog",
		Description: "Returns catalog items annotated with the caller's pin state",
		Tags:        []string{"GPTS"},
	}, s.handleListGPTS)
}

// HomeCardsOutput wraps the home card groups for Huma.
type HomeCardsOutput struct {
	Body domain.HomeCards
}

func (s *Server) handleGetHomeCards(_ context.Context, _ *struct{}) (*HomeCardsOutput, error) {
	return &HomeCardsOutput{Body: s.services.Pin.HomeCards()}, nil
}

// TogglePinInput carries the caller identity, target item, and desired state.
type TogglePinInput struct {
	UserID string `header:"X-User-ID" doc:"Caller identity"`
	GPTSID string `path:"gptsID" doc:"Catalog item ID"`
	Body   struct {
		IsPinned bool `json:"is_pinned" doc:"Desired pin state"`
	}
}

// TogglePinOutput echoes the resulting pin state.
type TogglePinOutput struct {
	Body service.ToggleResult
}

func (s *Server) handleTogglePin(ctx context.Context, input *TogglePinInput) (*TogglePinOutput, error) {
	result, err := s.services.Pin.TogglePin(ctx, input.UserID, input.GPTSID, input.Body.IsPinned)
	if err != nil {
		return nil, err
	}
	return &TogglePinOutput{Body: *result}, nil
}

// IdentifiedInput carries only the caller identity header.
type IdentifiedInput struct {
	UserID string `header:"X-User-ID" doc:"Caller identity"`
}

// SidebarOutput wraps the pinned sidebar for Huma.
type SidebarOutput struct {
	Body service.Sidebar
}

func (s *Server) handleGetSidebar(ctx context.Context, input *IdentifiedInput) (*SidebarOutput, error) {
	sidebar, err := s.services.Pin.GetSidebar(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	return &SidebarOutput{Body: *sidebar}, nil
}

// ListGPTSInput carries the caller identity and an optional name filter.
type ListGPTSInput struct {
	UserID string `header:"X-User-ID" doc:"Caller identity"`
	Query  string `query:"query" doc:"Case-insensitive name substring filter"`
}

// ListGPTSResponse contains the annotated catalog items.
type ListGPTSResponse struct {
	Items []service.CatalogEntry `json:"items"`
}

// ListGPTSOutput wraps the catalog listing for Huma.
type ListGPTSOutput struct {
	Body ListGPTSResponse
}

func (s *Server) handleListGPTS(ctx context.Context, input *ListGPTSInput) (*ListGPTSOutput, error) {
	items, err := s.services.Pin.ListCatalog(ctx, input.UserID, input.Query)
	if err != nil {
		return nil, err
	}
	return &ListGPTSOutput{Body: ListGPTSResponse{Items: items}}, nil
}
