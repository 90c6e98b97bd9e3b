package app

import (
	"context"
	"fmt"

	"curator_monitor_bot/internal/domain/community"
	"curator_monitor_bot/internal/domain/curator"
	idb "curator_monitor_bot/internal/infra/database"
)

// Custom application-level errors for admin service
var ErrAdminNotAuthorized = fmt.Errorf("performing user is not authorized as an admin")
var ErrCuratorAlreadyExists = fmt.Errorf("curator with this external id already registered in the community")
var ErrCuratorAlreadyInactive = fmt.Errorf("curator is already inactive")
var ErrCommunityAlreadyExists = fmt.Errorf("community with this external id already registered")

// AdminService maintains the curator and community registries the tracking
// engine reads from. Only the configured admin may call it.
type AdminService struct {
	curators        curator.Repository
	communities     community.Repository
	adminTelegramID int64
}

func NewAdminService(cr curator.Repository, comr community.Repository, adminID int64) *AdminService {
	return &AdminService{
		curators:        cr,
		communities:     comr,
		adminTelegramID: adminID,
	}
}

// RegisterCommunity adds a community with its per-community configuration:
// curator role, task-submission channel and staff notification channel.
func (s *AdminService) RegisterCommunity(ctx context.Context, performingAdminID int64, externalID, title, curatorRoleID, taskChannelID, notifyChannelID string) (*community.Community, error) {
	if performingAdminID != s.adminTelegramID {
		return nil, ErrAdminNotAuthorized
	}

	_, err := s.communities.GetByExternalID(ctx, externalID)
	if err == nil {
		return nil, ErrCommunityAlreadyExists
	}
	if err != idb.ErrCommunityNotFound {
		return nil, fmt.Errorf("failed to check existing community: %w", err)
	}

	com := &community.Community{
		ExternalID:      externalID,
		Title:           title,
		CuratorRoleID:   curatorRoleID,
		TaskChannelID:   taskChannelID,
		NotifyChannelID: notifyChannelID,
		IsActive:        true,
	}
	if err := s.communities.Create(ctx, com); err != nil {
		if err == idb.ErrDuplicateCommunity {
			return nil, ErrCommunityAlreadyExists
		}
		return nil, fmt.Errorf("failed to create community in repository: %w", err)
	}
	return com, nil
}

// AddCurator registers a new curator in a community.
func (s *AdminService) AddCurator(ctx context.Context, performingAdminID int64, communityExternalID, curatorExternalID, name string) (*curator.Curator, error) {
	if performingAdminID != s.adminTelegramID {
		return nil, ErrAdminNotAuthorized
	}

	com, err := s.communities.GetByExternalID(ctx, communityExternalID)
	if err != nil {
		if err == idb.ErrCommunityNotFound {
			return nil, idb.ErrCommunityNotFound
		}
		return nil, fmt.Errorf("failed to get community: %w", err)
	}

	_, err = s.curators.GetByExternalID(ctx, com.ID, curatorExternalID)
	if err == nil {
		return nil, ErrCuratorAlreadyExists
	}
	if err != idb.ErrCuratorNotFound {
		return nil, fmt.Errorf("failed to check existing curator: %w", err)
	}

	newCurator := &curator.Curator{
		CommunityID: com.ID,
		ExternalID:  curatorExternalID,
		Name:        name,
		IsActive:    true, // New curators are active by default
	}
	if err := s.curators.Create(ctx, newCurator); err != nil {
		if err == idb.ErrDuplicateCurator {
			return nil, ErrCuratorAlreadyExists
		}
		return nil, fmt.Errorf("failed to create curator in repository: %w", err)
	}
	return newCurator, nil
}

// RemoveCurator deactivates a curator; their history stays intact.
func (s *AdminService) RemoveCurator(ctx context.Context, performingAdminID int64, communityExternalID, curatorExternalID string) (*curator.Curator, error) {
	if performingAdminID != s.adminTelegramID {
		return nil, ErrAdminNotAuthorized
	}

	com, err := s.communities.GetByExternalID(ctx, communityExternalID)
	if err != nil {
		if err == idb.ErrCommunityNotFound {
			return nil, idb.ErrCommunityNotFound
		}
		return nil, fmt.Errorf("failed to get community: %w", err)
	}

	target, err := s.curators.GetByExternalID(ctx, com.ID, curatorExternalID)
	if err != nil {
		if err == idb.ErrCuratorNotFound {
			return nil, idb.ErrCuratorNotFound
		}
		return nil, fmt.Errorf("failed to get curator for removal: %w", err)
	}

	if !target.IsActive {
		return target, ErrCuratorAlreadyInactive
	}

	target.IsActive = false
	if err := s.curators.Update(ctx, target); err != nil {
		return nil, fmt.Errorf("failed to deactivate curator in repository: %w", err)
	}
	return target, nil
}

// ListCurators returns the active curators of a community.
func (s *AdminService) ListCurators(ctx context.Context, performingAdminID int64, communityExternalID string) ([]*curator.Curator, error) {
	if performingAdminID != s.adminTelegramID {
		return nil, ErrAdminNotAuthorized
	}

	com, err := s.communities.GetByExternalID(ctx, communityExternalID)
	if err != nil {
		if err == idb.ErrCommunityNotFound {
			return nil, idb.ErrCommunityNotFound
		}
		return nil, fmt.Errorf("failed to get community: %w", err)
	}
	return s.curators.ListActive(ctx, com.ID)
}
