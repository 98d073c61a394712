package services

import (
	"context"

	"tweetbloom/application/ports"
	"tweetbloom/domain/config"
	"tweetbloom/domain/core/entities"
	"tweetbloom/domain/core/valueobjects"
)

// FolderService manages conversation folders
type FolderService struct {
	folders ports.FolderRepository
	cfg     *config.DomainConfig
}

// NewFolderService creates a new folder service
func NewFolderService(folders ports.FolderRepository, cfg *config.DomainConfig) *FolderService {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &FolderService{folders: folders, cfg: cfg}
}

func (s *FolderService) Create(ctx context.Context, userID, name string) (*entities.Folder, error) {
	folder, err := entities.NewFolder(userID, name, s.cfg.MaxFolderNameLength)
	if err != nil {
		return nil, err
	}
	if err := s.folders.Create(ctx, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *FolderService) List(ctx context.Context, userID string) ([]*entities.Folder, error) {
	return s.folders.List(ctx, userID)
}

func (s *FolderService) Rename(ctx context.Context, userID string, id valueobjects.FolderID, name string) (*entities.Folder, error) {
	folder, err := s.folders.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := folder.Rename(name, s.cfg.MaxFolderNameLength); err != nil {
		return nil, err
	}
	if err := s.folders.Update(ctx, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

// Delete removes the folder; its conversations are kept and detached
func (s *FolderService) Delete(ctx context.Context, userID string, id valueobjects.FolderID) error {
	if _, err := s.folders.GetByID(ctx, userID, id); err != nil {
		return err
	}
	return s.folders.Delete(ctx, userID, id)
}
