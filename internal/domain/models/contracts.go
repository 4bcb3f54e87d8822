package models

import (
	"context"
)

// Downloader defines methods for fetching and unpacking model archives.
type Downloader interface {
	// Fetch downloads url into destDir, extracting zip and tar.gz archives
	// and keeping raw files under their base name. progress may be nil.
	Fetch(ctx context.Context, url, destDir, archive string, progress ProgressFunc) error
}

// ModelService defines methods for catalog queries and model installation.
type ModelService interface {
	// Catalog returns the entries available for download.
	Catalog() []CatalogEntry

	// Installed scans the model root and returns every installed model.
	Installed(ctx context.Context) ([]*InstalledModel, error)

	// IsInstalled reports whether the model identified by engine and ID is
	// present and structurally complete on disk.
	IsInstalled(ctx context.Context, engine, modelID string) (bool, error)

	// Install downloads and unpacks a catalog entry. Installing an
	// already-installed model is a no-op and returns its current location.
	Install(ctx context.Context, engine, name string, progress ProgressFunc) (*InstalledModel, error)
}
