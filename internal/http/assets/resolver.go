// Package assets maps logical static asset names to the fingerprinted files
// listed in frontend/static/manifest.json.
package assets

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"
)

// StaticPrefix is the URL prefix static files are served under.
const StaticPrefix = "/static/"

// AssetResolver resolves logical asset names using manifest.json. A missing
// manifest is not an error: names then resolve to themselves.
type AssetResolver struct {
	mu           sync.RWMutex
	manifest     map[string]string
	manifestPath string
	diskPath     string
	fsys         fs.FS
	lastModTime  time.Time
	logger       *slog.Logger
}

// NewAssetResolverFromDisk reads the manifest from the local filesystem and
// picks up later edits to it.
func NewAssetResolverFromDisk(manifestPath string) (*AssetResolver, error) {
	ar := &AssetResolver{manifestPath: manifestPath, diskPath: manifestPath, logger: slog.Default()}
	return ar, ar.Reload()
}

// NewAssetResolverFromFS reads the manifest once from fsys.
func NewAssetResolverFromFS(fsys fs.FS, manifestPath string) (*AssetResolver, error) {
	ar := &AssetResolver{manifestPath: manifestPath, fsys: fsys, logger: slog.Default()}
	return ar, ar.Reload()
}

// SetLogger replaces the resolver's logger. nil restores slog.Default().
func (ar *AssetResolver) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	ar.mu.Lock()
	ar.logger = logger
	ar.mu.Unlock()
}

// Reload re-reads the manifest.
func (ar *AssetResolver) Reload() error {
	raw, modTime, err := ar.read()
	if err != nil {
		return err
	}
	manifest := map[string]string{}
	if len(raw) > 0 {
		if err = json.Unmarshal(raw, &manifest); err != nil {
			return err
		}
	}
	ar.mu.Lock()
	ar.manifest = manifest
	ar.lastModTime = modTime
	ar.mu.Unlock()
	return nil
}

func (ar *AssetResolver) read() ([]byte, time.Time, error) {
	var (
		raw     []byte
		modTime time.Time
		err     error
	)
	switch {
	case ar.diskPath != "":
		if info, statErr := os.Stat(ar.diskPath); statErr == nil {
			modTime = info.ModTime()
		}
		raw, err = os.ReadFile(ar.diskPath)
	case ar.fsys != nil:
		raw, err = fs.ReadFile(ar.fsys, ar.manifestPath)
	default:
		return nil, time.Time{}, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, time.Time{}, nil
	}
	return raw, modTime, err
}

// ReloadIfChanged reloads a disk manifest whose modification time moved.
func (ar *AssetResolver) ReloadIfChanged() {
	if ar == nil || ar.diskPath == "" {
		return
	}
	info, err := os.Stat(ar.diskPath)
	if err != nil {
		return
	}
	ar.mu.RLock()
	stale := info.ModTime().After(ar.lastModTime)
	logger := ar.logger
	ar.mu.RUnlock()
	if !stale {
		return
	}
	if err = ar.Reload(); err != nil {
		logger.Error("failed to reload asset manifest",
			slog.String("manifest", ar.manifestPath),
			slog.Any("error", err),
		)
	}
}

// Resolve returns the URL of logicalName, fingerprinted when the manifest
// lists it.
func (ar *AssetResolver) Resolve(logicalName string) string {
	ar.mu.RLock()
	defer ar.mu.RUnlock()
	if hashed, ok := ar.manifest[logicalName]; ok {
		return StaticPrefix + hashed
	}
	return StaticPrefix + logicalName
}

// ResolveAsset resolves logicalName through resolver, which may be nil. In dev
// mode the manifest is checked for changes on every call.
func ResolveAsset(resolver *AssetResolver, logicalName string, devMode bool) string {
	if resolver == nil {
		return StaticPrefix + logicalName
	}
	if devMode {
		resolver.ReloadIfChanged()
	}
	return resolver.Resolve(logicalName)
}
