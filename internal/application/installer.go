package application

import (
	"archive/tar"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/Harry110/crosswalk/internal/infrastructure/logging"
)

// maxPackageEntrySize caps a single file extracted from a package.
const maxPackageEntrySize = 64 << 20 // 64 MiB

// Installer unpacks .xpk application packages (gzip-compressed tarballs)
// into the applications directory and registers them with the service. It
// also discovers applications already present on disk.
type Installer struct {
	appsDir string
	svc     *Service
	log     *logging.Logger
}

// NewInstaller creates an installer rooted at appsDir.
func NewInstaller(appsDir string, svc *Service, log *logging.Logger) *Installer {
	return &Installer{appsDir: appsDir, svc: svc, log: log}
}

// InstallPackage unpacks and registers the package at pkgPath. It returns
// the assigned app id.
func (i *Installer) InstallPackage(ctx context.Context, pkgPath string) (string, error) {
	f, err := os.Open(pkgPath)
	if err != nil {
		return "", fmt.Errorf("open package: %w", err)
	}
	defer f.Close()

	digest, err := packageDigest(f)
	if err != nil {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	stage, err := os.MkdirTemp(i.appsDir, ".install-*")
	if err != nil {
		return "", fmt.Errorf("stage package: %w", err)
	}
	defer os.RemoveAll(stage)

	if err := i.extract(ctx, f, stage); err != nil {
		return "", err
	}

	manifestPath, err := findManifest(stage)
	if err != nil {
		return "", err
	}
	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return "", err
	}
	if err := i.checkIcon(stage, manifest); err != nil {
		return "", err
	}

	appID, err := i.svc.Install("", *manifest, "")
	if err != nil {
		return "", err
	}

	root := filepath.Join(i.appsDir, appID)
	if err := os.Rename(stage, root); err != nil {
		i.svc.Uninstall(appID)
		return "", fmt.Errorf("commit package: %w", err)
	}
	i.setRoot(appID, root)

	i.log.Info("package installed",
		zap.String("app_id", appID),
		zap.String("package", pkgPath),
		zap.String("digest", digest))
	return appID, nil
}

// Discover registers applications already unpacked under the applications
// directory by walking it for manifest files.
func (i *Installer) Discover(ctx context.Context) (int, error) {
	if _, err := os.Stat(i.appsDir); os.IsNotExist(err) {
		return 0, nil
	}

	var manifests []string
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, i.appsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".install-") {
				return filepath.SkipDir
			}
			return nil
		}
		for _, name := range manifestNames {
			if d.Name() == name {
				manifests = append(manifests, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walk applications dir: %w", err)
	}

	found := 0
	for _, path := range manifests {
		if ctx.Err() != nil {
			return found, ctx.Err()
		}
		manifest, err := LoadManifest(path)
		if err != nil {
			i.log.Warn("skipping invalid manifest", zap.String("path", path), zap.Error(err))
			continue
		}
		root := filepath.Dir(path)
		appID := filepath.Base(root)
		if _, err := i.svc.Install(appID, *manifest, root); err != nil {
			i.log.Debug("already registered", zap.String("path", path), zap.Error(err))
			continue
		}
		found++
	}
	return found, nil
}

// extract unpacks a gzip-compressed tarball into dir.
func (i *Installer) extract(ctx context.Context, r io.Reader, dir string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("package is not gzip compressed: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read package: %w", err)
		}

		clean := filepath.Clean("/" + hdr.Name)
		target := filepath.Join(dir, clean)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if hdr.Size > maxPackageEntrySize {
				return fmt.Errorf("extract %s: entry is %d bytes, limit is %d", hdr.Name, hdr.Size, int64(maxPackageEntrySize))
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
			if err != nil {
				return err
			}
			n, err := io.Copy(out, io.LimitReader(tr, maxPackageEntrySize+1))
			out.Close()
			if err != nil {
				return fmt.Errorf("extract %s: %w", hdr.Name, err)
			}
			if n > maxPackageEntrySize {
				return fmt.Errorf("extract %s: entry exceeds %d byte limit", hdr.Name, int64(maxPackageEntrySize))
			}
		default:
			// Symlinks and special files are not part of the package format.
			i.log.Warn("skipping package entry", zap.String("name", hdr.Name))
		}
	}
}

// checkIcon verifies the declared icon exists and is an image.
func (i *Installer) checkIcon(root string, m *Manifest) error {
	if m.Icon == "" {
		return nil
	}
	iconPath := filepath.Join(root, filepath.Clean("/"+m.Icon))
	mt, err := mimetype.DetectFile(iconPath)
	if err != nil {
		return fmt.Errorf("icon %s: %w", m.Icon, err)
	}
	if !strings.HasPrefix(mt.String(), "image/") {
		return fmt.Errorf("icon %s has type %s, want image/*", m.Icon, mt.String())
	}
	return nil
}

// setRoot fixes up the install root after the staged directory is renamed.
func (i *Installer) setRoot(appID, root string) {
	i.svc.mu.Lock()
	defer i.svc.mu.Unlock()
	if ins, ok := i.svc.installed[appID]; ok {
		ins.Root = root
	}
}

// packageDigest computes the BLAKE2b-256 digest of a package stream.
func packageDigest(r io.Reader) (string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("digest package: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
