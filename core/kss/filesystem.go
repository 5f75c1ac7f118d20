package kss

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"github.com/relabs-tech/jobly/core/logger"
)

// LocalConfiguration contains the configuration for the local filesystem KSS service
type LocalConfiguration struct {
	BasePath string
	// PublicURL is the URL the stored files are served under, e.g. http://localhost:3000/logos
	PublicURL string
}

// LocalFilesystem stores files below a base folder and serves them with a GET route
type LocalFilesystem struct {
	baseFolder string
	publicURL  *url.URL
}

// NewLocalFilesystem returns a new LocalFilesystem. The files are served on the
// path of the public URL if router is not nil.
func NewLocalFilesystem(router *mux.Router, config LocalConfiguration) (*LocalFilesystem, error) {
	publicURL, err := url.Parse(strings.TrimSuffix(config.PublicURL, "/"))
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(config.BasePath, 0o755); err != nil {
		return nil, err
	}
	f := &LocalFilesystem{baseFolder: config.BasePath, publicURL: publicURL}
	if router != nil {
		route := publicURL.Path + "/"
		logger.Default().Debugln("filesystem routes enabled")
		logger.Default().Debugf("  handle filesystem route: %s GET", route)
		router.PathPrefix(route).Handler(http.StripPrefix(route, http.HandlerFunc(f.serve))).Methods(http.MethodGet)
	}
	return f, nil
}

func (f *LocalFilesystem) serve(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Path
	if !validKey(key) {
		http.Error(w, "invalid key", http.StatusBadRequest)
		return
	}
	http.ServeFile(w, r, filepath.Join(f.baseFolder, filepath.FromSlash(key)))
}

// Upload stores data under key
func (f *LocalFilesystem) Upload(ctx context.Context, key, contentType string, data io.Reader) (string, error) {
	if !validKey(key) {
		return "", fmt.Errorf("invalid key '%s'", key)
	}
	filename := filepath.Join(f.baseFolder, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return "", err
	}
	file, err := os.Create(filename)
	if err != nil {
		return "", err
	}
	if _, err = io.Copy(file, data); err != nil {
		file.Close()
		return "", err
	}
	if err = file.Close(); err != nil {
		return "", err
	}
	logger.FromContext(ctx).Debugln("stored", key, "in", f.baseFolder)

	u := *f.publicURL
	u.Path = path.Join(u.Path, key)
	return u.String(), nil
}

// Delete deletes the file for key. Deleting a missing key is not an error.
func (f *LocalFilesystem) Delete(ctx context.Context, key string) error {
	if !validKey(key) {
		return fmt.Errorf("invalid key '%s'", key)
	}
	err := os.Remove(filepath.Join(f.baseFolder, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// DeleteAllWithPrefix deletes all files whose key starts with prefix
func (f *LocalFilesystem) DeleteAllWithPrefix(ctx context.Context, prefix string) error {
	if !validKey(prefix) {
		return fmt.Errorf("invalid prefix '%s'", prefix)
	}
	return filepath.Walk(f.baseFolder, func(filename string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(f.baseFolder, filename)
		if err != nil {
			return err
		}
		if strings.HasPrefix(filepath.ToSlash(rel), prefix) {
			logger.FromContext(ctx).Debugln("deleting", rel)
			return os.Remove(filename)
		}
		return nil
	})
}
