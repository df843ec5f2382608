package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
)

// LocalStorage implements the Storage interface by persisting blobs on disk.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) *LocalStorage {
	return &LocalStorage{basePath: basePath}
}

func (s *LocalStorage) Put(ctx context.Context, obj *Object) error {
	if err := ValidateObject(obj); err != nil {
		return err
	}

	fullPath := filepath.Join(s.basePath, filepath.FromSlash(obj.Key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("local storage: mkdir failed: %w", err)
	}

	out, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("local storage: create file failed: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, obj.Reader); err != nil {
		return fmt.Errorf("local storage: write failed: %w", err)
	}
	return nil
}

func (s *LocalStorage) Get(ctx context.Context, key string) (*DownloadResult, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	fullPath := filepath.Join(s.basePath, filepath.FromSlash(key))
	handle, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("local storage: open failed: %w", err)
	}

	info, err := handle.Stat()
	if err != nil {
		handle.Close()
		return nil, fmt.Errorf("local storage: stat failed: %w", err)
	}

	return &DownloadResult{
		Reader:      handle,
		Size:        info.Size(),
		ContentType: mime.TypeByExtension(filepath.Ext(key)),
	}, nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(key))
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return fmt.Errorf("local storage: delete failed: %w", err)
	}
	return nil
}
