package services_test

import (
	"bytes"
	"context"
	"io"

	"github.com/shreyat81/mini-drive-backend/internal/storage"
)

type fakeStorage struct {
	blobs     map[string][]byte
	types     map[string]string
	putErr    error
	getErr    error
	deleteErr error
	deleted   []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		blobs: make(map[string][]byte),
		types: make(map[string]string),
	}
}

func (f *fakeStorage) Put(ctx context.Context, obj *storage.Object) error {
	if f.putErr != nil {
		return f.putErr
	}
	if err := storage.ValidateObject(obj); err != nil {
		return err
	}
	data, err := io.ReadAll(obj.Reader)
	if err != nil {
		return err
	}
	f.blobs[obj.Key] = data
	f.types[obj.Key] = obj.ContentType
	return nil
}

func (f *fakeStorage) Get(ctx context.Context, key string) (*storage.DownloadResult, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &storage.DownloadResult{
		Reader:      io.NopCloser(bytes.NewReader(data)),
		ContentType: f.types[key],
		Size:        int64(len(data)),
	}, nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.blobs[key]; !ok {
		return storage.ErrNotFound
	}
	delete(f.blobs, key)
	delete(f.types, key)
	f.deleted = append(f.deleted, key)
	return nil
}
