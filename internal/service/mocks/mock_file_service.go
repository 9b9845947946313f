package mocks

import (
	"context"
	"io"

	"filedesk/internal/model"
	"filedesk/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockFileService struct {
	mock.Mock
}

func (m *MockFileService) List(ctx context.Context) (*service.FileListResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FileListResult), args.Error(1)
}

func (m *MockFileService) Get(ctx context.Context, id string) (*model.StoredFile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StoredFile), args.Error(1)
}

func (m *MockFileService) Search(ctx context.Context, term string) (*service.FileListResult, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FileListResult), args.Error(1)
}

func (m *MockFileService) Stats(ctx context.Context) (*service.StatsResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StatsResult), args.Error(1)
}

func (m *MockFileService) Upload(ctx context.Context, r io.Reader, name string, size int64) (*model.FileSummary, error) {
	args := m.Called(ctx, r, name, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileSummary), args.Error(1)
}

func (m *MockFileService) Columns(ctx context.Context, id string) (*service.DocumentView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentView), args.Error(1)
}

func (m *MockFileService) Filter(ctx context.Context, id string, columns []string) (*service.FilterResult, error) {
	args := m.Called(ctx, id, columns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FilterResult), args.Error(1)
}

func (m *MockFileService) Join(ctx context.Context, req service.JoinRequest) (*service.JoinResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.JoinResult), args.Error(1)
}

func (m *MockFileService) InspectUpload(ctx context.Context, r io.Reader, name string, size int64) (*service.DocumentView, error) {
	args := m.Called(ctx, r, name, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentView), args.Error(1)
}

func (m *MockFileService) FilterUpload(ctx context.Context, r io.Reader, name string, size int64, columns []string) (*service.FilterResult, error) {
	args := m.Called(ctx, r, name, size, columns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FilterResult), args.Error(1)
}

func (m *MockFileService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
