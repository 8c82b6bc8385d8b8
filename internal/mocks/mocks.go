// File: internal/mocks/mocks.go
package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"
	"github.com/wheelhouse-ai/wheelhouse/api/schemas"
)

// -- Browser Session Mock --

// MockBrowserSession mocks the schemas.BrowserSession interface.
type MockBrowserSession struct {
	mock.Mock
}

func (m *MockBrowserSession) ID() string {
	return m.Called().String(0)
}

// Dispatch provides a mock function for typed browser events.
func (m *MockBrowserSession) Dispatch(ctx context.Context, ev schemas.BrowserEvent) (json.RawMessage, error) {
	args := m.Called(ctx, ev)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockBrowserSession) Protocol() schemas.ProtocolSession {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(schemas.ProtocolSession)
}

func (m *MockBrowserSession) DOM() schemas.DOM {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(schemas.DOM)
}

func (m *MockBrowserSession) NodeByIndex(ctx context.Context, index int) (*schemas.NodeHandle, error) {
	args := m.Called(ctx, index)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schemas.NodeHandle), args.Error(1)
}

func (m *MockBrowserSession) ElementAt(ctx context.Context, p schemas.Point) (*schemas.NodeHandle, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schemas.NodeHandle), args.Error(1)
}

func (m *MockBrowserSession) CurrentURL(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockBrowserSession) FrameSizes() (schemas.Size, schemas.Size) {
	args := m.Called()
	return args.Get(0).(schemas.Size), args.Get(1).(schemas.Size)
}

func (m *MockBrowserSession) Highlight(p schemas.Point) {
	m.Called(p)
}

func (m *MockBrowserSession) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// -- Protocol Session Mock --

// MockProtocolSession mocks the schemas.ProtocolSession interface.
type MockProtocolSession struct {
	mock.Mock
}

func (m *MockProtocolSession) Send(ctx context.Context, method string, params map[string]any) (json.RawMessage, error) {
	args := m.Called(ctx, method, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

// -- DOM Mock --

// MockDOM mocks the schemas.DOM interface.
type MockDOM struct {
	mock.Mock
}

func (m *MockDOM) Root(ctx context.Context) (schemas.NodeID, error) {
	args := m.Called(ctx)
	return args.Get(0).(schemas.NodeID), args.Error(1)
}

func (m *MockDOM) PushToFrontend(ctx context.Context, id schemas.BackendNodeID) (schemas.NodeID, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(schemas.NodeID), args.Error(1)
}

func (m *MockDOM) QueryAll(ctx context.Context, scope schemas.NodeID, selector string) ([]schemas.NodeID, error) {
	args := m.Called(ctx, scope, selector)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schemas.NodeID), args.Error(1)
}

func (m *MockDOM) Parent(ctx context.Context, id schemas.NodeID) (schemas.NodeID, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(schemas.NodeID), args.Error(1)
}

func (m *MockDOM) Describe(ctx context.Context, id schemas.NodeID) (*schemas.NodeHandle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schemas.NodeHandle), args.Error(1)
}

// -- LLM Client Mock --

// MockLLMClient mocks the schemas.LLMClient interface.
type MockLLMClient struct {
	mock.Mock
}

// Generate provides a mock function for LLM calls.
func (m *MockLLMClient) Generate(ctx context.Context, req schemas.GenerationRequest) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockLLMClient) Close() error {
	return m.Called().Error(0)
}

// -- File System Mock --

// MockFileSystem mocks the schemas.FileSystem interface.
type MockFileSystem struct {
	mock.Mock
}

func (m *MockFileSystem) Read(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *MockFileSystem) Write(ctx context.Context, name, content string) error {
	return m.Called(ctx, name, content).Error(0)
}

func (m *MockFileSystem) Append(ctx context.Context, name, content string) error {
	return m.Called(ctx, name, content).Error(0)
}

func (m *MockFileSystem) ReplaceString(ctx context.Context, name, old, new string) (int, error) {
	args := m.Called(ctx, name, old, new)
	return args.Int(0), args.Error(1)
}

func (m *MockFileSystem) SaveExtracted(ctx context.Context, content string) (string, error) {
	args := m.Called(ctx, content)
	return args.String(0), args.Error(1)
}

func (m *MockFileSystem) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
