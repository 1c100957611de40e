package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/grocery-inventory-api/internal/application/ports"
)

type barcodeGeneratorMock struct{ mock.Mock }

func (m *barcodeGeneratorMock) Generate(ctx context.Context, productID, productName string) (string, string, error) {
	args := m.Called(ctx, productID, productName)
	return args.String(0), args.String(1), args.Error(2)
}

type imageStoreMock struct{ mock.Mock }

func (m *imageStoreMock) Save(ctx context.Context, number string) (string, error) {
	args := m.Called(ctx, number)
	return args.String(0), args.Error(1)
}

func (m *imageStoreMock) URL(number string) string {
	return m.Called(number).String(0)
}

func (m *imageStoreMock) Exists(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

func (m *imageStoreMock) Remove(ctx context.Context, number string) error {
	return m.Called(ctx, number).Error(0)
}

type labelRendererMock struct{ mock.Mock }

func (m *labelRendererMock) RenderLabel(ctx context.Context, data ports.LabelData) ([]byte, error) {
	args := m.Called(ctx, data)
	pdf, _ := args.Get(0).([]byte)
	return pdf, args.Error(1)
}
