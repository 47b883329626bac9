package usecase_test

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/webpulse/webpulse-api/internal/entity"
	"github.com/webpulse/webpulse-api/internal/infra/queue"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) GetByID(ctx context.Context, id int64) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Update(ctx context.Context, id int64, upd entity.LeadUpdate) error {
	args := m.Called(ctx, id, upd)
	return args.Error(0)
}

func (m *MockLeadRepository) ListByStatus(ctx context.Context, status entity.Stage) ([]*entity.Lead, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) ListByIndustry(ctx context.Context, industry string) ([]*entity.Lead, error) {
	args := m.Called(ctx, industry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) ListAll(ctx context.Context) ([]*entity.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

// MockSiteRepository
type MockSiteRepository struct {
	mock.Mock
}

func (m *MockSiteRepository) Create(ctx context.Context, site *entity.Site) error {
	args := m.Called(ctx, site)
	return args.Error(0)
}

func (m *MockSiteRepository) GetByID(ctx context.Context, id int64) (*entity.Site, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Site), args.Error(1)
}

func (m *MockSiteRepository) GetByLeadID(ctx context.Context, leadID int64) ([]*entity.Site, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Site), args.Error(1)
}

func (m *MockSiteRepository) Update(ctx context.Context, id int64, upd entity.SiteUpdate) error {
	args := m.Called(ctx, id, upd)
	return args.Error(0)
}

// MockPaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByLeadID(ctx context.Context, leadID int64) ([]*entity.Payment, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Update(ctx context.Context, id int64, upd entity.PaymentUpdate) error {
	args := m.Called(ctx, id, upd)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListAll(ctx context.Context) ([]*entity.Payment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Payment), args.Error(1)
}

// MockNotificationProducer
type MockNotificationProducer struct {
	mock.Mock
}

func (m *MockNotificationProducer) PublishNotification(ctx context.Context, event queue.NotificationEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockScheduler
type MockScheduler struct {
	mock.Mock
}

func (m *MockScheduler) Schedule(ctx context.Context, leadID, siteID int64, fireAt time.Time) error {
	args := m.Called(ctx, leadID, siteID, fireAt)
	return args.Error(0)
}

func (m *MockScheduler) Cancel(ctx context.Context, leadID, siteID int64) error {
	args := m.Called(ctx, leadID, siteID)
	return args.Error(0)
}

// MockSiteGenerator
type MockSiteGenerator struct {
	mock.Mock
}

func (m *MockSiteGenerator) Generate(template string, customizations json.RawMessage) (string, error) {
	args := m.Called(template, customizations)
	return args.String(0), args.Error(1)
}

// MockPreviewWriter
type MockPreviewWriter struct {
	mock.Mock
}

func (m *MockPreviewWriter) WritePreview(siteID int64, html string) error {
	args := m.Called(siteID, html)
	return args.Error(0)
}

// fixedClock pins Now so estimates are assertable.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// fixedDice always rolls the same value.
type fixedDice struct {
	roll int
}

func (d fixedDice) Roll(n int) int { return d.roll }
