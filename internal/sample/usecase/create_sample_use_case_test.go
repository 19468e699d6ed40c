package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	driver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"samplehub/internal/domain"
	apperrors "samplehub/internal/errors"
)

type passThroughTx struct{}

func (passThroughTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type mockBrandRepository struct {
	FindByIDFunc func(ctx context.Context, id string) (*domain.Brand, error)
}

func (m *mockBrandRepository) FindByID(ctx context.Context, id string) (*domain.Brand, error) {
	return m.FindByIDFunc(ctx, id)
}

type mockFactoryRepository struct {
	FindByIDFunc func(ctx context.Context, id string) (*domain.Factory, error)
}

func (m *mockFactoryRepository) FindByID(ctx context.Context, id string) (*domain.Factory, error) {
	return m.FindByIDFunc(ctx, id)
}

type mockRepRepository struct {
	ListActiveFunc func(ctx context.Context) ([]domain.Rep, error)
	touched        []string
}

func (m *mockRepRepository) ListActive(ctx context.Context) ([]domain.Rep, error) {
	return m.ListActiveFunc(ctx)
}

func (m *mockRepRepository) TouchAssigned(ctx context.Context, id string, at time.Time) error {
	m.touched = append(m.touched, id)
	return nil
}

type mockSampleWriter struct {
	InsertFunc func(ctx context.Context, s domain.SampleRequest) error
	inserted   []domain.SampleRequest
}

func (m *mockSampleWriter) Insert(ctx context.Context, s domain.SampleRequest) error {
	if m.InsertFunc != nil {
		if err := m.InsertFunc(ctx, s); err != nil {
			return err
		}
	}
	m.inserted = append(m.inserted, s)
	return nil
}

type recordingNotifier struct {
	events []domain.NotificationEvent
}

func (n *recordingNotifier) Enqueue(event domain.NotificationEvent) {
	n.events = append(n.events, event)
}

type createFixture struct {
	brands    *mockBrandRepository
	factories *mockFactoryRepository
	reps      *mockRepRepository
	samples   *mockSampleWriter
	notifier  *recordingNotifier
}

func newCreateFixture() *createFixture {
	return &createFixture{
		brands: &mockBrandRepository{FindByIDFunc: func(ctx context.Context, id string) (*domain.Brand, error) {
			return &domain.Brand{ID: id, Name: "Acme"}, nil
		}},
		factories: &mockFactoryRepository{FindByIDFunc: func(ctx context.Context, id string) (*domain.Factory, error) {
			return &domain.Factory{ID: id, Name: "Shenzhen Leather"}, nil
		}},
		reps: &mockRepRepository{ListActiveFunc: func(ctx context.Context) ([]domain.Rep, error) {
			return []domain.Rep{{ID: "rep-1", UserID: "user-rep-1", IsActive: true}}, nil
		}},
		samples:  &mockSampleWriter{},
		notifier: &recordingNotifier{},
	}
}

func (f *createFixture) useCase() *CreateSampleUseCase {
	return NewCreateSampleUseCase(passThroughTx{}, f.brands, f.factories, f.reps, f.samples, f.notifier, 3, zap.NewNop())
}

func validInput() CreateSampleInput {
	moq := 100
	return CreateSampleInput{
		BrandID:            "brand-1",
		FactoryID:          "factory-1",
		ProductDescription: "Tote bag, full grain leather",
		Quantity:           2,
		PreferredMOQ:       &moq,
		DeliveryAddress:    "1 Market St, San Francisco",
	}
}

func TestCreate_Success(t *testing.T) {
	f := newCreateFixture()

	sample, err := f.useCase().Create(context.Background(), validInput())

	require.NoError(t, err)
	assert.NotEmpty(t, sample.ID)
	assert.Equal(t, domain.StatusRequested, sample.Status)
	assert.Equal(t, "rep-1", sample.RepID)
	assert.Equal(t, 100, *sample.PreferredMOQ)
	assert.Equal(t, []string{}, sample.FileURLs)

	require.Len(t, f.samples.inserted, 1)
	assert.Equal(t, sample.ID, f.samples.inserted[0].ID)
	assert.Equal(t, []string{"rep-1"}, f.reps.touched)

	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, domain.EventCreated, f.notifier.events[0].Kind)
	assert.Equal(t, sample.ID, f.notifier.events[0].SampleID)
}

func TestCreate_UsesFactoryRepByUserID(t *testing.T) {
	f := newCreateFixture()
	ref := "user-rep-2"
	f.factories.FindByIDFunc = func(ctx context.Context, id string) (*domain.Factory, error) {
		return &domain.Factory{ID: id, AssignedRepRef: &ref}, nil
	}
	f.reps.ListActiveFunc = func(ctx context.Context) ([]domain.Rep, error) {
		return []domain.Rep{
			{ID: "rep-1", UserID: "user-rep-1", IsActive: true},
			{ID: "rep-2", UserID: "user-rep-2", IsActive: true},
		}, nil
	}

	sample, err := f.useCase().Create(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, "rep-2", sample.RepID)
}

func TestCreate_NoActiveReps(t *testing.T) {
	f := newCreateFixture()
	f.reps.ListActiveFunc = func(ctx context.Context) ([]domain.Rep, error) {
		return nil, nil
	}

	_, err := f.useCase().Create(context.Background(), validInput())

	_, ok := apperrors.IsAssignmentError(err)
	assert.True(t, ok)
	assert.Empty(t, f.samples.inserted)
	assert.Empty(t, f.notifier.events)
}

func TestCreate_BrandNotFound(t *testing.T) {
	f := newCreateFixture()
	f.brands.FindByIDFunc = func(ctx context.Context, id string) (*domain.Brand, error) {
		return nil, apperrors.NewNotFoundError("brand not found")
	}

	_, err := f.useCase().Create(context.Background(), validInput())

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
	assert.Empty(t, f.samples.inserted)
}

func TestCreate_FactoryNotFound(t *testing.T) {
	f := newCreateFixture()
	f.factories.FindByIDFunc = func(ctx context.Context, id string) (*domain.Factory, error) {
		return nil, apperrors.NewNotFoundError("factory not found")
	}

	_, err := f.useCase().Create(context.Background(), validInput())

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestCreate_Validation(t *testing.T) {
	zero := 0
	tests := []struct {
		name   string
		mutate func(in *CreateSampleInput)
		field  string
	}{
		{"missing brand", func(in *CreateSampleInput) { in.BrandID = "" }, "brandId"},
		{"missing factory", func(in *CreateSampleInput) { in.FactoryID = " " }, "factoryId"},
		{"missing description", func(in *CreateSampleInput) { in.ProductDescription = "" }, "productDescription"},
		{"zero quantity", func(in *CreateSampleInput) { in.Quantity = 0 }, "quantity"},
		{"zero moq", func(in *CreateSampleInput) { in.PreferredMOQ = &zero }, "preferredMoq"},
		{"missing address", func(in *CreateSampleInput) { in.DeliveryAddress = "" }, "deliveryAddress"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCreateFixture()
			in := validInput()
			tt.mutate(&in)

			_, err := f.useCase().Create(context.Background(), in)

			ve, ok := apperrors.IsValidationError(err)
			require.True(t, ok)
			require.Len(t, ve.Details, 1)
			assert.Equal(t, tt.field, ve.Details[0].Field)
		})
	}
}

func TestCreate_InsertFailureSkipsNotification(t *testing.T) {
	f := newCreateFixture()
	f.samples.InsertFunc = func(ctx context.Context, s domain.SampleRequest) error {
		return errors.New("connection refused")
	}

	_, err := f.useCase().Create(context.Background(), validInput())

	require.Error(t, err)
	assert.Empty(t, f.notifier.events)
}

func TestCreate_RetriesDeadlock(t *testing.T) {
	f := newCreateFixture()
	calls := 0
	f.samples.InsertFunc = func(ctx context.Context, s domain.SampleRequest) error {
		calls++
		if calls == 1 {
			return &driver.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}
		}
		return nil
	}

	sample, err := f.useCase().Create(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, f.samples.inserted, 1)
	assert.Equal(t, sample.ID, f.samples.inserted[0].ID)
	assert.Len(t, f.notifier.events, 1)
}

func TestCreate_DeadlockGivesUpAfterMaxAttempts(t *testing.T) {
	f := newCreateFixture()
	calls := 0
	f.samples.InsertFunc = func(ctx context.Context, s domain.SampleRequest) error {
		calls++
		return &driver.MySQLError{Number: 1213}
	}

	_, err := f.useCase().Create(context.Background(), validInput())

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Empty(t, f.notifier.events)
}

func TestCreate_OtherErrorsAreNotRetried(t *testing.T) {
	f := newCreateFixture()
	calls := 0
	f.samples.InsertFunc = func(ctx context.Context, s domain.SampleRequest) error {
		calls++
		return &driver.MySQLError{Number: 1062}
	}

	_, err := f.useCase().Create(context.Background(), validInput())

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
