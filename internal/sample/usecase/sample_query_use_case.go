package usecase

import (
	"context"

	"samplehub/internal/domain"
)

type SampleReader interface {
	FindByID(ctx context.Context, id string) (*domain.SampleRequest, error)
}

type HistoryLister interface {
	List(ctx context.Context, sampleID string) ([]domain.StatusEntry, error)
}

type SampleQueryUseCase struct {
	samples SampleReader
	ledger  HistoryLister
}

func NewSampleQueryUseCase(samples SampleReader, ledger HistoryLister) *SampleQueryUseCase {
	return &SampleQueryUseCase{samples: samples, ledger: ledger}
}

func (uc *SampleQueryUseCase) Get(ctx context.Context, id string) (*domain.SampleRequest, error) {
	return uc.samples.FindByID(ctx, id)
}

// History returns the ledger oldest first with the synthetic requested entry
// leading when none was written.
func (uc *SampleQueryUseCase) History(ctx context.Context, id string) ([]domain.StatusEntry, error) {
	return uc.ledger.List(ctx, id)
}
