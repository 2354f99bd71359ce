package report

import (
	"context"

	"github.com/ahmetbesiroglu/ramp-aging-report/internal/domain"
)

// BillSource supplies entities and their bills. The ramp.Client implements
// it; tests substitute mocks.
type BillSource interface {
	Entities(ctx context.Context) ([]domain.Entity, error)
	Bills(ctx context.Context, entityID, toIssuedDate string) ([]domain.Bill, error)
}

// Archiver receives a copy of every generated artifact. archive.GCS
// implements it; a nil Archiver disables archiving.
type Archiver interface {
	UploadFile(ctx context.Context, objectName, filePath string) error
}
