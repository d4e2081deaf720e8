package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	types "github.com/yungbote/transcriptgraph/internal/domain"
	"github.com/yungbote/transcriptgraph/internal/platform/logger"
)

type CompanyRepo interface {
	// ListAfter returns companies with companyid strictly greater than the
	// cursor, ascending. This is the forward-pass worklist.
	ListAfter(ctx context.Context, companyID int64) ([]*types.Company, error)

	// GetByCompanyID returns one company or nil when absent. Used by the
	// replay pass to resolve ledger entries.
	GetByCompanyID(ctx context.Context, companyID int64) (*types.Company, error)

	Upsert(ctx context.Context, rows []*types.Company) error
}

type companyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCompanyRepo(db *gorm.DB, baseLog *logger.Logger) CompanyRepo {
	return &companyRepo{db: db, log: baseLog.With("repo", "CompanyRepo")}
}

func (r *companyRepo) ListAfter(ctx context.Context, companyID int64) ([]*types.Company, error) {
	var out []*types.Company
	if err := r.db.WithContext(ctx).
		Where("companyid > ?", companyID).
		Order("companyid ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *companyRepo) GetByCompanyID(ctx context.Context, companyID int64) (*types.Company, error) {
	var row types.Company
	err := r.db.WithContext(ctx).
		Where("companyid = ?", companyID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *companyRepo) Upsert(ctx context.Context, rows []*types.Company) error {
	if len(rows) == 0 {
		return nil
	}
	for _, row := range rows {
		var existing types.Company
		err := r.db.WithContext(ctx).
			Where("companyid = ?", row.CompanyID).
			First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			row.ID = existing.ID
			if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
