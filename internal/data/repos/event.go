package repos

import (
	"context"

	"gorm.io/gorm"

	types "github.com/yungbote/transcriptgraph/internal/domain"
	"github.com/yungbote/transcriptgraph/internal/platform/logger"
)

type EventRepo interface {
	// ListAll returns every event ascending by keydevid. Feeds the graph
	// bootstrap sync.
	ListAll(ctx context.Context) ([]*types.Event, error)

	ListByCompanyID(ctx context.Context, companyID int64) ([]*types.Event, error)

	Upsert(ctx context.Context, rows []*types.Event) error
}

type eventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	return &eventRepo{db: db, log: baseLog.With("repo", "EventRepo")}
}

func (r *eventRepo) ListAll(ctx context.Context) ([]*types.Event, error) {
	var out []*types.Event
	if err := r.db.WithContext(ctx).
		Order("keydevid ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *eventRepo) ListByCompanyID(ctx context.Context, companyID int64) ([]*types.Event, error) {
	var out []*types.Event
	if err := r.db.WithContext(ctx).
		Where("companyid = ?", companyID).
		Order("keydevid ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *eventRepo) Upsert(ctx context.Context, rows []*types.Event) error {
	for _, row := range rows {
		res := r.db.WithContext(ctx).
			Model(&types.Event{}).
			Where("keydevid = ?", row.EventID).
			Updates(map[string]interface{}{
				"title":        row.Title,
				"quarter":      row.Quarter,
				"year":         row.Year,
				"datetime_utc": row.Time,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
