package postgres

import (
	"context"
	"errors"

	plandatamodel "github.com/frahmantamala/plan-checkout/internal/core/datamodel/plan"
	"github.com/frahmantamala/plan-checkout/internal/plan"
	"gorm.io/gorm"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

var _ plan.RepositoryAPI = (*PlanRepository)(nil)

func (r *PlanRepository) FindByID(ctx context.Context, id string) (*plan.Plan, error) {
	var p plandatamodel.PricingPlan
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return plan.FromDataModel(&p), nil
}

func (r *PlanRepository) Create(ctx context.Context, p *plan.Plan) error {
	return r.db.WithContext(ctx).Create(plan.ToDataModel(p)).Error
}

func (r *PlanRepository) Save(ctx context.Context, p *plan.Plan) error {
	return r.db.WithContext(ctx).Save(plan.ToDataModel(p)).Error
}

func (r *PlanRepository) List(ctx context.Context) ([]*plan.Plan, error) {
	var rows []*plandatamodel.PricingPlan
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	plans := make([]*plan.Plan, 0, len(rows))
	for _, row := range rows {
		plans = append(plans, plan.FromDataModel(row))
	}
	return plans, nil
}
