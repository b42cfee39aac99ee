package plan

import "time"

type PricingPlan struct {
	ID                 string    `gorm:"primaryKey;column:id" db:"id"`
	Name               string    `gorm:"column:name;not null" db:"name"`
	Price              string    `gorm:"column:price;not null" db:"price"`
	GatewayAPIEndpoint string    `gorm:"column:gateway_api_endpoint" db:"gateway_api_endpoint"`
	GatewayHTTPMethod  string    `gorm:"column:gateway_http_method" db:"gateway_http_method"`
	GatewayAPIKey      string    `gorm:"column:gateway_api_key" db:"gateway_api_key"`
	GatewaySecretKey   string    `gorm:"column:gateway_secret_key" db:"gateway_secret_key"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime" db:"created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime" db:"updated_at"`
}

func (PricingPlan) TableName() string {
	return "pricing_plans"
}
