package postgres_test

import (
	"context"

	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	plandatamodel "github.com/frahmantamala/plan-checkout/internal/core/datamodel/plan"
	planPostgres "github.com/frahmantamala/plan-checkout/internal/plan/postgres"
)

var _ = Describe("UpsertPlans", func() {
	var (
		gdb  *gorm.DB
		db   *sqlx.DB
		repo *planPostgres.PlanRepository
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error
		gdb, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(gdb.AutoMigrate(&plandatamodel.PricingPlan{})).To(Succeed())

		sqlDB, err := gdb.DB()
		Expect(err).NotTo(HaveOccurred())
		// one connection so every statement sees the same in-memory database
		sqlDB.SetMaxOpenConns(1)
		db = sqlx.NewDb(sqlDB, "sqlite3")

		repo = planPostgres.NewPlanRepository(gdb)
		ctx = context.Background()
	})

	It("inserts new plans", func() {
		err := planPostgres.UpsertPlans(ctx, db, []plandatamodel.PricingPlan{
			{ID: "basic", Name: "Basic", Price: "9.90 USD", GatewayAPIEndpoint: "https://gw.test"},
			{ID: "pro", Name: "Pro", Price: "49.90 USD", GatewayAPIEndpoint: "https://gw.test/v1/payments"},
		})
		Expect(err).NotTo(HaveOccurred())

		plans, err := repo.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(plans).To(HaveLen(2))
		Expect(plans[0].ID).To(Equal("basic"))
	})

	It("updates plans that already exist", func() {
		seed := []plandatamodel.PricingPlan{{ID: "basic", Name: "Basic", Price: "9.90 USD"}}
		Expect(planPostgres.UpsertPlans(ctx, db, seed)).To(Succeed())

		seed[0].Price = "12.00 USD"
		Expect(planPostgres.UpsertPlans(ctx, db, seed)).To(Succeed())

		found, err := repo.FindByID(ctx, "basic")
		Expect(err).NotTo(HaveOccurred())
		Expect(found.RawPrice).To(Equal("12.00 USD"))

		plans, err := repo.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(plans).To(HaveLen(1))
	})
})
