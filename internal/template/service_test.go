package template_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/frahmantamala/shift-scheduler/internal"
	"github.com/frahmantamala/shift-scheduler/internal/store/storetest"
	"github.com/frahmantamala/shift-scheduler/internal/template"
	templatePostgres "github.com/frahmantamala/shift-scheduler/internal/template/postgres"
	"github.com/frahmantamala/shift-scheduler/pkg/logger"
)

var _ = Describe("Template Service", func() {
	var (
		db      *gorm.DB
		service *template.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = storetest.OpenSQLite()
		Expect(err).NotTo(HaveOccurred())
		service = template.NewService(templatePostgres.NewTemplateRepository(db), logger.Discard())
		ctx = context.Background()
	})

	AfterEach(func() {
		Expect(storetest.Close(db)).To(Succeed())
	})

	It("creates templates and lists them by name", func() {
		_, err := service.Create(ctx, template.TemplateDTO{Name: "遅番", StartTime: "13:00", EndTime: "22:00"})
		Expect(err).NotTo(HaveOccurred())
		_, err = service.Create(ctx, template.TemplateDTO{Name: "早番", StartTime: "08:00", EndTime: "17:00"})
		Expect(err).NotTo(HaveOccurred())

		list, err := service.GetAll(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(2))
		Expect(list[0].Name).To(Equal("早番"))
	})

	It("rejects a duplicate name with a conflict", func() {
		_, err := service.Create(ctx, template.TemplateDTO{Name: "通常", StartTime: "09:00", EndTime: "18:00"})
		Expect(err).NotTo(HaveOccurred())
		_, err = service.Create(ctx, template.TemplateDTO{Name: "通常", StartTime: "10:00", EndTime: "19:00"})
		Expect(err).To(MatchError(internal.ErrTemplateNameTaken))
	})

	It("validates the time range", func() {
		_, err := service.Create(ctx, template.TemplateDTO{Name: "夜勤", StartTime: "22:00", EndTime: "06:00"})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Details.(internal.ValidationErrors).Errors[0].Code).To(Equal(string(internal.ErrCodeInvalidTimeRange)))
	})

	It("updates and deletes", func() {
		t, err := service.Create(ctx, template.TemplateDTO{Name: "通常", StartTime: "09:00", EndTime: "18:00"})
		Expect(err).NotTo(HaveOccurred())

		updated, err := service.Update(ctx, t.ID, template.TemplateDTO{Name: "通常", StartTime: "09:30", EndTime: "18:30"})
		Expect(err).NotTo(HaveOccurred())
		Expect(updated.StartTime).To(Equal("09:30"))

		got, err := service.GetByID(ctx, t.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.EndTime).To(Equal("18:30"))

		Expect(service.Delete(ctx, t.ID)).To(Succeed())
		_, err = service.GetByID(ctx, t.ID)
		Expect(err).To(MatchError(internal.ErrTemplateNotFound))
	})

	It("reports unknown ids on update and delete", func() {
		_, err := service.Update(ctx, 404, template.TemplateDTO{Name: "x", StartTime: "09:00", EndTime: "10:00"})
		Expect(err).To(MatchError(internal.ErrTemplateNotFound))
		Expect(service.Delete(ctx, 404)).To(MatchError(internal.ErrTemplateNotFound))
	})
})
