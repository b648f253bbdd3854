package template_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/frahmantamala/shift-scheduler/internal/store/storetest"
	"github.com/frahmantamala/shift-scheduler/internal/template"
	templatePostgres "github.com/frahmantamala/shift-scheduler/internal/template/postgres"
	"github.com/frahmantamala/shift-scheduler/pkg/logger"
)

var _ = Describe("Template Handler Integration", func() {
	var (
		db     *gorm.DB
		router chi.Router
	)

	BeforeEach(func() {
		var err error
		db, err = storetest.OpenSQLite()
		Expect(err).NotTo(HaveOccurred())

		h := template.NewHandler(template.NewService(templatePostgres.NewTemplateRepository(db), logger.Discard()), logger.Discard())
		router = chi.NewRouter()
		router.Get("/templates", h.GetTemplates)
		router.Post("/templates", h.CreateTemplate)
		router.Get("/templates/{id}", h.GetTemplate)
		router.Put("/templates/{id}", h.UpdateTemplate)
		router.Delete("/templates/{id}", h.DeleteTemplate)
	})

	AfterEach(func() {
		Expect(storetest.Close(db)).To(Succeed())
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
		return rec
	}

	It("round trips a template over HTTP", func() {
		rec := do(http.MethodPost, "/templates", `{"name":"早番","startTime":"08:00","endTime":"17:00"}`)
		Expect(rec.Code).To(Equal(http.StatusCreated))

		var created template.Template
		Expect(json.Unmarshal(rec.Body.Bytes(), &created)).To(Succeed())
		Expect(created.ID).To(BeNumerically(">", 0))

		rec = do(http.MethodGet, "/templates", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"startTime":"08:00"`))
	})

	It("answers 409 for a duplicate name", func() {
		Expect(do(http.MethodPost, "/templates", `{"name":"早番","startTime":"08:00","endTime":"17:00"}`).Code).To(Equal(http.StatusCreated))
		rec := do(http.MethodPost, "/templates", `{"name":"早番","startTime":"09:00","endTime":"17:00"}`)
		Expect(rec.Code).To(Equal(http.StatusConflict))
		Expect(rec.Body.String()).To(ContainSubstring("TEMPLATE_NAME_TAKEN"))
	})

	It("answers 404 for an unknown template", func() {
		Expect(do(http.MethodGet, "/templates/12", "").Code).To(Equal(http.StatusNotFound))
		Expect(do(http.MethodDelete, "/templates/12", "").Code).To(Equal(http.StatusNotFound))
	})
})
