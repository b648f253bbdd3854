package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/frahmantamala/shift-scheduler/api"
	"github.com/frahmantamala/shift-scheduler/cmd"
	"github.com/frahmantamala/shift-scheduler/internal"
	"github.com/frahmantamala/shift-scheduler/internal/seed"
	"github.com/frahmantamala/shift-scheduler/internal/store/storetest"
	"github.com/frahmantamala/shift-scheduler/pkg/logger"
)

var _ = Describe("Shift scheduler API", func() {
	var (
		db     *gorm.DB
		app    *cmd.App
		server *httptest.Server
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		db, err = storetest.OpenSQLite()
		Expect(err).NotTo(HaveOccurred())
		sqlxDB, err := storetest.SQLX(db)
		Expect(err).NotTo(HaveOccurred())

		cfg := &internal.Config{
			Database: internal.DatabaseConfig{Driver: internal.DriverSQLite, Source: ":memory:"},
			Security: internal.SecurityConfig{
				JWTSecret:  "an-end-to-end-secret-of-32-characters",
				BCryptCost: bcrypt.MinCost,
			},
		}
		cfg.ApplyDefaults()

		fixture, err := seed.Default()
		Expect(err).NotTo(HaveOccurred())
		_, err = seed.NewSeeder(db, bcrypt.MinCost, logger.Discard()).Apply(ctx, fixture)
		Expect(err).NotTo(HaveOccurred())

		app = cmd.NewApp(cfg, &cmd.Stores{Gorm: db, SQLX: sqlxDB}, logger.Discard())
		server = httptest.NewServer(app.Router)
	})

	AfterEach(func() {
		server.Close()
		Expect(app.Bus.Drain(ctx)).To(Succeed())
		Expect(storetest.Close(db)).To(Succeed())
	})

	call := func(method, path, token string, body interface{}) *http.Response {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req, err := http.NewRequest(method, server.URL+path, &buf)
		Expect(err).NotTo(HaveOccurred())
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := http.DefaultClient.Do(req)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(resp.Body.Close)
		return resp
	}

	decode := func(resp *http.Response, dst interface{}) {
		Expect(json.NewDecoder(resp.Body).Decode(dst)).To(Succeed())
	}

	login := func(username, password string) string {
		resp := call(http.MethodPost, "/api/login", "", map[string]string{"username": username, "password": password})
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		var out struct {
			Token string `json:"token"`
		}
		decode(resp, &out)
		Expect(out.Token).NotTo(BeEmpty())
		return out.Token
	}

	It("runs a weekly request through approval", func() {
		staff := login("staff1", "staff123")
		manager := login("admin", "admin123")

		resp := call(http.MethodPost, "/api/shifts", staff, map[string]string{
			"date": "2030-04-01", "startTime": "09:00", "endTime": "18:00", "repeatOption": "weekly",
		})
		Expect(resp.StatusCode).To(Equal(http.StatusCreated))
		var created []struct {
			ID         int64  `json:"id"`
			Date       string `json:"date"`
			Status     string `json:"status"`
			Department string `json:"department"`
		}
		decode(resp, &created)
		Expect(created).To(HaveLen(5))
		Expect(created[4].Date).To(Equal("2030-04-29"))
		Expect(created[0].Status).To(Equal("pending"))
		Expect(created[0].Department).To(Equal("営業部"))

		var notices []struct {
			Type string `json:"type"`
		}
		decode(call(http.MethodGet, "/api/notifications", manager, nil), &notices)
		Expect(notices).To(HaveLen(1))
		Expect(notices[0].Type).To(Equal("approval_needed"))

		Expect(call(http.MethodPut, "/api/shifts/1/approve", staff, nil).StatusCode).To(Equal(http.StatusForbidden))

		resp = call(http.MethodPut, "/api/shifts/1/approve", manager, nil)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		var msg struct {
			Message string `json:"message"`
		}
		decode(resp, &msg)
		Expect(msg.Message).To(Equal("シフトが承認されました"))

		Expect(call(http.MethodPut, "/api/shifts/1/reject", manager, nil).StatusCode).To(Equal(http.StatusConflict))

		decode(call(http.MethodGet, "/api/notifications", staff, nil), &notices)
		Expect(notices).To(ContainElement(HaveField("Type", "shift_approved")))
	})

	It("approves shifts for owners with long usernames", func() {
		owner := strings.Repeat("s", 40)
		resp := call(http.MethodPost, "/api/register", "", map[string]string{"username": owner, "password": "longpass"})
		Expect(resp.StatusCode).To(Equal(http.StatusCreated))
		staff := login(owner, "longpass")
		manager := login("admin", "admin123")

		resp = call(http.MethodPost, "/api/shifts", staff, map[string]string{
			"date": "2030-05-01", "startTime": "09:00", "endTime": "18:00",
		})
		Expect(resp.StatusCode).To(Equal(http.StatusCreated))
		var created struct {
			ID int64 `json:"id"`
		}
		decode(resp, &created)

		Expect(call(http.MethodPut, fmt.Sprintf("/api/shifts/%d/approve", created.ID), manager, nil).StatusCode).To(Equal(http.StatusOK))

		var notices []struct {
			Type       string `json:"type"`
			TargetRole string `json:"targetRole"`
		}
		decode(call(http.MethodGet, "/api/notifications", staff, nil), &notices)
		Expect(notices).To(ContainElement(And(HaveField("Type", "shift_approved"), HaveField("TargetRole", owner))))
	})

	It("keeps role names out of usernames", func() {
		for _, name := range []string{"manager", "staff"} {
			resp := call(http.MethodPost, "/api/register", "", map[string]string{"username": name, "password": "pw"})
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest), name)
		}

		manager := login("admin", "admin123")
		resp := call(http.MethodPost, "/api/users", manager, map[string]string{"username": "manager", "password": "pw", "role": "staff"})
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
	})

	It("orders same-day shifts by start time", func() {
		staff := login("staff1", "staff123")

		resp := call(http.MethodPost, "/api/shifts", staff, map[string]string{"date": "2030-06-03", "startTime": "9:00", "endTime": "12:00"})
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))

		Expect(call(http.MethodPost, "/api/shifts", staff, map[string]string{"date": "2030-06-03", "startTime": "13:00", "endTime": "17:00"}).StatusCode).To(Equal(http.StatusCreated))
		Expect(call(http.MethodPost, "/api/shifts", staff, map[string]string{"date": "2030-06-03", "startTime": "09:00", "endTime": "12:00"}).StatusCode).To(Equal(http.StatusCreated))

		var list []struct {
			StartTime string `json:"startTime"`
		}
		decode(call(http.MethodGet, "/api/shifts", staff, nil), &list)
		Expect(list).To(HaveLen(2))
		Expect(list[0].StartTime).To(Equal("09:00"))
		Expect(list[1].StartTime).To(Equal("13:00"))
	})

	It("serves the same routes under /api/v1", func() {
		token := login("staff1", "staff123")
		resp := call(http.MethodGet, "/api/v1/departments", token, nil)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		var names []string
		decode(resp, &names)
		Expect(names).To(ContainElements("管理部", "営業部"))
	})

	It("requires a token outside the public routes", func() {
		resp := call(http.MethodGet, "/api/shifts", "", nil)
		Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
		Expect(resp.Header.Get("X-Trace-ID")).NotTo(BeEmpty())
	})

	It("keeps user administration for managers", func() {
		staff := login("staff1", "staff123")
		Expect(call(http.MethodGet, "/api/users", staff, nil).StatusCode).To(Equal(http.StatusForbidden))

		manager := login("admin", "admin123")
		resp := call(http.MethodPost, "/api/users", manager, map[string]string{
			"username": "dev1", "password": "devpass", "role": "staff", "department": "品質保証部",
		})
		Expect(resp.StatusCode).To(Equal(http.StatusCreated))

		var names []string
		decode(call(http.MethodGet, "/api/departments", manager, nil), &names)
		Expect(names).To(ContainElement("品質保証部"))
	})

	It("exports visible shifts as CSV", func() {
		staff := login("staff1", "staff123")
		Expect(call(http.MethodPost, "/api/shifts", staff, map[string]string{
			"date": "2030-05-01", "startTime": "13:00", "endTime": "22:00", "notes": "遅番",
		}).StatusCode).To(Equal(http.StatusCreated))

		resp := call(http.MethodGet, "/api/export/csv", staff, nil)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(resp.Header.Get("Content-Type")).To(HavePrefix("text/csv"))
		Expect(resp.Header.Get("Content-Disposition")).To(ContainSubstring("filename*=UTF-8''"))

		var body bytes.Buffer
		_, err := body.ReadFrom(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(body.String()).To(HavePrefix("\uFEFF日付,開始時間"))
		Expect(body.String()).To(ContainSubstring(`"2030-05-01","13:00","22:00","staff1","営業部","pending","遅番"`))
	})

	It("reports health and serves the document", func() {
		Expect(call(http.MethodGet, "/api/health", "", nil).StatusCode).To(Equal(http.StatusOK))
		Expect(call(http.MethodGet, "/api/ping", "", nil).StatusCode).To(Equal(http.StatusOK))

		resp := call(http.MethodGet, "/openapi.yml", "", nil)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
	})

	It("documents every API route", func() {
		doc, err := api.Load(ctx)
		Expect(err).NotTo(HaveOccurred())

		err = chi.Walk(app.Router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
			if !strings.HasPrefix(route, "/api/") || strings.HasPrefix(route, "/api/v1/") {
				return nil
			}
			path := strings.TrimSuffix(strings.TrimPrefix(route, "/api"), "/")
			if path == "" {
				return nil
			}
			item := doc.Paths.Value(path)
			Expect(item).NotTo(BeNil(), "undocumented path %s", path)
			Expect(item.GetOperation(method)).NotTo(BeNil(), "undocumented %s %s", method, path)
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
	})
})
