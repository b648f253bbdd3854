package shift_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/shift-scheduler/internal"
	"github.com/frahmantamala/shift-scheduler/internal/auth"
	"github.com/frahmantamala/shift-scheduler/internal/shift"
	"github.com/frahmantamala/shift-scheduler/pkg/logger"
)

type stubShiftService struct {
	created   []*shift.Shift
	createErr error
	reviewErr error
	reviewed  []int64
	lastQuery shift.SearchQuery
}

func (s *stubShiftService) Create(_ context.Context, _ auth.Principal, _ shift.CreateShiftDTO) ([]*shift.Shift, error) {
	return s.created, s.createErr
}

func (s *stubShiftService) Approve(_ context.Context, _ auth.Principal, id int64) error {
	s.reviewed = append(s.reviewed, id)
	return s.reviewErr
}

func (s *stubShiftService) Reject(_ context.Context, _ auth.Principal, id int64) error {
	s.reviewed = append(s.reviewed, id)
	return s.reviewErr
}

func (s *stubShiftService) Delete(_ context.Context, _ auth.Principal, id int64) error {
	return s.reviewErr
}

func (s *stubShiftService) List(context.Context, auth.Principal) ([]*shift.Shift, error) {
	return nil, nil
}

func (s *stubShiftService) Search(_ context.Context, _ auth.Principal, q shift.SearchQuery) ([]*shift.Shift, error) {
	s.lastQuery = q
	return []*shift.Shift{{ID: 1, Username: "staff1"}}, nil
}

var _ = Describe("Shift Handler", func() {
	var (
		stub   *stubShiftService
		router chi.Router
	)

	BeforeEach(func() {
		stub = &stubShiftService{}
		h := shift.NewHandler(stub, logger.Discard())
		router = chi.NewRouter()
		router.Get("/shifts", h.GetShifts)
		router.Post("/shifts", h.CreateShift)
		router.Delete("/shifts/{id}", h.DeleteShift)
		router.Put("/shifts/{id}/approve", h.ApproveShift)
		router.Get("/search", h.SearchShifts)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req = req.WithContext(auth.ContextWithPrincipal(req.Context(), auth.Principal{ID: 2, Username: "staff1", Role: auth.RoleStaff}))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	It("returns a single shift as an object", func() {
		stub.created = []*shift.Shift{{ID: 7, Date: "2024-05-01", StartTime: "09:00", EndTime: "18:00", Status: shift.StatusPending}}
		rec := do(http.MethodPost, "/shifts", `{"date":"2024-05-01","startTime":"09:00","endTime":"18:00"}`)
		Expect(rec.Code).To(Equal(http.StatusCreated))

		var body map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body["id"]).To(BeEquivalentTo(7))
		Expect(body["startTime"]).To(Equal("09:00"))
		Expect(body).NotTo(HaveKey("approvedBy"))
	})

	It("returns a recurring batch as an array", func() {
		stub.created = []*shift.Shift{{ID: 1}, {ID: 2}}
		rec := do(http.MethodPost, "/shifts", `{"date":"2024-05-01","startTime":"09:00","endTime":"18:00","repeatOption":"weekly"}`)
		Expect(rec.Code).To(Equal(http.StatusCreated))

		var body []map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body).To(HaveLen(2))
	})

	It("rejects malformed JSON with 400", func() {
		rec := do(http.MethodPost, "/shifts", `{"date":`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("INVALID_BODY"))
	})

	It("maps a lost review race to 409", func() {
		stub.reviewErr = internal.ErrInvalidShiftStatus
		rec := do(http.MethodPut, "/shifts/5/approve", "")
		Expect(rec.Code).To(Equal(http.StatusConflict))
		Expect(stub.reviewed).To(Equal([]int64{5}))
	})

	It("maps unexpected errors to a generic 500", func() {
		stub.reviewErr = context.DeadlineExceeded
		rec := do(http.MethodDelete, "/shifts/5", "")
		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(rec.Body.String()).NotTo(ContainSubstring("deadline"))
	})

	It("lists as an empty array rather than null", func() {
		rec := do(http.MethodGet, "/shifts", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(strings.TrimSpace(rec.Body.String())).To(Equal("[]"))
	})

	It("passes search parameters through", func() {
		rec := do(http.MethodGet, "/search?type=notes&term=closing", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(stub.lastQuery).To(Equal(shift.SearchQuery{Type: shift.SearchByNotes, Term: "closing"}))
	})
})
