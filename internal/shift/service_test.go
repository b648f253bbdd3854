package shift_test

import (
	"context"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/frahmantamala/shift-scheduler/internal"
	"github.com/frahmantamala/shift-scheduler/internal/auth"
	notificationDatamodel "github.com/frahmantamala/shift-scheduler/internal/core/datamodel/notification"
	shiftDatamodel "github.com/frahmantamala/shift-scheduler/internal/core/datamodel/shift"
	userDatamodel "github.com/frahmantamala/shift-scheduler/internal/core/datamodel/user"
	"github.com/frahmantamala/shift-scheduler/internal/core/events"
	"github.com/frahmantamala/shift-scheduler/internal/notification"
	notificationPostgres "github.com/frahmantamala/shift-scheduler/internal/notification/postgres"
	"github.com/frahmantamala/shift-scheduler/internal/shift"
	shiftPostgres "github.com/frahmantamala/shift-scheduler/internal/shift/postgres"
	"github.com/frahmantamala/shift-scheduler/internal/store"
	"github.com/frahmantamala/shift-scheduler/internal/store/storetest"
	"github.com/frahmantamala/shift-scheduler/internal/user"
	userPostgres "github.com/frahmantamala/shift-scheduler/internal/user/postgres"
	"github.com/frahmantamala/shift-scheduler/pkg/logger"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.EventType()
	}
	return types
}

type failingNotices struct{}

func (failingNotices) Create(context.Context, *notification.Notification) error {
	return errors.New("notification store unavailable")
}

var _ = Describe("Shift Service", func() {
	var (
		db        *gorm.DB
		repo      shift.RepositoryAPI
		publisher *recordingPublisher
		deps      shift.Dependencies
		service   *shift.Service
		ctx       context.Context
		manager   auth.Principal
		staff     auth.Principal
		staff2    auth.Principal
	)

	countRows := func(model interface{}) int64 {
		var n int64
		Expect(db.Model(model).Count(&n).Error).To(Succeed())
		return n
	}

	notices := func() []notificationDatamodel.Notification {
		var rows []notificationDatamodel.Notification
		Expect(db.Order("id").Find(&rows).Error).To(Succeed())
		return rows
	}

	BeforeEach(func() {
		var err error
		db, err = storetest.OpenSQLite()
		Expect(err).NotTo(HaveOccurred())
		sqlxDB, err := storetest.SQLX(db)
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()

		for _, u := range []userDatamodel.User{
			{Username: "admin", Password: "x", Role: "manager", Department: "管理部"},
			{Username: "staff1", Password: "x", Role: "staff", Department: "営業部"},
			{Username: "staff2", Password: "x", Role: "staff", Department: "開発部"},
		} {
			u := u
			Expect(db.Create(&u).Error).To(Succeed())
		}
		manager = auth.Principal{ID: 1, Username: "admin", Role: auth.RoleManager}
		staff = auth.Principal{ID: 2, Username: "staff1", Role: auth.RoleStaff}
		staff2 = auth.Principal{ID: 3, Username: "staff2", Role: auth.RoleStaff}

		repo = shiftPostgres.NewShiftRepository(db)
		publisher = &recordingPublisher{}
		policy := auth.NewPolicy()
		deps = shift.Dependencies{
			Repo:       repo,
			Searcher:   shiftPostgres.NewSearchRepository(sqlxDB),
			Transactor: store.NewTransactor(db),
			Notices:    notification.NewService(notificationPostgres.NewNotificationRepository(db), 0, logger.Discard()),
			Owners:     user.NewService(userPostgres.NewUserRepository(db), policy, 4, logger.Discard()),
			Policy:     policy,
			Events:     publisher,
			Logger:     logger.Discard(),
		}
		service = shift.NewService(deps)
	})

	AfterEach(func() {
		Expect(storetest.Close(db)).To(Succeed())
	})

	Describe("Create", func() {
		It("creates a pending staff shift with the owner's department and one approval notice", func() {
			created, err := service.Create(ctx, staff, shift.CreateShiftDTO{Date: "2024-05-01", StartTime: "09:00", EndTime: "18:00", Notes: "n"})
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(HaveLen(1))
			Expect(created[0].ID).To(BeNumerically(">", 0))
			Expect(created[0].Status).To(Equal(shift.StatusPending))
			Expect(created[0].Department).To(Equal("営業部"))

			rows := notices()
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].Type).To(Equal("approval_needed"))
			Expect(rows[0].Username).To(Equal("staff1"))
			Expect(rows[0].TargetRole).To(Equal("manager"))
			Expect(rows[0].Message).To(Equal("staff1からの新しいシフト申請があります (2024-05-01: 09:00-18:00)"))
		})

		It("prefers the department given in the request", func() {
			created, err := service.Create(ctx, staff, shift.CreateShiftDTO{Date: "2024-05-01", StartTime: "09:00", EndTime: "18:00", Department: "開発部"})
			Expect(err).NotTo(HaveOccurred())
			Expect(created[0].Department).To(Equal("開発部"))
		})

		It("auto approves manager shifts without notifying anyone", func() {
			created, err := service.Create(ctx, manager, shift.CreateShiftDTO{Date: "2024-05-01", StartTime: "09:00", EndTime: "18:00"})
			Expect(err).NotTo(HaveOccurred())
			Expect(created[0].Status).To(Equal(shift.StatusApproved))
			Expect(notices()).To(BeEmpty())
		})

		It("writes a weekly batch with a single notice", func() {
			created, err := service.Create(ctx, staff, shift.CreateShiftDTO{Date: "2024-05-01", StartTime: "13:00", EndTime: "22:00", RepeatOption: shift.RepeatWeekly})
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(HaveLen(5))
			Expect(created[4].Date).To(Equal("2024-05-29"))
			Expect(countRows(&shiftDatamodel.Shift{})).To(Equal(int64(5)))
			Expect(notices()).To(HaveLen(1))
			Expect(notices()[0].Date).To(Equal("2024-05-01"))
		})

		It("rolls the whole batch back when the notice cannot be written", func() {
			deps.Notices = failingNotices{}
			service = shift.NewService(deps)

			_, err := service.Create(ctx, staff, shift.CreateShiftDTO{Date: "2024-05-01", StartTime: "09:00", EndTime: "18:00", RepeatOption: shift.RepeatMonthly})
			Expect(err).To(HaveOccurred())
			Expect(countRows(&shiftDatamodel.Shift{})).To(BeZero())
		})

		It("rejects invalid input before touching the store", func() {
			_, err := service.Create(ctx, staff, shift.CreateShiftDTO{Date: "2024-05-01", StartTime: "18:00", EndTime: "09:00"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
			Expect(countRows(&shiftDatamodel.Shift{})).To(BeZero())
		})
	})

	Describe("Approve and Reject", func() {
		var pending *shift.Shift

		BeforeEach(func() {
			created, err := service.Create(ctx, staff, shift.CreateShiftDTO{Date: "2024-05-02", StartTime: "08:00", EndTime: "17:00"})
			Expect(err).NotTo(HaveOccurred())
			pending = created[0]
		})

		It("approves, stamps the reviewer and notifies the owner", func() {
			Expect(service.Approve(ctx, manager, pending.ID)).To(Succeed())

			got, err := repo.GetByID(ctx, pending.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(shift.StatusApproved))
			Expect(got.ApprovedBy).NotTo(BeNil())
			Expect(*got.ApprovedBy).To(Equal("admin"))
			Expect(got.ApprovedAt).NotTo(BeNil())
			Expect(got.RejectedBy).To(BeNil())

			rows := notices()
			Expect(rows).To(HaveLen(2))
			Expect(rows[1].Type).To(Equal("shift_approved"))
			Expect(rows[1].TargetRole).To(Equal("staff1"))
			Expect(rows[1].Message).To(Equal("シフトが承認されました (2024-05-02: 08:00-17:00)"))
			Expect(publisher.Types()).To(Equal([]string{events.EventTypeShiftApproved}))
		})

		It("rejects and stamps the reviewer", func() {
			Expect(service.Reject(ctx, manager, pending.ID)).To(Succeed())

			got, err := repo.GetByID(ctx, pending.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(shift.StatusRejected))
			Expect(*got.RejectedBy).To(Equal("admin"))
			Expect(notices()[1].Message).To(Equal("シフトが却下されました (2024-05-02: 08:00-17:00)"))
			Expect(publisher.Types()).To(Equal([]string{events.EventTypeShiftRejected}))
		})

		It("refuses a second decision with a conflict", func() {
			Expect(service.Approve(ctx, manager, pending.ID)).To(Succeed())
			Expect(service.Reject(ctx, manager, pending.ID)).To(MatchError(internal.ErrInvalidShiftStatus))
			Expect(service.Approve(ctx, manager, pending.ID)).To(MatchError(internal.ErrInvalidShiftStatus))
			Expect(notices()).To(HaveLen(2))
			Expect(publisher.Types()).To(HaveLen(1))
		})

		It("guards the update on the pending status", func() {
			ok, err := repo.Transition(ctx, pending.ID, shift.StatusApproved, "admin", pending.CreatedAt)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			ok, err = repo.Transition(ctx, pending.ID, shift.StatusRejected, "admin", pending.CreatedAt)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})

		It("is manager only", func() {
			Expect(service.Approve(ctx, staff, pending.ID)).To(MatchError(internal.ErrForbidden))
			Expect(service.Reject(ctx, staff, pending.ID)).To(MatchError(internal.ErrForbidden))
		})

		It("reports unknown shifts", func() {
			Expect(service.Approve(ctx, manager, 999)).To(MatchError(internal.ErrShiftNotFound))
		})
	})

	Describe("Delete", func() {
		var owned *shift.Shift

		BeforeEach(func() {
			created, err := service.Create(ctx, staff, shift.CreateShiftDTO{Date: "2024-05-03", StartTime: "09:00", EndTime: "18:00"})
			Expect(err).NotTo(HaveOccurred())
			owned = created[0]
		})

		It("lets the owner delete silently", func() {
			Expect(service.Delete(ctx, staff, owned.ID)).To(Succeed())
			Expect(countRows(&shiftDatamodel.Shift{})).To(BeZero())
			Expect(notices()).To(HaveLen(1))
			Expect(publisher.Types()).To(BeEmpty())
		})

		It("notifies the owner when a manager deletes", func() {
			Expect(service.Delete(ctx, manager, owned.ID)).To(Succeed())
			rows := notices()
			Expect(rows).To(HaveLen(2))
			Expect(rows[1].Type).To(Equal("shift_deleted"))
			Expect(rows[1].Message).To(Equal("管理者によりシフトが削除されました (2024-05-03: 09:00-18:00)"))
			Expect(publisher.Types()).To(Equal([]string{events.EventTypeShiftDeleted}))
		})

		It("forbids other staff", func() {
			Expect(service.Delete(ctx, staff2, owned.ID)).To(MatchError(internal.ErrCannotDeleteShift))
			Expect(countRows(&shiftDatamodel.Shift{})).To(Equal(int64(1)))
		})

		It("reports unknown shifts", func() {
			Expect(service.Delete(ctx, staff, 999)).To(MatchError(internal.ErrShiftNotFound))
		})
	})

	Describe("List and Search", func() {
		BeforeEach(func() {
			_, err := service.Create(ctx, staff, shift.CreateShiftDTO{Date: "2024-05-02", StartTime: "13:00", EndTime: "22:00", Notes: "closing"})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Create(ctx, staff, shift.CreateShiftDTO{Date: "2024-05-02", StartTime: "08:00", EndTime: "17:00"})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Create(ctx, staff2, shift.CreateShiftDTO{Date: "2024-05-01", StartTime: "09:00", EndTime: "18:00", Notes: "closing"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("orders by date then start time for managers", func() {
			list, err := service.List(ctx, manager)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(3))
			Expect(list[0].Username).To(Equal("staff2"))
			Expect(list[1].StartTime).To(Equal("08:00"))
			Expect(list[2].StartTime).To(Equal("13:00"))
		})

		It("limits staff to their own shifts", func() {
			list, err := service.List(ctx, staff)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(2))
			for _, s := range list {
				Expect(s.Username).To(Equal("staff1"))
			}
		})

		It("searches notes and filters staff results", func() {
			all, err := service.Search(ctx, manager, shift.SearchQuery{Type: shift.SearchByNotes, Term: "clos"})
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(2))

			mine, err := service.Search(ctx, staff, shift.SearchQuery{Type: shift.SearchByNotes, Term: "clos"})
			Expect(err).NotTo(HaveOccurred())
			Expect(mine).To(HaveLen(1))
			Expect(mine[0].Username).To(Equal("staff1"))
		})

		It("searches by the owner's department", func() {
			found, err := service.Search(ctx, manager, shift.SearchQuery{Type: shift.SearchByDepartment, Term: "開発"})
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(HaveLen(1))
			Expect(found[0].Username).To(Equal("staff2"))
		})

		It("searches by date and user", func() {
			byDate, err := service.Search(ctx, manager, shift.SearchQuery{Type: shift.SearchByDate, Term: "05-02"})
			Expect(err).NotTo(HaveOccurred())
			Expect(byDate).To(HaveLen(2))

			byUser, err := service.Search(ctx, manager, shift.SearchQuery{Type: shift.SearchByUser, Term: "staff2"})
			Expect(err).NotTo(HaveOccurred())
			Expect(byUser).To(HaveLen(1))
		})

		It("rejects unknown search types", func() {
			_, err := service.Search(ctx, manager, shift.SearchQuery{Type: "status", Term: "x"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("lists a date range", func() {
			list, err := service.ListBetween(ctx, "2024-05-02", "2024-05-02")
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(2))
		})
	})
})
