package store_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	departmentDatamodel "github.com/frahmantamala/shift-scheduler/internal/core/datamodel/department"
	notificationDatamodel "github.com/frahmantamala/shift-scheduler/internal/core/datamodel/notification"
	userDatamodel "github.com/frahmantamala/shift-scheduler/internal/core/datamodel/user"
	"github.com/frahmantamala/shift-scheduler/internal/store"
	"github.com/frahmantamala/shift-scheduler/internal/store/storetest"
)

var _ = Describe("GormTransactor", func() {
	var (
		db *gorm.DB
		tx *store.GormTransactor
	)

	BeforeEach(func() {
		var err error
		db, err = storetest.OpenSQLite()
		Expect(err).NotTo(HaveOccurred())
		tx = store.NewTransactor(db)
	})

	AfterEach(func() {
		Expect(storetest.Close(db)).To(Succeed())
	})

	countDepartments := func() int64 {
		var n int64
		Expect(db.Model(&departmentDatamodel.Department{}).Count(&n).Error).To(Succeed())
		return n
	}

	It("commits every write made through Conn", func() {
		err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
			for _, name := range []string{"営業部", "開発部"} {
				if err := store.Conn(ctx, db).Create(&departmentDatamodel.Department{Name: name}).Error; err != nil {
					return err
				}
			}
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(countDepartments()).To(Equal(int64(2)))
	})

	It("rolls back the whole batch when fn fails", func() {
		err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
			if err := store.Conn(ctx, db).Create(&departmentDatamodel.Department{Name: "営業部"}).Error; err != nil {
				return err
			}
			return errors.New("stop")
		})
		Expect(err).To(MatchError("stop"))
		Expect(countDepartments()).To(BeZero())
	})

	It("joins an outer transaction instead of nesting", func() {
		err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
			inner := tx.WithinTransaction(ctx, func(ctx context.Context) error {
				return store.Conn(ctx, db).Create(&departmentDatamodel.Department{Name: "開発部"}).Error
			})
			Expect(inner).NotTo(HaveOccurred())
			return errors.New("outer failed")
		})
		Expect(err).To(HaveOccurred())
		Expect(countDepartments()).To(BeZero())
	})
})

var _ = Describe("IsUniqueViolation", func() {
	It("detects postgres unique violations", func() {
		err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
		Expect(store.IsUniqueViolation(err)).To(BeTrue())
	})

	It("detects sqlite unique violations", func() {
		db, err := storetest.OpenSQLite()
		Expect(err).NotTo(HaveOccurred())
		defer storetest.Close(db)
		Expect(db.Create(&departmentDatamodel.Department{Name: "営業部"}).Error).To(Succeed())

		dupErr := db.Create(&departmentDatamodel.Department{Name: "営業部"}).Error
		Expect(store.IsUniqueViolation(dupErr)).To(BeTrue())
	})

	It("ignores other errors", func() {
		Expect(store.IsUniqueViolation(nil)).To(BeFalse())
		Expect(store.IsUniqueViolation(&pgconn.PgError{Code: "23503"})).To(BeFalse())
		Expect(store.IsUniqueViolation(errors.New("connection refused"))).To(BeFalse())
	})
})

var _ = Describe("Models", func() {
	columnSize := func(model interface{}, column string) int {
		s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
		Expect(err).NotTo(HaveOccurred())
		f := s.LookUpField(column)
		Expect(f).NotTo(BeNil(), column)
		return f.Size
	}

	It("sizes notification targets to hold any username", func() {
		username := columnSize(&userDatamodel.User{}, "username")
		Expect(username).To(BeNumerically(">", 0))
		Expect(columnSize(&notificationDatamodel.Notification{}, "target_role")).To(BeNumerically(">=", username))
		Expect(columnSize(&notificationDatamodel.Notification{}, "username")).To(BeNumerically(">=", username))
	})

	It("widens target_role in the sql migrations as well", func() {
		files, err := filepath.Glob("../../db/migrations/*.sql")
		Expect(err).NotTo(HaveOccurred())
		Expect(files).NotTo(BeEmpty())
		sort.Strings(files)

		width := regexp.MustCompile(`(?i)\b(username|target_role)\s+(?:TYPE\s+)?VARCHAR\((\d+)\)`)
		sizes := map[string]int{}
		for _, file := range files {
			raw, err := os.ReadFile(file)
			Expect(err).NotTo(HaveOccurred())
			up := strings.SplitN(string(raw), "-- +goose Down", 2)[0]
			for _, m := range width.FindAllStringSubmatch(up, -1) {
				n, err := strconv.Atoi(m[2])
				Expect(err).NotTo(HaveOccurred())
				sizes[strings.ToLower(m[1])] = n
			}
		}
		Expect(sizes["target_role"]).To(BeNumerically(">=", sizes["username"]))
	})
})
