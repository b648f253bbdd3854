// Package seed loads fixture data into an empty or existing database
// without duplicating rows.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/frahmantamala/shift-scheduler/internal/auth"
	"github.com/frahmantamala/shift-scheduler/internal/core/common/validation"
	departmentDatamodel "github.com/frahmantamala/shift-scheduler/internal/core/datamodel/department"
	notificationDatamodel "github.com/frahmantamala/shift-scheduler/internal/core/datamodel/notification"
	shiftDatamodel "github.com/frahmantamala/shift-scheduler/internal/core/datamodel/shift"
	templateDatamodel "github.com/frahmantamala/shift-scheduler/internal/core/datamodel/template"
	userDatamodel "github.com/frahmantamala/shift-scheduler/internal/core/datamodel/user"
)

//go:embed default.yml
var defaultFixture []byte

type UserFixture struct {
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	Role       string `yaml:"role"`
	Email      string `yaml:"email"`
	Department string `yaml:"department"`
}

type TemplateFixture struct {
	Name      string `yaml:"name"`
	StartTime string `yaml:"start_time"`
	EndTime   string `yaml:"end_time"`
}

type Fixture struct {
	Users       []UserFixture     `yaml:"users"`
	Departments []string          `yaml:"departments"`
	Templates   []TemplateFixture `yaml:"templates"`
}

// Default returns the built-in fixture.
func Default() (*Fixture, error) {
	return Parse(defaultFixture)
}

// Load reads a fixture file, or the built-in one when path is empty.
func Load(path string) (*Fixture, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *Fixture) Validate() error {
	for i, u := range f.Users {
		if u.Username == "" || u.Password == "" {
			return fmt.Errorf("users[%d]: username and password are required", i)
		}
		if auth.IsReservedUsername(u.Username) {
			return fmt.Errorf("users[%d]: username %q is a role name", i, u.Username)
		}
		if !auth.Role(u.Role).Valid() {
			return fmt.Errorf("users[%d]: invalid role %q", i, u.Role)
		}
	}
	for i, t := range f.Templates {
		if t.Name == "" {
			return fmt.Errorf("templates[%d]: name is required", i)
		}
		if err := validation.ValidateTimeRange(t.StartTime, t.EndTime); err != nil {
			return fmt.Errorf("templates[%d]: %s", i, err.Error())
		}
	}
	return nil
}

type Result struct {
	Users       int
	Departments int
	Templates   int
}

type Seeder struct {
	db         *gorm.DB
	bcryptCost int
	logger     *slog.Logger
}

func NewSeeder(db *gorm.DB, bcryptCost int, logger *slog.Logger) *Seeder {
	return &Seeder{db: db, bcryptCost: bcryptCost, logger: logger}
}

// Apply inserts missing rows keyed by their unique names. Existing users
// keep their password; existing templates take the fixture's times.
func (s *Seeder) Apply(ctx context.Context, f *Fixture) (Result, error) {
	var res Result
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range f.Users {
			hash, err := auth.HashPassword(u.Password, s.bcryptCost)
			if err != nil {
				return fmt.Errorf("hash password for %s: %w", u.Username, err)
			}
			row := userDatamodel.User{
				Username:   u.Username,
				Password:   hash,
				Role:       u.Role,
				Email:      u.Email,
				Department: u.Department,
			}
			r := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "username"}}, DoNothing: true}).Create(&row)
			if r.Error != nil {
				return fmt.Errorf("seed user %s: %w", u.Username, r.Error)
			}
			res.Users += int(r.RowsAffected)
		}

		for _, name := range f.Departments {
			r := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
				Create(&departmentDatamodel.Department{Name: name})
			if r.Error != nil {
				return fmt.Errorf("seed department %s: %w", name, r.Error)
			}
			res.Departments += int(r.RowsAffected)
		}

		for _, t := range f.Templates {
			row := templateDatamodel.Template{Name: t.Name, StartTime: t.StartTime, EndTime: t.EndTime}
			r := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"start_time", "end_time"}),
			}).Create(&row)
			if r.Error != nil {
				return fmt.Errorf("seed template %s: %w", t.Name, r.Error)
			}
			res.Templates += int(r.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	s.logger.InfoContext(ctx, "seed applied", "users", res.Users, "departments", res.Departments, "templates", res.Templates)
	return res, nil
}

// Clear removes every row, children first.
func (s *Seeder) Clear(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&notificationDatamodel.Notification{},
			&shiftDatamodel.Shift{},
			&templateDatamodel.Template{},
			&departmentDatamodel.Department{},
			&userDatamodel.User{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return err
			}
		}
		s.logger.InfoContext(ctx, "seed data cleared")
		return nil
	})
}
