package store

import (
	departmentDatamodel "github.com/frahmantamala/shift-scheduler/internal/core/datamodel/department"
	notificationDatamodel "github.com/frahmantamala/shift-scheduler/internal/core/datamodel/notification"
	shiftDatamodel "github.com/frahmantamala/shift-scheduler/internal/core/datamodel/shift"
	templateDatamodel "github.com/frahmantamala/shift-scheduler/internal/core/datamodel/template"
	userDatamodel "github.com/frahmantamala/shift-scheduler/internal/core/datamodel/user"
)

// Models lists every table the service owns, parents first. sqlite
// deployments migrate from this list instead of the goose files.
func Models() []interface{} {
	return []interface{}{
		&userDatamodel.User{},
		&shiftDatamodel.Shift{},
		&templateDatamodel.Template{},
		&notificationDatamodel.Notification{},
		&departmentDatamodel.Department{},
	}
}
