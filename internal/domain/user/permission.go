package user

type Permission string

const (
	PermissionAttendanceOwn        Permission = "attendance.own"
	PermissionAttendanceViewAll    Permission = "attendance.view_all"
	PermissionAttendanceRegularize Permission = "attendance.regularize"
	PermissionTrackingViewAll      Permission = "tracking.view_all"
	PermissionShiftView            Permission = "shift.view"
	PermissionShiftManage          Permission = "shift.manage"
	PermissionReportsView          Permission = "reports.view"
	PermissionReportsExport        Permission = "reports.export"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionAttendanceOwn,
		PermissionAttendanceViewAll,
		PermissionAttendanceRegularize,
		PermissionTrackingViewAll,
		PermissionShiftView,
		PermissionShiftManage,
		PermissionReportsView,
		PermissionReportsExport,
	},
	RoleManager: {
		PermissionAttendanceOwn,
		PermissionAttendanceViewAll,
		PermissionAttendanceRegularize,
		PermissionTrackingViewAll,
		PermissionShiftView,
		PermissionShiftManage,
		PermissionReportsView,
	},
	RoleEmployee: {
		PermissionAttendanceOwn,
		PermissionShiftView,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
