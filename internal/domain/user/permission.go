package user

type Permission string

const (
	// Payroll records
	PermissionPayrollView      Permission = "payroll.view"
	PermissionPayrollCalculate Permission = "payroll.calculate"
	PermissionPayrollConfirm   Permission = "payroll.confirm"
	PermissionPayrollLock      Permission = "payroll.lock"
	PermissionPayrollUnlock    Permission = "payroll.unlock"
	PermissionPayrollForce     Permission = "payroll.force"
	PermissionPayrollDelete    Permission = "payroll.delete"

	// Reports
	PermissionReportsView Permission = "reports.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionPayrollView,
		PermissionPayrollCalculate,
		PermissionPayrollConfirm,
		PermissionPayrollLock,
		PermissionPayrollUnlock,
		PermissionPayrollForce,
		PermissionPayrollDelete,
		PermissionReportsView,
	},
	RoleAccountant: {
		PermissionPayrollView,
		PermissionPayrollCalculate,
		PermissionPayrollConfirm,
		PermissionPayrollLock,
		PermissionPayrollDelete,
		PermissionReportsView,
	},
	RoleEmployee: {
		// Employees have no payroll authority
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
