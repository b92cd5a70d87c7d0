package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth        *AuthHandler
	Students    *StudentHandler
	Teachers    *TeacherHandler
	Groups      *GroupHandler
	Rooms       *RoomHandler
	Enrollments *EnrollmentHandler
	Attendance  *AttendanceHandler
	Finance     *FinanceHandler
	Assignments *AssignmentHandler
	Exports     *ExportHandler
	Metrics     *MetricsHandler

	// SessionGuard protects every route except login, health, metrics, and
	// signed downloads.
	SessionGuard gin.HandlerFunc
}

// Register mounts all routes on the engine.
func (h Handlers) Register(r *gin.Engine) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", h.Metrics.Prometheus)

	r.POST("/auth/login", h.Auth.Login)
	if h.Exports != nil {
		r.GET("/exports/download", h.Exports.Download)
	}

	api := r.Group("/", h.SessionGuard)

	api.POST("/auth/logout", h.Auth.Logout)

	api.GET("/students", h.Students.List)
	api.POST("/students", h.Students.Create)
	api.PUT("/students/selection", h.Students.Select)
	api.PUT("/students/modals", h.Students.Modal)
	api.PUT("/students/:id", h.Students.Update)
	api.DELETE("/students/:id", h.Students.Delete)
	api.POST("/students/:id/restore", h.Students.Restore)

	api.GET("/teachers", h.Teachers.List)
	api.POST("/teachers", h.Teachers.Create)
	api.GET("/teachers/my-groups", h.Teachers.MyGroups)
	api.PUT("/teachers/selection", h.Teachers.Select)
	api.PUT("/teachers/modals", h.Teachers.Modal)
	api.PUT("/teachers/:id", h.Teachers.Update)
	api.DELETE("/teachers/:id", h.Teachers.Delete)
	api.POST("/teachers/:id/restore", h.Teachers.Restore)

	api.GET("/groups", h.Groups.List)
	api.POST("/groups", h.Groups.Create)
	api.PUT("/groups/selection", h.Groups.Select)
	api.PUT("/groups/modals", h.Groups.Modal)
	api.PUT("/groups/:id", h.Groups.Update)
	api.DELETE("/groups/:id", h.Groups.Delete)

	api.GET("/rooms", h.Rooms.List)
	api.POST("/rooms", h.Rooms.Create)
	api.PUT("/rooms/selection", h.Rooms.Select)
	api.PUT("/rooms/modals", h.Rooms.Modal)
	api.PUT("/rooms/:id", h.Rooms.Update)
	api.DELETE("/rooms/:id", h.Rooms.Deactivate)
	api.POST("/rooms/:id/restore", h.Rooms.Restore)

	api.GET("/enrollments", h.Enrollments.List)
	api.POST("/enrollments", h.Enrollments.Create)
	api.GET("/enrollments/available-students", h.Enrollments.Available)
	api.PUT("/enrollments/modal", h.Enrollments.Modal)
	api.PUT("/enrollments/:id/status", h.Enrollments.UpdateStatus)

	api.GET("/attendance", h.Attendance.Snapshot)
	api.POST("/attendance/sheets", h.Attendance.Ensure)
	api.GET("/attendance/sheets/:id", h.Attendance.Get)
	api.PUT("/attendance/sheets/:id/entries/:studentId", h.Attendance.Mark)
	api.POST("/attendance/sheets/:id/save", h.Attendance.Save)
	api.DELETE("/attendance/sheets/:id", h.Attendance.Delete)

	api.GET("/finance/balance", h.Finance.Balance)
	api.GET("/finance/overview", h.Finance.Overview)
	api.GET("/finance/debtors", h.Finance.Debtors)
	api.GET("/finance/students/:id/summary", h.Finance.StudentSummary)
	api.POST("/finance/payments", h.Finance.CreatePayment)
	api.POST("/finance/expenses", h.Finance.CreateExpense)
	api.PUT("/finance/modals", h.Finance.Modal)

	api.GET("/assignments", h.Assignments.List)
	api.POST("/assignments", h.Assignments.Create)
	api.PUT("/assignments/modal", h.Assignments.Modal)
	api.PUT("/assignments/:id", h.Assignments.Update)
	api.DELETE("/assignments/:id", h.Assignments.Delete)

	if h.Exports != nil {
		api.POST("/exports/debtors", h.Exports.Debtors)
		api.POST("/exports/attendance", h.Exports.Sheet)
		api.GET("/exports/:id", h.Exports.Status)
	}
}
