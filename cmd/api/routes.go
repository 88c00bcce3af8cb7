package main

import (
	"go-retail-pos/internal/handler"
	"go-retail-pos/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type handlers struct {
	auth      *handler.AuthHandler
	users     *handler.UserHandler
	companies *handler.CompanyHandler
	employees *handler.EmployeeHandler
	inventory *handler.InventoryHandler
	policies  *handler.ReturnPolicyHandler
	shifts    *handler.ShiftHandler
	sales     *handler.SaleHandler
	credits   *handler.CreditHandler
	customers *handler.CustomerHandler
	reports   *handler.ReportHandler
	dashboard *handler.DashboardHandler
	ws        *handler.WSHandler
}

// setupRoutes registers every endpoint. Guards are attached per route: an
// empty-prefix fiber group with middleware would apply it to sibling routes too.
func setupRoutes(app *fiber.App, h handlers, auth middleware.Authenticator) {
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	authGroup := api.Group("/auth")
	authGroup.Post("/login", h.auth.Login)
	authGroup.Post("/employee-login", h.auth.EmployeeLogin)
	authGroup.Get("/validate-token", h.auth.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(auth))

	user := middleware.RequireUser()
	company := middleware.RequireCompany()
	employee := middleware.RequireEmployee()
	priv := middleware.RequirePrivilege
	anyPriv := middleware.RequireAnyPrivilege

	// Admin portal accounts
	protected.Post("/auth/change-password", user, h.auth.ChangePassword)
	protected.Post("/auth/heartbeat", user, h.auth.Heartbeat)

	protected.Get("/users", user, priv("user:view"), h.users.GetUsers)
	protected.Get("/users/:id", user, priv("user:view"), h.users.GetUser)
	protected.Post("/users", user, priv("user:create"), h.users.CreateUser)
	protected.Put("/users/:id", user, priv("user:update"), h.users.UpdateUser)
	protected.Delete("/users/:id", user, priv("user:delete"), h.users.DeleteUser)
	protected.Put("/users/:id/privileges", user, priv("user:update_privilege"), h.users.UpdateUserPrivileges)
	protected.Get("/roles", user, priv("user:view"), h.users.GetRoles)
	protected.Get("/privileges", user, priv("user:view"), h.users.GetPrivileges)

	protected.Get("/companies", user, priv("company:manage"), h.companies.GetCompanies)
	protected.Post("/companies", user, priv("company:manage"), h.companies.CreateCompany)
	protected.Put("/companies/:id", user, priv("company:manage"), h.companies.UpdateCompany)
	protected.Get("/companies/:id", user, h.companies.GetCompany)

	// ============ TENANT ROUTES ============
	// Scoped to one company: ?companyId= or the token's company.
	protected.Get("/dashboard/stats", company, priv("report:view"), h.dashboard.GetDashboardStats)
	protected.Get("/dashboard/sales-movement", company, priv("report:view"), h.dashboard.GetSalesMovement)
	protected.Get("/reports/employees/:id/performance", company, priv("report:view"), h.reports.GetEmployeePerformance)

	// Inventory
	view := priv("inventory:view")
	manage := priv("inventory:manage")
	protected.Get("/categories", company, view, h.inventory.GetCategories)
	protected.Post("/categories", company, manage, h.inventory.CreateCategory)
	protected.Put("/categories/:id", company, manage, h.inventory.UpdateCategory)
	protected.Delete("/categories/:id", company, manage, h.inventory.DeleteCategory)
	protected.Get("/vendors", company, view, h.inventory.GetVendors)
	protected.Post("/vendors", company, manage, h.inventory.CreateVendor)
	protected.Put("/vendors/:id", company, manage, h.inventory.UpdateVendor)
	protected.Delete("/vendors/:id", company, manage, h.inventory.DeleteVendor)
	protected.Get("/items", company, view, h.inventory.GetItems)
	protected.Get("/items/:id", company, view, h.inventory.GetItem)
	protected.Post("/items", company, manage, h.inventory.CreateItem)
	protected.Put("/items/:id", company, manage, h.inventory.UpdateItem)
	protected.Delete("/items/:id", company, manage, h.inventory.DeleteItem)
	protected.Post("/items/:id/stock", company, manage, h.inventory.AdjustStock)

	// Return policies
	protected.Get("/returns/eligibility", company, anyPriv("sale:refund", "inventory:view"), h.policies.GetEligibility)
	protected.Get("/return-policies", company, view, h.policies.GetPolicies)
	protected.Put("/return-policies", company, priv("policy:update"), h.policies.SetPolicy)
	protected.Delete("/return-policies/:type/:id", company, priv("policy:update"), h.policies.DeletePolicy)

	// Employees
	protected.Get("/employees", company, priv("employee:view"), h.employees.GetEmployees)
	protected.Get("/employees/:id", company, priv("employee:view"), h.employees.GetEmployee)
	protected.Post("/employees", company, priv("employee:manage"), h.employees.CreateEmployee)
	protected.Put("/employees/:id", company, priv("employee:manage"), h.employees.UpdateEmployee)
	protected.Delete("/employees/:id", company, priv("employee:manage"), h.employees.DeactivateEmployee)
	protected.Post("/employees/:id/barcode", company, priv("employee:manage"), h.employees.RegenerateBarcode)

	// Ledger
	protected.Get("/transactions", company, priv("transaction:view"), h.sales.GetTransactions)
	protected.Get("/transactions/:id", company, priv("transaction:view"), h.sales.GetTransaction)
	protected.Get("/store-credits", company, priv("transaction:view"), h.credits.GetStoreCredits)

	// Customers
	protected.Get("/customers", company, anyPriv("sale:create", "employee:view"), h.customers.GetCustomers)
	protected.Get("/customers/:id", company, anyPriv("sale:create", "employee:view"), h.customers.GetCustomer)
	protected.Post("/customers", company, priv("sale:create"), h.customers.CreateCustomer)
	protected.Put("/customers/:id", company, priv("sale:create"), h.customers.UpdateCustomer)
	protected.Post("/customers/:id/redeem-points", company, priv("sale:create"), h.customers.RedeemPoints)

	// Shifts. /shifts/current must be registered before /shifts/:id
	protected.Get("/shifts", company, priv("shift:view"), h.shifts.GetShifts)
	protected.Get("/shifts/current", company, employee, priv("shift:operate"), h.shifts.CurrentShift)
	protected.Post("/shifts/clock-in", company, employee, priv("shift:operate"), h.shifts.ClockIn)
	protected.Post("/shifts/:id/cash-injections", company, employee, priv("shift:operate"), h.shifts.AddCashInjection)
	protected.Post("/shifts/:id/clock-out", company, employee, priv("shift:operate"), h.shifts.ClockOut)
	protected.Get("/shifts/:id", company, anyPriv("shift:view", "shift:operate"), h.shifts.GetShift)
	protected.Get("/shifts/:id/summary", company, anyPriv("shift:view", "shift:operate"), h.shifts.GetSummary)

	// ============ TERMINAL ROUTES ============
	protected.Post("/sales", company, employee, priv("sale:create"), h.sales.CreateSale)
	protected.Post("/sales/:id/refund", company, employee, priv("sale:refund"), h.sales.RefundSale)
	protected.Post("/sales/:id/void", company, employee, priv("sale:void"), h.sales.VoidSale)

	protected.Post("/store-credits", company, employee, anyPriv("credit:issue", "sale:refund"), h.credits.IssueStoreCredit)
	protected.Get("/store-credits/:barcode", company, employee, priv("sale:create"), h.credits.GetStoreCredit)
	protected.Post("/store-credits/:barcode/redeem", company, employee, priv("sale:create"), h.credits.RedeemStoreCredit)
	protected.Post("/gift-cards", company, employee, priv("credit:issue"), h.credits.IssueGiftCard)
	protected.Get("/gift-cards/:code", company, employee, priv("sale:create"), h.credits.GetGiftCard)
	protected.Post("/gift-cards/:code/redeem", company, employee, priv("sale:create"), h.credits.RedeemGiftCard)
	protected.Post("/gift-cards/:code/reload", company, employee, priv("credit:issue"), h.credits.ReloadGiftCard)

	// WebSocket Route
	app.Get("/ws", h.ws.Upgrade, company, h.ws.Serve())
}
