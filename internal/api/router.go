package api

import (
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/api/handlers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// SetupRouter builds the local REST surface the dashboard UI talks to. It
// mirrors the backend's route table so the UI needs no awareness of whether a
// response came from the backend or the offline cache.
func SetupRouter(
	txHandler *handlers.TransactionHandler,
	budgetHandler *handlers.BudgetHandler,
	savingsHandler *handlers.SavingsHandler,
	syncHandler *handlers.SyncHandler,
	authHandler *handlers.AuthHandler,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	api := app.Group("/api")

	transactions := api.Group("/transactions")
	transactions.Get("/", txHandler.List)
	transactions.Post("/", txHandler.Create)
	// Fixed paths before the :id wildcard
	transactions.Get("/summary", txHandler.Summary)
	transactions.Get("/analysis", txHandler.Analysis)
	transactions.Get("/trends", txHandler.Trends)
	transactions.Get("/:id", txHandler.Get)
	transactions.Put("/:id", txHandler.Update)
	transactions.Delete("/:id", txHandler.Delete)

	budget := api.Group("/budget")
	budget.Get("/", budgetHandler.List)
	budget.Post("/", budgetHandler.CreateOrUpdate)
	budget.Put("/batch", budgetHandler.UpdateBatch)
	budget.Delete("/:id", budgetHandler.Delete)

	api.Get("/savings-goal", savingsHandler.Get)
	api.Post("/savings-goal", savingsHandler.Update)

	api.Post("/sync", syncHandler.Trigger)
	api.Get("/status", syncHandler.Status)

	users := api.Group("/users")
	users.Post("/login", authHandler.Login)
	users.Post("/register", authHandler.Register)
	users.Get("/profile", authHandler.Profile)
	users.Put("/profile", authHandler.UpdateProfile)

	appLogger.Info("Router configured")
	return app
}
