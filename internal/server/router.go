// Package server assembles the Fiber application: global middleware, the
// error handler and every API route.
package server

import (
	"context"
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/machinery-hub/catalog-api/internal/handlers"
	"github.com/machinery-hub/catalog-api/internal/middleware"
	"github.com/machinery-hub/catalog-api/internal/services"
)

// Services are the domain services the routes dispatch to.
type Services struct {
	Auth         *services.AuthService
	Users        *services.UserService
	Machines     *services.MachineService
	Images       *services.ImageService
	MachineTypes *services.MachineTypeService
	Regions      *services.RegionService
}

type Options struct {
	AllowedOrigins string
	BodyLimit      int
	// SeedRoute mounts GET /api/auth/ which creates SeedAccount as admin.
	SeedRoute   bool
	SeedAccount handlers.SeedAccount
	// Health is pinged by /healthz. Nil always reports healthy.
	Health handlers.Pinger
	// AccessLog receives one line per request. Nil disables access logging.
	AccessLog io.Writer
}

func NewApp(svc Services, opts Options, log *slog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "catalog-api",
		BodyLimit:             opts.BodyLimit,
		ErrorHandler:          handlers.ErrorHandler(log),
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	if opts.AccessLog != nil {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
			Output: opts.AccessLog,
		}))
	}
	allowOrigins := opts.AllowedOrigins
	if allowOrigins == "" {
		allowOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, " + middleware.TokenHeader,
	}))

	ping := opts.Health
	if ping == nil {
		ping = func(context.Context) error { return nil }
	}
	app.Get("/healthz", handlers.Health(ping))

	registerRoutes(app.Group("/api"), svc, opts)
	return app
}

func registerRoutes(api fiber.Router, svc Services, opts Options) {
	authed := middleware.AuthMiddleware(svc.Auth)
	admin := middleware.AdminMiddleware

	authH := handlers.NewAuthHandler(svc.Auth, svc.Users, opts.SeedAccount)
	auth := api.Group("/auth")
	auth.Post("/login", authH.Login)
	auth.Get("/me", authed, authH.Me)
	if opts.SeedRoute {
		auth.Get("/", authH.Seed)
	}

	userH := handlers.NewUserHandler(svc.Users)
	users := api.Group("/users", authed, admin)
	users.Post("/register", userH.Register)
	users.Get("/all", userH.List)
	users.Get("/:id", userH.Get)
	users.Put("/:id", userH.Update)
	users.Delete("/:id", userH.Delete)

	machineH := handlers.NewMachineHandler(svc.Machines, svc.Images)
	machine := api.Group("/machine")
	machine.Get("/all", machineH.List)
	machine.Get("/all/:type_id", machineH.ListByType)
	machine.Get("/:id", machineH.Get)
	machine.Put("/", authed, admin, machineH.CreateOrRestock)
	machine.Put("/:id", authed, admin, machineH.Update)
	machine.Delete("/:id", authed, admin, machineH.Delete)
	machine.Post("/:id/images", authed, admin, machineH.UploadImages)

	typeH := handlers.NewMachineTypeHandler(svc.MachineTypes)
	types := api.Group("/machinetype")
	types.Get("/all", typeH.List)
	types.Get("/:id", authed, admin, typeH.Get)
	types.Put("/", authed, admin, typeH.Create)
	types.Put("/:id", authed, admin, typeH.Update)
	types.Delete("/:id", authed, admin, typeH.Delete)

	regionH := handlers.NewRegionHandler(svc.Regions)
	regions := api.Group("/region")
	regions.Get("/all", regionH.List)
	regions.Get("/:id", authed, admin, regionH.Get)
	regions.Put("/", authed, admin, regionH.Create)
	regions.Put("/:id", authed, admin, regionH.Update)
	regions.Delete("/:id", authed, admin, regionH.Delete)
}
