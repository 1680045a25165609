package routes

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/handlers"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/realtime"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/accounts"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/applications"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/projects"
)

type Deps struct {
	DB          *gorm.DB
	JWTSecret   string
	JWTExpires  int
	CORSOrigins string
	Publisher   applications.Publisher
	Hub         *realtime.Hub
	Google      *handlers.GoogleOAuthHandler
}

// errorHandler renders errors that escaped the handlers, mostly the
// *fiber.Error values raised by the auth middleware.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		switch code {
		case fiber.StatusUnauthorized:
			message = "Not authorized"
		case fiber.StatusInternalServerError:
		default:
			message = fe.Message
		}
	}
	if code >= fiber.StatusInternalServerError {
		slog.Error("unhandled error", "method", c.Method(), "path", c.Path(), "err", err)
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  strings.TrimSpace(d.CORSOrigins),
		AllowMethods:  "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: "Content-Length",
	}))

	accountSvc := accounts.NewService(d.DB)
	projectSvc := projects.NewService(d.DB)
	applicationSvc := applications.NewService(d.DB, d.Publisher)

	authH := &handlers.AuthHandler{
		Accounts:  accountSvc,
		JWTSecret: d.JWTSecret,
		Expires:   d.JWTExpires,
	}
	userH := handlers.NewUserHandler(accountSvc)
	projectH := handlers.NewProjectHandler(projectSvc)
	applicationH := handlers.NewApplicationHandler(applicationSvc)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	if d.Hub != nil {
		app.Get("/ws/notifications", realtime.Upgrade(d.JWTSecret, accountSvc), realtime.Handler(d.Hub))
	}

	api := app.Group("/api")

	// public
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	if d.Google != nil {
		d.Google.Accounts = accountSvc
		api.Get("/auth/google/start", d.Google.GoogleStart)
		api.Get("/auth/google/callback", d.Google.GoogleCallback)
	}
	api.Get("/projects", projectH.ListAll)

	// protected (JWT); everything below answers 401 without a valid token
	protected := api.Group("/",
		middleware.BearerJWT(d.JWTSecret),
		middleware.AttachUser(accountSvc),
	)

	protected.Get("/users/profile", userH.GetProfile)
	protected.Put("/users/profile", userH.UpdateProfile)

	// static segments before :id
	protected.Post("/projects", middleware.RequireRoles("client"), projectH.Create)
	protected.Get("/projects/my-projects", middleware.RequireRoles("client"), projectH.ListMine)
	protected.Get("/projects/browse-projects", projectH.Browse)
	protected.Get("/projects/:id", projectH.Get)
	protected.Put("/projects/:id", projectH.Update)
	protected.Delete("/projects/:id", projectH.Delete)

	protected.Get("/applications/my-applications", applicationH.ListMine)
	protected.Post("/applications/:projectId", middleware.RequireRoles("developer"), applicationH.Apply)

	return app
}
