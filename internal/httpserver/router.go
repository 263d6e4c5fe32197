package httpserver

import (
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/Skotchmaster/car_rental/internal/middleware/auth"
	"github.com/Skotchmaster/car_rental/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/car_rental/internal/middleware/logging"
	"github.com/Skotchmaster/car_rental/internal/session"
	"github.com/Skotchmaster/car_rental/internal/views"
)

type Deps struct {
	Logger   zerolog.Logger
	Sessions *session.Manager
	// CSRF is nil when CSRF protection is switched off.
	CSRF *csrf.Config
	// Metrics is nil when HTTP metrics are not collected.
	Metrics prometheus.Registerer
	Checks  map[string]Check

	PublicDir string
	UploadDir string

	Auth    *AuthHTTP
	Cars    *CarHTTP
	Cart    *CartHTTP
	Reviews *ReviewHTTP
	Pages   *PageHTTP
}

// New builds the echo instance with the global middleware chain and all routes.
func New(d *Deps) (*echo.Echo, error) {
	renderer, err := views.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())
	if d.Metrics != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  "car_rental",
			Registerer: d.Metrics,
		}))
	}
	e.Use(loggingmw.RequestLogger(d.Logger))
	e.Use(middleware.BodyLimit("10M"))
	e.Use(d.Sessions.Middleware())
	if d.CSRF != nil {
		e.Use(csrf.Middleware(*d.CSRF))
	}

	Register(e, d)
	return e, nil
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", liveness)
	e.GET("/health/ready", readiness(d.Checks))

	if d.UploadDir != "" {
		e.Static("/images", d.UploadDir)
	}
	if d.PublicDir != "" {
		e.Static("/css", d.PublicDir+"/css")
	}

	login := []echo.MiddlewareFunc{auth.RequireLogin}
	admin := []echo.MiddlewareFunc{auth.RequireLogin, auth.AdminOnly}

	e.GET("/", d.Pages.Home)
	e.GET("/dashboard", d.Pages.Dashboard, login...)
	e.GET("/admin", d.Pages.Admin, admin...)
	e.POST("/admin/users/:id/promote", d.Pages.Promote, admin...)

	e.GET("/register", d.Auth.RegisterPage)
	e.POST("/register", d.Auth.Register)
	e.GET("/login", d.Auth.LoginPage)
	e.POST("/login", d.Auth.Login)
	e.GET("/logout", d.Auth.Logout)
	e.POST("/logout", d.Auth.Logout)

	e.GET("/cars", d.Cars.List, login...)
	e.GET("/cars/:id", d.Cars.Detail, login...)
	e.GET("/search", d.Cars.Search, login...)
	e.GET("/bookCar/:id", d.Cars.Book, login...)
	e.GET("/add-car", d.Cars.AddPage, admin...)
	e.POST("/add-car", d.Cars.Add, admin...)
	e.GET("/updateCars/:id", d.Cars.EditPage, admin...)
	e.POST("/updateCars/:id", d.Cars.Update, admin...)
	e.GET("/deleteCar/:id", d.Cars.Delete, admin...)
	e.POST("/deleteCar/:id", d.Cars.Delete, admin...)

	e.GET("/cart", d.Cart.View, login...)
	e.POST("/add-to-rental/:id", d.Cart.Add, login...)
	e.POST("/cart/remove/:index", d.Cart.Remove, login...)
	e.POST("/checkout", d.Cart.Checkout, login...)

	e.GET("/reviews", d.Reviews.List, login...)
	e.POST("/reviews", d.Reviews.Submit, login...)
}
