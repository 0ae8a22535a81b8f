package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/gestor-ipv/docs"
	"github.com/jhoicas/gestor-ipv/internal/application/ipv"
	"github.com/jhoicas/gestor-ipv/internal/application/report"
	"github.com/jhoicas/gestor-ipv/internal/application/usecase"
	"github.com/jhoicas/gestor-ipv/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/gestor-ipv/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/gestor-ipv/internal/interfaces/http"
	"github.com/jhoicas/gestor-ipv/pkg/config"
	"github.com/jhoicas/gestor-ipv/pkg/logger"
)

// @title        Gestor IPV API
// @version      1.0
// @description  Inventario diario por área (salón, cocina): recetas, agregos y cierre.
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer st.Close()

	ipvSvc := ipv.NewService(st.catalog, st.snapshots, st.locker, notify.NewLogNotifier(log), log, ipv.ServiceConfig{
		AutosaveDelay: cfg.IPV.AutosaveDelay,
		SharedStore:   st.shared,
	})
	productUC := usecase.NewProductUseCase(st.products)
	reportUC := report.NewPDFUseCase(ipvSvc, infrapdf.NewMarotoPDFGenerator())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Gestor IPV API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		IPV:       ipvSvc,
		ProductUC: productUC,
		ReportUC:  reportUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	// cambios pendientes del autosave antes de cerrar el almacenamiento
	ipvSvc.Flush()

	log.Info().Msg("aplicación detenida")
}
