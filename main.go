package main

import (
	"context"
	"flyer-backend/config"
	apiv1 "flyer-backend/controllers/v1"
	"flyer-backend/controllers/v1/dict"
	"flyer-backend/fiberlog"
	"flyer-backend/initializers"
	"flyer-backend/lib/ws"
	"flyer-backend/middleware"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	initializers.InitAllServices(ctx)

	app := fiber.New(fiber.Config{
		// изображения до 5МБ плюс multipart
		BodyLimit: int(config.Conf.Upload.MaxImageSize) + 1024*1024,
	})
	app.Use(fiberRecover.New())

	swaggerCfg := swagger.Config{
		Path:     "/swagger",
		FilePath: "./docs/swagger.json",
	}
	if _, err := os.Stat(swaggerCfg.FilePath); err == nil {
		app.Use(swagger.New(swaggerCfg))
	}

	//api
	apiV1 := fiber.New()
	apiV1.Use(fiberlog.New(*initializers.LoggerConfig))
	app.Mount("/api/v1", apiV1)
	apiV1.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, DELETE, PUT",
	}))
	apiv1.InitAuthApiRouters(apiV1)

	//ws
	wsApp := fiber.New()
	apiV1.Mount("/ws", wsApp)
	wsApp.Use(middleware.WsAuthorizationRequired())
	ws.InitWs(wsApp)

	//dict
	dicts := fiber.New()
	apiV1.Mount("/dict", dicts)
	dicts.Use(middleware.AuthorizationRequired())
	dict.InitRoleDictApiRouters(dicts)
	dict.InitBrandDictApiRouters(dicts)
	dict.InitCategoryDictApiRouters(dicts)

	//приложение
	secured := fiber.New()
	apiV1.Mount("/", secured)
	secured.Use(middleware.AuthorizationRequired())
	apiv1.InitUsersApiRouters(secured)
	apiv1.InitProductApiRouters(secured)
	apiv1.InitPromoImageApiRouters(secured)
	apiv1.InitFlyerApiRouters(secured)
	apiv1.InitApprovalApiRouters(secured)
	apiv1.InitVerificationApiRouters(secured)
	apiv1.InitFilesApiRouters(secured)

	// gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-c
		log.Info("Gracefully shutting down...")
		cancel()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("Error when try gracefully shutting down")
		}
		initializers.CloseErp()
		log.Info("Gracefully shutting down finished")
	}()

	// run HTTP server
	if err := app.Listen(fmt.Sprintf("%s:%d", config.Conf.App.ListenAddr, config.Conf.App.Port)); err != nil {
		log.Fatal(err)
	}

	wg.Wait()
	log.Info("HTTP server successfully stopped")
}
