package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof" // register the /debug/pprof handlers

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	echoapi "github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/apps/di"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
	blobsvc "github.com/trezcool/shule/services/blob"
	"github.com/trezcool/shule/services/gclassroom"
	logsvc "github.com/trezcool/shule/services/logger"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger, err := logsvc.NewRollbarLogger("API", conf)
	if err != nil {
		log.Fatalf("setting up logger: %v", err)
	}
	logger.Enable(!conf.Debug)
	defer logger.Sync()

	dbLogger, err := logsvc.NewRollbarLogger("DB", conf)
	if err != nil {
		log.Fatalf("setting up DB logger: %v", err)
	}
	dbLogger.Enable(!conf.Debug)
	defer dbLogger.Sync()

	// set up DB
	db, gdb, err := di.SetUpDB(conf, dbLogger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	translator := di.NewTranslator()
	validate := di.NewValidator(gdb, translator)

	if err = user.LoadCommonPasswords(conf.Passwords.CommonListPath); err != nil {
		logger.Warn(fmt.Sprintf("loading common passwords: %v", err), err)
	}

	svcs := di.NewServices(di.Deps{
		Conf:     conf,
		DB:       gdb,
		Validate: validate,
		Blobs:    blobsvc.NewDiskStore(conf),
		Google:   gclassroom.NewProvider(conf),
	})

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.
	// /metrics - Prometheus metrics of the default registry.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	http.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			Services:   svcs,
			Validate:   validate,
			Translator: translator,
			Registerer: prometheus.DefaultRegisterer,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
