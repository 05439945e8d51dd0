package main

import (
	"context"
	"fmt"
	"log"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/ccschool/schooladmin/apps/api/di"
	echoapi "github.com/ccschool/schooladmin/apps/api/echo"
	"github.com/ccschool/schooladmin/core"
	"github.com/ccschool/schooladmin/core/staff"
	"github.com/ccschool/schooladmin/core/student"
)

func main() {
	c := di.New()

	// validators must be initialised before the server takes requests
	must(c.Invoke(func(validate *validator.Validate, translator ut.Translator) {
		core.InitValidators(validate, translator)
		student.InitValidators(validate, translator)
		staff.InitValidators(validate, translator)
	}))

	must(c.Invoke(func(conf *core.Config, logger core.Logger, server echoapi.Server) {
		// =========================================================================
		// Start API Service

		logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build), map[string]interface{}{
			"school":  conf.SchoolName,
			"address": conf.Server.Address,
		})
		defer logger.Info("Application stopped")

		go func() {
			server.Start()
		}()

		// =========================================================================
		// Shutdown

		select {
		case err := <-server.Errors():
			logger.Fatal(fmt.Sprintf("server error: %v", err), err)

		case sig := <-server.ShutdownSignal():
			logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

			// give outstanding requests a deadline for completion
			ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
			defer cancel()

			// asking listener to shut down and shed load
			if err := server.Shutdown(ctx); err != nil {
				logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

				if err = server.Close(); err != nil {
					logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
				}
			}
		}
	}))
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
