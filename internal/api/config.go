package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lane2go/lane2go/internal/configuration"
	"github.com/qdm12/reprint"
)

const maskedSecret = "********"

func registerConfigEndpoints(rest *echo.Echo) {
	group := rest.Group("/config")

	group.GET("/", getConfig)
}

// returns the active configuration, secrets are masked
func getConfig(c echo.Context) error {
	data := reprint.This(configuration.CurrentConfig).(configuration.Configuration)
	if len(data.Redis.Password) > 0 {
		data.Redis.Password = maskedSecret
	}
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}
