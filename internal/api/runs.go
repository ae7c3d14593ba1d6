package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lane2go/lane2go/internal/persistence"
)

type RunRecords struct {
	persistence.RunInfo
	Commands []persistence.Record `json:"commands"`
}

func registerRunEndpoints(rest *echo.Echo, p persistence.Persistence) {
	group := rest.Group("/run")

	// returns a list of all recorded runs
	group.GET("/", func(c echo.Context) error {
		runs, err := p.ListRuns()
		if err != nil {
			return returnError(c, err)
		}
		return c.JSONPretty(http.StatusOK, runs, indentationChar)
	})

	group.GET("/:"+urlParamId+"/", func(c echo.Context) error {
		id := c.Param(urlParamId)
		info, err := p.LoadRun(id)
		if errors.Is(err, persistence.ErrRunNotFound) {
			return returnNotFound(c, id)
		} else if err != nil {
			return returnError(c, err)
		}
		records, err := p.LoadRecords(id)
		if err != nil {
			return returnError(c, err)
		}
		return c.JSONPretty(http.StatusOK, RunRecords{RunInfo: info, Commands: records}, indentationChar)
	})
}
