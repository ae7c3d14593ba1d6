package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lane2go/lane2go/internal/controller"
	"golang.org/x/exp/constraints"
)

type ControlLoop[T constraints.Float] interface {
	IsActive() bool
	GetStatistics() controller.ControlLoopStatistics
	LastResult() (controller.CycleResult[T], bool)
}

type LoopStatus[T constraints.Float] struct {
	Active     bool                             `json:"active"`
	Statistics controller.ControlLoopStatistics `json:"statistics"`
	LastResult *controller.CycleResult[T]       `json:"lastResult,omitempty"`
}

func registerLoopEndpoints[T constraints.Float](rest *echo.Echo, loop ControlLoop[T]) {
	group := rest.Group("/loop")

	// returns a snapshot of the control loop state
	group.GET("/", func(c echo.Context) error {
		data := LoopStatus[T]{
			Active:     loop.IsActive(),
			Statistics: loop.GetStatistics(),
		}
		if result, ok := loop.LastResult(); ok {
			data.LastResult = &result
		}
		return c.JSONPretty(http.StatusOK, data, indentationChar)
	})

	// returns the most recent cycle only
	group.GET("/last/", func(c echo.Context) error {
		result, ok := loop.LastResult()
		if !ok {
			return c.JSONPretty(http.StatusServiceUnavailable, &Result{
				Name:    "Not active",
				Message: errNotActive.Error(),
			}, indentationChar)
		}
		return c.JSONPretty(http.StatusOK, result, indentationChar)
	})
}
