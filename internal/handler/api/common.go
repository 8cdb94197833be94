package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"resellerbot/internal/models"
)

// Response helpers shared by every admin API handler.
func successResponse(c echo.Context, msg string, obj interface{}) error {
	return c.JSON(http.StatusOK, models.APIResponse{
		Status: true,
		Msg:    msg,
		Obj:    obj,
	})
}

func errorResponse(c echo.Context, status int, msg string) error {
	return c.JSON(status, models.APIResponse{
		Status: false,
		Msg:    msg,
		Obj:    nil,
	})
}

// queryInt reads an integer query parameter, falling back to defaultVal when absent.
func queryInt(c echo.Context, key string, defaultVal int) (int, error) {
	raw := c.QueryParam(key)
	if raw == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(raw)
}
