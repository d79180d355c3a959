package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type apiResponse struct {
	Status bool        `json:"status"`
	Msg    string      `json:"msg"`
	Obj    interface{} `json:"obj"`
}

func successResponse(c echo.Context, msg string, obj interface{}) error {
	return c.JSON(http.StatusOK, apiResponse{
		Status: true,
		Msg:    msg,
		Obj:    obj,
	})
}

func errorResponse(c echo.Context, code int, msg string) error {
	return c.JSON(code, apiResponse{
		Status: false,
		Msg:    msg,
		Obj:    nil,
	})
}
