package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type successResponse struct {
	Success    bool        `json:"success"`
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
}

func sendResponse(c echo.Context, code int, message string, data interface{}) error {
	return c.JSON(code, successResponse{
		Success:    true,
		StatusCode: code,
		Message:    message,
		Data:       data,
	})
}

// CreateCookie builds the refresh-token carrier: always httpOnly, Secure
// only when the caller says so (production).
func CreateCookie(name, value, path string, exp time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func DeleteCookie(name, path string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
