package config

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutesWithGroup exposes the public part of the running config.
func RegisterRoutesWithGroup(g *echo.Group, cfg *Config) {
	h := &handler{configService: NewService(cfg)}

	g.GET("/config", h.retrieve)
}
