package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-arena-api/internal/middleware"
)

var errInvalidID = errors.New("invalid id")

func parseUintParam(c *fiber.Ctx, key string) (uint, error) {
	parsed, err := strconv.ParseUint(strings.TrimSpace(c.Params(key)), 10, 64)
	if err != nil || parsed == 0 {
		return 0, errInvalidID
	}
	return uint(parsed), nil
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if correlation := middleware.GetCorrelationID(c); correlation != "" {
		logger = base.With().Str("correlation_id", correlation).Logger()
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}
