package handler

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/iwork-app/iwork-backend/internal/port"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// parsePage reads and validates the skip/limit query params. Out-of-range
// values are rejected here so stores only ever see a sane window.
func parsePage(c fiber.Ctx) (port.Page, error) {
	skip, err := parseIntParam(c.Query("skip", "0"), "skip")
	if err != nil {
		return port.Page{}, err
	}
	if skip < 0 {
		return port.Page{}, fmt.Errorf("%w: skip must not be negative", port.ErrValidation)
	}

	limit, err := parseIntParam(c.Query("limit", strconv.Itoa(defaultPageLimit)), "limit")
	if err != nil {
		return port.Page{}, err
	}
	if limit < 1 || limit > maxPageLimit {
		return port.Page{}, fmt.Errorf("%w: limit must be between 1 and %d", port.ErrValidation, maxPageLimit)
	}

	return port.Page{Skip: skip, Limit: limit}, nil
}

func parseIntParam(raw, name string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", port.ErrValidation, name)
	}
	return v, nil
}
