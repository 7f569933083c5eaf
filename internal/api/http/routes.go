package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/lmt927/weather-notify/internal/store"
	"github.com/lmt927/weather-notify/internal/weather"
)

var validate = validator.New()

// StateReader exposes the persisted state served by the status API.
type StateReader interface {
	LoadHistory() (weather.History, error)
	LoadRunRecord() (store.RunRecord, error)
}

// RegisterRoutes wires the read-only status handlers into the Fiber app.
// Only available in daemon mode; the store files stay owned by the store.
func RegisterRoutes(app *fiber.App, st StateReader) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	v1.Get("/history", func(c *fiber.Ctx) error {
		var q historyQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		history, err := st.LoadHistory()
		if err != nil {
			if errors.Is(err, store.ErrCorruptData) {
				return fiber.NewError(fiber.StatusInternalServerError, "history file is corrupt")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load history")
		}

		records := history.Records
		if q.Days > 0 {
			cutoff := time.Now().AddDate(0, 0, -q.Days).Format(weather.DateLayout)
			var filtered []weather.ForecastRecord
			for _, rec := range records {
				if rec.Date >= cutoff {
					filtered = append(filtered, rec)
				}
			}
			records = filtered
		}

		return c.JSON(fiber.Map{
			"count":   len(records),
			"records": records,
		})
	})

	v1.Get("/run", func(c *fiber.Ctx) error {
		rec, err := st.LoadRunRecord()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load run record")
		}
		return c.JSON(rec)
	})
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	Days int `validate:"omitempty,min=1,max=365"`
}

func (q *historyQuery) bind(c *fiber.Ctx) error {
	daysStr := c.Query("days")
	if daysStr == "" {
		return nil
	}
	days, err := strconv.Atoi(daysStr)
	if err != nil {
		return errors.New("days must be an integer")
	}
	q.Days = days
	return nil
}
