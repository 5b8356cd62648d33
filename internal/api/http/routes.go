package httpapi

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/i474232898/weather-lookup/internal/history"
	"github.com/i474232898/weather-lookup/internal/scheduler"
	"github.com/i474232898/weather-lookup/internal/store"
	"github.com/i474232898/weather-lookup/internal/weather"
)

const (
	msgCityNotFound    = "City not found. Please check the spelling and try again."
	msgFetchFailed     = "Failed to fetch weather data. Please try again later."
	msgHistoryFailed   = "Failed to load search history. Please try again later."
	msgFavoriteFailed  = "Failed to update favorite. Please try again later."
	msgHistoryNotFound = "Search history entry not found."
	msgInvalidID       = "Invalid search history id."
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their query parameter names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("query"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// StatusReporter exposes the latest history store check.
type StatusReporter interface {
	Status() scheduler.StoreStatus
}

// Dependencies are the collaborators the handlers need. Health may be nil.
type Dependencies struct {
	Weather  *weather.Service
	History  history.Store
	Recorder *history.Recorder
	Health   StatusReporter
	Logger   *zap.SugaredLogger
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Dependencies) {
	h := &handlers{deps: deps, log: deps.Logger}

	app.Get("/health", h.health)

	api := app.Group("/api")
	api.Get("/weather", h.weatherByCity)
	api.Get("/weather/coordinates", h.weatherByCoordinates)
	api.Get("/cities/suggestions", h.suggestions)
	api.Get("/history", h.recent)
	api.Get("/favorites", h.favorites)
	api.Post("/history/:id/favorite", h.toggleFavorite)
}

type handlers struct {
	deps Dependencies
	log  *zap.SugaredLogger
}

// cityQuery holds query parameters for a lookup by name.
type cityQuery struct {
	City string `query:"city" validate:"required"`
}

// coordinatesQuery holds query parameters for a lookup by position.
type coordinatesQuery struct {
	Lat string `query:"lat" validate:"required,latitude"`
	Lon string `query:"lon" validate:"required,longitude"`
}

func (h *handlers) weatherByCity(c *fiber.Ctx) error {
	var q cityQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	q.City = strings.TrimSpace(q.City)
	if err := validate.Struct(q); err != nil {
		return badRequest(err)
	}

	doc, err := h.deps.Weather.ByCity(c.UserContext(), q.City)
	if err != nil {
		return h.weatherError(err, "city", q.City)
	}

	h.deps.Recorder.Record(history.DefaultUserID, doc)
	return c.JSON(doc)
}

func (h *handlers) weatherByCoordinates(c *fiber.Ctx) error {
	var q coordinatesQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	q.Lat, q.Lon = strings.TrimSpace(q.Lat), strings.TrimSpace(q.Lon)
	if err := validate.Struct(q); err != nil {
		return badRequest(err)
	}

	// Both already match the latitude/longitude patterns.
	lat, _ := strconv.ParseFloat(q.Lat, 64)
	lon, _ := strconv.ParseFloat(q.Lon, 64)

	doc, err := h.deps.Weather.ByCoordinates(c.UserContext(), lat, lon)
	if err != nil {
		return h.weatherError(err, "lat", lat, "lon", lon)
	}

	h.deps.Recorder.Record(history.DefaultUserID, doc)
	return c.JSON(doc)
}

func (h *handlers) suggestions(c *fiber.Ctx) error {
	// Any query string is acceptable here; short or missing ones get the
	// fallback list.
	return c.JSON(h.deps.Weather.SuggestCities(c.UserContext(), c.Query("query")))
}

func (h *handlers) recent(c *fiber.Ctx) error {
	records, err := h.deps.History.Recent(c.UserContext(), history.DefaultUserID, history.RecentLimit)
	if err != nil {
		h.log.Errorw("failed to read search history", "err", err)
		return fiber.NewError(fiber.StatusInternalServerError, msgHistoryFailed)
	}
	return c.JSON(records)
}

func (h *handlers) favorites(c *fiber.Ctx) error {
	records, err := h.deps.History.Favorites(c.UserContext(), history.DefaultUserID)
	if err != nil {
		h.log.Errorw("failed to read favorites", "err", err)
		return fiber.NewError(fiber.StatusInternalServerError, msgHistoryFailed)
	}
	return c.JSON(records)
}

func (h *handlers) toggleFavorite(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, msgInvalidID)
	}

	rec, err := h.deps.History.ToggleFavorite(c.UserContext(), history.DefaultUserID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, msgHistoryNotFound)
		}
		h.log.Errorw("failed to toggle favorite", "id", id, "err", err)
		return fiber.NewError(fiber.StatusInternalServerError, msgFavoriteFailed)
	}
	return c.JSON(rec)
}

func (h *handlers) health(c *fiber.Ctx) error {
	body := fiber.Map{
		"status":  "ok",
		"service": AppName,
	}
	if h.deps.Health != nil {
		body["historyStore"] = h.deps.Health.Status()
	}
	return c.JSON(body)
}

// weatherError maps lookup failures to client responses. Upstream detail
// is logged, never returned.
func (h *handlers) weatherError(err error, keysAndValues ...any) error {
	if errors.Is(err, weather.ErrCityNotFound) {
		return fiber.NewError(fiber.StatusNotFound, msgCityNotFound)
	}
	h.log.Errorw("weather lookup failed", append(keysAndValues, "err", err)...)
	return fiber.NewError(fiber.StatusInternalServerError, msgFetchFailed)
}

// badRequest turns validator errors into a readable 400 message.
func badRequest(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			msgs = append(msgs, fe.Field()+" is required")
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s must be a valid %s", fe.Field(), fe.Tag()))
	}
	return fiber.NewError(fiber.StatusBadRequest, strings.Join(msgs, "; "))
}
