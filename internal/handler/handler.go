package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/redis/go-redis/v9"
	"github.com/staffos-dev/provider-scheduler/backend/internal/config"
	"github.com/staffos-dev/provider-scheduler/backend/internal/engine"
	"github.com/staffos-dev/provider-scheduler/backend/internal/events"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	engine      *engine.Engine
	translator  ut.Translator
	publisher   *events.Publisher // nil when no broker is configured
	redisClient *redis.Client     // nil disables the export cache

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, eng *engine.Engine, publisher *events.Publisher, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		engine:      eng,
		translator:  trans,
		publisher:   publisher,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/providers", func(r chi.Router) {
		r.Post("/", h.CreateProvider)
		r.Get("/", h.GetAllProviders)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.providerInfo)
			r.Get("/", h.GetProvider)
			r.Put("/", h.ReplaceProvider)
			r.Delete("/", h.DeleteProvider)
		})
	})

	h.Mux.Route("/clients", func(r chi.Router) {
		r.Post("/", h.CreateClient)
		r.Get("/", h.GetAllClients)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.clientInfo)
			r.Get("/", h.GetClient)
			r.Put("/", h.ReplaceClient)
			r.Delete("/", h.DeleteClient)
		})
	})

	h.Mux.Route("/credentials", func(r chi.Router) {
		r.Post("/", h.CreateCredential)
		r.Get("/", h.GetAllCredentials)
		r.Delete("/", h.DeleteCredential)
	})

	h.Mux.Route("/shifts", func(r chi.Router) {
		r.Post("/", h.CreateShift)
		r.Get("/", h.GetAllShifts)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.shiftInfo)
			r.Get("/", h.GetShift)
			r.Delete("/", h.DeleteShift)
		})
	})

	h.Mux.Route("/imports", func(r chi.Router) {
		r.Post("/{entity}", h.ImportCSV)
	})

	h.Mux.Route("/exports", func(r chi.Router) {
		r.Get("/qgenda.csv", h.ExportQGenda)
		r.Get("/{entity}.csv", h.ExportCSV)
	})
}
