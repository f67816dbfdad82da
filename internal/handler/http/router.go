package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zunw/ecommerce/internal/service"
	"github.com/zunw/ecommerce/pkg/health"
	"github.com/zunw/ecommerce/pkg/middleware"
)

// Services are the catalog services exposed over HTTP.
type Services struct {
	Brand    *service.BrandService
	Product  *service.ProductService
	Status   *service.StatusService
	Category *service.CategoryService
}

// RouterOptions configure the cross-cutting parts of the router. Zero values
// leave the corresponding feature off, except CORS which defaults to
// allowing any origin.
type RouterOptions struct {
	CORS           *middleware.CORSConfig
	Metrics        *middleware.Metrics
	MetricsHandler http.Handler
	PprofEnabled   bool
	PprofCIDRs     []string
}

// NewRouter creates a chi router with all catalog routes registered.
func NewRouter(svcs Services, healthHandler *health.Handler, opts RouterOptions, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	cors := middleware.DefaultCORSConfig()
	if opts.CORS != nil {
		cors = *opts.CORS
	}

	// Global middleware
	r.Use(middleware.CORS(cors))
	r.Use(middleware.CorrelationID)
	r.Use(middleware.Tracing())
	r.Use(middleware.RequestLogger(logger))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Handler)
	}
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Recovery(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())

	if opts.MetricsHandler != nil {
		r.Handle("/metrics", opts.MetricsHandler)
	}
	if opts.PprofEnabled {
		middleware.RegisterPprof(r, opts.PprofCIDRs, logger)
	}

	statusHandler := NewStatusHandler(svcs.Status, logger)
	r.Route("/api/status", func(r chi.Router) {
		r.Get("/", statusHandler.ListStatuses)
		r.Get("/{name}", statusHandler.GetStatusID)
	})

	brandHandler := NewBrandHandler(svcs.Brand, logger)
	r.Route("/api/brand", func(r chi.Router) {
		r.Get("/", brandHandler.ListBrands)
		r.Post("/", brandHandler.CreateBrand)
		r.Get("/{name}", brandHandler.GetBrand)
		r.Get("/{name}/id", brandHandler.GetBrandID)
	})

	categoryHandler := NewCategoryHandler(svcs.Category, logger)
	r.Get("/api/category", categoryHandler.ListCategories)

	productHandler := NewProductHandler(svcs.Product, logger)
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", productHandler.ListProducts)
		r.Get("/{id}", productHandler.GetProduct)
		r.Get("/category/{categoryId}", productHandler.ListByCategory)
		r.Get("/brand/{brandId}", productHandler.ListByBrand)
	})

	return r
}
