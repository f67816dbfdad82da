package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/zunw/ecommerce/internal/domain"
	pkgkafka "github.com/zunw/ecommerce/pkg/kafka"
	"github.com/zunw/ecommerce/pkg/logger"
)

// Kafka topics for catalog domain events.
var TopicBrandCreated = pkgkafka.Topic("brand", "created")

// AggregateTypeBrand is the aggregate type of brand events.
const AggregateTypeBrand = "brand"

// SourceCatalogService identifies events originating from this service.
const SourceCatalogService = "catalog-service"

// BrandCreatedData is the payload for a brand.created event.
type BrandCreatedData struct {
	BrandID int64  `json:"brandId"`
	Name    string `json:"name"`
}

// Publisher sends an event envelope to a topic. *pkgkafka.Producer is one.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes catalog domain events.
type Producer struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewProducer creates a new event producer for the catalog service.
func NewProducer(publisher Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		publisher: publisher,
		logger:    logger,
	}
}

// PublishBrandCreated publishes a brand.created event.
func (p *Producer) PublishBrandCreated(ctx context.Context, brand *domain.Brand) error {
	id := strconv.FormatInt(brand.ID, 10)
	data := BrandCreatedData{BrandID: brand.ID, Name: brand.Name}

	ev, err := pkgkafka.NewEvent(TopicBrandCreated, id, AggregateTypeBrand, SourceCatalogService, data)
	if err != nil {
		return fmt.Errorf("create brand.created event: %w", err)
	}
	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		ev.WithCorrelationID(cid)
	}

	if err := p.publisher.Publish(ctx, TopicBrandCreated, ev); err != nil {
		return fmt.Errorf("publish brand.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published brand.created event",
		slog.Int64("brand_id", brand.ID),
		slog.String("name", brand.Name),
	)
	return nil
}
