package event

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zunw/ecommerce/internal/domain"
	pkgkafka "github.com/zunw/ecommerce/pkg/kafka"
	"github.com/zunw/ecommerce/pkg/logger"
)

type recordingPublisher struct {
	topics []string
	events []*pkgkafka.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, ev *pkgkafka.Event) error {
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, ev)
	return nil
}

func TestProducer_PublishBrandCreated(t *testing.T) {
	pub := &recordingPublisher{}
	p := NewProducer(pub, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	ctx := logger.WithCorrelationID(context.Background(), "corr-1")

	require.NoError(t, p.PublishBrandCreated(ctx, &domain.Brand{ID: 7, Name: "Acme"}))

	require.Len(t, pub.events, 1)
	assert.Equal(t, "ecommerce.brand.created", pub.topics[0])

	ev := pub.events[0]
	assert.Equal(t, "7", ev.AggregateID)
	assert.Equal(t, AggregateTypeBrand, ev.AggregateType)
	assert.Equal(t, SourceCatalogService, ev.Source)
	assert.Equal(t, "corr-1", ev.CorrelationID)

	var data BrandCreatedData
	require.NoError(t, json.Unmarshal(ev.Data, &data))
	assert.Equal(t, BrandCreatedData{BrandID: 7, Name: "Acme"}, data)
}

func TestProducer_PublishBrandCreated_Error(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	p := NewProducer(pub, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	err := p.PublishBrandCreated(context.Background(), &domain.Brand{ID: 7, Name: "Acme"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}
