package tasks

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"shopfront/internal/ids"
	"shopfront/internal/models"
	"shopfront/internal/queue"
)

type RewardLedger interface {
	Award(ctx context.Context, entry models.RewardEntry) (bool, error)
}

type SessionPruner interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

type StockReader interface {
	LowStock(ctx context.Context, threshold int) ([]models.Product, error)
}

type Processor struct {
	logger        zerolog.Logger
	rewards       RewardLedger
	sessions      SessionPruner
	stock         StockReader
	pointsPerUnit int
	threshold     int
}

type Options struct {
	Rewards           RewardLedger
	Sessions          SessionPruner
	Stock             StockReader
	PointsPerUnit     int
	LowStockThreshold int
}

func NewProcessor(logger zerolog.Logger, opts Options) *Processor {
	return &Processor{
		logger:        logger,
		rewards:       opts.Rewards,
		sessions:      opts.Sessions,
		stock:         opts.Stock,
		pointsPerUnit: opts.PointsPerUnit,
		threshold:     opts.LowStockThreshold,
	}
}

// Handle dispatches one stream entry. Returning an error leaves the entry
// pending so the consumer retries it.
func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	eventType := field(msg.Values, "type")

	switch eventType {
	case queue.EventOrderPlaced:
		return p.handleOrderPlaced(ctx, msg.Values)
	case queue.EventStockLow:
		p.logger.Warn().
			Str("product_id", field(msg.Values, "productId")).
			Str("name", field(msg.Values, "name")).
			Str("stock", field(msg.Values, "stock")).
			Msg("product stock is low")
		return nil
	case queue.EventStockScan:
		return p.handleStockScan(ctx)
	case queue.EventSessionsCleanup:
		return p.handleSessionsCleanup(ctx)
	default:
		p.logger.Warn().Str("type", eventType).Msg("unknown event type")
		return nil
	}
}

func field(values map[string]interface{}, key string) string {
	switch v := values[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func (p *Processor) handleOrderPlaced(ctx context.Context, values map[string]interface{}) error {
	orderID := field(values, "orderId")
	userID := field(values, "userId")
	if orderID == "" || userID == "" {
		p.logger.Warn().Interface("values", values).Msg("order.placed without order or user")
		return nil
	}

	totalCents, err := strconv.ParseInt(field(values, "totalCents"), 10, 64)
	if err != nil {
		p.logger.Warn().Err(err).Str("order_id", orderID).Msg("order.placed with bad total")
		return nil
	}

	points := int(totalCents/100) * p.pointsPerUnit
	if points <= 0 || p.rewards == nil {
		return nil
	}

	awarded, err := p.rewards.Award(ctx, models.RewardEntry{
		ID:      ids.New(),
		UserID:  userID,
		OrderID: &orderID,
		Points:  points,
		Reason:  "order",
	})
	if err != nil {
		return fmt.Errorf("award points for %s: %w", orderID, err)
	}
	if awarded {
		p.logger.Info().Str("order_id", orderID).Str("user_id", userID).Int("points", points).Msg("reward points awarded")
	}
	return nil
}

func (p *Processor) handleStockScan(ctx context.Context) error {
	if p.stock == nil {
		return nil
	}
	products, err := p.stock.LowStock(ctx, p.threshold)
	if err != nil {
		return fmt.Errorf("scan low stock: %w", err)
	}
	for _, product := range products {
		p.logger.Warn().
			Str("product_id", product.ID).
			Str("name", product.Name).
			Int("stock", product.Stock).
			Msg("product stock is low")
	}
	p.logger.Info().Int("count", len(products)).Msg("stock scan finished")
	return nil
}

func (p *Processor) handleSessionsCleanup(ctx context.Context) error {
	if p.sessions == nil {
		return nil
	}
	removed, err := p.sessions.DeleteExpired(ctx)
	if err != nil {
		return fmt.Errorf("delete expired sessions: %w", err)
	}
	p.logger.Info().Int64("removed", removed).Msg("expired sessions removed")
	return nil
}
