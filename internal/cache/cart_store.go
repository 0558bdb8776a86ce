package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"shopfront/internal/models"
)

// CartOwner identifies the hash holding a cart.
type CartOwner struct {
	key   string
	guest bool
}

func UserCart(userID string) CartOwner {
	return CartOwner{key: "cart:user:" + userID}
}

func GuestCart(sessionID string) CartOwner {
	return CartOwner{key: "cart:guest:" + sessionID, guest: true}
}

func (o CartOwner) String() string { return o.key }

func (o CartOwner) Guest() bool { return o.guest }

// CartStore keeps each cart in a Redis hash keyed by product id.
type CartStore struct {
	client   *redis.Client
	guestTTL time.Duration
	userTTL  time.Duration
}

func NewCartStore(client *redis.Client, guestTTL, userTTL time.Duration) *CartStore {
	return &CartStore{client: client, guestTTL: guestTTL, userTTL: userTTL}
}

func (s *CartStore) ttl(owner CartOwner) time.Duration {
	if owner.guest {
		return s.guestTTL
	}
	return s.userTTL
}

func (s *CartStore) Get(ctx context.Context, owner CartOwner) (models.Cart, error) {
	fields, err := s.client.HGetAll(ctx, owner.key).Result()
	if err != nil {
		return models.Cart{}, err
	}

	cart := models.Cart{Owner: owner.key, Items: make([]models.CartItem, 0, len(fields))}
	for productID, raw := range fields {
		var item models.CartItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			return models.Cart{}, fmt.Errorf("decode cart item %s: %w", productID, err)
		}
		cart.Items = append(cart.Items, item)
		cart.TotalCents += item.PriceCents * int64(item.Quantity)
	}
	sort.Slice(cart.Items, func(i, j int) bool { return cart.Items[i].Name < cart.Items[j].Name })
	return cart, nil
}

func (s *CartStore) Item(ctx context.Context, owner CartOwner, productID string) (models.CartItem, bool, error) {
	raw, err := s.client.HGet(ctx, owner.key, productID).Bytes()
	if err == redis.Nil {
		return models.CartItem{}, false, nil
	}
	if err != nil {
		return models.CartItem{}, false, err
	}
	var item models.CartItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return models.CartItem{}, false, err
	}
	return item, true, nil
}

// Put replaces the line for item.ProductID and refreshes the cart TTL.
func (s *CartStore) Put(ctx context.Context, owner CartOwner, item models.CartItem) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, owner.key, item.ProductID, raw)
	pipe.Expire(ctx, owner.key, s.ttl(owner))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *CartStore) Remove(ctx context.Context, owner CartOwner, productID string) (bool, error) {
	n, err := s.client.HDel(ctx, owner.key, productID).Result()
	return n > 0, err
}

func (s *CartStore) Clear(ctx context.Context, owner CartOwner) error {
	return s.client.Del(ctx, owner.key).Err()
}

// Merge folds the lines of from into to, summing quantities of shared
// products, and deletes from.
func (s *CartStore) Merge(ctx context.Context, from, to CartOwner) (models.Cart, error) {
	source, err := s.Get(ctx, from)
	if err != nil {
		return models.Cart{}, err
	}
	if len(source.Items) == 0 {
		return s.Get(ctx, to)
	}

	for _, item := range source.Items {
		existing, ok, err := s.Item(ctx, to, item.ProductID)
		if err != nil {
			return models.Cart{}, err
		}
		if ok {
			item.Quantity += existing.Quantity
		}
		if err := s.Put(ctx, to, item); err != nil {
			return models.Cart{}, err
		}
	}
	if err := s.Clear(ctx, from); err != nil {
		return models.Cart{}, err
	}
	return s.Get(ctx, to)
}
