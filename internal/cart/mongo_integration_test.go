//go:build integration

package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"storefront/internal/domain"
)

func setupMongoRepo(t *testing.T) Repository {
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, testcontainers.TerminateContainer(container))
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongo(ctx, uri, "storefront_test")
	require.NoError(t, err)

	repo := NewMongoRepository(db)
	require.NoError(t, repo.(interface {
		CreateIndexes(context.Context) error
	}).CreateIndexes(ctx))

	return repo
}

func TestMongoRepository_CartLifecycle(t *testing.T) {
	repo := setupMongoRepo(t)
	ctx := context.Background()

	_, err := repo.GetCart(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrCartNotFound)

	item := domain.CartItem{ProductID: "p1", Quantity: 2, Name: "Top Hat", Price: "120.00"}
	require.NoError(t, repo.AddItem(ctx, "sess-1", item))

	cart, err := repo.GetCart(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	// Adding the same product again increments the quantity.
	require.NoError(t, repo.AddItem(ctx, "sess-1", item))
	cart, err = repo.GetCart(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 4, cart.Items[0].Quantity)

	require.NoError(t, repo.UpdateItemQuantity(ctx, "sess-1", "p1", 1))
	cart, err = repo.GetCart(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Items[0].Quantity)

	require.NoError(t, repo.RemoveItem(ctx, "sess-1", "p1"))
	cart, err = repo.GetCart(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	require.NoError(t, repo.DeleteCart(ctx, "sess-1"))
	_, err = repo.GetCart(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestMongoRepository_MissingTargets(t *testing.T) {
	repo := setupMongoRepo(t)
	ctx := context.Background()

	assert.ErrorIs(t, repo.UpdateItemQuantity(ctx, "sess-x", "p1", 2), ErrItemNotFound)
	assert.ErrorIs(t, repo.RemoveItem(ctx, "sess-x", "p1"), ErrItemNotFound)
	assert.ErrorIs(t, repo.DeleteCart(ctx, "sess-x"), ErrCartNotFound)
}
