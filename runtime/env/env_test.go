package env

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/nftstub/model/account"
)

func TestContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, account.ID(""), Predecessor(ctx))
	assert.Equal(t, account.ID(""), Current(ctx))

	ctx = WithCurrent(WithPredecessor(ctx, "nft.near"), "receiver.near")
	assert.Equal(t, account.ID("nft.near"), Predecessor(ctx))
	assert.Equal(t, account.ID("receiver.near"), Current(ctx))
}
