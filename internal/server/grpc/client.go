package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophlocker/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Client calls the locker service over an existing connection.
type Client struct {
	cc          grpc.ClientConnInterface
	accessToken string
}

func NewClient(cc grpc.ClientConnInterface, accessToken string) *Client {
	return &Client{cc: cc, accessToken: accessToken}
}

// Call invokes method with in and decodes the reply into out.
func (c *Client) Call(ctx context.Context, method string, in, out any) error {
	if c.accessToken != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, common.AccessTokenHeaderName, c.accessToken)
	}
	return c.cc.Invoke(ctx, FullMethod(method), in, out, grpc.CallContentSubtype(CodecName))
}
