package grpcsettle

import (
	"context"
	"encoding/json"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/settle/model"
)

// Client is a typed client for the Settlement gRPC service. It speaks the
// model package's JSON documents over the wire.
type Client struct {
	cc     *grpc.ClientConn
	client SettlementClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration

	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int
}

func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cc, err := grpc.DialContext(ctx, target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc, client: NewSettlementClient(cc), Timeout: 0}, nil
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

func (c *Client) MinBond(req model.MinBondRequest) (*model.MinBondResponse, error) {
	var resp model.MinBondResponse
	if err := c.invoke(req, &resp, func(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
		return c.client.MinBond(ctx, in)
	}); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UserRewards(req model.UserRewardsRequest) (*model.UserRewardsResponse, error) {
	var resp model.UserRewardsResponse
	if err := c.invoke(req, &resp, func(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
		return c.client.UserRewards(ctx, in)
	}); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Receipt(req model.ReceiptRequest) (*model.ReceiptResponse, error) {
	var resp model.ReceiptResponse
	if err := c.invoke(req, &resp, func(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
		return c.client.Receipt(ctx, in)
	}); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) invoke(req, resp interface{}, call func(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)) error {
	b, err := json.Marshal(req)
	if err != nil {
		return err
	}

	ctx, cancel := c.ctx()
	defer cancel()

	reply, err := call(ctx, wrapperspb.Bytes(b))
	if err != nil {
		return mapRPC(err)
	}
	return json.Unmarshal(reply.GetValue(), resp)
}

func (c *Client) ctx() (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), c.Timeout)
}
