package grpcsettle

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/settle/model"
	"xdao.co/settle/receipt"
	"xdao.co/settle/settlement"
	"xdao.co/settle/storage"
)

// Server exposes the settlement engine over the Settlement gRPC service.
//
// Archive is optional. When set, receipts produced by Receipt are written to
// it before the reply is sent; an archive failure fails the RPC.
type Server struct {
	UnimplementedSettlementServer

	Params   settlement.Params
	Archive  storage.Archive
	EngineID string

	// Now supplies the Computed-At timestamp for receipts; nil means time.Now.
	Now func() time.Time
}

func (s *Server) MinBond(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	var req model.MinBondRequest
	if err := json.Unmarshal(in.GetValue(), &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, "malformed MinBondRequest: "+err.Error())
	}
	bond, err := settlement.MinBond(s.Params, req.Reputation, uint64(req.BaseBond))
	if err != nil {
		return nil, mapCoreErr(err)
	}
	return marshalReply(model.MinBondResponse{MinBond: model.Amount(bond)})
}

func (s *Server) UserRewards(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	var req model.UserRewardsRequest
	if err := json.Unmarshal(in.GetValue(), &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, "malformed UserRewardsRequest: "+err.Error())
	}
	resp, err := model.ComputeUserRewards(req)
	if err != nil {
		return nil, mapCoreErr(err)
	}
	return marshalReply(resp)
}

func (s *Server) Receipt(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	var req model.ReceiptRequest
	if err := json.Unmarshal(in.GetValue(), &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, "malformed ReceiptRequest: "+err.Error())
	}

	round, rewards, err := model.SettleRequest(req.UserRewardsRequest)
	if err != nil {
		return nil, mapCoreErr(err)
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	doc, err := receipt.RenderDocument(round, rewards, receipt.RenderOptions{
		EngineID:             s.EngineID,
		Wallet:               req.Wallet,
		ComputedAt:           now().UTC(),
		SupersedesReceiptCID: req.SupersedesReceiptCID,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	archived := false
	if s.Archive != nil {
		if _, err := (storage.ReceiptArchive{Backend: s.Archive}).Put(doc.Bytes); err != nil {
			return nil, status.Error(codes.Internal, "archive write failed: "+err.Error())
		}
		archived = true
	}

	return marshalReply(model.ReceiptResponse{
		CID:      doc.CID,
		Receipt:  string(doc.Bytes),
		Archived: archived,
	})
}

func marshalReply(v interface{}) (*wrapperspb.BytesValue, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return wrapperspb.Bytes(b), nil
}

// mapCoreErr maps settlement and boundary errors onto gRPC status codes.
//
// Domain violations and malformed inputs are the caller's fault
// (InvalidArgument); overflow means the inputs exceeded the representable
// range (OutOfRange); everything else is Internal.
func mapCoreErr(err error) error {
	if err == nil {
		return nil
	}
	var coded *model.CodedError
	if errors.As(err, &coded) {
		switch coded.Code {
		case model.ErrInvalidRequest, model.ErrInvalidAmount, model.ErrInvalidOutcome, model.ErrDomain:
			return status.Error(codes.InvalidArgument, coded.Error())
		case model.ErrOverflow:
			return status.Error(codes.OutOfRange, coded.Error())
		default:
			return status.Error(codes.Internal, coded.Error())
		}
	}
	var se *settlement.Error
	if errors.As(err, &se) {
		switch se.Kind {
		case settlement.KindDomain:
			return status.Error(codes.InvalidArgument, se.Error())
		case settlement.KindParams:
			// Params are server configuration, not caller input.
			return status.Error(codes.FailedPrecondition, se.Error())
		case settlement.KindOverflow:
			return status.Error(codes.OutOfRange, se.Error())
		default:
			return status.Error(codes.Internal, se.Error())
		}
	}
	return status.Error(codes.Internal, err.Error())
}
