package grpcsettle

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"xdao.co/settle/model"
)

// mapRPC converts a gRPC status back into a boundary CodedError so callers see
// the same error shape whether they settle locally or over the wire.
func mapRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.InvalidArgument:
		return model.NewError(model.ErrInvalidRequest, st.Message())
	case codes.OutOfRange:
		return model.NewError(model.ErrOverflow, st.Message())
	case codes.FailedPrecondition, codes.Internal:
		return model.NewError(model.ErrInternal, st.Message())
	default:
		return err
	}
}
