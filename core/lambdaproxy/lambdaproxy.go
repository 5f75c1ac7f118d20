// Package lambdaproxy serves API Gateway proxy events, REST (v1) and HTTP API (v2), with a
// mux.Router.
package lambdaproxy

import (
	"context"

	"github.com/awslabs/aws-lambda-go-api-proxy/core"
	"github.com/awslabs/aws-lambda-go-api-proxy/gorillamux"
	"github.com/gorilla/mux"

	"github.com/relabs-tech/jobly/core/logger"
)

// HandlerFunc is the signature of the lambda handler returned by Handler
type HandlerFunc func(ctx context.Context, event core.SwitchableAPIGatewayRequest) (*core.SwitchableAPIGatewayResponse, error)

// Handler returns a lambda handler which passes API Gateway proxy events to router. The
// API Gateway request ID becomes the request ID of the request logger.
func Handler(router *mux.Router) HandlerFunc {
	adapter := gorillamux.New(router)
	return func(ctx context.Context, event core.SwitchableAPIGatewayRequest) (*core.SwitchableAPIGatewayResponse, error) {
		if id := requestID(event); id != "" {
			ctx = logger.ContextWithRequestID(ctx, id)
		}
		response, err := adapter.ProxyWithContext(ctx, event)
		if err != nil {
			logger.FromContext(ctx).WithError(err).Errorln("Error 4730: cannot proxy request")
		}
		return response, err
	}
}

func requestID(event core.SwitchableAPIGatewayRequest) string {
	if v1 := event.Version1(); v1 != nil {
		return v1.RequestContext.RequestID
	}
	if v2 := event.Version2(); v2 != nil {
		return v2.RequestContext.RequestID
	}
	return ""
}
