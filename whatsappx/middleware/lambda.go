package middleware

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/Abraxas-365/wacloud/whatsappx"
	"github.com/aws/aws-lambda-go/events"
)

// LambdaHandler is an API Gateway proxy integration handler
type LambdaHandler func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// Lambda serves the webhook from AWS Lambda:
//
//	lambda.Start(middleware.Lambda(client))
func Lambda(client *whatsappx.Client) LambdaHandler {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		switch req.HTTPMethod {
		case http.MethodGet:
			challenge, err := client.Get(queryValues(req))
			if err != nil {
				return lambdaError(err), nil
			}
			return events.APIGatewayProxyResponse{
				StatusCode: http.StatusOK,
				Headers:    map[string]string{"Content-Type": "text/plain; charset=utf-8"},
				Body:       challenge,
			}, nil

		case http.MethodPost:
			body := []byte(req.Body)
			if req.IsBase64Encoded {
				decoded, err := base64.StdEncoding.DecodeString(req.Body)
				if err != nil {
					return lambdaError(badRequest("Body is not valid base64", err)), nil
				}
				body = decoded
			}
			_, err := client.Post(ctx, whatsappx.Request{
				RawBody:   body,
				Signature: header(req, whatsappx.SignatureHeader),
			})
			if err != nil {
				return lambdaError(err), nil
			}
			return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
		}

		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusMethodNotAllowed,
			Headers:    map[string]string{"Allow": "GET, POST"},
		}, nil
	}
}

func queryValues(req events.APIGatewayProxyRequest) url.Values {
	values := url.Values{}
	for k, vs := range req.MultiValueQueryStringParameters {
		values[k] = append([]string(nil), vs...)
	}
	for k, v := range req.QueryStringParameters {
		if !values.Has(k) {
			values.Set(k, v)
		}
	}
	return values
}

// header looks name up case-insensitively; API Gateway keeps client casing
func header(req events.APIGatewayProxyRequest, name string) string {
	for k, v := range req.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	for k, vs := range req.MultiValueHeaders {
		if strings.EqualFold(k, name) && len(vs) > 0 {
			return vs[0]
		}
	}
	return ""
}

func lambdaError(err error) events.APIGatewayProxyResponse {
	xerr := asWebhookError(err)
	if xerr == nil {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}
	}
	body, _ := json.Marshal(xerr)
	return events.APIGatewayProxyResponse{
		StatusCode: statusOf(xerr),
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}
