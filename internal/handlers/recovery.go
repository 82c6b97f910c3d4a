package handlers

import (
	"net/http"
	"time"

	"github.com/distr-sh/recoverd/api"
	internalctx "github.com/distr-sh/recoverd/internal/context"
	"github.com/distr-sh/recoverd/internal/mapping"
	"github.com/distr-sh/recoverd/internal/recovery"
	"github.com/go-chi/httprate"
	"github.com/oaswrap/spec/adapter/chiopenapi"
	"github.com/oaswrap/spec/option"
	"go.uber.org/zap"
)

func RecoveryRouter(service *recovery.Service, rateLimit int) func(r chiopenapi.Router) {
	return func(r chiopenapi.Router) {
		r.WithOptions(option.GroupTags("Recovery"))
		r.Use(httprate.LimitByIP(rateLimit, time.Minute))

		r.Post("/", requestRecoveryHandler(service)).
			With(option.Description("Issue a recovery token and send the recovery link to the account holder")).
			With(option.Request(api.RequestRecoveryRequest{})).
			With(option.Response(http.StatusAccepted, api.Response{}))
		r.Put("/", completeRecoveryHandler(service)).
			With(option.Description("Rejected: the user id is missing")).
			With(option.Response(http.StatusBadRequest, api.Response{}))
		r.Put("/{accountId}", completeRecoveryHandler(service)).
			With(option.Description("Consume a recovery token and bind a new public key to the account")).
			With(option.Request(api.CompleteRecoveryRequest{})).
			With(option.Response(http.StatusOK, api.CompleteRecoveryResponse{}))
		r.Get("/{accountId}", checkTokenHandler(service)).
			With(option.Description("Check whether a recovery token is still valid")).
			With(option.Request(struct {
				Token string `query:"token"`
			}{})).
			With(option.Response(http.StatusOK, api.CheckTokenResponse{}))
	}
}

func completeRecoveryHandler(service *recovery.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		// An undecodable body counts as no data so the account id is still
		// checked first.
		request, err := decodeJsonBody[api.CompleteRecoveryRequest](w, r)
		if err != nil {
			internalctx.GetLogger(ctx).Debug("bad json payload", zap.Error(err))
		}
		result, err := service.CompleteRecovery(ctx, r.PathValue("accountId"), recovery.Request{
			Token: request.Token,
			Key:   request.Key,
		})
		if err != nil {
			respondRejected(ctx, w, err)
			return
		}
		RespondSuccess(w, http.StatusOK, "The key has been bound to the account", mapping.KeyDescriptorToAPI(result.Key))
	}
}

func requestRecoveryHandler(service *recovery.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		request, err := JsonBody[api.RequestRecoveryRequest](w, r)
		if err != nil {
			return
		}
		if err := request.Validate(); err != nil {
			RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if _, err := service.RequestRecovery(ctx, request.Username); err != nil {
			respondRejected(ctx, w, err)
			return
		}
		RespondSuccess(w, http.StatusAccepted, "A recovery link has been sent to the account holder", nil)
	}
}

func checkTokenHandler(service *recovery.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		account, err := service.CheckToken(ctx, r.PathValue("accountId"), r.URL.Query().Get("token"))
		if err != nil {
			internalctx.GetLogger(ctx).Debug("token check failed", zap.Error(err))
			respondRejected(ctx, w, err)
			return
		}
		RespondSuccess(w, http.StatusOK, "The token is valid", mapping.AccountToTokenStatus(*account))
	}
}
