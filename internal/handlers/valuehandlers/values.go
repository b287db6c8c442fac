package valuehandlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/The127/ioc"
	"github.com/The127/mediatr"
	"github.com/gorilla/mux"
	"github.com/the127/keyv/internal/commands"
	"github.com/the127/keyv/internal/handlers"
	"github.com/the127/keyv/internal/middlewares"
	"github.com/the127/keyv/internal/queries"
	"github.com/the127/keyv/internal/utils/apiError"
	"github.com/the127/keyv/internal/utils/decoding"
	"github.com/the127/keyv/internal/utils/pointer"
	"github.com/the127/keyv/internal/utils/validate"
)

type GetValueResponse struct {
	Value json.RawMessage `json:"value"`
}

type GetRawValueResponse struct {
	Value   json.RawMessage `json:"value"`
	Expires *int64          `json:"expires"`
}

func GetValue(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	namespace := vars["namespace"]
	key := vars["key"]

	raw := false
	if rawParam := r.URL.Query().Get("raw"); rawParam != "" {
		var err error
		raw, err = strconv.ParseBool(rawParam)
		if err != nil {
			apiError.HandleHttpError(w, fmt.Errorf("raw must be a boolean: %w", apiError.ErrApiBadRequest))
			return
		}
	}

	ctx := r.Context()
	scope := middlewares.GetScope(ctx)
	mediator := ioc.GetDependency[mediatr.Mediator](scope)

	value, err := mediatr.Send[*queries.GetValueResponse](ctx, mediator, queries.GetValue{
		Namespace: namespace,
		Key:       key,
	})
	if err != nil {
		apiError.HandleHttpError(w, err)
		return
	}

	if !value.Found {
		apiError.HandleHttpError(w, fmt.Errorf("key %s: %w", key, apiError.ErrApiValueNotFound))
		return
	}

	var response any = GetValueResponse{
		Value: value.Value,
	}
	if raw {
		rawResponse := GetRawValueResponse{
			Value: value.Value,
		}
		if value.ExpiresAt != nil {
			expires := value.ExpiresAt.UnixMilli()
			rawResponse.Expires = &expires
		}
		response = rawResponse
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(response)
	if err != nil {
		apiError.HandleHttpError(w, err)
		return
	}
}

type PutValueRequest struct {
	Value json.RawMessage `json:"value" validate:"required"`
	// Ttl in milliseconds, zero stores the value without expiry.
	Ttl *int64 `json:"ttl" validate:"omitnil,gte=0"`
}

func PutValue(w http.ResponseWriter, r *http.Request) {
	var dto PutValueRequest
	err := decoding.HttpBodyAsJson(w, r, &dto)
	if err != nil {
		apiError.HandleHttpError(w, err)
		return
	}

	err = validate.Validate(dto)
	if err != nil {
		apiError.HandleHttpError(w, err)
		return
	}

	vars := mux.Vars(r)

	ctx := r.Context()
	scope := middlewares.GetScope(ctx)
	mediator := ioc.GetDependency[mediatr.Mediator](scope)

	_, err = mediatr.Send[*commands.SetValueResponse](ctx, mediator, commands.SetValue{
		Namespace: vars["namespace"],
		Key:       vars["key"],
		Value:     dto.Value,
		Ttl:       millis(dto.Ttl),
	})
	if err != nil {
		apiError.HandleHttpError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type DeleteValueResponse struct {
	Deleted bool `json:"deleted"`
}

func DeleteValue(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	ctx := r.Context()
	scope := middlewares.GetScope(ctx)
	mediator := ioc.GetDependency[mediatr.Mediator](scope)

	result, err := mediatr.Send[*commands.DeleteValueResponse](ctx, mediator, commands.DeleteValue{
		Namespace: vars["namespace"],
		Key:       vars["key"],
	})
	if err != nil {
		apiError.HandleHttpError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(DeleteValueResponse{
		Deleted: result.Deleted,
	})
	if err != nil {
		apiError.HandleHttpError(w, err)
		return
	}
}

type GetValuesRequest struct {
	Keys        []string `json:"keys" validate:"required,min=1,dive,required"`
	Concurrency *int     `json:"concurrency" validate:"omitnil,gte=0"`
}

type GetValuesResponse handlers.ItemsResponse[GetValuesResponseItem]

type GetValuesResponseItem struct {
	Key   string          `json:"key"`
	Found bool            `json:"found"`
	Value json.RawMessage `json:"value,omitempty"`
}

func GetValues(w http.ResponseWriter, r *http.Request) {
	var dto GetValuesRequest
	err := decoding.HttpBodyAsJson(w, r, &dto)
	if err != nil {
		apiError.HandleHttpError(w, err)
		return
	}

	err = validate.Validate(dto)
	if err != nil {
		apiError.HandleHttpError(w, err)
		return
	}

	vars := mux.Vars(r)

	ctx := r.Context()
	scope := middlewares.GetScope(ctx)
	mediator := ioc.GetDependency[mediatr.Mediator](scope)

	values, err := mediatr.Send[*queries.GetValuesResponse](ctx, mediator, queries.GetValues{
		Namespace:   vars["namespace"],
		Keys:        dto.Keys,
		Concurrency: dto.Concurrency,
	})
	if err != nil {
		apiError.HandleHttpError(w, err)
		return
	}

	response := GetValuesResponse{
		Items: make([]GetValuesResponseItem, len(values.Items)),
	}

	for i, item := range values.Items {
		response.Items[i] = GetValuesResponseItem{
			Key:   item.Key,
			Found: item.Found,
			Value: item.Value,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(response)
	if err != nil {
		apiError.HandleHttpError(w, err)
		return
	}
}

type SetValuesRequest struct {
	Items       []SetValuesRequestItem `json:"items" validate:"required,min=1,dive"`
	Ttl         *int64                 `json:"ttl" validate:"omitnil,gte=0"`
	Concurrency *int                   `json:"concurrency" validate:"omitnil,gte=0"`
}

type SetValuesRequestItem struct {
	Key   string          `json:"key" validate:"required"`
	Value json.RawMessage `json:"value" validate:"required"`
}

func SetValues(w http.ResponseWriter, r *http.Request) {
	var dto SetValuesRequest
	err := decoding.HttpBodyAsJson(w, r, &dto)
	if err != nil {
		apiError.HandleHttpError(w, err)
		return
	}

	err = validate.Validate(dto)
	if err != nil {
		apiError.HandleHttpError(w, err)
		return
	}

	keys := make([]string, len(dto.Items))
	values := make([]json.RawMessage, len(dto.Items))
	for i, item := range dto.Items {
		keys[i] = item.Key
		values[i] = item.Value
	}

	vars := mux.Vars(r)

	ctx := r.Context()
	scope := middlewares.GetScope(ctx)
	mediator := ioc.GetDependency[mediatr.Mediator](scope)

	_, err = mediatr.Send[*commands.SetValuesResponse](ctx, mediator, commands.SetValues{
		Namespace:   vars["namespace"],
		Keys:        keys,
		Values:      values,
		Ttl:         millis(dto.Ttl),
		Concurrency: dto.Concurrency,
	})
	if err != nil {
		apiError.HandleHttpError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func ClearValues(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	ctx := r.Context()
	scope := middlewares.GetScope(ctx)
	mediator := ioc.GetDependency[mediatr.Mediator](scope)

	_, err := mediatr.Send[*commands.ClearValuesResponse](ctx, mediator, commands.ClearValues{
		Namespace: vars["namespace"],
	})
	if err != nil {
		apiError.HandleHttpError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func millis(ttl *int64) *time.Duration {
	if ttl == nil {
		return nil
	}
	return pointer.To(time.Duration(*ttl) * time.Millisecond)
}
