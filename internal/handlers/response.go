package handlers

type ItemsResponse[T any] struct {
	Items []T `json:"items"`
}
