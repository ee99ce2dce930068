package main

import (
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gorilla/mux"
)

type server struct {
	router *mux.Router
	doc    *openapi3.T

	items     []item
	inventory []storeItem
}

func newServer(serverURL string) (*server, error) {
	doc, err := newAPIDoc(serverURL)
	if err != nil {
		return nil, err
	}
	return &server{
		router:    mux.NewRouter(),
		doc:       doc,
		items:     make([]item, 0),
		inventory: make([]storeItem, 0),
	}, nil
}

func (s *server) populateTestItems() {
	s.items = []item{
		{
			Name:        "Surface Laptop",
			Description: ptr("A sleek Microsoft laptop with an elegant design and robust performance."),
			Price:       999.99,
			Tax:         ptr(99.99),
		},
	}
	s.inventory = []storeItem{
		{ID: 1, item: item{Name: "Surface Laptop", Description: ptr("A sleek Microsoft laptop with an elegant design and robust performance."), Price: 999.99, Tax: ptr(99.99)}},
		{ID: 2, item: item{Name: "Wireless Mouse", Description: ptr("An ergonomic wireless mouse with long battery life."), Price: 49.99, Tax: ptr(4.99)}},
		{ID: 3, item: item{Name: "Pizza", Description: ptr("A tasteful argentinian style pizza."), Price: 9.99, Tax: ptr(1.99)}},
		{ID: 4, item: item{Name: "Frico", Description: ptr("Delicacy from Udine."), Price: 9.99, Tax: ptr(1.99)}},
	}
}

type item struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Price       float64  `json:"price"`
	Tax         *float64 `json:"tax"`
}

// sampleItem is what GET /items/{item_id} answers for any id.
var sampleItem = item{
	Name:        "Sample",
	Description: ptr("Example item"),
	Price:       100,
	Tax:         ptr(10.0),
}

type storeItem struct {
	ID int `json:"id"`
	item
}

type purchaseOrder struct {
	ProductID int    `json:"product_id"`
	BuyerName string `json:"buyer_name"`
	Quantity  *int   `json:"quantity"`
}

type orderConfirmation struct {
	Message    string    `json:"message"`
	Product    storeItem `json:"product"`
	Quantity   int       `json:"quantity"`
	TotalPrice float64   `json:"total_price"`
}

type errorDetail struct {
	Detail string `json:"detail"`
}

type validationError struct {
	Loc   []string `json:"loc"`
	Msg   string   `json:"msg"`
	Type  string   `json:"type"`
	Input any      `json:"input,omitempty"`
}

type validationErrors struct {
	Detail []validationError `json:"detail"`
}

func ptr[T any](v T) *T {
	return &v
}
