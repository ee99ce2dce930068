package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

func itemSchema() *openapi3.Schema {
	s := openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("description", openapi3.NewStringSchema().WithNullable()).
		WithProperty("price", openapi3.NewFloat64Schema()).
		WithProperty("tax", openapi3.NewFloat64Schema().WithNullable())
	s.Title = "Item"
	s.Required = []string{"name", "price"}
	s.Properties["name"].Value.Title = "Item Name"
	s.Properties["name"].Value.Description = "The unique name of the item."
	s.Properties["description"].Value.Title = "Item Description"
	s.Properties["description"].Value.Description = "A brief overview of the item, detailing its characteristics or purpose."
	s.Properties["price"].Value.Title = "Item Price"
	s.Properties["price"].Value.Description = "The selling price of the item."
	s.Properties["tax"].Value.Title = "Item Tax"
	s.Properties["tax"].Value.Description = "The applicable tax for the item, if any."
	return s
}

func storeItemSchema() *openapi3.Schema {
	s := itemSchema().WithProperty("id", openapi3.NewIntegerSchema())
	s.Title = "StoreItem"
	s.Required = []string{"id", "name", "price"}
	s.Properties["id"].Value.Description = "A unique identifier for the store product."
	return s
}

func purchaseOrderSchema() *openapi3.Schema {
	s := openapi3.NewObjectSchema().
		WithProperty("product_id", openapi3.NewIntegerSchema()).
		WithProperty("buyer_name", openapi3.NewStringSchema()).
		WithProperty("quantity", openapi3.NewIntegerSchema().WithDefault(1.0))
	s.Title = "PurchaseOrder"
	s.Required = []string{"product_id", "buyer_name"}
	return s
}

func errorSchema() *openapi3.Schema {
	s := openapi3.NewObjectSchema().WithProperty("detail", openapi3.NewStringSchema())
	s.Required = []string{"detail"}
	return s
}

func validationErrorSchema() *openapi3.Schema {
	detail := openapi3.NewObjectSchema().
		WithProperty("loc", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())).
		WithProperty("msg", openapi3.NewStringSchema()).
		WithProperty("type", openapi3.NewStringSchema())
	detail.Title = "ValidationError"
	detail.Required = []string{"loc", "msg", "type"}

	s := openapi3.NewObjectSchema().WithProperty("detail", openapi3.NewArraySchema().WithItems(detail))
	s.Title = "HTTPValidationError"
	return s
}

type operation struct {
	method      string
	path        string
	id          string
	summary     string
	description string
	params      openapi3.Parameters
	body        *openapi3.Schema
	ok          *openapi3.Schema
	errs        []int
}

func apiOperations() []operation {
	itemID := openapi3.NewPathParameter("item_id").WithSchema(openapi3.NewIntegerSchema())
	itemID.Description = "A unique integer identifier for the requested item."

	return []operation{
		{
			method:      http.MethodPost,
			path:        "/items/",
			id:          "create_item_items__post",
			summary:     "Create an Item",
			description: "Endpoint to create a new item. Provide detailed item information including its name, description, price, and optional tax. The endpoint returns the created item data.",
			body:        itemSchema(),
			ok:          itemSchema(),
			errs:        []int{http.StatusUnprocessableEntity},
		},
		{
			method:      http.MethodGet,
			path:        "/items/",
			id:          "list_items_items__get",
			summary:     "List All Items",
			description: "Endpoint to retrieve a list of all available items.",
			ok:          openapi3.NewArraySchema().WithItems(itemSchema()),
		},
		{
			method:      http.MethodGet,
			path:        "/items/{item_id}",
			id:          "read_item_items__item_id__get",
			summary:     "Retrieve an Item",
			description: "Endpoint to retrieve a specific item by its unique identifier. For demo purposes, a static item with predefined details is returned.",
			params:      openapi3.Parameters{{Value: itemID}},
			ok:          itemSchema(),
			errs:        []int{http.StatusUnprocessableEntity},
		},
		{
			method:      http.MethodGet,
			path:        "/store/items",
			id:          "list_store_items_store_items_get",
			summary:     "List Store Items",
			description: "Retrieve a list of all available items in the fake store.",
			ok:          openapi3.NewArraySchema().WithItems(storeItemSchema()),
		},
		{
			method:      http.MethodPost,
			path:        "/store/buy",
			id:          "purchase_item_store_buy_post",
			summary:     "Purchase an Item",
			description: "Place a purchase order for a specific store item.",
			body:        purchaseOrderSchema(),
			ok: openapi3.NewObjectSchema().
				WithProperty("message", openapi3.NewStringSchema()).
				WithProperty("product", storeItemSchema()).
				WithProperty("quantity", openapi3.NewIntegerSchema()).
				WithProperty("total_price", openapi3.NewFloat64Schema()),
			errs: []int{http.StatusNotFound, http.StatusUnprocessableEntity},
		},
	}
}

// newAPIDoc builds the document served at /openapi.json and checks it with
// kin-openapi's own validator.
func newAPIDoc(serverURL string) (*openapi3.T, error) {
	doc := &openapi3.T{
		OpenAPI: "3.0.2",
		Info: &openapi3.Info{
			Title:       "Demo API",
			Description: "This API demonstrates how to create and document endpoints. Endpoints include item creation, retrieval, and listing all available items, plus a small fake store.",
			Version:     "1.0.0",
		},
		Paths: openapi3.Paths{},
		Servers: openapi3.Servers{
			{URL: serverURL, Description: "Local development server"},
		},
	}

	for _, o := range apiOperations() {
		op := openapi3.NewOperation()
		op.OperationID = o.id
		op.Summary = o.summary
		op.Description = o.description
		op.Parameters = o.params
		if o.body != nil {
			op.RequestBody = &openapi3.RequestBodyRef{
				Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(o.body),
			}
		}

		op.Responses = openapi3.Responses{
			"200": &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("Successful Response").WithJSONSchema(o.ok),
			},
		}
		for _, code := range o.errs {
			sch := errorSchema()
			if code == http.StatusUnprocessableEntity {
				sch = validationErrorSchema()
			}
			op.Responses[fmt.Sprint(code)] = &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription(http.StatusText(code)).WithJSONSchema(sch),
			}
		}

		pathItem, ok := doc.Paths[o.path]
		if !ok {
			pathItem = &openapi3.PathItem{}
			doc.Paths[o.path] = pathItem
		}
		pathItem.SetOperation(o.method, op)
	}

	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid api doc: %w", err)
	}
	return doc, nil
}
