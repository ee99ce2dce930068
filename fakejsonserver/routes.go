package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/negroni"
)

func (s *server) setupRoutes() {
	s.router.HandleFunc("/items/", s.handleCreateItem()).Methods("POST")
	s.router.HandleFunc("/items/", s.handleListItems()).Methods("GET")
	s.router.HandleFunc("/items/{item_id}", s.handleReadItem()).Methods("GET")
	s.router.HandleFunc("/store/items", s.handleListStoreItems()).Methods("GET")
	s.router.HandleFunc("/store/buy", s.handlePurchaseItem()).Methods("POST")
	s.router.HandleFunc("/openapi.json", s.handleOpenAPI()).Methods("GET")
	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	s.router.Use(logMiddleware)
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := negroni.NewResponseWriter(w)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		observeRequest(r.Method, route, ww.Status(), time.Since(start))
		slog.Info("handled", "method", r.Method, "uri", r.RequestURI, "proto", r.Proto, "status", ww.Status())
	})
}

func (s *server) handleCreateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var newItem item
		if err := decodeValid(r.Body, itemSchema(), &newItem); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, bodyErrors(err))
			return
		}

		// created items are echoed, never stored
		writeJSON(w, http.StatusOK, newItem)
	}
}

func (s *server) handleListItems() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.items)
	}
}

func (s *server) handleReadItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID := mux.Vars(r)["item_id"]
		if _, err := strconv.Atoi(itemID); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, validationErrors{Detail: []validationError{{
				Loc:   []string{"path", "item_id"},
				Msg:   "Input should be a valid integer, unable to parse string as an integer",
				Type:  "int_parsing",
				Input: itemID,
			}}})
			return
		}

		writeJSON(w, http.StatusOK, sampleItem)
	}
}

func (s *server) handleListStoreItems() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.inventory)
	}
}

func (s *server) handlePurchaseItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var order purchaseOrder
		if err := decodeValid(r.Body, purchaseOrderSchema(), &order); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, bodyErrors(err))
			return
		}

		quantity := 1
		if order.Quantity != nil {
			quantity = *order.Quantity
		}

		for _, product := range s.inventory {
			if product.ID != order.ProductID {
				continue
			}

			tax := 0.0
			if product.Tax != nil {
				tax = *product.Tax
			}
			writeJSON(w, http.StatusOK, orderConfirmation{
				Message:    fmt.Sprintf("Thank you %s for your purchase!", order.BuyerName),
				Product:    product,
				Quantity:   quantity,
				TotalPrice: product.Price*float64(quantity) + tax*float64(quantity),
			})
			return
		}

		writeJSON(w, http.StatusNotFound, errorDetail{
			Detail: fmt.Sprintf("Product with ID %d not found.", order.ProductID),
		})
	}
}

func (s *server) handleOpenAPI() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.doc)
	}
}

// decodeValid checks the body against sch before decoding it into out.
func decodeValid(body io.Reader, sch *openapi3.Schema, out any) error {
	bs, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	var v any
	if err := json.Unmarshal(bs, &v); err != nil {
		return err
	}
	if err := sch.VisitJSON(v); err != nil {
		return err
	}

	return json.Unmarshal(bs, out)
}

// bodyErrors reports a decodeValid failure the way FastAPI reports request
// validation errors.
func bodyErrors(err error) validationErrors {
	ve := validationError{
		Loc:  []string{"body"},
		Msg:  err.Error(),
		Type: "json_invalid",
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		ve.Loc = append(ve.Loc, schemaErr.JSONPointer()...)
		ve.Msg = schemaErr.Reason
		ve.Type = "value_error"
		if schemaErr.SchemaField == "required" {
			ve.Type = "missing"
		}
	}
	return validationErrors{Detail: []validationError{ve}}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("could not write response", "err", err)
	}
}
