package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	host := flag.String("h", "127.0.0.1", "the host to listen on")
	port := flag.String("p", "8000", "the port to listen on")
	advertised := flag.String("server", "", "server url advertised in openapi.json, defaults to http://<h>:<p>")
	flag.Parse()

	addr := fmt.Sprintf("%s:%s", *host, *port)
	if *advertised == "" {
		*advertised = "http://" + addr
	}

	s, err := newServer(*advertised)
	if err != nil {
		return err
	}
	s.populateTestItems()
	s.setupRoutes()

	slog.Info("listening", "addr", addr, "server", *advertised)
	return http.ListenAndServe(addr, s.router)
}
