package main

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/go-chi/traceid"
	"github.com/go-chi/transport"
	cpfAuth "github.com/mvcarvalho/cpf-auth"
	"github.com/mvcarvalho/cpf-auth/config"
	"github.com/mvcarvalho/cpf-auth/rpc"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		panic(err)
	}

	// HTTP transport chain for all outgoing provider connections
	transportChain := transport.Chain(
		http.DefaultTransport,
		transport.SetHeader("User-Agent", "cpf-auth/"+cpfAuth.VERSION),
		traceid.Transport,
	)

	s, err := rpc.New(cfg, transportChain)
	if err != nil {
		panic(err)
	}
	defer s.Stop(context.Background())

	l, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Service.Port))
	if err != nil {
		panic(err)
	}

	if err := s.Run(context.Background(), l); err != nil {
		panic(err)
	}
}
